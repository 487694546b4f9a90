// Package scene builds the instancing tree of an LDraw model and bakes it
// into flattened meshes.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/ldrawkit/pkg/ldraw"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// Tree errors.
var (
	ErrCycle         = errors.New("reference cycle detected")
	ErrDepthExceeded = errors.New("maximum reference depth exceeded")
)

// DefaultMaxDepth bounds reference nesting when no limit is configured.
const DefaultMaxDepth = 64

// Loader resolves a reference to a parsed document. ok is false when the
// file cannot be found or read; the loader reports that itself.
type Loader interface {
	Document(ref ldraw.ChildRef, parentDir string) (doc *ldraw.Document, ok bool)
}

// Node is one reference in the instancing tree. Nodes referring to the same
// document share its child nodes, so the tree is a DAG.
type Node struct {
	Ref      ldraw.ChildRef
	Doc      *ldraw.Document // nil when the file is missing
	Children []*Node
	Root     bool
}

// NewRoot returns the root node for filename drawn in colour.
func NewRoot(filename, colour string) *Node {
	return &Node{
		Ref: ldraw.ChildRef{
			Filename: filename,
			Colour:   colour,
			Matrix:   math.Identity(),
			Cull:     true,
		},
		Root: true,
	}
}

// Name returns the referenced filename.
func (n *Node) Name() string {
	return n.Ref.Filename
}

// Load resolves the node's document and, depth first, every descendant.
// Re-entering a document already on the current path returns ErrCycle.
func (n *Node) Load(l Loader, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := &treeLoader{
		loader:   l,
		maxDepth: maxDepth,
		children: make(map[*ldraw.Document][]*Node),
		visiting: make(map[string]bool),
	}
	return t.load(n, "", 0)
}

type treeLoader struct {
	loader   Loader
	maxDepth int
	children map[*ldraw.Document][]*Node
	visiting map[string]bool
}

func (t *treeLoader) load(n *Node, parentDir string, depth int) error {
	if depth > t.maxDepth {
		return fmt.Errorf("%w: %s at depth %d", ErrDepthExceeded, n.Ref.Filename, depth)
	}

	doc, ok := t.loader.Document(n.Ref, parentDir)
	if !ok {
		return nil
	}
	n.Doc = doc

	if kids, done := t.children[doc]; done {
		n.Children = kids
		return nil
	}

	key := strings.ToLower(doc.Name)
	if t.visiting[key] {
		return fmt.Errorf("%w: %s references itself", ErrCycle, doc.Name)
	}
	t.visiting[key] = true
	defer delete(t.visiting, key)

	kids := make([]*Node, 0, len(doc.Children))
	for _, ref := range doc.Children {
		child := &Node{Ref: ref}
		if err := t.load(child, doc.Dir, depth+1); err != nil {
			return err
		}
		kids = append(kids, child)
	}
	t.children[doc] = kids
	n.Children = kids
	return nil
}

// ResolveColour returns parent when own is the inherit code 16.
func ResolveColour(own, parent string) string {
	if own == ldraw.ColourInherit {
		return parent
	}
	return own
}

// Normal resolution policies for faces whose winding is ambiguous.
const (
	NormalsGuess  = "guess"  // keep one winding, normals recomputed later
	NormalsDouble = "double" // keep both windings
)

// Options controls object boundaries, baking and object naming.
type Options struct {
	FlattenHierarchy bool
	InstanceStuds    bool
	ResolveNormals   string
	NumberNodes      bool
	FlattenGroups    bool
	Gaps             bool
	GapWidth         float32 // in output units
}

// IsObjectBoundary reports whether n becomes its own object instead of
// being merged into its parent's mesh.
func IsObjectBoundary(n *Node, opts Options) bool {
	if n.Root {
		return true
	}

	boundary := !n.Ref.SubPart
	if opts.FlattenHierarchy {
		boundary = n.Doc != nil && n.Doc.IsPart && !n.Ref.SubPart
	}
	if n.Ref.LSynth {
		boundary = false
	}
	if opts.InstanceStuds && n.Doc != nil && n.Doc.IsStud {
		boundary = true
	}
	return boundary
}
