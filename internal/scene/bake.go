package scene

import (
	"fmt"
	"strings"

	"github.com/Faultbox/ldrawkit/internal/cache"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// BakeKey identifies one baked geometry. Two instances with equal keys
// produce identical geometry.
type BakeKey struct {
	Doc         *ldraw.Document
	Filename    string // lower-cased reference, set only when Doc is nil
	Colour      string
	AccumCull   bool
	AccumInvert bool
	Cull        bool
	Invert      bool
	Mirrored    bool // transform from the enclosing object flips handedness
}

// BFCCode returns the mesh name suffix for a culling state. The usual
// state (culled, not inverted) has no suffix.
func BFCCode(accumCull, accumInvert, cull, invert bool) string {
	code := 0
	if accumCull {
		code += 8
	}
	if accumInvert {
		code += 4
	}
	if cull {
		code += 2
	}
	if invert {
		code++
	}
	if code == 10 {
		return ""
	}
	return fmt.Sprintf("_%d", code)
}

// MeshName returns the shared mesh name for geometry baked under k.
func (k BakeKey) MeshName(basename string) string {
	name := fmt.Sprintf("Mesh_%s_%s%s", basename, k.Colour, BFCCode(k.AccumCull, k.AccumInvert, k.Cull, k.Invert))
	if k.Mirrored {
		name += "_m"
	}
	return name
}

// studLogoReflection re-mirrors a reflected stud logo so its text reads correctly.
var studLogoReflection = math.Scale(1, 1, -1)

// Baker flattens nodes into geometry, memoizing by BakeKey. Cached
// geometry is shared and must not be modified by callers.
type Baker struct {
	opts  Options
	cache *cache.Cache[BakeKey, *ldraw.Geometry]
}

// NewBaker creates a baker backed by c. A nil cache gets a private one.
func NewBaker(opts Options, c *cache.Cache[BakeKey, *ldraw.Geometry]) *Baker {
	if c == nil {
		c = cache.New[BakeKey, *ldraw.Geometry]()
	}
	return &Baker{opts: opts, cache: c}
}

// Bake returns the mesh of the object rooted at n in n's local space:
// n's own faces plus every descendant that is not an object boundary.
// colour is n's resolved colour.
func (b *Baker) Bake(n *Node, colour string) (string, *ldraw.Geometry, error) {
	g, key, err := b.bake(n, colour, true, false, false)
	if err != nil {
		return "", nil, err
	}
	return key.MeshName(ldraw.BaseName(n.Name())), g, nil
}

func (b *Baker) bake(n *Node, colour string, accumCull, accumInvert, mirrored bool) (*ldraw.Geometry, BakeKey, error) {
	accumCull = accumCull && n.Ref.Cull
	accumInvert = accumInvert != n.Ref.Invert

	key := BakeKey{
		Doc:         n.Doc,
		Colour:      colour,
		AccumCull:   accumCull,
		AccumInvert: accumInvert,
		Cull:        n.Ref.Cull,
		Invert:      n.Ref.Invert,
		Mirrored:    mirrored,
	}
	if n.Doc == nil {
		key.Filename = strings.ToLower(n.Ref.Filename)
	}
	if g, ok := b.cache.Get(key); ok {
		return g, key, nil
	}

	g := &ldraw.Geometry{}
	if n.Doc != nil {
		b.appendOwn(g, n.Doc, colour, accumCull, accumInvert)

		for _, child := range n.Children {
			if IsObjectBoundary(child, b.opts) {
				continue
			}
			childMirrored := mirrored != child.Ref.Matrix.IsMirrored()
			cg, _, err := b.bake(child, ResolveColour(child.Ref.Colour, colour), accumCull, accumInvert, childMirrored)
			if err != nil {
				return nil, key, err
			}

			m, reverse := child.Ref.Matrix, false
			if child.Doc != nil && child.Doc.IsStudLogo && childMirrored {
				m, reverse = m.Mul(studLogoReflection), true
			}
			isStud := child.Doc != nil && child.Doc.IsStud
			merge(g, cg, m, reverse, isStud)
		}
	}

	if err := g.Verify(); err != nil {
		return nil, key, fmt.Errorf("baking %s: %w", n.Ref.Filename, err)
	}
	b.cache.Set(key, g)
	return g, key, nil
}

// appendOwn emits the document's faces with the windings the culling state
// calls for. Every emitted face is culled and counter-clockwise.
func (b *Baker) appendOwn(g *ldraw.Geometry, doc *ldraw.Document, colour string, accumCull, accumInvert bool) {
	src := &doc.Geometry
	for i := range src.Faces {
		info := src.FaceInfo[i]
		ccw := info.CCW != accumInvert
		cull := info.Cull && accumCull
		if !cull && b.opts.ResolveNormals != NormalsDouble {
			cull = true
		}

		out := ldraw.FaceInfo{
			Colour:       ResolveColour(info.Colour, colour),
			Cull:         true,
			CCW:          true,
			SlopeAllowed: !doc.IsStud && info.SlopeAllowed,
		}
		pts := src.FacePoints(i)
		if ccw || !cull {
			g.AddFace(pts, out)
		}
		if !ccw || !cull {
			g.AddFace(reversed(pts), out)
		}
	}
	g.Edges = append(g.Edges, src.Edges...)
}

// merge appends src transformed by m, optionally reversing every face.
func merge(dst, src *ldraw.Geometry, m math.Mat4, reverse, isStud bool) {
	base := len(dst.Points)
	for _, p := range src.Points {
		dst.Points = append(dst.Points, m.TransformPoint(p))
	}
	for i, face := range src.Faces {
		idx := make([]int, len(face))
		for j, v := range face {
			idx[j] = base + v
		}
		if reverse {
			idx = reversed(idx)
		}
		info := src.FaceInfo[i]
		info.SlopeAllowed = info.SlopeAllowed && !isStud
		dst.Faces = append(dst.Faces, idx)
		dst.FaceInfo = append(dst.FaceInfo, info)
	}
	for _, e := range src.Edges {
		dst.Edges = append(dst.Edges, ldraw.Edge{m.TransformPoint(e[0]), m.TransformPoint(e[1])})
	}
}

func reversed[T any](s []T) []T {
	out := make([]T, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Stats returns hit and miss counts of the geometry cache.
func (b *Baker) Stats() (hits, misses int) {
	return b.cache.Stats()
}
