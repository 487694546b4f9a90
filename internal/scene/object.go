package scene

import (
	"fmt"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"

	"github.com/Faultbox/ldrawkit/pkg/ldraw"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// Object is a node of the output tree: a baked mesh, an empty (a boundary
// without geometry) or a group.
type Object struct {
	Name     string
	File     string // referenced filename; empty for groups
	Colour   string // resolved colour
	Local    math.Mat4
	World    math.Mat4
	MeshName string
	Geometry *ldraw.Geometry // nil for groups and empty meshes
	Slope    []bool          // parallel to Geometry.Faces
	IsGroup  bool
	IsPart   bool
	IsStud   bool
	// Flipped is set when the transform above the object's own placement
	// mirrors. Baking only compensates for the object's own matrix, so
	// faces placed in world space need their winding reversed.
	Flipped bool

	Parent   *Object
	Children []*Object
}

// Walk calls fn for o and every descendant, parents first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, c := range o.Children {
		c.Walk(fn)
	}
}

// Translate moves o, a root object, by offset in world space.
func (o *Object) Translate(offset math.Vec3) {
	t := math.Translate(offset.X, offset.Y, offset.Z)
	o.Local = t.Mul(o.Local)
	o.Walk(func(obj *Object) {
		obj.World = t.Mul(obj.World)
	})
}

// Builder turns a loaded node tree into objects.
type Builder struct {
	opts   Options
	baker  *Baker
	count  int
	groups map[string]*Object
	bounds math.Bounds
}

// NewBuilder creates a builder baking through baker.
func NewBuilder(opts Options, baker *Baker) *Builder {
	return &Builder{
		opts:   opts,
		baker:  baker,
		groups: make(map[string]*Object),
	}
}

// Build creates the object tree for root. rootTransform places the root
// object, typically the Z-up rotation.
func (b *Builder) Build(root *Node, colour string, rootTransform math.Mat4) (*Object, error) {
	top := &Object{Name: "", IsGroup: true, Local: math.Identity(), World: math.Identity()}
	name := filepath.Base(root.Name())
	if err := b.build(root, rootTransform, name, colour, math.Identity(), math.Identity(), top); err != nil {
		return nil, err
	}
	if len(top.Children) == 0 {
		return nil, fmt.Errorf("no objects built for %s", root.Name())
	}
	obj := top.Children[0]
	obj.Parent = nil
	return obj, nil
}

// Count returns the number of mesh objects created so far.
func (b *Builder) Count() int {
	return b.count
}

// Bounds returns the world bounding box of every placed point.
func (b *Builder) Bounds() math.Bounds {
	return b.bounds
}

func (b *Builder) build(n *Node, local math.Mat4, name, colour string, parentTransform, localToWorld math.Mat4, parent *Object) error {
	world := localToWorld.Mul(local)

	if IsObjectBoundary(n, b.opts) {
		meshName, g, err := b.baker.Bake(n, colour)
		if err != nil {
			return err
		}

		obj := &Object{
			Name:    name,
			File:    n.Name(),
			Colour:  colour,
			Local:   parentTransform.Mul(local),
			World:   world,
			Flipped: localToWorld.IsMirrored(),
		}
		if b.opts.NumberNodes {
			obj.Name = fmt.Sprintf("%05d_%s", b.count, name)
		}
		b.count++

		if n.Doc != nil {
			obj.IsPart = n.Doc.IsPart
			obj.IsStud = n.Doc.IsStud
		}
		if !g.Empty() {
			obj.MeshName = meshName
			obj.Slope = slopeFaces(g, ldraw.SlopeAngles(ldraw.BaseName(n.Name())))
			if b.opts.Gaps && obj.IsPart {
				if g, err = gapScaled(g, b.opts.GapWidth); err != nil {
					return err
				}
				obj.MeshName += "_gap"
			}
			obj.Geometry = g
			for _, p := range g.Points {
				b.bounds.Extend(world.TransformPoint(p))
			}
		}

		b.attach(parent, n.Ref.Groups, obj)
		parent = obj
		parentTransform = math.Identity()
	} else {
		parentTransform = parentTransform.Mul(local)
	}

	for _, child := range n.Children {
		childColour := ResolveColour(child.Ref.Colour, colour)
		if err := b.build(child, child.Ref.Matrix, child.Name(), childColour, parentTransform, world, parent); err != nil {
			return err
		}
	}
	return nil
}

// attach parents obj under parent, through one group object per group name.
func (b *Builder) attach(parent *Object, groups []string, obj *Object) {
	if !b.opts.FlattenGroups {
		for _, name := range groups {
			g, ok := b.groups[name]
			if !ok {
				g = &Object{
					Name:    name,
					IsGroup: true,
					Local:   math.Identity(),
					World:   parent.World,
				}
				g.Parent = parent
				parent.Children = append(parent.Children, g)
				b.groups[name] = g
			}
			parent = g
		}
	}
	obj.Parent = parent
	parent.Children = append(parent.Children, obj)
}

func slopeFaces(g *ldraw.Geometry, ranges []ldraw.AngleRange) []bool {
	if len(ranges) == 0 {
		return nil
	}
	slope := make([]bool, len(g.Faces))
	for i, info := range g.FaceInfo {
		slope[i] = ldraw.IsSlopeFace(ranges, info.SlopeAllowed, g.FacePoints(i))
	}
	return slope
}

// minGapScale keeps small parts from being distorted.
const minGapScale = 0.95

// gapScaled returns a copy of g shrunk about its origin so neighbouring
// parts show a gap of width. Stacked bricks press together, so the height
// gap is a third of the width.
func gapScaled(g *ldraw.Geometry, width float32) (*ldraw.Geometry, error) {
	out := &ldraw.Geometry{}
	if err := copier.CopyWithOption(out, g, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copying geometry: %w", err)
	}

	dim := g.Bounds().Size()
	factor := func(gap, d float32) float32 {
		if d == 0 {
			return 1
		}
		return math32.Max(minGapScale, 1-gap/math32.Abs(d))
	}
	s := math.Scale(factor(width, dim.X), factor(0.33*width, dim.Y), factor(width, dim.Z))

	for i, p := range out.Points {
		out.Points[i] = s.TransformPoint(p)
	}
	for i, e := range out.Edges {
		out.Edges[i] = ldraw.Edge{s.TransformPoint(e[0]), s.TransformPoint(e[1])}
	}
	return out, nil
}
