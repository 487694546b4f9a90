package importer

import (
	"github.com/Faultbox/ldrawkit/internal/scene"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// Object is a node of an imported object tree.
type Object = scene.Object

// Result is everything produced by one import.
type Result struct {
	Root     *Object
	Cameras  []ldraw.Camera          // in declaration order
	Colours  map[string]ldraw.Colour // every face colour that could be resolved
	Data     map[string][]byte       // embedded !DATA files by name
	Bounds   math.Bounds             // world bounds of all mesh points
	Warnings []string                // deduplicated, first-seen order
}

// Stats counts the work done by an import.
type Stats struct {
	Parses         int // files read and parsed
	DocumentHits   int
	DocumentMisses int
	BakeHits       int
	BakeMisses     int
	Objects        int // mesh objects created
	Points         int
	Faces          int
}

// Meshes returns every object carrying geometry, parents first.
func (r *Result) Meshes() []*Object {
	var out []*Object
	r.Root.Walk(func(o *Object) {
		if o.Geometry != nil {
			out = append(out, o)
		}
	})
	return out
}
