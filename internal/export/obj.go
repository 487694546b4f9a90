// Package export writes imported models as Wavefront OBJ and MTL files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/ldrawkit/internal/scene"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// OBJOptions controls WriteOBJ.
type OBJOptions struct {
	MaterialLib string // mtllib reference; empty omits it
	Edges       bool   // write edge segments as line elements
}

// MaterialName returns the material used for faces of colour.
func MaterialName(colour string, slope bool) string {
	if slope {
		return "Material_" + colour + "_s"
	}
	return "Material_" + colour
}

// WriteOBJ writes every mesh object under root with its world transform
// applied. Each object becomes an "o" element.
func WriteOBJ(w io.Writer, root *scene.Object, opts OBJOptions) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# ldrawkit")
	if opts.MaterialLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", opts.MaterialLib)
	}

	next := 1
	root.Walk(func(o *scene.Object) {
		if o.Geometry != nil {
			next = writeObject(bw, o, next, opts.Edges)
		}
	})
	return bw.Flush()
}

// writeObject writes o and returns the next free vertex index.
func writeObject(w *bufio.Writer, o *scene.Object, base int, edges bool) int {
	g := o.Geometry
	fmt.Fprintf(w, "o %s\n", objName(o.Name))

	for _, p := range g.Points {
		writeVertex(w, o.World.TransformPoint(p))
	}

	current := ""
	for i, face := range g.Faces {
		mat := MaterialName(g.FaceInfo[i].Colour, i < len(o.Slope) && o.Slope[i])
		if mat != current {
			fmt.Fprintf(w, "usemtl %s\n", mat)
			current = mat
		}
		w.WriteString("f")
		for j := range face {
			idx := face[j]
			if o.Flipped {
				idx = face[len(face)-1-j]
			}
			fmt.Fprintf(w, " %d", base+idx)
		}
		w.WriteString("\n")
	}
	next := base + len(g.Points)

	if edges && len(g.Edges) > 0 {
		for _, e := range g.Edges {
			writeVertex(w, o.World.TransformPoint(e[0]))
			writeVertex(w, o.World.TransformPoint(e[1]))
		}
		for i := range g.Edges {
			fmt.Fprintf(w, "l %d %d\n", next+2*i, next+2*i+1)
		}
		next += 2 * len(g.Edges)
	}
	return next
}

func writeVertex(w *bufio.Writer, p math.Vec3) {
	fmt.Fprintf(w, "v %g %g %g\n", p.X, p.Y, p.Z)
}

// objName replaces whitespace, which ends a name in OBJ.
func objName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
