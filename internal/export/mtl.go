package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/Faultbox/ldrawkit/internal/scene"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
)

// fallbackColour is used for colours missing from the table.
var fallbackColour = ldraw.Colour{Name: "Unknown", Linear: ldraw.RGB{R: 0.5, G: 0.5, B: 0.5}, Alpha: 1}

// material is one material referenced by the object tree.
type material struct {
	colour string
	slope  bool
}

// usedMaterials lists the materials faces under root refer to, sorted by
// name.
func usedMaterials(root *scene.Object) []material {
	seen := make(map[material]bool)
	var out []material
	root.Walk(func(o *scene.Object) {
		if o.Geometry == nil {
			return
		}
		for i, info := range o.Geometry.FaceInfo {
			m := material{colour: info.Colour, slope: i < len(o.Slope) && o.Slope[i]}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return MaterialName(out[i].colour, out[i].slope) < MaterialName(out[j].colour, out[j].slope)
	})
	return out
}

// WriteMTL writes a material for every face colour used under root.
// Colours missing from colours are written grey.
func WriteMTL(w io.Writer, root *scene.Object, colours map[string]ldraw.Colour) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# ldrawkit")

	for _, m := range usedMaterials(root) {
		c, ok := colours[m.colour]
		if !ok {
			c = fallbackColour
		}
		writeMaterial(bw, MaterialName(m.colour, m.slope), c, m.slope)
	}
	return bw.Flush()
}

func writeMaterial(w *bufio.Writer, name string, c ldraw.Colour, slope bool) {
	kd := ldraw.LinearToSRGBRGB(c.Linear)

	fmt.Fprintf(w, "\nnewmtl %s\n", name)
	fmt.Fprintf(w, "# %s\n", c.Name)
	fmt.Fprintf(w, "Kd %.4f %.4f %.4f\n", kd.R, kd.G, kd.B)

	switch c.Material {
	case ldraw.MaterialChrome, ldraw.MaterialMetal:
		fmt.Fprintf(w, "Ks %.4f %.4f %.4f\nNs 800\n", kd.R, kd.G, kd.B)
	case ldraw.MaterialPearlescent:
		fmt.Fprintln(w, "Ks 0.5000 0.5000 0.5000\nNs 400")
	case ldraw.MaterialRubber:
		fmt.Fprintln(w, "Ks 0.0000 0.0000 0.0000\nNs 10")
	default:
		if slope {
			fmt.Fprintln(w, "Ks 0.1000 0.1000 0.1000\nNs 50")
		} else {
			fmt.Fprintln(w, "Ks 0.2500 0.2500 0.2500\nNs 250")
		}
	}
	if c.Material == ldraw.MaterialEmission || c.Luminance > 0 || ldraw.IsFluorescentTransparent(c.Name) {
		fmt.Fprintf(w, "Ke %.4f %.4f %.4f\n", kd.R, kd.G, kd.B)
	}
	if c.IsTransparent() {
		fmt.Fprintf(w, "d %.4f\n", c.Alpha)
	}
	fmt.Fprintln(w, "illum 2")
}
