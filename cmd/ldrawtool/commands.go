package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/ldrawkit/internal/export"
	"github.com/Faultbox/ldrawkit/internal/importer"
	"github.com/Faultbox/ldrawkit/internal/logger"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
)

func cmdInfo(args []string) {
	c := newCommand("info")
	c.parse(args, 1, "info [options] <model>")
	defer logger.Sync()

	s := c.session()
	res := c.importModel(s)
	st := s.Stats()

	size := res.Bounds.Size()
	fmt.Printf("Model:    %s\n", c.fs.Arg(0))
	fmt.Printf("Library:  %s\n", s.Library().Root())
	fmt.Printf("Files:    %d parsed\n", st.Parses)
	fmt.Printf("Objects:  %d (%d meshes)\n", st.Objects, len(res.Meshes()))
	fmt.Printf("Geometry: %d points, %d faces\n", st.Points, st.Faces)
	fmt.Printf("Bakes:    %d cached, %d baked\n", st.BakeHits, st.BakeMisses)
	fmt.Printf("Size:     %.4f x %.4f x %.4f\n", size.X, size.Y, size.Z)
	fmt.Printf("Colours:  %d\n", len(res.Colours))
	fmt.Printf("Cameras:  %d\n", len(res.Cameras))
	if len(res.Data) > 0 {
		fmt.Printf("Embedded: %d files\n", len(res.Data))
	}

	if len(res.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range res.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
}

func cmdTree(args []string) {
	c := newCommand("tree")
	depth := c.fs.Int("depth", 0, "Limit output depth (0 = all)")
	c.parse(args, 1, "tree [options] <model>")
	defer logger.Sync()

	res := c.importModel(c.session())
	printTree(res.Root, 0, *depth)
}

func printTree(o *importer.Object, level, maxLevel int) {
	if maxLevel > 0 && level >= maxLevel {
		return
	}
	indent := strings.Repeat("  ", level)
	switch {
	case o.IsGroup:
		fmt.Printf("%s[%s]\n", indent, o.Name)
	case o.Geometry == nil:
		fmt.Printf("%s%s (empty)\n", indent, o.Name)
	default:
		fmt.Printf("%s%s  colour=%s mesh=%s faces=%d\n", indent, o.Name, o.Colour, o.MeshName, len(o.Geometry.Faces))
	}
	for _, child := range o.Children {
		printTree(child, level+1, maxLevel)
	}
}

func cmdExport(args []string) {
	c := newCommand("export")
	output := c.fs.String("o", "", "Output .obj file (default: model name)")
	edges := c.fs.Bool("edges", false, "Include edge lines")
	c.parse(args, 1, "export [-o out.obj] [options] <model>")
	defer logger.Sync()

	s := c.session()
	out := *output
	if out == "" {
		out = ldraw.StemName(c.fs.Arg(0)) + ".obj"
	}
	if err := exportModel(c, s, out, *edges); err != nil {
		fatal(err)
	}
}

// exportModel imports the model and writes out plus a matching .mtl.
func exportModel(c *command, s *importer.Session, out string, edges bool) error {
	res, err := s.Import(c.fs.Arg(0))
	if err != nil {
		return err
	}

	mtl := strings.TrimSuffix(out, filepath.Ext(out)) + ".mtl"
	if err := writeFile(out, func(f *os.File) error {
		return export.WriteOBJ(f, res.Root, export.OBJOptions{MaterialLib: filepath.Base(mtl), Edges: edges})
	}); err != nil {
		return err
	}
	if err := writeFile(mtl, func(f *os.File) error {
		return export.WriteMTL(f, res.Root, res.Colours)
	}); err != nil {
		return err
	}

	fmt.Printf("Exported %d meshes to %s\n", len(res.Meshes()), out)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func cmdColours(args []string) {
	c := newCommand("colours")
	filter := c.fs.String("name", "", "Only colours whose name contains this")
	c.parse(args, 0, "colours [options]")
	defer logger.Sync()

	table := c.session().Colours()
	fmt.Printf("%5s  %-28s %-12s %-7s %s\n", "CODE", "NAME", "MATERIAL", "SRGB", "ALPHA")
	for _, code := range table.Codes() {
		col, _ := table.Get(code)
		if *filter != "" && !strings.Contains(strings.ToLower(col.Name), strings.ToLower(*filter)) {
			continue
		}
		rgb := ldraw.LinearToSRGBRGB(col.Linear)
		fmt.Printf("%5d  %-28s %-12s #%02X%02X%02X %.2f\n",
			code, col.Name, col.Material, toByte(rgb.R), toByte(rgb.G), toByte(rgb.B), col.Alpha)
	}
}

func toByte(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

func cmdCameras(args []string) {
	c := newCommand("cameras")
	c.parse(args, 1, "cameras [options] <model>")
	defer logger.Sync()

	res := c.importModel(c.session())
	if len(res.Cameras) == 0 {
		fmt.Println("No cameras")
		return
	}
	for _, cam := range res.Cameras {
		kind := "perspective"
		if cam.Orthographic {
			kind = "orthographic"
		}
		fmt.Printf("%s (%s, fov %.1f)\n", cam.Name, kind, cam.FOV)
		fmt.Printf("  position %v  target %v  up %v\n", cam.Position, cam.Target, cam.Up)
		fmt.Printf("  clip %.4f .. %.4f", cam.Near, cam.Far)
		if cam.Hidden {
			fmt.Print("  hidden")
		}
		fmt.Println()
	}
}
