package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ldrawkit/internal/scene"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

func triangle(colour string) *ldraw.Geometry {
	g := &ldraw.Geometry{}
	g.AddFace([]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, ldraw.FaceInfo{Colour: colour, Cull: true, CCW: true})
	return g
}

func testTree() *scene.Object {
	root := &scene.Object{Name: "00000_model.ldr", Local: math.Identity(), World: math.Identity()}

	a := &scene.Object{Name: "00001_3001.dat", World: math.Translate(10, 0, 0), Parent: root}
	a.Geometry = triangle("4")
	a.Geometry.AddFace([]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}}, ldraw.FaceInfo{Colour: "4", Cull: true, CCW: true})
	a.Geometry.Edges = []ldraw.Edge{{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}}
	a.Slope = []bool{false, true}

	b := &scene.Object{Name: "00002_3039.dat", World: math.Scale(-1, 1, 1), Parent: root}
	b.Geometry = triangle("0x2FF0000")

	root.Children = []*scene.Object{a, b}
	return root
}

func TestMaterialName(t *testing.T) {
	assert.Equal(t, "Material_4", MaterialName("4", false))
	assert.Equal(t, "Material_4_s", MaterialName("4", true))
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, testTree(), OBJOptions{MaterialLib: "model.mtl", Edges: true}))

	want := `# ldrawkit
mtllib model.mtl
o 00001_3001.dat
v 10 0 0
v 11 0 0
v 10 1 0
v 10 0 0
v 10 0 1
v 11 0 0
usemtl Material_4
f 1 2 3
usemtl Material_4_s
f 4 5 6
v 10 0 0
v 11 0 0
l 7 8
o 00002_3039.dat
v 0 0 0
v -1 0 0
v 0 1 0
usemtl Material_0x2FF0000
f 9 10 11
`
	assert.Equal(t, want, buf.String())
}

func TestWriteOBJ_NoEdges(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, testTree(), OBJOptions{}))

	out := buf.String()
	assert.NotContains(t, out, "mtllib")
	assert.NotContains(t, out, "\nl ")
	assert.Contains(t, out, "f 7 8 9", "vertex numbering continues across objects")
}

func TestWriteOBJ_Flipped(t *testing.T) {
	// A mirrored world transform alone keeps the baked order; only a
	// mirror above the object's own placement rewinds.
	root := testTree()
	root.Children[1].Flipped = true

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, root, OBJOptions{}))
	out := buf.String()
	assert.Contains(t, out, "f 9 8 7")
	assert.Contains(t, out, "f 1 2 3")
}

func TestWriteMTL(t *testing.T) {
	colours := map[string]ldraw.Colour{
		"4": {Code: 4, Name: "Red", Linear: ldraw.RGB{R: 1}, Alpha: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMTL(&buf, testTree(), colours))
	out := buf.String()

	names := []string{}
	for _, line := range strings.Split(out, "\n") {
		if name, ok := strings.CutPrefix(line, "newmtl "); ok {
			names = append(names, name)
		}
	}
	assert.Equal(t, []string{"Material_0x2FF0000", "Material_4", "Material_4_s"}, names)
	assert.Contains(t, out, "# Red\nKd 1.0000 0.0000 0.0000\n")
	assert.Contains(t, out, "# Unknown\nKd 0.73", "unresolved colours fall back to grey")
}

func TestWriteMTL_Transparent(t *testing.T) {
	root := &scene.Object{World: math.Identity(), Geometry: triangle("47")}
	colours := map[string]ldraw.Colour{
		"47": {Code: 47, Name: "Trans_Clear", Linear: ldraw.RGB{R: 1, G: 1, B: 1}, Alpha: 0.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMTL(&buf, root, colours))
	assert.Contains(t, buf.String(), "d 0.5000\n")
}

func TestWriteMTL_FluorescentGlows(t *testing.T) {
	root := &scene.Object{World: math.Identity(), Geometry: triangle("42")}
	root.Children = []*scene.Object{{World: math.Identity(), Geometry: triangle("47"), Parent: root}}
	colours := map[string]ldraw.Colour{
		"42": {Code: 42, Name: "Trans_Neon_Green", Linear: ldraw.RGB{G: 1}, Alpha: 0.5},
		"47": {Code: 47, Name: "Trans_Clear", Linear: ldraw.RGB{R: 1, G: 1, B: 1}, Alpha: 0.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMTL(&buf, root, colours))
	out := buf.String()
	assert.Contains(t, out, "# Trans_Neon_Green\nKd 0.0000 1.0000 0.0000\nKs 0.2500 0.2500 0.2500\nNs 250\nKe 0.0000 1.0000 0.0000\n")
	assert.Equal(t, 1, strings.Count(out, "Ke "), "clear stays unlit")
}
