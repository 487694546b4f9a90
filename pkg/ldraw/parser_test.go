package ldraw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/ldrawkit/pkg/math"
)

const triangle = "3 16 0 0 0 1 0 0 0 1 0"

func parse(lines ...string) (*Document, []Camera, []Problem) {
	return ParseDocument("test.dat", lines, ParseOptions{Scale: 1, ImportCameras: true})
}

func TestParse_BFCCertification(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		wantCert   Certification
		wantCull   bool
		wantCCW    bool
		wantDouble bool
	}{
		{
			name:     "certified ccw",
			lines:    []string{"0 BFC CERTIFY CCW", triangle},
			wantCert: CertCertified,
			wantCull: true,
			wantCCW:  true,
		},
		{
			name:     "certified cw",
			lines:    []string{"0 BFC CERTIFY CW", triangle},
			wantCert: CertCertified,
			wantCull: true,
			wantCCW:  false,
		},
		{
			name:       "no bfc line",
			lines:      []string{triangle},
			wantCert:   CertUncertified,
			wantCCW:    true,
			wantDouble: true,
		},
		{
			name:       "nocertify",
			lines:      []string{"0 BFC NOCERTIFY", triangle},
			wantCert:   CertUncertified,
			wantCCW:    true,
			wantDouble: true,
		},
		{
			name:       "bfc after geometry stays uncertified",
			lines:      []string{triangle, "0 BFC CERTIFY CCW"},
			wantCert:   CertUncertified,
			wantCCW:    true,
			wantDouble: true,
		},
		{
			name:       "noclip disables culling",
			lines:      []string{"0 BFC CERTIFY", "0 BFC NOCLIP", triangle},
			wantCert:   CertCertified,
			wantCCW:    true,
			wantDouble: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, probs := parse(tt.lines...)
			if doc.Certified != tt.wantCert {
				t.Errorf("Certified = %v, want %v", doc.Certified, tt.wantCert)
			}
			if len(doc.Geometry.FaceInfo) != 1 {
				t.Fatalf("got %d faces, want 1", len(doc.Geometry.FaceInfo))
			}
			fi := doc.Geometry.FaceInfo[0]
			if fi.Cull != tt.wantCull {
				t.Errorf("Cull = %v, want %v", fi.Cull, tt.wantCull)
			}
			if fi.CCW != tt.wantCCW {
				t.Errorf("CCW = %v, want %v", fi.CCW, tt.wantCCW)
			}
			if doc.IsDoubleSided != tt.wantDouble {
				t.Errorf("IsDoubleSided = %v, want %v", doc.IsDoubleSided, tt.wantDouble)
			}
			if tt.wantDouble && len(probs) != 1 {
				t.Errorf("got %d problems, want 1 double-sided warning", len(probs))
			}
		})
	}
}

func TestParse_DoubleSidedWarnedOnce(t *testing.T) {
	_, _, probs := parse(triangle, triangle, triangle)
	if len(probs) != 1 {
		t.Errorf("got %d problems, want 1", len(probs))
	}
}

func TestParse_References(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		wantCull   []bool
		wantInvert []bool
		wantSub    bool
	}{
		{
			name:       "model reference",
			lines:      []string{"1 4 0 0 0 1 0 0 0 1 0 0 0 1 3001.dat"},
			wantCull:   []bool{true},
			wantInvert: []bool{false},
		},
		{
			name:       "mirrored reference inverts",
			lines:      []string{"1 16 0 0 0 -1 0 0 0 1 0 0 0 1 3001.dat"},
			wantCull:   []bool{true},
			wantInvert: []bool{true},
		},
		{
			name: "invertnext is one shot",
			lines: []string{
				"0 BFC INVERTNEXT",
				"1 16 0 0 0 1 0 0 0 1 0 0 0 1 a.dat",
				"1 16 0 0 0 1 0 0 0 1 0 0 0 1 b.dat",
			},
			wantCull:   []bool{true, true},
			wantInvert: []bool{true, false},
		},
		{
			name: "invertnext cancelled by mirror",
			lines: []string{
				"0 BFC INVERTNEXT",
				"1 16 0 0 0 1 0 0 0 -1 0 0 0 1 a.dat",
			},
			wantCull:   []bool{true},
			wantInvert: []bool{false},
		},
		{
			name:       "degenerate matrix disables culling",
			lines:      []string{"1 16 0 0 0 1 0 0 0 0 0 0 0 1 a.dat"},
			wantCull:   []bool{false},
			wantInvert: []bool{false},
		},
		{
			name: "uncertified part cannot cull children",
			lines: []string{
				"0 !LDRAW_ORG Part UPDATE 2004-01",
				"1 16 0 0 0 1 0 0 0 1 0 0 0 1 s/a.dat",
			},
			wantCull:   []bool{false},
			wantInvert: []bool{false},
			wantSub:    true,
		},
		{
			name: "certified part with noclip",
			lines: []string{
				"0 !LDRAW_ORG Part UPDATE 2004-01",
				"0 BFC CERTIFY CCW",
				"0 BFC NOCLIP",
				"1 16 0 0 0 1 0 0 0 1 0 0 0 1 a.dat",
				"0 BFC CLIP",
				"1 16 0 0 0 1 0 0 0 1 0 0 0 1 a.dat",
			},
			wantCull:   []bool{false, true},
			wantInvert: []bool{false, false},
			wantSub:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, _ := parse(tt.lines...)
			if len(doc.Children) != len(tt.wantCull) {
				t.Fatalf("got %d children, want %d", len(doc.Children), len(tt.wantCull))
			}
			for i, c := range doc.Children {
				if c.Cull != tt.wantCull[i] {
					t.Errorf("child %d Cull = %v, want %v", i, c.Cull, tt.wantCull[i])
				}
				if c.Invert != tt.wantInvert[i] {
					t.Errorf("child %d Invert = %v, want %v", i, c.Invert, tt.wantInvert[i])
				}
				if c.SubPart != tt.wantSub {
					t.Errorf("child %d SubPart = %v, want %v", i, c.SubPart, tt.wantSub)
				}
			}
		})
	}
}

func TestParse_ReferenceFields(t *testing.T) {
	doc, _, _ := ParseDocument("m.ldr", []string{
		"0 !LEOCAD GROUP BEGIN Car Body",
		"0 SYNTH SYNTHESIZED BEGIN",
		"1 4 10 20 30 1 0 0 0 1 0 0 0 1 my part.dat",
		"0 SYNTH SYNTHESIZED END",
		"0 !LEOCAD GROUP END",
		"1 16 0 0 0 1 0 0 0 1 0 0 0 1 other.dat",
	}, ParseOptions{Scale: 0.5})

	if len(doc.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(doc.Children))
	}
	first, second := doc.Children[0], doc.Children[1]

	if first.Filename != "my part.dat" {
		t.Errorf("Filename = %q", first.Filename)
	}
	if first.Colour != "4" {
		t.Errorf("Colour = %q, want 4", first.Colour)
	}
	if first.Matrix.Translation() != math.V3(5, 10, 15) {
		t.Errorf("translation = %v, want scaled (5,10,15)", first.Matrix.Translation())
	}
	if len(first.Groups) != 1 || first.Groups[0] != "Car Body" {
		t.Errorf("Groups = %v", first.Groups)
	}
	if !first.LSynth || second.LSynth {
		t.Errorf("LSynth flags = %v, %v", first.LSynth, second.LSynth)
	}
	if len(second.Groups) != 0 {
		t.Errorf("second Groups = %v, want none", second.Groups)
	}
	if !doc.IsLSynth {
		t.Error("document should be marked as containing LSynth parts")
	}
}

func TestParse_Classification(t *testing.T) {
	tests := []struct {
		kind        string
		wantPart    bool
		wantSubPart bool
	}{
		{"Part", true, false},
		{"Unofficial_Part", true, false},
		{"Subpart", true, true},
		{"Primitive", false, true},
		{"8_Primitive", false, true},
		{"Model", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			doc, _, _ := parse("0 !LDRAW_ORG " + tt.kind)
			if doc.IsPart != tt.wantPart || doc.IsSubPart != tt.wantSubPart {
				t.Errorf("IsPart=%v IsSubPart=%v, want %v %v", doc.IsPart, doc.IsSubPart, tt.wantPart, tt.wantSubPart)
			}
			if doc.IsModel() != (!tt.wantPart && !tt.wantSubPart) {
				t.Errorf("IsModel() = %v", doc.IsModel())
			}
		})
	}
}

func TestParse_Edges(t *testing.T) {
	doc, _, _ := ParseDocument("e.dat", []string{
		"2 24 0 0 0 2 2 2",
		"2 0 0 0 0 1 1 1",
	}, ParseOptions{Scale: 0.5})

	if len(doc.Geometry.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(doc.Geometry.Edges))
	}
	if doc.Geometry.Edges[0][1] != math.V3(1, 1, 1) {
		t.Errorf("edge end = %v, want scaled (1,1,1)", doc.Geometry.Edges[0][1])
	}
}

func TestFixBowtie(t *testing.T) {
	tests := []struct {
		name    string
		quad    []math.Vec3
		want    []math.Vec3
		changed bool
	}{
		{
			name:    "convex quad untouched",
			quad:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
			want:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
			changed: false,
		},
		{
			name:    "bowtie swaps last two",
			quad:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}},
			want:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
			changed: true,
		},
		{
			name:    "bowtie swaps middle two",
			quad:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
			want:    []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := append([]math.Vec3(nil), tt.quad...)
			if got := FixBowtie(q); got != tt.changed {
				t.Errorf("FixBowtie() = %v, want %v", got, tt.changed)
			}
			for i := range q {
				if q[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, q[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse_QuadIsFixed(t *testing.T) {
	doc, _, _ := parse("0 BFC CERTIFY", "4 16 0 0 0 1 0 0 0 1 0 1 1 0")
	pts := doc.Geometry.FacePoints(0)
	if pts[2] != math.V3(1, 1, 0) || pts[3] != math.V3(0, 1, 0) {
		t.Errorf("quad not fixed: %v", pts)
	}
	if err := doc.Geometry.Verify(); err != nil {
		t.Error(err)
	}
}

func TestParse_Cameras(t *testing.T) {
	lines := []string{
		"0 !LEOCAD CAMERA FOV 45 ZNEAR 25 ZFAR 50000",
		"0 !LEOCAD CAMERA POSITION 10 20 30 TARGET_POSITION 0 0 0 UP_VECTOR 0 -1 0 ORTHOGRAPHIC NAME My Camera",
		"0 !LEOCAD CAMERA HIDDEN NAME Second",
	}

	_, cams, _ := ParseDocument("c.ldr", lines, ParseOptions{Scale: 0.5, ImportCameras: true})
	if len(cams) != 2 {
		t.Fatalf("got %d cameras, want 2", len(cams))
	}

	c := cams[0]
	if c.Name != "My Camera" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.FOV != 45 || c.Near != 12.5 || c.Far != 25000 {
		t.Errorf("FOV/Near/Far = %v/%v/%v", c.FOV, c.Near, c.Far)
	}
	if c.Position != math.V3(5, 10, 15) {
		t.Errorf("Position = %v", c.Position)
	}
	if c.Up != math.V3(0, -1, 0) {
		t.Errorf("Up = %v, should not be scaled", c.Up)
	}
	if !c.Orthographic || c.Hidden {
		t.Errorf("Orthographic=%v Hidden=%v", c.Orthographic, c.Hidden)
	}

	second := cams[1]
	if second.Name != "Second" || !second.Hidden || second.FOV != 30 {
		t.Errorf("second camera should start from defaults: %+v", second)
	}

	_, cams, _ = ParseDocument("c.ldr", lines, ParseOptions{Scale: 0.5})
	if len(cams) != 0 {
		t.Errorf("cameras imported while disabled: %d", len(cams))
	}
}

func TestParse_MPD(t *testing.T) {
	lines := []string{
		"0 FILE main.ldr",
		"1 16 0 0 0 1 0 0 0 1 0 0 0 1 sub.ldr",
		"0 NOFILE",
		"0 FILE sub.ldr",
		triangle,
		"0 NOFILE",
		"0 !DATA tex.png",
		"0 !: aGVsbG8=",
	}

	f := Parse("model.mpd", lines, ParseOptions{Scale: 1})
	if f.Main.Name != "model.mpd" {
		t.Errorf("Main.Name = %q", f.Main.Name)
	}
	if len(f.Main.Children) != 1 {
		t.Errorf("main children = %d, want 1", len(f.Main.Children))
	}
	if len(f.Sections) != 1 || f.Sections[0].Name != "sub.ldr" {
		t.Fatalf("Sections = %v", f.Sections)
	}
	if len(f.Sections[0].Geometry.Faces) != 1 {
		t.Errorf("sub.ldr faces = %d", len(f.Sections[0].Geometry.Faces))
	}
	if string(f.Data["tex.png"]) != "hello" {
		t.Errorf("Data = %q", f.Data["tex.png"])
	}
}

func TestParse_TexmapFallbackSkipped(t *testing.T) {
	doc, _, _ := parse(
		"0 BFC CERTIFY",
		"0 !TEXMAP START PLANAR 0 0 0 1 0 0 0 1 0 image.png",
		"0 !: "+triangle,
		"0 !TEXMAP FALLBACK",
		triangle,
		"0 !TEXMAP END",
	)
	if len(doc.Geometry.Faces) != 1 {
		t.Errorf("got %d faces, want only the textured one", len(doc.Geometry.Faces))
	}
}

func TestParse_MalformedLine(t *testing.T) {
	doc, _, probs := parse("0 BFC CERTIFY", "3 16 a b c")
	if len(doc.Geometry.Faces) != 0 {
		t.Error("malformed face should be skipped")
	}
	if len(probs) != 1 {
		t.Errorf("got %d problems, want 1", len(probs))
	}
}

func TestParse_StudFlags(t *testing.T) {
	doc, _, _ := ParseDocument("stud-logo4.dat", []string{"0 BFC CERTIFY", triangle}, ParseOptions{})
	if !doc.IsStud || doc.IsStudLogo {
		t.Errorf("IsStud=%v IsStudLogo=%v", doc.IsStud, doc.IsStudLogo)
	}
	if doc.Geometry.FaceInfo[0].SlopeAllowed {
		t.Error("stud faces must not allow slope materials")
	}

	if !IsStudLogo(`P\logo4.dat`) || !IsStud("logo4.dat") {
		t.Error("logo4.dat should be a stud logo and a stud")
	}
	if IsStud("stud.dat") {
		t.Error("plain stud.dat is not in the stud table")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.dat")
	if err := os.WriteFile(path, []byte("0 BFC CERTIFY\r\n"+triangle+"\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := ParseFile(path, ParseOptions{})
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if f.Main.Dir != dir {
		t.Errorf("Dir = %q, want %q", f.Main.Dir, dir)
	}
	if len(f.Main.Geometry.Faces) != 1 {
		t.Errorf("faces = %d", len(f.Main.Geometry.Faces))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.dat"), ParseOptions{}); err == nil {
		t.Error("expected error for missing file")
	}
}
