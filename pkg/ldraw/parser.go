package ldraw

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/ldrawkit/pkg/encoding"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// ParseOptions controls how lines are turned into a Document.
type ParseOptions struct {
	Scale         float32 // LDraw units to output units; 0 means 1
	ImportCameras bool
	SubPart       bool   // initial sub-part flag inherited from the referencing node
	Dir           string // directory children of this file are resolved from
}

func (o ParseOptions) scale() float32 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// Problem is a non-fatal parse issue. Key identifies duplicates.
type Problem struct {
	Key     string
	Message string
}

// File is the result of parsing one physical file: its main document plus
// any further MPD sections.
type File struct {
	Main     *Document
	Sections []*Document      // FILE sections after the first
	Data     map[string][]byte // decoded !DATA sections
	Cameras  []Camera
	Problems []Problem
}

// ParseFile reads, decodes and parses an LDraw file from disk.
func ParseFile(path string, opts ParseOptions) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading LDraw file: %w", err)
	}
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(path)
	}
	text, _ := encoding.DecodeText(data)
	return Parse(path, encoding.SplitLines(text), opts), nil
}

// Parse splits lines into MPD sections and parses each one. The first
// section becomes Main and is named name; later sections keep their
// declared names.
func Parse(name string, lines []string, opts ParseOptions) *File {
	f := &File{Data: make(map[string][]byte)}

	sections := SplitSections(name, lines)
	if len(sections) == 0 {
		doc, _, _ := ParseDocument(name, nil, opts)
		f.Main = doc
		return f
	}

	for i, s := range sections {
		switch {
		case i == 0 && s.Kind != SectionData:
			doc, cams, probs := ParseDocument(name, s.Lines, opts)
			f.Main = doc
			f.Cameras = append(f.Cameras, cams...)
			f.Problems = append(f.Problems, probs...)
		case s.Kind == SectionData:
			data, err := DecodeData(s)
			if err != nil {
				msg := fmt.Sprintf("Embedded file '%s' could not be decoded: %v", s.Name, err)
				f.Problems = append(f.Problems, Problem{Key: msg, Message: msg})
				continue
			}
			f.Data[s.Name] = data
		default:
			sub := opts
			sub.SubPart = false
			doc, cams, probs := ParseDocument(s.Name, s.Lines, sub)
			f.Sections = append(f.Sections, doc)
			f.Cameras = append(f.Cameras, cams...)
			f.Problems = append(f.Problems, probs...)
		}
	}

	if f.Main == nil {
		f.Main, _, _ = ParseDocument(name, nil, opts)
	}
	return f
}

// bfcState is the per-file BFC parser state.
type bfcState struct {
	localCull  bool
	windingCCW bool
	invertNext bool // one-shot; consumed by the next geometry line
}

type parser struct {
	doc  *Document
	opts ParseOptions
	bfc  bfcState

	isModel    bool
	lsynth     bool
	inFallback bool
	groups     []string
	warnedBFC  bool

	cams     *cameraParser
	problems []Problem
}

// ParseDocument parses the lines of a single document.
func ParseDocument(name string, lines []string, opts ParseOptions) (*Document, []Camera, []Problem) {
	p := &parser{
		doc: &Document{
			Name:       name,
			Path:       filepath.Join(opts.Dir, encoding.ToSlash(name)),
			Dir:        opts.Dir,
			IsSubPart:  opts.SubPart,
			IsStud:     IsStud(name),
			IsStudLogo: IsStudLogo(name),
		},
		opts: opts,
		bfc:  bfcState{localCull: true, windingCCW: true},
		cams: newCameraParser(opts.scale()),
	}
	if filepath.IsAbs(name) {
		p.doc.Path = name
	}

	for _, raw := range lines {
		l := Tokenize(raw)
		if l.Empty() {
			continue
		}
		if l.Field(0) == "0" {
			p.parseMeta(l)
			continue
		}
		p.parseGeometry(l)
	}

	return p.doc, p.cams.done, p.problems
}

func (p *parser) problem(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.problems = append(p.problems, Problem{Key: msg, Message: msg})
}

func (p *parser) malformed(l Line) {
	p.problem("In file '%s', the line '%s' is not formatted correctly (ignoring).", p.doc.Path, strings.TrimSpace(l.Raw))
}

func (p *parser) parseMeta(l Line) {
	switch l.Field(1) {
	case "!LDRAW_ORG":
		kind := strings.ToLower(l.Field(2))
		if strings.Contains(kind, "part") {
			p.doc.IsPart = true
		}
		if strings.Contains(kind, "subpart") || strings.Contains(kind, "primitive") {
			p.doc.IsSubPart = true
		}

	case "BFC":
		if p.doc.Certified == CertUnknown {
			if l.Field(2) == "NOCERTIFY" {
				p.doc.Certified = CertUncertified
			} else {
				p.doc.Certified = CertCertified
			}
		}
		if l.Has("CW") {
			p.bfc.windingCCW = false
		}
		if l.Has("CCW") {
			p.bfc.windingCCW = true
		}
		if l.Has("CLIP") {
			p.bfc.localCull = true
		}
		if l.Has("NOCLIP") {
			p.bfc.localCull = false
		}
		if l.Has("INVERTNEXT") {
			p.bfc.invertNext = true
		}

	case "SYNTH":
		if l.Field(2) == "SYNTHESIZED" {
			switch l.Field(3) {
			case "BEGIN":
				p.lsynth = true
				p.doc.IsLSynth = true
			case "END":
				p.lsynth = false
			}
		}

	case "!LDCAD":
		if l.Field(2) == "GENERATED" {
			p.lsynth = true
			p.doc.IsLSynth = true
		}

	case "!LEOCAD":
		switch l.Field(2) {
		case "GROUP":
			switch l.Field(3) {
			case "BEGIN":
				p.groups = append(p.groups, l.Join(4))
			case "END":
				if len(p.groups) > 0 {
					p.groups = p.groups[:len(p.groups)-1]
				}
			}
		case "CAMERA":
			if p.opts.ImportCameras {
				if err := p.cams.feed(l); err != nil {
					p.malformed(l)
				}
			}
		}

	case "!TEXMAP":
		// Texture images are not applied; textured geometry is still read
		// from "0 !:" lines and the fallback block is skipped.
		switch l.Field(2) {
		case "FALLBACK":
			p.inFallback = true
		case "END":
			p.inFallback = false
		}

	case "!:":
		p.parseGeometry(l.Shift(2))
	}
}

func (p *parser) parseGeometry(l Line) {
	if p.inFallback || l.Empty() {
		return
	}
	defer func() { p.bfc.invertNext = false }()

	if p.doc.Certified == CertUnknown {
		p.doc.Certified = CertUncertified
	}
	p.isModel = p.doc.IsModel()
	scale := p.opts.scale()

	switch l.Field(0) {
	case "1":
		v, err := parseFloats(l.Fields, 2, 12)
		if err != nil {
			p.malformed(l)
			return
		}
		filename := l.Rest(14)
		if strings.HasPrefix(filename, `"`) {
			filename = l.Field(14)
		}
		if filename == "" {
			p.malformed(l)
			return
		}

		m := math.FromLDraw(v[0]*scale, v[1]*scale, v[2]*scale,
			v[3], v[4], v[5], v[6], v[7], v[8], v[9], v[10], v[11])
		det := m.Determinant3()
		if det < 0 {
			p.bfc.invertNext = !p.bfc.invertNext
		}
		canCull := (p.doc.Certified == CertCertified || p.isModel) && p.bfc.localCull && det != 0

		p.doc.Children = append(p.doc.Children, ChildRef{
			Filename: filename,
			Colour:   l.Field(1),
			Matrix:   m,
			Cull:     canCull,
			Invert:   p.bfc.invertNext,
			LSynth:   p.lsynth,
			SubPart:  !p.isModel,
			Groups:   append([]string(nil), p.groups...),
		})

	case "2":
		if l.Field(1) != ColourEdge {
			return
		}
		v, err := parseFloats(l.Fields, 2, 6)
		if err != nil {
			p.malformed(l)
			return
		}
		p.doc.Geometry.Edges = append(p.doc.Geometry.Edges, Edge{
			math.V3(v[0], v[1], v[2]).Scale(scale),
			math.V3(v[3], v[4], v[5]).Scale(scale),
		})

	case "3", "4":
		n := 3
		if l.Field(0) == "4" {
			n = 4
		}
		v, err := parseFloats(l.Fields, 2, n*3)
		if err != nil {
			p.malformed(l)
			return
		}
		pts := make([]math.Vec3, n)
		for i := range pts {
			pts[i] = math.V3(v[i*3], v[i*3+1], v[i*3+2]).Scale(scale)
		}
		if n == 4 {
			FixBowtie(pts)
		}

		certified := p.doc.Certified == CertCertified
		if !certified || !p.bfc.localCull {
			if !p.warnedBFC {
				p.problem("Found double-sided polygons in file %s", p.doc.Name)
				p.warnedBFC = true
			}
			p.doc.IsDoubleSided = true
		}

		p.doc.Geometry.AddFace(pts, FaceInfo{
			Colour:       l.Field(1),
			Cull:         certified && p.bfc.localCull,
			CCW:          p.bfc.windingCCW,
			SlopeAllowed: !p.doc.IsStud,
		})
	}
}

// FixBowtie reorders a self-intersecting quad in place so that its
// diagonals no longer cross. It reports whether the quad was changed.
func FixBowtie(q []math.Vec3) bool {
	nA := q[1].Sub(q[0]).Cross(q[2].Sub(q[0]))
	nB := q[2].Sub(q[1]).Cross(q[3].Sub(q[1]))
	nC := q[3].Sub(q[2]).Cross(q[0].Sub(q[2]))
	switch {
	case nA.Dot(nB) < 0:
		q[2], q[3] = q[3], q[2]
		return true
	case nB.Dot(nC) < 0:
		q[1], q[2] = q[2], q[1]
		return true
	}
	return false
}
