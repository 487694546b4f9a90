// Package ldraw provides parsers for the LDraw model format.
// It covers MPD sections, BFC directives, part references, faces, edges,
// LeoCAD cameras and the LDConfig colour table.
package ldraw

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Faultbox/ldrawkit/pkg/encoding"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// LDraw format errors.
var (
	ErrMalformedLine  = errors.New("malformed LDraw line")
	ErrInvalidColour  = errors.New("invalid colour")
	ErrGeometryBroken = errors.New("geometry invariant violated")
)

// Reserved colour codes.
const (
	ColourInherit = "16" // use the parent's colour
	ColourEdge    = "24" // edge colour; only these edges are kept
)

// Certification is the tri-state BFC certification of a document.
type Certification int8

const (
	CertUnknown     Certification = iota // no BFC line or geometry seen yet
	CertCertified                        // a BFC statement appeared first
	CertUncertified                      // NOCERTIFY, or geometry before any BFC line
)

// String returns a human-readable certification name.
func (c Certification) String() string {
	switch c {
	case CertCertified:
		return "certified"
	case CertUncertified:
		return "uncertified"
	default:
		return "unknown"
	}
}

// FaceInfo carries per-face metadata parallel to Geometry.Faces.
type FaceInfo struct {
	Colour       string // colour code, "16" or a direct colour string
	Cull         bool   // only the stored winding is real
	CCW          bool   // stored winding is counter-clockwise
	SlopeAllowed bool   // face may receive a slope material
}

// Edge is a geometric line segment between two points.
type Edge [2]math.Vec3

// Geometry holds points, faces and edges. Faces index into Points.
// len(Faces) == len(FaceInfo) always holds.
type Geometry struct {
	Points   []math.Vec3
	Faces    [][]int
	FaceInfo []FaceInfo
	Edges    []Edge
}

// AddFace appends a face made of new points.
func (g *Geometry) AddFace(points []math.Vec3, info FaceInfo) {
	base := len(g.Points)
	face := make([]int, len(points))
	for i := range points {
		face[i] = base + i
	}
	g.Points = append(g.Points, points...)
	g.Faces = append(g.Faces, face)
	g.FaceInfo = append(g.FaceInfo, info)
}

// FacePoints returns the points of face i.
func (g *Geometry) FacePoints(i int) []math.Vec3 {
	pts := make([]math.Vec3, len(g.Faces[i]))
	for j, idx := range g.Faces[i] {
		pts[j] = g.Points[idx]
	}
	return pts
}

// Empty reports whether there are no faces and no edges.
func (g *Geometry) Empty() bool {
	return len(g.Faces) == 0 && len(g.Edges) == 0
}

// Verify checks the face and index invariants.
func (g *Geometry) Verify() error {
	if len(g.Faces) != len(g.FaceInfo) {
		return fmt.Errorf("%w: %d faces, %d face infos", ErrGeometryBroken, len(g.Faces), len(g.FaceInfo))
	}
	for i, face := range g.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(g.Points) {
				return fmt.Errorf("%w: face %d index %d out of range [0,%d)", ErrGeometryBroken, i, idx, len(g.Points))
			}
		}
	}
	return nil
}

// Bounds returns the bounding box of all points.
func (g *Geometry) Bounds() math.Bounds {
	var b math.Bounds
	for _, p := range g.Points {
		b.Extend(p)
	}
	return b
}

// ChildRef is a type 1 reference line resolved against the parser state.
type ChildRef struct {
	Filename string
	Colour   string
	Matrix   math.Mat4 // translation already scaled
	Cull     bool      // culling allowed for this subtree
	Invert   bool      // winding inverted for this subtree
	LSynth   bool      // declared inside an LSynth block
	SubPart  bool      // declared by a file that is not a model
	Groups   []string  // LeoCAD group stack at declaration
}

// Document is one parsed LDraw file or MPD section. It is immutable once
// Parse returns.
type Document struct {
	Name string // filename or section name as referenced
	Path string // full (possibly virtual) path
	Dir  string // directory used to resolve children

	IsPart        bool
	IsSubPart     bool
	IsStud        bool
	IsStudLogo    bool
	IsLSynth      bool
	IsDoubleSided bool
	Certified     Certification

	Geometry Geometry
	Children []ChildRef
}

// IsModel reports whether the document is neither a part nor a sub-part.
func (d *Document) IsModel() bool {
	return !d.IsPart && !d.IsSubPart
}

// BaseName returns the lower-cased final path element of the name.
func (d *Document) BaseName() string {
	return BaseName(d.Name)
}

// BaseName returns the lower-cased final element of an LDraw reference,
// treating both slash kinds as separators.
func BaseName(name string) string {
	return path.Base(encoding.NormalizePath(name))
}

// StemName returns the base name without extension, preserving case.
func StemName(name string) string {
	base := path.Base(encoding.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}
