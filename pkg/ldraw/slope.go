package ldraw

import (
	"regexp"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ldrawkit/pkg/math"
)

// AngleRange is an inclusive range of face angles in degrees.
type AngleRange struct {
	Min, Max float32
}

// Contains reports whether a lies within the range, inclusive.
func (r AngleRange) Contains(a float32) bool {
	return r.Min <= a && a <= r.Max
}

// slopeMargin widens every table entry to absorb measuring error.
const slopeMargin = 5

func deg(c float32) AngleRange {
	return AngleRange{c, c}
}

func span(a, b float32) AngleRange {
	return AngleRange{math32.Min(a, b), math32.Max(a, b)}
}

// slopeBricks maps part numbers of bricks with grainy slopes to the angle
// between the slope's face normal and the horizontal plane.
var slopeBricks = map[string][]AngleRange{
	"962":     {deg(45)},
	"2341":    {deg(-45)},
	"2449":    {deg(-16)},
	"2875":    {deg(45)},
	"2876":    {span(40, 63)},
	"3037":    {deg(45)},
	"3038":    {deg(45)},
	"3039":    {deg(45)},
	"3040":    {deg(45)},
	"3041":    {deg(45)},
	"3042":    {deg(45)},
	"3043":    {deg(45)},
	"3044":    {deg(45)},
	"3045":    {deg(45)},
	"3046":    {deg(45)},
	"3048":    {deg(45)},
	"3049":    {deg(45)},
	"3135":    {deg(45)},
	"3297":    {deg(63)},
	"3298":    {deg(63)},
	"3299":    {deg(63)},
	"3300":    {deg(63)},
	"3660":    {deg(-45)},
	"3665":    {deg(-45)},
	"3675":    {deg(63)},
	"3676":    {deg(-45)},
	"3678b":   {deg(24)},
	"3684":    {deg(15)},
	"3685":    {deg(16)},
	"3688":    {deg(15)},
	"3747":    {deg(-63)},
	"4089":    {deg(-63)},
	"4161":    {deg(63)},
	"4286":    {deg(63)},
	"4287":    {deg(-63)},
	"4445":    {deg(45)},
	"4460":    {deg(16)},
	"4509":    {deg(63)},
	"4854":    {deg(-45)},
	"4856":    {span(-60, -70), deg(-45)},
	"4857":    {deg(45)},
	"4858":    {deg(72)},
	"4861":    {deg(45), deg(63)},
	"4871":    {deg(-45)},
	"4885":    {deg(72)},
	"6069":    {deg(72), deg(45)},
	"6153":    {span(60, 70), span(26, 34)},
	"6227":    {deg(45)},
	"6270":    {deg(45)},
	"13269":   {span(40, 63)},
	"13548":   {span(45, 35)},
	"15571":   {deg(45)},
	"18759":   {deg(-45)},
	"22390":   {span(40, 55)},
	"22391":   {span(40, 55)},
	"22889":   {deg(-45)},
	"28192":   {deg(45)},
	"30180":   {deg(47)},
	"30182":   {deg(45)},
	"30183":   {deg(-45)},
	"30249":   {deg(35)},
	"30283":   {deg(-45)},
	"30363":   {deg(72)},
	"30373":   {deg(-24)},
	"30382":   {deg(11), deg(45)},
	"30390":   {deg(-45)},
	"30499":   {deg(16)},
	"32083":   {deg(45)},
	"43708":   {span(64, 72)},
	"43710":   {deg(72), deg(45)},
	"43711":   {deg(72), deg(45)},
	"47759":   {span(40, 63)},
	"52501":   {deg(-45)},
	"60219":   {deg(-45)},
	"60477":   {deg(72)},
	"60481":   {deg(24)},
	"63341":   {deg(45)},
	"72454":   {deg(-45)},
	"92946":   {deg(45)},
	"93348":   {deg(72)},
	"95188":   {deg(65)},
	"99301":   {deg(63)},
	"303923":  {deg(45)},
	"303926":  {deg(45)},
	"304826":  {deg(45)},
	"329826":  {deg(64)},
	"374726":  {deg(-64)},
	"428621":  {deg(64)},
	"4162628": {deg(17)},
	"4195004": {deg(45)},
}

var slopeAngles = func() map[string][]AngleRange {
	m := make(map[string][]AngleRange, len(slopeBricks))
	for part, ranges := range slopeBricks {
		widened := make([]AngleRange, len(ranges))
		for i, r := range ranges {
			widened[i] = AngleRange{r.Min - slopeMargin, r.Max + slopeMargin}
		}
		m[part] = widened
	}
	return m
}()

var partNumberRe = regexp.MustCompile(`^\D*(\d+)([A-Za-z]?)`)

// SlopeAngles returns the allowed slope ranges for a part name such as
// "3039.dat" or "3678b.dat", or nil when the part has no grainy slope.
func SlopeAngles(partName string) []AngleRange {
	m := partNumberRe.FindStringSubmatch(partName)
	if m == nil {
		return nil
	}
	if r, ok := slopeAngles[m[1]+m[2]]; ok {
		return r
	}
	return slopeAngles[m[1]]
}

// FaceSlopeAngle returns the angle in degrees between a face normal and
// the ground plane, from -90 to 90. Points are in LDraw space, where -Y is up.
func FaceSlopeAngle(verts []math.Vec3) float32 {
	n := verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[0])).Normalize()
	cos := math32.Max(-1, math32.Min(1, n.Y))
	return math32.Acos(cos)*180/math32.Pi - 90
}

// IsSlopeFace reports whether a face should receive a slope material.
func IsSlopeFace(ranges []AngleRange, slopeAllowed bool, verts []math.Vec3) bool {
	if !slopeAllowed || len(ranges) == 0 || len(verts) < 3 {
		return false
	}
	a := FaceSlopeAngle(verts)
	for _, r := range ranges {
		if r.Contains(a) {
			return true
		}
	}
	return false
}
