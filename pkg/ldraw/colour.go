package ldraw

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ldrawkit/pkg/encoding"
)

// MaterialKind is the surface finish of a colour.
type MaterialKind int

const (
	MaterialBasic MaterialKind = iota
	MaterialChrome
	MaterialPearlescent
	MaterialRubber
	MaterialMetal
	MaterialGlitter
	MaterialSpeckle
	MaterialMilkyWhite
	MaterialEmission
)

// String returns a human-readable material name.
func (m MaterialKind) String() string {
	switch m {
	case MaterialChrome:
		return "Chrome"
	case MaterialPearlescent:
		return "Pearlescent"
	case MaterialRubber:
		return "Rubber"
	case MaterialMetal:
		return "Metal"
	case MaterialGlitter:
		return "Glitter"
	case MaterialSpeckle:
		return "Speckle"
	case MaterialMilkyWhite:
		return "MilkyWhite"
	case MaterialEmission:
		return "Emission"
	default:
		return "Basic"
	}
}

// RGB is a colour in linear space, each channel in [0,1].
type RGB struct {
	R, G, B float32
}

// Secondary holds the extra fields of a GLITTER or SPECKLE material.
type Secondary struct {
	Colour    RGB
	Fraction  float32
	VFraction float32
	Size      float32
	MinSize   float32
	MaxSize   float32
}

// Colour is one entry of the colour table.
type Colour struct {
	Code      int
	Name      string
	Linear    RGB
	Alpha     float32
	Luminance float32
	Material  MaterialKind
	Secondary *Secondary // set for Glitter and Speckle
}

// IsTransparent reports whether the colour has alpha below one.
func (c Colour) IsTransparent() bool {
	return c.Alpha < 1
}

// Scheme selects the palette used for the colour table.
type Scheme string

const (
	SchemeLDraw Scheme = "ldraw"
	SchemeAlt   Scheme = "alt"
	SchemeLGEO  Scheme = "lgeo"
)

// ConfigFile returns the colour definition file for the scheme.
func (s Scheme) ConfigFile() string {
	if s == SchemeAlt {
		return "LDCfgalt.ldr"
	}
	return "LDConfig.ldr"
}

// ColourTable maps colour codes to colours.
type ColourTable struct {
	colours map[int]*Colour
}

// NewColourTable returns an empty table.
func NewColourTable() *ColourTable {
	return &ColourTable{colours: make(map[int]*Colour)}
}

// ParseColourFile reads a colour definition file such as LDConfig.ldr.
func ParseColourFile(path string) (*ColourTable, []Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading colour file: %w", err)
	}
	text, _ := encoding.DecodeText(data)
	t, problems := ParseColourTable(encoding.SplitLines(text))
	return t, problems, nil
}

// ParseColourTable parses "0 !COLOUR" lines. Other lines are ignored and
// malformed definitions are skipped and reported.
func ParseColourTable(lines []string) (*ColourTable, []Problem) {
	t := NewColourTable()
	var problems []Problem
	for i, line := range lines {
		f := strings.Fields(line)
		if len(f) < 2 || f[0] != "0" || !strings.EqualFold(f[1], "!COLOUR") {
			continue
		}
		c, err := ParseColourLine(line)
		if err != nil {
			msg := fmt.Sprintf("Skipping colour on line %d: %v", i+1, err)
			problems = append(problems, Problem{Key: "colourdef:" + strconv.Itoa(i+1), Message: msg})
			continue
		}
		t.Add(c)
	}
	return t, problems
}

// ParseColourLine parses a single "0 !COLOUR" definition.
func ParseColourLine(line string) (Colour, error) {
	f := strings.Fields(line)
	if len(f) < 7 {
		return Colour{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	code, err := strconv.Atoi(f[4])
	if err != nil {
		return Colour{}, fmt.Errorf("%w: bad code %q", ErrMalformedLine, f[4])
	}
	rgb, err := hexToLinear(strings.TrimPrefix(f[6], "#"))
	if err != nil {
		return Colour{}, err
	}

	c := Colour{Code: code, Name: f[2], Linear: rgb, Alpha: 1}

	if v, ok := valueAfter(f, "ALPHA"); ok {
		a, err := strconv.Atoi(v)
		if err != nil {
			return Colour{}, fmt.Errorf("%w: bad ALPHA %q", ErrMalformedLine, v)
		}
		c.Alpha = float32(a) / 256
	}
	if v, ok := valueAfter(f, "LUMINANCE"); ok {
		lum, err := strconv.Atoi(v)
		if err != nil {
			return Colour{}, fmt.Errorf("%w: bad LUMINANCE %q", ErrMalformedLine, v)
		}
		c.Luminance = float32(lum)
	}

	finish := ""
	for _, tok := range []string{"CHROME", "PEARLESCENT", "RUBBER", "METAL"} {
		if contains(f, tok) {
			finish = tok
		}
	}
	if idx := indexOf(f, "MATERIAL"); idx >= 0 {
		sub := f[idx:]
		finish, _ = valueAfter(sub, "MATERIAL")
		sec := &Secondary{}
		if v, ok := valueAfter(sub, "VALUE"); ok {
			if rgb, err := hexToLinear(strings.TrimPrefix(v, "#")); err == nil {
				sec.Colour = rgb
			}
		}
		sec.Fraction = floatAfter(sub, "FRACTION")
		sec.VFraction = floatAfter(sub, "VFRACTION")
		sec.Size = floatAfter(sub, "SIZE")
		sec.MinSize = floatAfter(sub, "MINSIZE")
		sec.MaxSize = floatAfter(sub, "MAXSIZE")
		c.Secondary = sec
	}

	c.Material = classify(c.Name, c.Luminance, finish)
	if c.Material != MaterialGlitter && c.Material != MaterialSpeckle {
		c.Secondary = nil
	}
	return c, nil
}

// classify picks the material kind. Name and luminance take priority over
// the finish keyword.
func classify(name string, luminance float32, finish string) MaterialKind {
	switch {
	case name == "Milky_White":
		return MaterialMilkyWhite
	case luminance > 0:
		return MaterialEmission
	}
	switch finish {
	case "CHROME":
		return MaterialChrome
	case "PEARLESCENT":
		return MaterialPearlescent
	case "METAL":
		return MaterialMetal
	case "GLITTER":
		return MaterialGlitter
	case "SPECKLE":
		return MaterialSpeckle
	case "RUBBER":
		return MaterialRubber
	}
	return MaterialBasic
}

func indexOf(f []string, tok string) int {
	for i, s := range f {
		if s == tok {
			return i
		}
	}
	return -1
}

func contains(f []string, tok string) bool {
	return indexOf(f, tok) >= 0
}

func valueAfter(f []string, key string) (string, bool) {
	i := indexOf(f, key)
	if i < 0 || i+1 >= len(f) {
		return "", false
	}
	return f[i+1], true
}

func floatAfter(f []string, key string) float32 {
	v, ok := valueAfter(f, key)
	if !ok {
		return 0
	}
	x, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0
	}
	return float32(x)
}

// Add inserts or replaces a colour.
func (t *ColourTable) Add(c Colour) {
	t.colours[c.Code] = &c
}

// Get returns the colour with the given code.
func (t *ColourTable) Get(code int) (Colour, bool) {
	c, ok := t.colours[code]
	if !ok {
		return Colour{}, false
	}
	return *c, true
}

// Len returns the number of defined colours.
func (t *ColourTable) Len() int {
	return len(t.colours)
}

// Codes returns all defined codes in ascending order.
func (t *ColourTable) Codes() []int {
	codes := make([]int, 0, len(t.colours))
	for code := range t.colours {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Overwrite replaces the RGB value of an existing code with an sRGB colour.
// Unknown codes are left undefined.
func (t *ColourTable) Overwrite(code int, sRGB RGB) bool {
	c, ok := t.colours[code]
	if !ok {
		return false
	}
	c.Linear = SRGBToLinearRGB(sRGB)
	return true
}

// ApplyScheme overwrites codes with the scheme's palette, if it has one.
func (t *ColourTable) ApplyScheme(s Scheme) {
	if s != SchemeLGEO {
		return
	}
	for code, rgb := range lgeoPalette {
		t.Overwrite(code, RGB{rgb[0] / 255, rgb[1] / 255, rgb[2] / 255})
	}
	// The LGEO value for code 38 has a blue channel of 0/225.
	t.Overwrite(38, RGB{255.0 / 255, 43.0 / 255, 0})
}

// Lookup resolves a colour name: a numeric code from the table, or a
// direct colour such as "0x2FF0000".
func (t *ColourTable) Lookup(name string) (Colour, error) {
	if code, err := strconv.Atoi(name); err == nil {
		if c, ok := t.Get(code); ok {
			return c, nil
		}
	}
	rgb, alpha, err := ParseDirectColour(name)
	if err != nil {
		return Colour{}, err
	}
	return Colour{Code: -1, Name: name, Linear: rgb, Alpha: alpha}, nil
}

var directColourRe = regexp.MustCompile(`^0x0*([0-9])((?:[A-Fa-f0-9]{2}){3})$`)

// ParseDirectColour decodes a direct colour "0x0DRRGGBB". Digits 4 to 7
// mark an interleaved colour "RGBRGB" whose two halves are averaged.
func ParseDirectColour(s string) (RGB, float32, error) {
	m := directColourRe.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, 0, fmt.Errorf("%w: could not decode %s to a colour", ErrInvalidColour, s)
	}
	digit, hex := m[1], m[2]

	alpha := float32(1)
	interleaved := false
	switch digit {
	case "2":
		alpha = 1
	case "3":
		alpha = 0.5
	case "4":
		alpha, interleaved = 1, true
	case "5":
		alpha, interleaved = 0.333, true
	case "6":
		alpha, interleaved = 0.666, true
	case "7":
		alpha, interleaved = 0, true
	}

	if !interleaved {
		rgb, err := hexToLinear(hex)
		return rgb, alpha, err
	}

	nibble := func(i int) float32 {
		v, _ := strconv.ParseUint(hex[i:i+1], 16, 8)
		return float32(v) / 15
	}
	c1 := SRGBToLinearRGB(RGB{nibble(0), nibble(1), nibble(2)})
	c2 := SRGBToLinearRGB(RGB{nibble(3), nibble(4), nibble(5)})
	return RGB{
		0.5 * (c1.R + c2.R),
		0.5 * (c1.G + c2.G),
		0.5 * (c1.B + c2.B),
	}, alpha, nil
}

// hexToLinear converts "RRGGBB" to linear RGB.
func hexToLinear(hex string) (RGB, error) {
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q is not RRGGBB", ErrInvalidColour, hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q is not RRGGBB", ErrInvalidColour, hex)
	}
	return SRGBToLinearRGB(RGB{
		float32((v>>16)&0xFF) / 255,
		float32((v>>8)&0xFF) / 255,
		float32(v&0xFF) / 255,
	}), nil
}

// SRGBToLinear applies the inverse sRGB transfer function to one channel.
func SRGBToLinear(v float32) float32 {
	if v < 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB transfer function to one channel.
func LinearToSRGB(v float32) float32 {
	if v < 0.0031308 {
		return v * 12.92
	}
	return 1.055*math32.Pow(v, 1/2.4) - 0.055
}

// SRGBToLinearRGB converts an sRGB triple to linear space.
func SRGBToLinearRGB(c RGB) RGB {
	return RGB{SRGBToLinear(c.R), SRGBToLinear(c.G), SRGBToLinear(c.B)}
}

// LinearToSRGBRGB converts a linear triple to sRGB.
func LinearToSRGBRGB(c RGB) RGB {
	return RGB{LinearToSRGB(c.R), LinearToSRGB(c.G), LinearToSRGB(c.B)}
}

// IsFluorescentTransparent reports whether the named colour glows.
func IsFluorescentTransparent(name string) bool {
	switch name {
	case "Trans_Neon_Orange", "Trans_Neon_Green", "Trans_Neon_Yellow", "Trans_Bright_Green":
		return true
	}
	return false
}
