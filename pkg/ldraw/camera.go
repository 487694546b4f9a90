package ldraw

import (
	"strconv"
	"strings"

	"github.com/Faultbox/ldrawkit/pkg/math"
)

// Camera is a LeoCAD camera declared with 0 !LEOCAD CAMERA lines.
type Camera struct {
	Name         string
	FOV          float32 // vertical, degrees
	Near, Far    float32
	Position     math.Vec3
	Target       math.Vec3
	Up           math.Vec3
	Orthographic bool
	Hidden       bool
}

// NewCamera returns a camera with default settings.
func NewCamera() Camera {
	return Camera{
		Name:     "Camera",
		FOV:      30,
		Near:     0.01,
		Far:      100,
		Position: math.V3(0, 0, 0),
		Target:   math.V3(1, 0, 0),
		Up:       math.V3(0, 1, 0),
	}
}

// cameraParser accumulates camera fields across lines.
type cameraParser struct {
	scale   float32
	current Camera
	done    []Camera
}

func newCameraParser(scale float32) *cameraParser {
	return &cameraParser{scale: scale, current: NewCamera()}
}

// feed consumes the key/value tokens after "0 !LEOCAD CAMERA". A NAME key
// ends the record.
func (p *cameraParser) feed(l Line) error {
	params := l.Fields[3:l.Len()]
	for len(params) > 0 {
		switch params[0] {
		case "FOV":
			v, err := parseFloats(params, 1, 1)
			if err != nil {
				return err
			}
			p.current.FOV = v[0]
			params = params[2:]
		case "ZNEAR", "ZFAR":
			v, err := parseFloats(params, 1, 1)
			if err != nil {
				return err
			}
			if params[0] == "ZNEAR" {
				p.current.Near = v[0] * p.scale
			} else {
				p.current.Far = v[0] * p.scale
			}
			params = params[2:]
		case "POSITION", "TARGET_POSITION", "UP_VECTOR":
			v, err := parseFloats(params, 1, 3)
			if err != nil {
				return err
			}
			vec := math.V3(v[0], v[1], v[2])
			switch params[0] {
			case "POSITION":
				p.current.Position = vec.Scale(p.scale)
			case "TARGET_POSITION":
				p.current.Target = vec.Scale(p.scale)
			default:
				p.current.Up = vec
			}
			params = params[4:]
		case "ORTHOGRAPHIC":
			p.current.Orthographic = true
			params = params[1:]
		case "HIDDEN":
			p.current.Hidden = true
			params = params[1:]
		case "NAME":
			if _, after, ok := strings.Cut(l.Raw, " NAME "); ok {
				p.current.Name = strings.TrimSpace(after)
			}
			p.done = append(p.done, p.current)
			p.current = NewCamera()
			return nil
		default:
			params = params[1:]
		}
	}
	return nil
}

func parseFloats(params []string, start, n int) ([]float32, error) {
	if len(params) < start+n {
		return nil, ErrMalformedLine
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(params[start+i], 32)
		if err != nil {
			return nil, ErrMalformedLine
		}
		out[i] = float32(v)
	}
	return out, nil
}
