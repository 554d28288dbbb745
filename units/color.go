package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownColorFormat is returned for an unsupported color format name.
var ErrUnknownColorFormat = errors.New("units: unknown color format")

// rgb is the pivot representation for all color conversions.
type rgb struct {
	r, g, b int
}

// ConvertColor converts a color value between hex, rgb, hsl, and cmyk.
// Inputs: hex as "#rrggbb" or "#rgb"; the others as comma-separated integer
// components. Outputs: hex lowercase with leading '#'; the others
// comma-joined. Every pair pivots through RGB.
func ConvertColor(value, fromFormat, toFormat string) (string, error) {
	var c rgb
	var err error

	switch strings.ToLower(fromFormat) {
	case "hex":
		c, err = hexToRGB(value)
	case "rgb":
		c, err = parseRGB(value)
	case "hsl":
		c, err = parseHSL(value)
	case "cmyk":
		c, err = parseCMYK(value)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColorFormat, fromFormat)
	}
	if err != nil {
		return "", err
	}

	switch strings.ToLower(toFormat) {
	case "hex":
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b), nil
	case "rgb":
		return fmt.Sprintf("%d,%d,%d", c.r, c.g, c.b), nil
	case "hsl":
		h, s, l := rgbToHSL(c)
		return fmt.Sprintf("%d,%d,%d", h, s, l), nil
	case "cmyk":
		cc, m, y, k := rgbToCMYK(c)
		return fmt.Sprintf("%d,%d,%d,%d", cc, m, y, k), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColorFormat, toFormat)
	}
}

func hexToRGB(s string) (rgb, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		// #abc expands to #aabbcc
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}, fmt.Errorf("%w: hex %q", ErrInvalidValue, s)
	}
	var out [3]int
	for i := range 3 {
		n, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb{}, fmt.Errorf("%w: hex %q", ErrInvalidValue, s)
		}
		out[i] = int(n)
	}
	return rgb{out[0], out[1], out[2]}, nil
}

func parseComponents(value string, n int) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: expected %d components in %q", ErrInvalidValue, n, value)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: component %q", ErrInvalidValue, p)
		}
		out[i] = v
	}
	return out, nil
}

func parseRGB(value string) (rgb, error) {
	c, err := parseComponents(value, 3)
	if err != nil {
		return rgb{}, err
	}
	for _, v := range c {
		if v < 0 || v > 255 {
			return rgb{}, fmt.Errorf("%w: rgb component %d out of range", ErrInvalidValue, v)
		}
	}
	return rgb{c[0], c[1], c[2]}, nil
}

func parseHSL(value string) (rgb, error) {
	c, err := parseComponents(value, 3)
	if err != nil {
		return rgb{}, err
	}
	return hslToRGB(float64(c[0]), float64(c[1])/100, float64(c[2])/100), nil
}

func parseCMYK(value string) (rgb, error) {
	comp, err := parseComponents(value, 4)
	if err != nil {
		return rgb{}, err
	}
	c := float64(comp[0]) / 100
	m := float64(comp[1]) / 100
	y := float64(comp[2]) / 100
	k := float64(comp[3]) / 100
	return rgb{
		r: int(math.Round(255 * (1 - c) * (1 - k))),
		g: int(math.Round(255 * (1 - m) * (1 - k))),
		b: int(math.Round(255 * (1 - y) * (1 - k))),
	}, nil
}

func rgbToHSL(c rgb) (h, s, l int) {
	r := float64(c.r) / 255
	g := float64(c.g) / 255
	b := float64(c.b) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	lf := (max + min) / 2

	var hf, sf float64
	if max != min {
		d := max - min
		if lf > 0.5 {
			sf = d / (2 - max - min)
		} else {
			sf = d / (max + min)
		}
		switch max {
		case r:
			hf = (g - b) / d
			if g < b {
				hf += 6
			}
		case g:
			hf = (b-r)/d + 2
		default:
			hf = (r-g)/d + 4
		}
		hf *= 60
	}

	return int(math.Round(hf)), int(math.Round(sf * 100)), int(math.Round(lf * 100))
}

func hslToRGB(h, s, l float64) rgb {
	h = math.Mod(math.Mod(h, 360)+360, 360)

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	return rgb{
		r: int(math.Round((rf + m) * 255)),
		g: int(math.Round((gf + m) * 255)),
		b: int(math.Round((bf + m) * 255)),
	}
}

func rgbToCMYK(col rgb) (c, m, y, k int) {
	r := float64(col.r) / 255
	g := float64(col.g) / 255
	b := float64(col.b) / 255

	kf := 1 - math.Max(r, math.Max(g, b))
	if kf == 1 {
		return 0, 0, 0, 100
	}
	cf := (1 - r - kf) / (1 - kf)
	mf := (1 - g - kf) / (1 - kf)
	yf := (1 - b - kf) / (1 - kf)
	return int(math.Round(cf * 100)), int(math.Round(mf * 100)),
		int(math.Round(yf * 100)), int(math.Round(kf * 100))
}
