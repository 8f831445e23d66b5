// Package colortool converts colors between hex, rgb/rgba and hsl notation and derives
// palettes and shades from a base color.
package colortool

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/randutil"
)

// Supported color notations.
const (
	FormatHex  = "hex"
	FormatRGB  = "rgb"
	FormatRGBA = "rgba"
	FormatHSL  = "hsl"
)

// RGB is a color as three 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex formats c as #rrggbb with lower-case digits.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSL returns hue in degrees [0,360) and saturation and lightness in [0,1].
func (c RGB) HSL() (h, s, l float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	cmax := max(r, g, b)
	cmin := min(r, g, b)
	delta := cmax - cmin

	l = (cmax + cmin) / 2
	if delta == 0 {
		return 0, 0, l
	}
	s = delta / (1 - math.Abs(2*l-1))

	switch cmax {
	case r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, l
}

// FromHSL converts hue in degrees and saturation and lightness in [0,1] to RGB.
func FromHSL(h, s, l float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp01(s)
	l = clamp01(l)

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB{R: channel((r + m) * 255), G: channel((g + m) * 255), B: channel((b + m) * 255)}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// channel rounds v and clamps it to [0,255].
func channel(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, math.Round(v))))
}

// HSLString formats c as hsl(h, s%, l%) with each component rounded to an integer.
func (c RGB) HSLString() string {
	h, s, l := c.HSL()
	hue := int(math.Round(h)) % 360
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, int(math.Round(s*100)), int(math.Round(l*100)))
}

// ParseHex parses #rrggbb or #rgb, with or without the leading '#'.
func ParseHex(s string) (RGB, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "invalid hex color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "invalid hex color %q", s)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// functionalArgs splits "name(a, b, c)" (or a bare "a, b, c") into trimmed components.
func functionalArgs(s string, names ...string) []string {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, n := range names {
		if rest, ok := strings.CutPrefix(v, n+"("); ok {
			v = strings.TrimSuffix(rest, ")")
			break
		}
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseRGB parses rgb(r, g, b), rgba(r, g, b, a) or a bare "r, g, b".
// Channels outside [0,255] are clamped; alpha is ignored.
func ParseRGB(s string) (RGB, error) {
	parts := functionalArgs(s, "rgba", "rgb")
	if len(parts) < 3 || len(parts) > 4 {
		return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "invalid rgb color %q", s)
	}
	var ch [3]uint8
	for i := range 3 {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "invalid rgb channel %q", parts[i])
		}
		ch[i] = channel(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ParseHSL parses hsl(h, s%, l%); the percent signs are optional.
func ParseHSL(s string) (RGB, error) {
	parts := functionalArgs(s, "hsla", "hsl")
	if len(parts) < 3 || len(parts) > 4 {
		return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "invalid hsl color %q", s)
	}
	var v [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(parts[i], "%"), "deg"), 64)
		if err != nil {
			return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "invalid hsl component %q", parts[i])
		}
		v[i] = f
	}
	return FromHSL(v[0], v[1]/100, v[2]/100), nil
}

// Parse reads color written in the given notation.
func Parse(color, format string) (RGB, error) {
	switch strings.ToLower(format) {
	case FormatHex:
		return ParseHex(color)
	case FormatRGB, FormatRGBA:
		return ParseRGB(color)
	case FormatHSL:
		return ParseHSL(color)
	default:
		return RGB{}, toolbox.Fail(toolbox.ErrInvalidColor, "unsupported source format %q", format)
	}
}

// Format writes c in the given notation. ok is false for unknown notations.
func Format(c RGB, format string) (s string, ok bool) {
	switch strings.ToLower(format) {
	case FormatHex:
		return c.Hex(), true
	case FormatRGB:
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B), true
	case FormatRGBA:
		return fmt.Sprintf("rgba(%d, %d, %d, 1)", c.R, c.G, c.B), true
	case FormatHSL:
		return c.HSLString(), true
	default:
		return "", false
	}
}

// Convert parses color in from notation and writes it in to notation.
// An unknown target notation returns color unchanged once it has been parsed.
func Convert(color, from, to string) (string, error) {
	c, err := Parse(color, from)
	if err != nil {
		return "", err
	}
	if out, ok := Format(c, to); ok {
		return out, nil
	}
	return color, nil
}

// Palette walks count colors from base by a fixed offset per step:
// offset = (50*i) mod 255, added to R, G+30 and B+60, each wrapping at 256.
func Palette(base RGB, count int) []string {
	out := make([]string, 0, max(count, 0))
	for i := range max(count, 0) {
		offset := (i * 50) % 255
		c := RGB{
			R: uint8((int(base.R) + offset) % 256),
			G: uint8((int(base.G) + offset + 30) % 256),
			B: uint8((int(base.B) + offset + 60) % 256),
		}
		out = append(out, c.Hex())
	}
	return out
}

// Shades scales base toward black in count linear steps, starting with base itself.
func Shades(base RGB, count int) []string {
	out := make([]string, 0, max(count, 0))
	for i := range max(count, 0) {
		factor := 1 - float64(i)/float64(count)
		c := RGB{
			R: uint8(float64(base.R) * factor),
			G: uint8(float64(base.G) * factor),
			B: uint8(float64(base.B) * factor),
		}
		out = append(out, c.Hex())
	}
	return out
}

// RandomRGB draws each channel uniformly from src.
func RandomRGB(src randutil.Source) RGB {
	return RGB{R: uint8(src.IntN(256)), G: uint8(src.IntN(256)), B: uint8(src.IntN(256))}
}

// Option configures the color tools.
type Option func(*options)

type options struct {
	rand randutil.Source
}

// WithRand sets the random source used when a palette has no base color.
func WithRand(src randutil.Source) Option {
	return func(o *options) { o.rand = src }
}

// Tool argument and result types.
type (
	ConvertArgs struct {
		Color      string `json:"color" description:"Color in the source notation, e.g. #3b82f6 or rgb(59, 130, 246)"`
		FromFormat string `json:"from_format" enum:"hex,rgb,rgba,hsl"`
		ToFormat   string `json:"to_format" description:"hex, rgb, rgba or hsl; other values return the color unchanged"`
	}
	PaletteArgs struct {
		BaseColor string `json:"base_color,omitempty" description:"Hex seed color; random when omitted"`
		Count     *int   `json:"count,omitempty" default:"5" validate:"omitempty,max=256"`
	}
	ShadesArgs struct {
		Color string `json:"color" description:"Hex base color"`
		Count *int   `json:"count,omitempty" default:"10" validate:"omitempty,max=256"`
	}
	Result struct {
		Result string `json:"result"`
	}
	PaletteResult struct {
		Palette []string `json:"palette"`
	}
	ShadesResult struct {
		Shades []string `json:"shades"`
	}
)

func countOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Tools returns the color tools.
func Tools(opts ...Option) []toolbox.Tool {
	o := options{rand: randutil.Global()}
	for _, opt := range opts {
		opt(&o)
	}
	return []toolbox.Tool{
		toolbox.MustTool("color/convert", "Convert a color between hex, rgb, rgba and hsl",
			func(_ context.Context, a ConvertArgs) (Result, error) {
				out, err := Convert(a.Color, a.FromFormat, a.ToFormat)
				return Result{Result: out}, err
			}, toolbox.WithStrict()),
		toolbox.MustTool("color/palette", "Generate a palette from a base color",
			func(_ context.Context, a PaletteArgs) (PaletteResult, error) {
				var base RGB
				if a.BaseColor == "" {
					base = RandomRGB(o.rand)
				} else {
					c, err := ParseHex(a.BaseColor)
					if err != nil {
						return PaletteResult{}, err
					}
					base = c
				}
				return PaletteResult{Palette: Palette(base, countOr(a.Count, 5))}, nil
			}),
		toolbox.MustTool("color/shades", "Generate darker shades of a color",
			func(_ context.Context, a ShadesArgs) (ShadesResult, error) {
				c, err := ParseHex(a.Color)
				if err != nil {
					return ShadesResult{}, err
				}
				return ShadesResult{Shades: Shades(c, countOr(a.Count, 10))}, nil
			}),
	}
}
