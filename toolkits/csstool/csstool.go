// Package csstool renders CSS declaration snippets from a handful of parameters.
// Values are templated as given; color syntax is not checked.
package csstool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/skosovsky/toolbox"
)

// DefaultDirection is the gradient direction used when none is given.
const DefaultDirection = "to right"

// Gradient renders a linear-gradient background over colors.
func Gradient(direction string, colors []string) string {
	return fmt.Sprintf("background: linear-gradient(%s, %s);", direction, strings.Join(colors, ", "))
}

// Shadow holds box-shadow parameters in pixels.
type Shadow struct {
	HOffset, VOffset, Blur, Spread int
	Color                          string
}

// BoxShadow renders a box-shadow declaration.
func BoxShadow(s Shadow) string {
	return fmt.Sprintf("box-shadow: %dpx %dpx %dpx %dpx %s;", s.HOffset, s.VOffset, s.Blur, s.Spread, s.Color)
}

// BorderRadius renders border-radius with corners in clockwise order from top-left.
func BorderRadius(tl, tr, br, bl int) string {
	return fmt.Sprintf("border-radius: %dpx %dpx %dpx %dpx;", tl, tr, br, bl)
}

// Glassmorphism renders the frosted-glass template.
func Glassmorphism(blur int, opacity float64) string {
	return fmt.Sprintf("background: rgba(255, 255, 255, %s);\nbackdrop-filter: blur(%dpx);\n"+
		"border: 1px solid rgba(255, 255, 255, 0.2);", decimal(opacity), blur)
}

// decimal formats v in shortest form, keeping a fractional part on whole numbers (1 -> "1.0").
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type (
	GradientArgs struct {
		Colors    []string `json:"colors" description:"Color stops in order" validate:"min=1"`
		Direction string   `json:"direction,omitempty" default:"to right"`
	}
	BoxShadowArgs struct {
		HOffset *int   `json:"h_offset,omitempty" default:"0"`
		VOffset *int   `json:"v_offset,omitempty" default:"5"`
		Blur    *int   `json:"blur,omitempty" default:"10"`
		Spread  *int   `json:"spread,omitempty" default:"0"`
		Color   string `json:"color,omitempty" default:"rgba(0,0,0,0.3)"`
	}
	BorderRadiusArgs struct {
		TL int `json:"tl,omitempty" description:"Top-left radius in px"`
		TR int `json:"tr,omitempty" description:"Top-right radius in px"`
		BR int `json:"br,omitempty" description:"Bottom-right radius in px"`
		BL int `json:"bl,omitempty" description:"Bottom-left radius in px"`
	}
	GlassArgs struct {
		Blur    *int     `json:"blur,omitempty" default:"10"`
		Opacity *float64 `json:"opacity,omitempty" default:"0.3"`
	}
	Result struct {
		CSS string `json:"css"`
	}
)

func or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Tools returns the CSS snippet tools.
func Tools() []toolbox.Tool {
	return []toolbox.Tool{
		toolbox.MustTool("css/gradient", "Generate a CSS linear-gradient background",
			func(_ context.Context, a GradientArgs) (Result, error) {
				dir := a.Direction
				if dir == "" {
					dir = DefaultDirection
				}
				return Result{CSS: Gradient(dir, a.Colors)}, nil
			}),
		toolbox.MustTool("css/box-shadow", "Generate a CSS box-shadow",
			func(_ context.Context, a BoxShadowArgs) (Result, error) {
				color := a.Color
				if color == "" {
					color = "rgba(0,0,0,0.3)"
				}
				return Result{CSS: BoxShadow(Shadow{
					HOffset: or(a.HOffset, 0),
					VOffset: or(a.VOffset, 5),
					Blur:    or(a.Blur, 10),
					Spread:  or(a.Spread, 0),
					Color:   color,
				})}, nil
			}),
		toolbox.MustTool("css/border-radius", "Generate a CSS border-radius",
			func(_ context.Context, a BorderRadiusArgs) (Result, error) {
				return Result{CSS: BorderRadius(a.TL, a.TR, a.BR, a.BL)}, nil
			}),
		toolbox.MustTool("css/glassmorphism", "Generate a frosted-glass CSS snippet",
			func(_ context.Context, a GlassArgs) (Result, error) {
				return Result{CSS: Glassmorphism(or(a.Blur, 10), or(a.Opacity, 0.3))}, nil
			}),
	}
}
