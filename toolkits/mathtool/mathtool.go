// Package mathtool evaluates arithmetic expressions and computes percentages and ages.
package mathtool

import (
	"context"
	"math"
	"time"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/isodate"
)

// Percentage operations.
const (
	WhatPercent = "what_percent"
	PercentOf   = "percent_of"
)

// Percentage computes value as a percentage of total (what_percent) or value percent
// of total (percent_of), rounded to two decimals. Unknown operations yield 0.
func Percentage(value, total float64, op string) (float64, error) {
	var out float64
	switch op {
	case WhatPercent:
		if total == 0 {
			return 0, toolbox.Fail(toolbox.ErrDivisionByZero, "total must not be zero")
		}
		out = value / total * 100
	case PercentOf:
		out = value / 100 * total
	default:
		return 0, nil
	}
	return math.Round(out*100) / 100, nil
}

// Age is the time elapsed since a birth date.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// AgeAt returns the whole years, whole months and whole days from birth to now.
// Years and months count only once the birthday's month and day have been reached.
func AgeAt(birth, now time.Time) Age {
	now = now.In(birth.Location())
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	months := (now.Year()-birth.Year())*12 + int(now.Month()) - int(birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	days := int(math.Floor(now.Sub(birth).Hours() / 24))
	return Age{Years: years, Months: months, Days: days}
}

// Option configures the math tools.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the time source used as "now" by the age calculator.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type (
	CalculateArgs struct {
		Expression string `json:"expression" description:"Arithmetic using numbers, + - * / and parentheses" validate:"max=1024"`
	}
	PercentageArgs struct {
		Value     float64 `json:"value"`
		Total     float64 `json:"total"`
		Operation string  `json:"operation,omitempty" description:"what_percent or percent_of; other values yield 0" default:"what_percent"`
	}
	AgeArgs struct {
		BirthDate string `json:"birth_date" description:"ISO-8601 date, e.g. 1990-05-17"`
	}
	Result struct {
		Result float64 `json:"result"`
	}
)

// Tools returns the math tools.
func Tools(opts ...Option) []toolbox.Tool {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return []toolbox.Tool{
		toolbox.MustTool("math/calculate", "Evaluate an arithmetic expression",
			func(_ context.Context, a CalculateArgs) (Result, error) {
				v, err := Evaluate(a.Expression)
				return Result{Result: v}, err
			}, toolbox.WithStrict()),
		toolbox.MustTool("math/percentage", "Compute percentages",
			func(_ context.Context, a PercentageArgs) (Result, error) {
				op := a.Operation
				if op == "" {
					op = WhatPercent
				}
				v, err := Percentage(a.Value, a.Total, op)
				return Result{Result: v}, err
			}),
		toolbox.MustTool("math/age", "Compute age in years, months and days from a birth date",
			func(_ context.Context, a AgeArgs) (Age, error) {
				birth, err := isodate.Parse(a.BirthDate)
				if err != nil {
					return Age{}, err
				}
				return AgeAt(birth, o.now()), nil
			}, toolbox.WithStrict()),
	}
}
