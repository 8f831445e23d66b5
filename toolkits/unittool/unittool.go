// Package unittool converts values between units of length, weight, digital storage
// and temperature.
package unittool

import (
	"context"
	"math"

	"github.com/skosovsky/toolbox"
)

// Unit categories.
const (
	Length      = "length"
	Weight      = "weight"
	Data        = "data"
	Temperature = "temperature"
)

// factors holds each unit's ratio to its category's base unit (meter, kilogram, byte).
var factors = map[string]map[string]float64{
	Length: {
		"meter":      1,
		"kilometer":  0.001,
		"centimeter": 100,
		"millimeter": 1000,
		"mile":       0.000621371,
		"yard":       1.09361,
		"foot":       3.28084,
		"inch":       39.3701,
	},
	Weight: {
		"kilogram":  1,
		"gram":      1000,
		"milligram": 1000000,
		"pound":     2.20462,
		"ounce":     35.274,
	},
	Data: {
		"byte":     1,
		"kilobyte": 0.001,
		"megabyte": 0.000001,
		"gigabyte": 0.000000001,
		"terabyte": 0.000000000001,
	},
}

// Units lists the unit names known for category, or nil for an unknown category.
func Units(category string) []string {
	if category == Temperature {
		return []string{"celsius", "fahrenheit", "kelvin"}
	}
	table, ok := factors[category]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(table))
	for u := range table {
		out = append(out, u)
	}
	return out
}

func factor(category, unit string) float64 {
	if f, ok := factors[category][unit]; ok {
		return f
	}
	return 1
}

func toCelsius(v float64, unit string) float64 {
	switch unit {
	case "fahrenheit":
		return (v - 32) * 5 / 9
	case "kelvin":
		return v - 273.15
	default:
		return v
	}
}

func fromCelsius(c float64, unit string) float64 {
	switch unit {
	case "fahrenheit":
		return c*9/5 + 32
	case "kelvin":
		return c + 273.15
	default:
		return c
	}
}

// Convert converts value from one unit to another within category and rounds to six decimals.
// Unknown units in linear categories count as factor 1; unknown temperature units count as celsius.
func Convert(value float64, from, to, category string) float64 {
	return Round(convert(value, from, to, category), 6)
}

func convert(value float64, from, to, category string) float64 {
	if category == Temperature {
		return fromCelsius(toCelsius(value, from), to)
	}
	return value / factor(category, from) * factor(category, to)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

type (
	ConvertArgs struct {
		Value    float64 `json:"value"`
		FromUnit string  `json:"from_unit" description:"Source unit, e.g. meter or fahrenheit"`
		ToUnit   string  `json:"to_unit" description:"Target unit"`
		Category string  `json:"category" enum:"length,weight,temperature,data"`
	}
	Result struct {
		Result float64 `json:"result"`
	}
)

// Tools returns the unit conversion tools.
func Tools() []toolbox.Tool {
	return []toolbox.Tool{
		toolbox.MustTool("convert/units", "Convert a value between units of the same category",
			func(_ context.Context, a ConvertArgs) (Result, error) {
				return Result{Result: Convert(a.Value, a.FromUnit, a.ToUnit, a.Category)}, nil
			}, toolbox.WithStrict()),
	}
}
