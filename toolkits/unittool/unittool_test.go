package unittool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/testutil"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name               string
		value              float64
		from, to, category string
		want               float64
	}{
		{"km to m", 1, "kilometer", "meter", Length, 1000},
		{"m to ft", 1, "meter", "foot", Length, 3.28084},
		{"kg to lb", 2, "kilogram", "pound", Weight, 4.40924},
		{"gb to mb", 1.5, "gigabyte", "megabyte", Data, 1500},
		{"c to f", 100, "celsius", "fahrenheit", Temperature, 212},
		{"f to c", 32, "fahrenheit", "celsius", Temperature, 0},
		{"k to f", 0, "kelvin", "fahrenheit", Temperature, -459.67},
		{"unknown unit is factor 1", 5, "parsec", "kilometer", Length, 0.005},
		{"unknown category", 5, "a", "b", "volume", 5},
		{"unknown temperature unit is celsius", 10, "rankine", "kelvin", Temperature, 283.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Convert(tt.value, tt.from, tt.to, tt.category), 1e-9)
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	tests := []struct{ a, b, category string }{
		{"meter", "centimeter", Length},
		{"kilometer", "millimeter", Length},
		{"meter", "foot", Length},
		{"inch", "centimeter", Length},
		{"kilogram", "gram", Weight},
		{"gram", "milligram", Weight},
		{"kilogram", "pound", Weight},
		{"gigabyte", "kilobyte", Data},
		{"megabyte", "byte", Data},
		{"celsius", "fahrenheit", Temperature},
		{"celsius", "kelvin", Temperature},
		{"fahrenheit", "kelvin", Temperature},
	}
	for _, tt := range tests {
		for _, v := range []float64{42, -3.5, 1000} {
			there := Convert(v, tt.a, tt.b, tt.category)
			back := Convert(there, tt.b, tt.a, tt.category)
			assert.InDelta(t, v, back, 1e-5, "%s -> %s -> %s at %v", tt.a, tt.b, tt.a, v)
		}
	}
}

// Without the six-decimal rounding every pair in the tables survives the trip,
// including factors too small to round back.
func TestConvert_RoundTripUnrounded(t *testing.T) {
	for _, cat := range []string{Length, Weight, Data, Temperature} {
		units := Units(cat)
		require.NotEmpty(t, units)
		for _, a := range units {
			for _, b := range units {
				back := convert(convert(42, a, b, cat), b, a, cat)
				assert.InDelta(t, 42.0, back, 42e-6, "%s: %s -> %s -> %s", cat, a, b, a)
			}
		}
	}
}

func TestConvert_Rounding(t *testing.T) {
	assert.InDelta(t, 0.000621, Convert(1, "meter", "mile", Length), 1e-12)
	assert.InDelta(t, 0.0, Convert(1, "byte", "terabyte", Data), 1e-12)
}

func TestRound(t *testing.T) {
	assert.InDelta(t, 1.24, Round(1.2351, 2), 1e-12)
	assert.InDelta(t, -2.5, Round(-2.45, 1), 1e-12)
	assert.InDelta(t, 3.0, Round(3.14159, 0), 1e-12)
}

func TestUnits(t *testing.T) {
	assert.Nil(t, Units("volume"))
	assert.ElementsMatch(t, []string{"celsius", "fahrenheit", "kelvin"}, Units(Temperature))
	assert.Len(t, Units(Weight), 5)
}

func TestTools(t *testing.T) {
	tool := Tools()[0]
	out, err := testutil.Call(t, tool, `{"value":100,"from_unit":"centimeter","to_unit":"meter","category":"length"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":1}`, string(out))

	_, err = testutil.Call(t, tool, `{"value":1,"from_unit":"l","to_unit":"ml","category":"volume"}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)

	_, err = testutil.Call(t, tool, `{"from_unit":"meter","to_unit":"foot","category":"length"}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)
}
