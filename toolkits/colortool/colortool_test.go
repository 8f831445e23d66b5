package colortool

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/randutil"
	"github.com/skosovsky/toolbox/testutil"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#3b82f6")
	require.NoError(t, err)
	assert.Equal(t, RGB{59, 130, 246}, c)

	c, err = ParseHex("FFF")
	require.NoError(t, err)
	assert.Equal(t, RGB{255, 255, 255}, c)

	for _, bad := range []string{"", "#12345", "#zzzzzz", "#1234567"} {
		_, err := ParseHex(bad)
		assert.ErrorIs(t, err, toolbox.ErrInvalidColor, bad)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#3b82f6", "#0a0b0c"} {
		c, err := ParseHex(hex)
		require.NoError(t, err)
		assert.Equal(t, hex, c.Hex())
	}
}

func TestHSLString(t *testing.T) {
	tests := []struct {
		c    RGB
		want string
	}{
		{RGB{59, 130, 246}, "hsl(217, 91%, 60%)"},
		{RGB{0, 0, 0}, "hsl(0, 0%, 0%)"},
		{RGB{255, 255, 255}, "hsl(0, 0%, 100%)"},
		{RGB{255, 0, 0}, "hsl(0, 100%, 50%)"},
		{RGB{0, 255, 0}, "hsl(120, 100%, 50%)"},
		{RGB{0, 0, 255}, "hsl(240, 100%, 50%)"},
		{RGB{255, 0, 128}, "hsl(330, 100%, 50%)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.HSLString())
		})
	}
}

func TestHSL_Ranges(t *testing.T) {
	for r := 0; r < 256; r += 51 {
		for g := 0; g < 256; g += 51 {
			for b := 0; b < 256; b += 51 {
				h, s, l := RGB{uint8(r), uint8(g), uint8(b)}.HSL()
				assert.GreaterOrEqual(t, h, 0.0)
				assert.Less(t, h, 360.0)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0+1e-9)
				assert.GreaterOrEqual(t, l, 0.0)
				assert.LessOrEqual(t, l, 1.0)
			}
		}
	}
}

func TestFromHSL_RoundTrip(t *testing.T) {
	for _, c := range []RGB{{59, 130, 246}, {255, 0, 0}, {12, 200, 99}, {128, 128, 128}, {250, 240, 5}} {
		h, s, l := c.HSL()
		got := FromHSL(h, s, l)
		assert.InDelta(t, int(c.R), int(got.R), 1)
		assert.InDelta(t, int(c.G), int(got.G), 1)
		assert.InDelta(t, int(c.B), int(got.B), 1)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		color, from, to, want string
	}{
		{"#3b82f6", FormatHex, FormatRGB, "rgb(59, 130, 246)"},
		{"#3b82f6", FormatHex, FormatRGBA, "rgba(59, 130, 246, 1)"},
		{"#3b82f6", FormatHex, FormatHSL, "hsl(217, 91%, 60%)"},
		{"rgb(59, 130, 246)", FormatRGB, FormatHex, "#3b82f6"},
		{"rgba(59,130,246,0.5)", FormatRGBA, FormatHex, "#3b82f6"},
		{"hsl(0, 100%, 50%)", FormatHSL, FormatHex, "#ff0000"},
		{"#3b82f6", FormatHex, "cmyk", "#3b82f6"},
		{"rgb(300, -4, 10)", FormatRGB, FormatHex, "#ff000a"},
	}
	for _, tt := range tests {
		t.Run(tt.color+"->"+tt.to, func(t *testing.T) {
			got, err := Convert(tt.color, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert("#3b82f6", "cmyk", FormatHex)
	require.ErrorIs(t, err, toolbox.ErrInvalidColor)
	_, err = Convert("rgb(1, 2)", FormatRGB, FormatHex)
	require.ErrorIs(t, err, toolbox.ErrInvalidColor)
	_, err = Convert("rgb(a, b, c)", FormatRGB, FormatHex)
	require.ErrorIs(t, err, toolbox.ErrInvalidColor)
}

func TestPalette(t *testing.T) {
	got := Palette(RGB{0, 0, 0}, 3)
	assert.Equal(t, []string{"#001e3c", "#32506e", "#6482a0"}, got)

	// Below step 6, 50*i never reaches 255, so the mod 255 offset equals a plain
	// 50*i added with wraparound at 256.
	base := RGB{0x12, 0xa0, 0xf0}
	seven := Palette(base, 7)
	for i := range 6 {
		want := RGB{
			R: uint8((int(base.R) + 50*i) % 256),
			G: uint8((int(base.G) + 50*i + 30) % 256),
			B: uint8((int(base.B) + 50*i + 60) % 256),
		}
		assert.Equal(t, want.Hex(), seven[i], "step %d", i)
	}

	// Step 6: offset (300 mod 255) = 45, not 300 mod 256 = 44.
	six := Palette(RGB{0, 0, 0}, 7)
	assert.Equal(t, "#2d4b69", six[6])
	assert.NotEqual(t, "#2c4a68", six[6])

	// Channels wrap at 256.
	wrap := Palette(RGB{250, 250, 250}, 1)
	assert.Equal(t, []string{"#fa1836"}, wrap)

	assert.Empty(t, Palette(RGB{}, 0))
	assert.Empty(t, Palette(RGB{}, -1))
}

func TestShades(t *testing.T) {
	got := Shades(RGB{200, 100, 50}, 4)
	assert.Equal(t, []string{"#c86432", "#964b25", "#643219", "#32190c"}, got)
	assert.Empty(t, Shades(RGB{1, 2, 3}, 0))
}

func TestTools(t *testing.T) {
	tools := Tools(WithRand(randutil.NewSeeded(1)))
	byName := map[string]toolbox.Tool{}
	for _, tl := range tools {
		byName[tl.Name()] = tl
	}

	out, err := testutil.Call(t, byName["color/convert"], `{"color":"#3b82f6","from_format":"hex","to_format":"hsl"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"hsl(217, 91%, 60%)"}`, string(out))

	_, err = testutil.Call(t, byName["color/convert"], `{"color":"#3b82f6","from_format":"cmyk","to_format":"hex"}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)

	out, err = testutil.Call(t, byName["color/palette"], `{"base_color":"#000000","count":2}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"palette":["#001e3c","#32506e"]}`, string(out))

	out, err = testutil.Call(t, byName["color/palette"], `{}`)
	require.NoError(t, err)
	var pal struct {
		Palette []string `json:"palette"`
	}
	require.NoError(t, json.Unmarshal(out, &pal))
	assert.Len(t, pal.Palette, 5)

	out, err = testutil.Call(t, byName["color/shades"], `{"color":"#ffffff","count":2}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shades":["#ffffff","#7f7f7f"]}`, string(out))

	_, err = testutil.Call(t, byName["color/shades"], `{"color":"blue"}`)
	require.ErrorIs(t, err, toolbox.ErrInvalidColor)
}
