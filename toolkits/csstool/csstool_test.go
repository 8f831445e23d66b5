package csstool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/testutil"
)

func TestGradient(t *testing.T) {
	assert.Equal(t, "background: linear-gradient(to right, #fff, #000);", Gradient("to right", []string{"#fff", "#000"}))
	assert.Equal(t, "background: linear-gradient(45deg, red, not-a-color, blue);",
		Gradient("45deg", []string{"red", "not-a-color", "blue"}))
}

func TestBoxShadow(t *testing.T) {
	got := BoxShadow(Shadow{HOffset: -2, VOffset: 5, Blur: 10, Spread: 0, Color: "black"})
	assert.Equal(t, "box-shadow: -2px 5px 10px 0px black;", got)
}

func TestBorderRadius(t *testing.T) {
	assert.Equal(t, "border-radius: 1px 2px 3px 4px;", BorderRadius(1, 2, 3, 4))
}

func TestGlassmorphism(t *testing.T) {
	want := "background: rgba(255, 255, 255, 0.3);\nbackdrop-filter: blur(10px);\nborder: 1px solid rgba(255, 255, 255, 0.2);"
	assert.Equal(t, want, Glassmorphism(10, 0.3))
	assert.Contains(t, Glassmorphism(4, 1), "rgba(255, 255, 255, 1.0)")
}

func TestTools(t *testing.T) {
	byName := map[string]toolbox.Tool{}
	for _, tl := range Tools() {
		byName[tl.Name()] = tl
	}

	tests := []struct {
		tool, args, want string
	}{
		{"css/gradient", `{"colors":["#fff","#000"]}`, `{"css":"background: linear-gradient(to right, #fff, #000);"}`},
		{"css/box-shadow", `{}`, `{"css":"box-shadow: 0px 5px 10px 0px rgba(0,0,0,0.3);"}`},
		{"css/box-shadow", `{"v_offset":0,"blur":0}`, `{"css":"box-shadow: 0px 0px 0px 0px rgba(0,0,0,0.3);"}`},
		{"css/border-radius", `{"tl":8,"br":8}`, `{"css":"border-radius: 8px 0px 8px 0px;"}`},
		{"css/glassmorphism", `{"opacity":0.5}`, `{"css":"background: rgba(255, 255, 255, 0.5);\nbackdrop-filter: blur(10px);\nborder: 1px solid rgba(255, 255, 255, 0.2);"}`},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			out, err := testutil.Call(t, byName[tt.tool], tt.args)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}

	_, err := testutil.Call(t, byName["css/gradient"], `{"colors":[]}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)
}
