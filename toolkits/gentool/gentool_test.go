package gentool

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/randutil"
	"github.com/skosovsky/toolbox/testutil"
)

func TestPassword(t *testing.T) {
	policies := []PasswordPolicy{
		{Length: 16, Uppercase: true, Lowercase: true, Digits: true, Symbols: true},
		{Length: 40, Digits: true},
		{Length: 8, Symbols: true},
		{Length: 1, Uppercase: true, Lowercase: true},
		{Length: 0, Lowercase: true},
	}
	for _, p := range policies {
		pw, err := Password(p)
		require.NoError(t, err)
		assert.Len(t, pw, p.Length)
		pool := p.pool()
		for _, r := range pw {
			assert.True(t, strings.ContainsRune(pool, r), "unexpected %q", r)
		}
	}
}

func TestPassword_NoClasses(t *testing.T) {
	_, err := Password(PasswordPolicy{Length: 10})
	require.ErrorIs(t, err, toolbox.ErrConfiguration)
	assert.True(t, toolbox.IsClientError(err))
}

func TestShuffle_PreservesMultiset(t *testing.T) {
	src := randutil.NewSeeded(7)
	in := []string{"a", "b", "b", "c", "d", "e", "e", "e"}
	for range 50 {
		out := Shuffle(src, in)
		require.Len(t, out, len(in))
		a, b := slices.Clone(in), slices.Clone(out)
		slices.Sort(a)
		slices.Sort(b)
		assert.Equal(t, a, b)
	}
	assert.Equal(t, []string{"a", "b", "b", "c", "d", "e", "e", "e"}, in, "input must not be modified")
	assert.Empty(t, Shuffle(src, nil))
}

func TestUUID(t *testing.T) {
	id, err := uuid.Parse(UUID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.NotEqual(t, UUID(), UUID())
}

func TestUsername(t *testing.T) {
	src := randutil.NewSeeded(1)
	assert.Regexp(t, `^[a-z0-9]{12}$`, Username(src, StyleRandom, 12))

	fantasy := regexp.MustCompile(`^(dark|shadow|fire|ice|storm|blade|moon|star)(walker|rider|hunter|mage|lord|keeper|slayer)([1-9][0-9]{0,2})$`)
	business := regexp.MustCompile(`^(john|jane|alex|chris|sam|jordan|taylor)\.(smith|johnson|williams|brown|jones)([1-9][0-9]?)$`)
	for range 100 {
		assert.Regexp(t, fantasy, Username(src, StyleFantasy, 0))
		assert.Regexp(t, business, Username(src, StyleBusiness, 0))
	}
	assert.Regexp(t, business, Username(src, "anything", 0))
}

func TestEmail(t *testing.T) {
	src := randutil.NewSeeded(1)
	assert.Equal(t, "jane.q.doe@corp.io", Email(src, "Jane Q Doe", "corp.io"))
	assert.Regexp(t, `^user[1-9][0-9]{3}@example\.com$`, Email(src, "", "example.com"))
}

func decodeDataURI(t *testing.T, uri string) {
	t.Helper()
	payload, ok := strings.CutPrefix(uri, "data:image/png;base64,")
	require.True(t, ok, "missing data URI prefix")
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestQRCode(t *testing.T) {
	uri, err := QRCode("https://example.com", 300)
	require.NoError(t, err)
	decodeDataURI(t, uri)

	// Smaller than the symbol itself is raised to one pixel per module.
	uri, err = QRCode("hello", 1)
	require.NoError(t, err)
	decodeDataURI(t, uri)
}

func TestBarcode(t *testing.T) {
	for _, tc := range []struct{ kind, data string }{
		{Code128, "ABC-123"},
		{Code39, "HELLO"},
		{EAN13, "590123412345"},
	} {
		uri, err := Barcode(tc.data, tc.kind)
		require.NoError(t, err, tc.kind)
		decodeDataURI(t, uri)
	}
}

func TestBarcode_Errors(t *testing.T) {
	_, err := Barcode("ünïcode", Code128)
	require.ErrorIs(t, err, toolbox.ErrEncoding)
	_, err = Barcode("12AB", EAN13)
	require.ErrorIs(t, err, toolbox.ErrEncoding)
	_, err = Barcode("x", "pdf417")
	require.ErrorIs(t, err, toolbox.ErrEncoding)
}

func TestBarcode_LengthCap(t *testing.T) {
	uri, err := Barcode(strings.Repeat("A", MaxBarcodeLength), Code39)
	require.NoError(t, err)
	decodeDataURI(t, uri)

	for _, kind := range []string{Code39, Code128} {
		_, err = Barcode(strings.Repeat("A", 20000), kind)
		require.ErrorIs(t, err, toolbox.ErrEncoding, kind)
		assert.Contains(t, err.Error(), "at most 80 allowed")
	}
}

func TestTools(t *testing.T) {
	byName := map[string]toolbox.Tool{}
	for _, tl := range Tools(WithRand(randutil.NewSeeded(3))) {
		byName[tl.Name()] = tl
	}
	assert.True(t, toolbox.HasTag(byName["misc/uuid"], toolbox.TagQuery))

	out, err := testutil.Call(t, byName["misc/password"], `{"length":24,"include_symbols":false}`)
	require.NoError(t, err)
	var pw PasswordResult
	require.NoError(t, json.Unmarshal(out, &pw))
	assert.Regexp(t, `^[A-Za-z0-9]{24}$`, pw.Password)

	out, err = testutil.Call(t, byName["misc/password"], `{}`)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &pw))
	assert.Len(t, pw.Password, 16)

	_, err = testutil.Call(t, byName["misc/password"],
		`{"include_uppercase":false,"include_lowercase":false,"include_numbers":false,"include_symbols":false}`)
	require.ErrorIs(t, err, toolbox.ErrConfiguration)

	out, err = testutil.Call(t, byName["misc/uuid"], ``)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"uuid"`)

	out, err = testutil.Call(t, byName["generate/username"], `{}`)
	require.NoError(t, err)
	var u UsernameResult
	require.NoError(t, json.Unmarshal(out, &u))
	assert.Regexp(t, `^[a-z0-9]{8}$`, u.Username)

	_, err = testutil.Call(t, byName["generate/username"], `{"style":"elvish"}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)

	out, err = testutil.Call(t, byName["generate/email"], `{"name":"Ada Lovelace"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"ada.lovelace@example.com"}`, string(out))

	out, err = testutil.Call(t, byName["misc/shuffle"], `{"items":["x"]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shuffled":["x"]}`, string(out))

	out, err = testutil.Call(t, byName["generate/barcode"], `{"data":"12345"}`)
	require.NoError(t, err)
	var img ImageResult
	require.NoError(t, json.Unmarshal(out, &img))
	decodeDataURI(t, img.Image)

	_, err = testutil.Call(t, byName["generate/barcode"], `{"data":"`+strings.Repeat("9", 81)+`","barcode_type":"code39"}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)
	assert.Contains(t, err.Error(), "data must be at most 80")

	_, err = testutil.Call(t, byName["misc/qrcode"], `{"text":"hi","size":0}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)
}
