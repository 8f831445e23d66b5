package gentool

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"unicode/utf8"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"

	"github.com/skosovsky/toolbox"
)

// Barcode symbologies accepted by Barcode.
const (
	Code128 = "code128"
	Code39  = "code39"
	EAN13   = "ean13"
)

// MaxBarcodeLength caps barcode input. The image width grows linearly with it.
const MaxBarcodeLength = 80

// DefaultQRSize is the QR code edge length in pixels when none is given.
const DefaultQRSize = 300

const (
	barModuleWidth = 3
	barHeight      = 120
	quietZone      = 10
)

// QRCode renders text as a square QR code of roughly size pixels and returns it as a PNG data URI.
// The image is never smaller than one pixel per module.
func QRCode(text string, size int) (string, error) {
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return "", toolbox.Fail(toolbox.ErrEncoding, "qr: %v", err)
	}
	size = max(size, code.Bounds().Dx())
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return "", toolbox.Fail(toolbox.ErrEncoding, "qr: %v", err)
	}
	return pngDataURI(scaled)
}

// Barcode renders data in the named symbology and returns it as a PNG data URI.
// Input the symbology cannot represent, or longer than MaxBarcodeLength, fails with ErrEncoding.
func Barcode(data, kind string) (string, error) {
	if n := utf8.RuneCountInString(data); n > MaxBarcodeLength {
		return "", toolbox.Fail(toolbox.ErrEncoding, "barcode data is %d characters, at most %d allowed", n, MaxBarcodeLength)
	}
	var (
		code barcode.Barcode
		err  error
	)
	switch kind {
	case Code128:
		code, err = code128.Encode(data)
	case Code39:
		code, err = code39.Encode(data, false, true)
	case EAN13:
		if len(data) != 12 && len(data) != 13 {
			return "", toolbox.Fail(toolbox.ErrEncoding, "ean13: expected 12 or 13 digits, got %d", len(data))
		}
		code, err = ean.Encode(data)
	default:
		return "", toolbox.Fail(toolbox.ErrEncoding, "unsupported barcode type %q", kind)
	}
	if err != nil {
		return "", toolbox.Fail(toolbox.ErrEncoding, "%s: %v", kind, err)
	}
	scaled, err := barcode.Scale(code, code.Bounds().Dx()*barModuleWidth, barHeight)
	if err != nil {
		return "", toolbox.Fail(toolbox.ErrEncoding, "%s: %v", kind, err)
	}
	return pngDataURI(withQuietZone(scaled))
}

// withQuietZone pads img with a white margin so scanners can find the symbol edges.
func withQuietZone(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+2*quietZone, b.Dy()+2*quietZone))
	for i := range out.Pix {
		out.Pix[i] = 0xff
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X+quietZone, y-b.Min.Y+quietZone, img.At(x, y))
		}
	}
	return out
}

func pngDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", &toolbox.SystemError{Err: err}
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
