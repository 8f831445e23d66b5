// Package gentool generates passwords, identifiers, sample names and machine-readable
// images (QR codes and 1D barcodes).
package gentool

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/randutil"
)

// Character classes for Password.
const (
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// PasswordPolicy selects the character classes a password draws from.
type PasswordPolicy struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Digits    bool
	Symbols   bool
}

func (p PasswordPolicy) pool() string {
	var b strings.Builder
	if p.Uppercase {
		b.WriteString(Uppercase)
	}
	if p.Lowercase {
		b.WriteString(Lowercase)
	}
	if p.Digits {
		b.WriteString(Digits)
	}
	if p.Symbols {
		b.WriteString(Symbols)
	}
	return b.String()
}

// Password draws p.Length characters uniformly from the enabled classes using crypto/rand.
func Password(p PasswordPolicy) (string, error) {
	pool := p.pool()
	if pool == "" {
		return "", toolbox.Fail(toolbox.ErrConfiguration, "must include at least one character type")
	}
	n := big.NewInt(int64(len(pool)))
	out := make([]byte, max(p.Length, 0))
	for i := range out {
		k, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", &toolbox.SystemError{Err: err}
		}
		out[i] = pool[k.Int64()]
	}
	return string(out), nil
}

// UUID returns a random RFC 4122 version 4 identifier.
func UUID() string {
	return uuid.NewString()
}

// Shuffle returns a permuted copy of items.
func Shuffle(src randutil.Source, items []string) []string {
	out := append([]string{}, items...)
	src.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Username styles.
const (
	StyleRandom   = "random"
	StyleFantasy  = "fantasy"
	StyleBusiness = "business"
)

var (
	fantasyPrefixes = []string{"dark", "shadow", "fire", "ice", "storm", "blade", "moon", "star"}
	fantasySuffixes = []string{"walker", "rider", "hunter", "mage", "lord", "keeper", "slayer"}
	firstNames      = []string{"john", "jane", "alex", "chris", "sam", "jordan", "taylor"}
	lastNames       = []string{"smith", "johnson", "williams", "brown", "jones"}
)

// Username builds a sample username. length applies to the random style only;
// any style other than random or fantasy produces a business-style name.
func Username(src randutil.Source, style string, length int) string {
	switch style {
	case StyleRandom:
		const alphabet = Lowercase + Digits
		out := make([]byte, max(length, 0))
		for i := range out {
			out[i] = alphabet[src.IntN(len(alphabet))]
		}
		return string(out)
	case StyleFantasy:
		return randutil.Pick(src, fantasyPrefixes) + randutil.Pick(src, fantasySuffixes) +
			strconv.Itoa(randutil.Between(src, 1, 999))
	default:
		return randutil.Pick(src, firstNames) + "." + randutil.Pick(src, lastNames) +
			strconv.Itoa(randutil.Between(src, 1, 99))
	}
}

// Email builds a sample address at domain. The local part is name lower-cased with
// spaces turned into dots, or "user" and a four digit number when name is empty.
func Email(src randutil.Source, name, domain string) string {
	local := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	if name == "" {
		local = "user" + strconv.Itoa(randutil.Between(src, 1000, 9999))
	}
	return local + "@" + domain
}

// Option configures the generator tools.
type Option func(*options)

type options struct {
	rand randutil.Source
}

// WithRand sets the non-cryptographic source for usernames, emails and shuffles.
// Passwords always use crypto/rand.
func WithRand(src randutil.Source) Option {
	return func(o *options) { o.rand = src }
}

type (
	PasswordArgs struct {
		Length           *int  `json:"length,omitempty" default:"16" validate:"omitempty,max=4096"`
		IncludeUppercase *bool `json:"include_uppercase,omitempty" default:"true"`
		IncludeLowercase *bool `json:"include_lowercase,omitempty" default:"true"`
		IncludeNumbers   *bool `json:"include_numbers,omitempty" default:"true"`
		IncludeSymbols   *bool `json:"include_symbols,omitempty" default:"true"`
	}
	PasswordResult struct {
		Password string `json:"password"`
	}
	ShuffleArgs struct {
		Items []string `json:"items" description:"Items to permute"`
	}
	ShuffleResult struct {
		Shuffled []string `json:"shuffled"`
	}
	UUIDArgs   struct{}
	UUIDResult struct {
		UUID string `json:"uuid"`
	}
	UsernameArgs struct {
		Style  string `json:"style,omitempty" enum:"random,fantasy,business" default:"random"`
		Length *int   `json:"length,omitempty" default:"8" validate:"omitempty,max=256"`
	}
	UsernameResult struct {
		Username string `json:"username"`
	}
	EmailArgs struct {
		Name   string `json:"name,omitempty" description:"Full name used for the local part"`
		Domain string `json:"domain,omitempty" default:"example.com"`
	}
	EmailResult struct {
		Email string `json:"email"`
	}
	QRCodeArgs struct {
		Text string `json:"text" description:"Content to encode"`
		Size *int   `json:"size,omitempty" default:"300" validate:"omitempty,min=1,max=4096"`
	}
	BarcodeArgs struct {
		Data        string `json:"data" description:"Content to encode" validate:"max=80"`
		BarcodeType string `json:"barcode_type,omitempty" enum:"code128,code39,ean13" default:"code128"`
	}
	ImageResult struct {
		Image string `json:"image" description:"PNG as a data URI"`
	}
)

func or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Tools returns the generator tools.
func Tools(opts ...Option) []toolbox.Tool {
	o := options{rand: randutil.Global()}
	for _, opt := range opts {
		opt(&o)
	}
	return []toolbox.Tool{
		toolbox.MustTool("misc/password", "Generate a random password from selected character classes",
			func(_ context.Context, a PasswordArgs) (PasswordResult, error) {
				pw, err := Password(PasswordPolicy{
					Length:    or(a.Length, 16),
					Uppercase: or(a.IncludeUppercase, true),
					Lowercase: or(a.IncludeLowercase, true),
					Digits:    or(a.IncludeNumbers, true),
					Symbols:   or(a.IncludeSymbols, true),
				})
				return PasswordResult{Password: pw}, err
			}),
		toolbox.MustTool("misc/shuffle", "Shuffle a list of items",
			func(_ context.Context, a ShuffleArgs) (ShuffleResult, error) {
				return ShuffleResult{Shuffled: Shuffle(o.rand, a.Items)}, nil
			}, toolbox.WithStrict()),
		toolbox.MustTool("misc/uuid", "Generate a random UUID",
			func(_ context.Context, _ UUIDArgs) (UUIDResult, error) {
				return UUIDResult{UUID: UUID()}, nil
			}, toolbox.WithTags(toolbox.TagQuery)),
		toolbox.MustTool("misc/qrcode", "Render text as a QR code PNG",
			func(_ context.Context, a QRCodeArgs) (ImageResult, error) {
				img, err := QRCode(a.Text, or(a.Size, DefaultQRSize))
				return ImageResult{Image: img}, err
			}),
		toolbox.MustTool("generate/username", "Generate a sample username",
			func(_ context.Context, a UsernameArgs) (UsernameResult, error) {
				style := a.Style
				if style == "" {
					style = StyleRandom
				}
				return UsernameResult{Username: Username(o.rand, style, or(a.Length, 8))}, nil
			}),
		toolbox.MustTool("generate/email", "Generate a sample email address",
			func(_ context.Context, a EmailArgs) (EmailResult, error) {
				domain := a.Domain
				if domain == "" {
					domain = "example.com"
				}
				return EmailResult{Email: Email(o.rand, a.Name, domain)}, nil
			}),
		toolbox.MustTool("generate/barcode", "Render data as a 1D barcode PNG",
			func(_ context.Context, a BarcodeArgs) (ImageResult, error) {
				kind := a.BarcodeType
				if kind == "" {
					kind = Code128
				}
				img, err := Barcode(a.Data, kind)
				return ImageResult{Image: img}, err
			}),
	}
}
