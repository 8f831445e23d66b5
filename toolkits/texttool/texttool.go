// Package texttool provides text transformation tools: case conversion, counting,
// lorem ipsum, whitespace collapsing, Base64 and URL percent-encoding.
package texttool

import (
	"context"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skosovsky/toolbox"
)

// Case variants accepted by ConvertCase.
const (
	CaseUpper    = "upper"
	CaseLower    = "lower"
	CaseTitle    = "title"
	CaseSentence = "sentence"
	CaseCamel    = "camel"
	CaseSnake    = "snake"
	CaseKebab    = "kebab"
)

// LoremParagraph is the fixed paragraph repeated by Lorem.
const LoremParagraph = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor " +
	"incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation " +
	"ullamco laboris nisi ut aliquip ex ea commodo consequat."

// ConvertCase applies the named case variant. Unknown variants return text unchanged.
func ConvertCase(text, variant string) string {
	switch variant {
	case CaseUpper:
		return strings.ToUpper(text)
	case CaseLower:
		return strings.ToLower(text)
	case CaseTitle:
		return cases.Title(language.Und).String(text)
	case CaseSentence:
		parts := strings.Split(text, ". ")
		for i, p := range parts {
			parts[i] = capitalize(p)
		}
		return strings.Join(parts, ". ")
	case CaseCamel:
		words := strings.FieldsFunc(text, func(r rune) bool {
			return r == '-' || r == '_' || isSpace(r)
		})
		if len(words) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString(strings.ToLower(words[0]))
		for _, w := range words[1:] {
			b.WriteString(capitalize(w))
		}
		return b.String()
	case CaseSnake:
		return strings.ToLower(strings.NewReplacer(" ", "_", "-", "_").Replace(text))
	case CaseKebab:
		return strings.ToLower(strings.NewReplacer(" ", "-", "_", "-").Replace(text))
	default:
		return text
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Counts is the result of WordCount.
type Counts struct {
	Words              int `json:"words"`
	Characters         int `json:"characters"`
	CharactersNoSpaces int `json:"characters_no_spaces"`
	Lines              int `json:"lines"`
}

// WordCount counts whitespace-separated words, Unicode characters, characters other
// than the ASCII space, and newline-separated lines.
func WordCount(text string) Counts {
	chars := utf8.RuneCountInString(text)
	return Counts{
		Words:              len(strings.Fields(text)),
		Characters:         chars,
		CharactersNoSpaces: chars - strings.Count(text, " "),
		Lines:              strings.Count(text, "\n") + 1,
	}
}

// Lorem repeats LoremParagraph n times separated by a blank line. n <= 0 yields "".
func Lorem(n int) string {
	if n <= 0 {
		return ""
	}
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = LoremParagraph
	}
	return strings.Join(paragraphs, "\n\n")
}

// CollapseWhitespace trims text and replaces every whitespace run with a single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Base64Encode encodes text with the standard padded alphabet.
func Base64Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Base64Decode decodes standard padded Base64. Surrounding whitespace is ignored.
// It fails with toolbox.ErrInvalidEncoding on malformed input or non-UTF-8 output.
func Base64Decode(text string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return "", toolbox.Fail(toolbox.ErrInvalidEncoding, "invalid Base64 string: %v", err)
	}
	if !utf8.Valid(raw) {
		return "", toolbox.Fail(toolbox.ErrInvalidEncoding, "decoded Base64 is not valid UTF-8 text")
	}
	return string(raw), nil
}

const upperHex = "0123456789ABCDEF"

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// URLEncode percent-encodes every byte of text except unreserved characters
// (letters, digits and -_.~), using upper-case hex digits.
func URLEncode(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := range len(text) {
		c := text[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// URLDecode decodes %XX sequences. It never fails: malformed sequences are kept
// verbatim, '+' is not treated as a space, and invalid UTF-8 in the decoded bytes
// is replaced with U+FFFD.
func URLDecode(text string) string {
	if !strings.Contains(text, "%") {
		return text
	}
	buf := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '%' && i+2 < len(text) {
			hi, ok1 := unhex(text[i+1])
			lo, ok2 := unhex(text[i+2])
			if ok1 && ok2 {
				buf = append(buf, hi<<4|lo)
				i += 2
				continue
			}
		}
		buf = append(buf, text[i])
	}
	return strings.ToValidUTF8(string(buf), "�")
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Tool argument and result types.
type (
	ConvertArgs struct {
		Text     string `json:"text" description:"Text to transform"`
		CaseType string `json:"case_type" description:"One of upper, lower, title, sentence, camel, snake, kebab; anything else returns the text unchanged"`
	}
	TextArgs struct {
		Text string `json:"text" description:"Input text"`
	}
	LoremArgs struct {
		Paragraphs *int `json:"paragraphs,omitempty" description:"Number of paragraphs; negative values yield none" default:"3" validate:"omitempty,max=1000"`
	}
	CodecArgs struct {
		Text   string `json:"text" description:"Input text"`
		Encode *bool  `json:"encode,omitempty" description:"true to encode, false to decode" default:"true"`
	}
	Result struct {
		Result string `json:"result"`
	}
)

func encodeMode(p *bool) bool { return p == nil || *p }

// Tools returns the text tools.
func Tools() []toolbox.Tool {
	return []toolbox.Tool{
		toolbox.MustTool("text/convert", "Convert text between letter cases",
			func(_ context.Context, a ConvertArgs) (Result, error) {
				return Result{Result: ConvertCase(a.Text, a.CaseType)}, nil
			}, toolbox.WithStrict()),
		toolbox.MustTool("text/wordcount", "Count words, characters and lines",
			func(_ context.Context, a TextArgs) (Counts, error) {
				return WordCount(a.Text), nil
			}),
		toolbox.MustTool("text/lorem", "Generate lorem ipsum paragraphs",
			func(_ context.Context, a LoremArgs) (Result, error) {
				n := 3
				if a.Paragraphs != nil {
					n = *a.Paragraphs
				}
				return Result{Result: Lorem(n)}, nil
			}),
		toolbox.MustTool("text/whitespace", "Collapse runs of whitespace into single spaces",
			func(_ context.Context, a TextArgs) (Result, error) {
				return Result{Result: CollapseWhitespace(a.Text)}, nil
			}),
		toolbox.MustTool("text/base64", "Encode or decode Base64",
			func(_ context.Context, a CodecArgs) (Result, error) {
				if encodeMode(a.Encode) {
					return Result{Result: Base64Encode(a.Text)}, nil
				}
				s, err := Base64Decode(a.Text)
				return Result{Result: s}, err
			}),
		toolbox.MustTool("text/url-encode", "Percent-encode or decode text for URLs",
			func(_ context.Context, a CodecArgs) (Result, error) {
				if encodeMode(a.Encode) {
					return Result{Result: URLEncode(a.Text)}, nil
				}
				return Result{Result: URLDecode(a.Text)}, nil
			}),
	}
}
