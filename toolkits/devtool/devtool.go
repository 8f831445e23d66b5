// Package devtool provides developer utilities: regex testing, positional line diff,
// message digests and epoch timestamp conversion.
package devtool

import (
	"context"
	"crypto/md5"  //nolint:gosec // offered as a checksum, not for security
	"crypto/sha1" //nolint:gosec // offered as a checksum, not for security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"regexp"
	"strings"
	"time"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/isodate"
)

// RegexResult reports how a pattern matched a text.
type RegexResult struct {
	IsMatch    bool       `json:"is_match"`
	Matches    []string   `json:"matches"`
	MatchCount int        `json:"match_count"`
	Groups     [][]string `json:"groups,omitempty"`
}

// RegexTest compiles pattern with flags (any of i, m, s) and returns every
// non-overlapping match in text. Groups lists capture groups per match when the
// pattern has any.
func RegexTest(pattern, text, flags string) (RegexResult, error) {
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(prefix.String(), f) {
				prefix.WriteRune(f)
			}
		default:
			return RegexResult{}, toolbox.Fail(toolbox.ErrInvalidPattern, "unsupported flag %q", f)
		}
	}
	src := pattern
	if prefix.Len() > 0 {
		src = "(?" + prefix.String() + ")" + pattern
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return RegexResult{}, toolbox.Fail(toolbox.ErrInvalidPattern, "invalid regex: %v", err)
	}

	found := re.FindAllStringSubmatch(text, -1)
	res := RegexResult{
		IsMatch:    len(found) > 0,
		Matches:    make([]string, len(found)),
		MatchCount: len(found),
	}
	for i, m := range found {
		res.Matches[i] = m[0]
		if re.NumSubexp() > 0 {
			res.Groups = append(res.Groups, m[1:])
		}
	}
	return res, nil
}

// LineDiff is one differing line.
type LineDiff struct {
	Line  int    `json:"line"`
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// Diff compares a and b line by line at equal positions. The shorter side is padded
// with empty lines. It does not align insertions or deletions: a line inserted near
// the top of b reports every following line as different.
func Diff(a, b string) []LineDiff {
	la, lb := strings.Split(a, "\n"), strings.Split(b, "\n")
	out := []LineDiff{}
	for i := range max(len(la), len(lb)) {
		var x, y string
		if i < len(la) {
			x = la[i]
		}
		if i < len(lb) {
			y = lb[i]
		}
		if x != y {
			out = append(out, LineDiff{Line: i + 1, Text1: x, Text2: y})
		}
	}
	return out
}

var hashes = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Hash returns the lower-case hex digest of text. algorithm is matched case-insensitively
// against md5, sha1, sha256 and sha512.
func Hash(text, algorithm string) (string, error) {
	newHash, ok := hashes[strings.ToLower(algorithm)]
	if !ok {
		return "", toolbox.Fail(toolbox.ErrUnsupportedAlgorithm, "unsupported algorithm %q", algorithm)
	}
	h := newHash()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HumanLayout is the human-readable timestamp layout.
const HumanLayout = "2006-01-02 15:04:05"

// Timestamp describes one instant three ways.
type Timestamp struct {
	Timestamp     int64  `json:"timestamp"`
	Datetime      string `json:"datetime"`
	HumanReadable string `json:"human_readable"`
}

// NewTimestamp describes t in UTC.
func NewTimestamp(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{
		Timestamp:     t.Unix(),
		Datetime:      t.Format(time.RFC3339),
		HumanReadable: t.Format(HumanLayout),
	}
}

// ConvertTimestamp describes epoch when it is set, else dateString when it is not empty,
// else now.
func ConvertTimestamp(epoch *int64, dateString string, now time.Time) (Timestamp, error) {
	switch {
	case epoch != nil:
		ts := NewTimestamp(time.Unix(*epoch, 0))
		ts.Timestamp = *epoch
		return ts, nil
	case dateString != "":
		t, err := isodate.Parse(dateString)
		if err != nil {
			return Timestamp{}, err
		}
		return NewTimestamp(t), nil
	default:
		return NewTimestamp(now), nil
	}
}

// Option configures the developer tools.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the time source used when a timestamp request names no instant.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type (
	RegexArgs struct {
		Pattern string `json:"pattern" description:"RE2 regular expression"`
		Text    string `json:"text"`
		Flags   string `json:"flags,omitempty" description:"Any of i (ignore case), m (multi-line), s (dot matches newline)"`
	}
	DiffArgs struct {
		Text1 string `json:"text1"`
		Text2 string `json:"text2"`
	}
	DiffResult struct {
		Differences      []LineDiff `json:"differences"`
		TotalDifferences int        `json:"total_differences"`
	}
	HashArgs struct {
		Text      string `json:"text"`
		Algorithm string `json:"algorithm,omitempty" description:"md5, sha1, sha256 or sha512" default:"sha256"`
	}
	HashResult struct {
		Hash string `json:"hash"`
	}
	TimestampArgs struct {
		Timestamp  *int64 `json:"timestamp,omitempty" description:"Unix seconds"`
		DateString string `json:"date_string,omitempty" description:"ISO-8601 date or date-time"`
	}
)

// Tools returns the developer tools.
func Tools(opts ...Option) []toolbox.Tool {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return []toolbox.Tool{
		toolbox.MustTool("dev/regex-test", "Test a regular expression against text",
			func(_ context.Context, a RegexArgs) (RegexResult, error) {
				return RegexTest(a.Pattern, a.Text, a.Flags)
			}),
		toolbox.MustTool("dev/diff", "Compare two texts line by line",
			func(_ context.Context, a DiffArgs) (DiffResult, error) {
				d := Diff(a.Text1, a.Text2)
				return DiffResult{Differences: d, TotalDifferences: len(d)}, nil
			}, toolbox.WithStrict()),
		toolbox.MustTool("dev/hash", "Compute a message digest",
			func(_ context.Context, a HashArgs) (HashResult, error) {
				alg := a.Algorithm
				if alg == "" {
					alg = "sha256"
				}
				h, err := Hash(a.Text, alg)
				return HashResult{Hash: h}, err
			}),
		toolbox.MustTool("dev/timestamp", "Convert between Unix time and ISO-8601",
			func(_ context.Context, a TimestampArgs) (Timestamp, error) {
				return ConvertTimestamp(a.Timestamp, a.DateString, o.now())
			}, toolbox.WithTags(toolbox.TagQuery)),
	}
}
