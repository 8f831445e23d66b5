// Package codetool formats and minifies JSON documents.
package codetool

import (
	"bytes"
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/skosovsky/toolbox"
)

// DefaultIndent is the indent width used when none is given.
const DefaultIndent = 2

// FormatJSON re-indents src with indent spaces per level. indent 0 produces compact output.
func FormatJSON(src string, indent int) (string, error) {
	data := []byte(src)
	if !json.Valid(data) {
		return "", toolbox.Fail(toolbox.ErrInvalidJSON, "invalid JSON")
	}
	var buf bytes.Buffer
	var err error
	if indent <= 0 {
		err = json.Compact(&buf, data)
	} else {
		err = json.Indent(&buf, data, "", strings.Repeat(" ", indent))
	}
	if err != nil {
		return "", toolbox.Fail(toolbox.ErrInvalidJSON, "invalid JSON: %v", err)
	}
	return buf.String(), nil
}

type (
	FormatArgs struct {
		JSONStr string `json:"json_str" description:"JSON document to format"`
		Indent  *int   `json:"indent,omitempty" description:"Spaces per level; 0 minifies" default:"2" validate:"omitempty,min=0,max=8"`
	}
	Result struct {
		Result string `json:"result"`
	}
)

// Tools returns the code tools.
func Tools() []toolbox.Tool {
	return []toolbox.Tool{
		toolbox.MustTool("code/json-format", "Pretty-print or minify a JSON document",
			func(_ context.Context, a FormatArgs) (Result, error) {
				indent := DefaultIndent
				if a.Indent != nil {
					indent = *a.Indent
				}
				out, err := FormatJSON(a.JSONStr, indent)
				return Result{Result: out}, err
			}),
	}
}
