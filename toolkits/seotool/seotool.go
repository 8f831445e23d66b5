// Package seotool renders HTML head snippets for search engines and social previews.
// Every interpolated value is HTML-escaped.
package seotool

import (
	"context"
	"html"
	"strings"

	"github.com/skosovsky/toolbox"
)

// Meta holds the inputs of MetaTags.
type Meta struct {
	Title       string
	Description string
	Keywords    []string
	Author      string
}

// MetaTags renders the title, description, keywords and optional author tags.
func MetaTags(m Meta) string {
	var b strings.Builder
	b.WriteString("<title>" + html.EscapeString(m.Title) + "</title>\n")
	b.WriteString(`<meta name="description" content="` + html.EscapeString(m.Description) + `">` + "\n")
	b.WriteString(`<meta name="keywords" content="` + html.EscapeString(strings.Join(m.Keywords, ", ")) + `">`)
	if m.Author != "" {
		b.WriteString("\n" + `<meta name="author" content="` + html.EscapeString(m.Author) + `">`)
	}
	return b.String()
}

// OpenGraph holds the inputs of OpenGraphTags.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	URL         string
}

// OpenGraphTags renders og:title and og:description, plus og:image and og:url when set.
func OpenGraphTags(og OpenGraph) string {
	lines := []string{
		property("og:title", og.Title),
		property("og:description", og.Description),
	}
	if og.Image != "" {
		lines = append(lines, property("og:image", og.Image))
	}
	if og.URL != "" {
		lines = append(lines, property("og:url", og.URL))
	}
	return strings.Join(lines, "\n")
}

func property(name, content string) string {
	return `<meta property="` + name + `" content="` + html.EscapeString(content) + `">`
}

type (
	MetaTagsArgs struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
		Author      string   `json:"author,omitempty"`
	}
	OpenGraphArgs struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       string `json:"image,omitempty" description:"Absolute image URL" validate:"omitempty,url"`
		URL         string `json:"url,omitempty" description:"Canonical page URL" validate:"omitempty,url"`
	}
	Result struct {
		HTML string `json:"html"`
	}
)

// Tools returns the SEO tools.
func Tools() []toolbox.Tool {
	return []toolbox.Tool{
		toolbox.MustTool("seo/meta-tags", "Generate HTML meta tags",
			func(_ context.Context, a MetaTagsArgs) (Result, error) {
				return Result{HTML: MetaTags(Meta(a))}, nil
			}),
		toolbox.MustTool("seo/open-graph", "Generate Open Graph meta tags",
			func(_ context.Context, a OpenGraphArgs) (Result, error) {
				return Result{HTML: OpenGraphTags(OpenGraph(a))}, nil
			}),
	}
}
