package evidence

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlToMarkdown condenses an HTML document into Markdown: headings, list
// items, and paragraph text survive; navigation chrome, scripts, and styling
// are dropped. The output feeds prompt snippets, so fidelity matters less
// than compactness.
func htmlToMarkdown(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, footer, header, iframe, svg, form").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}

	var sb strings.Builder
	body.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		// Skip nodes whose text is fully covered by a nested match (e.g. a
		// li containing only a p) to avoid duplicating text.
		if s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
			return c.Is("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote")
		}).Length() > 0 {
			return
		}

		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}

		switch goquery.NodeName(s) {
		case "h1":
			fmt.Fprintf(&sb, "# %s\n\n", text)
		case "h2":
			fmt.Fprintf(&sb, "## %s\n\n", text)
		case "h3", "h4", "h5", "h6":
			fmt.Fprintf(&sb, "### %s\n\n", text)
		case "li":
			fmt.Fprintf(&sb, "- %s\n", text)
		case "pre":
			fmt.Fprintf(&sb, "```\n%s\n```\n\n", text)
		case "blockquote":
			fmt.Fprintf(&sb, "> %s\n\n", text)
		default:
			fmt.Fprintf(&sb, "%s\n\n", text)
		}
	})

	markdown := strings.TrimSpace(sb.String())
	if markdown == "" {
		// Fallback for pages with no block structure.
		markdown = strings.Join(strings.Fields(body.Text()), " ")
	}
	return markdown
}

// pageTitle extracts the <title> of a document, whitespace-normalized.
func pageTitle(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
