// Package split extracts an ordered sequence of FAQ sections from
// heading-structured HTML.
package split

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"faqforge/internal/domain"
	"faqforge/internal/domain/models"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Split parses rawHTML and emits one FaqSection per heading in document
// order. A section's body is every sibling node between its heading and the
// next heading of any level; encountering a heading at level L closes any
// open section at level >= L, so output is a flat sequence annotated with
// level. A document without headings yields exactly one level-0 section
// holding the full body.
func Split(rawHTML string, dir models.Direction) ([]models.FaqSection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, &domain.SplitError{Message: "parse html", Err: err}
	}

	slugs := NewSlugSet()
	headings := doc.Find(headingSelector)

	if headings.Length() == 0 {
		body, err := doc.Find("body").Html()
		if err != nil {
			return nil, &domain.SplitError{Message: "extract document body", Err: err}
		}
		return []models.FaqSection{{
			Slug:      slugs.Claim(""),
			Level:     0,
			Heading:   "",
			HTML:      strings.TrimSpace(body),
			Direction: dir,
		}}, nil
	}

	sections := make([]models.FaqSection, 0, headings.Length())
	headings.Each(func(_ int, h *goquery.Selection) {
		node := h.Nodes[0]
		heading := strings.TrimSpace(h.Text())

		var body strings.Builder
		for n := node.NextSibling; n != nil; n = n.NextSibling {
			if headingLevel(n) > 0 {
				break
			}
			if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
				continue
			}
			// strings.Builder never returns a write error
			_ = html.Render(&body, n)
		}

		sections = append(sections, models.FaqSection{
			Slug:      slugs.Claim(Slugify(heading)),
			Level:     headingLevel(node),
			Heading:   heading,
			HTML:      body.String(),
			Direction: dir,
		})
	})

	return sections, nil
}

// headingLevel returns 1-6 for h1-h6 element nodes and 0 for anything else.
func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	if n.Data[1] < '1' || n.Data[1] > '6' {
		return 0
	}
	return int(n.Data[1] - '0')
}
