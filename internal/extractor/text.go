package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// invisibleElements are skipped entirely when flattening page text.
var invisibleElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

// VisibleText flattens the document into the text a reader would see:
// each text node trimmed, script/style subtrees skipped, fragments
// joined with single spaces.
func VisibleText(doc *goquery.Document) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, invisible := invisibleElements[n.Data]; invisible {
				return
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	for _, root := range doc.Nodes {
		walk(root)
	}

	return strings.Join(parts, " ")
}

// scriptBodies returns the raw text of every inline <script> in
// document order.
func scriptBodies(doc *goquery.Document) []string {
	var bodies []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); text != "" {
			bodies = append(bodies, text)
		}
	})
	return bodies
}
