package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonPageSchemes are hrefs that can never resolve to a crawlable page.
var nonPageSchemes = map[string]struct{}{
	"mailto":     {},
	"tel":        {},
	"javascript": {},
	"data":       {},
}

// Links collects the href of every <a> and <area> with a non-empty
// trimmed value, preserving document order. No filtering happens here;
// the scheduler decides what to follow.
func Links(doc *goquery.Document) []string {
	var links []string
	doc.Find("a, area").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, href)
	})
	return links
}

// IsParseableHref reports whether an href could plausibly address a
// page: parseable, and not a mailto/tel/javascript/data link.
func IsParseableHref(href string) bool {
	lowered := strings.ToLower(strings.TrimSpace(href))
	if lowered == "" {
		return false
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return false
	}
	if parsed.Scheme != "" {
		if _, nonPage := nonPageSchemes[parsed.Scheme]; nonPage {
			return false
		}
	}
	return true
}
