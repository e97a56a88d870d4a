package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

/*
Responsibilities
- Parse HTML into a DOM tree
- Flatten the visible text
- Collect outbound link hrefs in document order
- Extract contacts: normalized e-mails and E.164 phones

Extraction Strategy
- E-mails come from three unioned sources: the visible text, mailto
  hrefs, and cloaked addresses assembled inside inline scripts
- Phones come from four: regional text candidates, international
  (+-prefixed) candidates, IDD-prefixed candidates, and tel hrefs
- Every candidate is validated before it may appear in a result

All routines are pure over their inputs; the patterns and tables they
consult are package-level constants.
*/

// Parse builds a DOM from decoded page text.
func Parse(text string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, &ExtractionError{
			Message: err.Error(),
			Cause:   ErrCauseNotHTML,
		}
	}
	return doc, nil
}
