package extractor_test

import (
	"sort"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/site-parser/internal/extractor"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := extractor.Parse(html)
	require.NoError(t, err)
	return doc
}

func TestEmails_FromText(t *testing.T) {
	doc := mustParse(t, `<html><body><p>Write to Root@Example.com today.</p></body></html>`)
	text := extractor.VisibleText(doc)

	emails := extractor.Emails(text, doc, nil)
	assert.Equal(t, []string{"root@example.com"}, emails)
}

func TestEmails_StripsSurroundingPunctuation(t *testing.T) {
	doc := mustParse(t, `<html><body><p>(info@example.com), "sales@example.com".</p></body></html>`)
	text := extractor.VisibleText(doc)

	emails := extractor.Emails(text, doc, nil)
	sort.Strings(emails)
	assert.Equal(t, []string{"info@example.com", "sales@example.com"}, emails)
}

func TestEmails_FromMailto(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<a href="mailto:sales@example.com?subject=Hello">mail</a>
		<a href="mailto:first@example.com,second@example.com">pair</a>
		<a href="mailto:good2%40example.com">encoded</a>
	</body></html>`)
	text := extractor.VisibleText(doc)

	emails := extractor.Emails(text, doc, nil)
	sort.Strings(emails)
	assert.Equal(t, []string{
		"first@example.com",
		"good2@example.com",
		"sales@example.com",
	}, emails)
}

func TestEmails_InvalidCandidatesFiltered(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<p>good@example.com and a@b..com</p>
		<a href="mailto:good2%40example.com">ok</a>
		<a href="mailto:agmalis%26gmail.com">broken</a>
	</body></html>`)
	text := extractor.VisibleText(doc)

	emails := extractor.Emails(text, doc, nil)
	sort.Strings(emails)
	assert.Equal(t, []string{"good2@example.com", "good@example.com"}, emails)
}

func TestEmails_DomainAllowlist(t *testing.T) {
	doc := mustParse(t, `<html><body><p>
		good@gmail.com good@mail.ru nope@yahoo.com admin@sub.mail.ru
	</p></body></html>`)
	text := extractor.VisibleText(doc)

	emails := extractor.Emails(text, doc, []string{"gmail.com", "mail.ru"})
	sort.Strings(emails)
	assert.Equal(t, []string{
		"admin@sub.mail.ru",
		"good@gmail.com",
		"good@mail.ru",
	}, emails)
}

func TestEmails_Deduplicated(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<p>Sales@Example.com</p>
		<a href="mailto:sales@example.com">mail</a>
	</body></html>`)
	text := extractor.VisibleText(doc)

	emails := extractor.Emails(text, doc, nil)
	assert.Equal(t, []string{"sales@example.com"}, emails)
}
