package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcnijman/go-emailaddress"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

const emailSurroundingPunct = ".,;:()[]<>\"'"

// Emails returns the normalized, validated e-mail addresses found in
// the page: plain-text matches, mailto hrefs, and cloaked addresses
// assembled in inline scripts. When allowlist is non-empty, only
// addresses whose domain equals a suffix, or ends with "." + suffix,
// survive.
func Emails(text string, doc *goquery.Document, allowlist []string) []string {
	seen := make(map[string]struct{})
	var emails []string

	keep := func(candidate string) {
		normalized, ok := normalizeEmail(candidate)
		if !ok {
			return
		}
		if !domainAllowed(normalized, allowlist) {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		emails = append(emails, normalized)
	}

	for _, match := range emailPattern.FindAllString(text, -1) {
		keep(strings.Trim(match, emailSurroundingPunct))
	}

	if doc != nil {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
				return
			}
			if address := parseMailto(href); address != "" {
				keep(address)
			}
		})

		for _, candidate := range cloakedEmailCandidates(doc) {
			keep(candidate)
		}
	}

	return emails
}

// parseMailto extracts the first address of a mailto href: everything
// after the colon, up to the first "?", URL-decoded, first
// comma-separated entry.
func parseMailto(href string) string {
	_, raw, ok := strings.Cut(href, ":")
	if !ok {
		return ""
	}
	raw, _, _ = strings.Cut(raw, "?")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

// normalizeEmail validates a candidate and returns its lowercase form.
func normalizeEmail(candidate string) (string, bool) {
	value := strings.TrimSpace(candidate)
	if value == "" {
		return "", false
	}
	parsed, err := emailaddress.Parse(value)
	if err != nil {
		return "", false
	}
	domain := strings.ToLower(parsed.Domain)
	if !hasAlphaTLD(domain) {
		return "", false
	}
	return strings.ToLower(parsed.LocalPart) + "@" + domain, true
}

// hasAlphaTLD requires a dotted domain whose last label is at least
// two letters.
func hasAlphaTLD(domain string) bool {
	lastDot := strings.LastIndex(domain, ".")
	if lastDot <= 0 || lastDot == len(domain)-1 {
		return false
	}
	tld := domain[lastDot+1:]
	if len(tld) < 2 {
		return false
	}
	for i := 0; i < len(tld); i++ {
		if tld[i] < 'a' || tld[i] > 'z' {
			return false
		}
	}
	return true
}

func domainAllowed(email string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	for _, suffix := range allowlist {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if domain == suffix || strings.HasSuffix(domain, "."+suffix) {
			return true
		}
	}
	return false
}
