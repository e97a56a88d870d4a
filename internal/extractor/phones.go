package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"

	"github.com/rohmanhakim/site-parser/pkg/urlutil"
)

// phoneCandidatePattern picks digit runs with phone punctuation out of
// flattened text. Candidates are heuristic; validation decides.
var phoneCandidatePattern = regexp.MustCompile(`\+?\(?[0-9][0-9\s().\-/]{5,}[0-9]`)

// iddCandidatePattern finds numbers dialed with an international
// direct-dialing prefix (00 or 011) instead of "+".
var iddCandidatePattern = regexp.MustCompile(`(?:^|[^\d+])((?:00|011)[\s().-]*[1-9](?:[\s().-]*\d){6,})`)

var iddPrefixPattern = regexp.MustCompile(`^(?:00|011)`)

// Phones returns the valid phone numbers found in the page, formatted
// as E.164 and deduplicated. regions drives interpretation of numbers
// written without a country code; international and IDD candidates are
// recognized regardless.
func Phones(text string, regions []string, doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var phones []string

	keep := func(number *phonenumbers.PhoneNumber) bool {
		if !isValidNumber(number) {
			return false
		}
		formatted := phonenumbers.Format(number, phonenumbers.E164)
		if _, dup := seen[formatted]; dup {
			return true
		}
		seen[formatted] = struct{}{}
		phones = append(phones, formatted)
		return true
	}

	candidates := phoneCandidatePattern.FindAllString(text, -1)

	for _, region := range regions {
		region = strings.ToUpper(strings.TrimSpace(region))
		if region == "" || region == urlutil.RegionUnknown {
			continue
		}
		for _, candidate := range candidates {
			if number, err := phonenumbers.Parse(candidate, region); err == nil {
				keep(number)
			}
		}
	}

	for _, candidate := range candidates {
		if !strings.HasPrefix(candidate, "+") {
			continue
		}
		if number, err := phonenumbers.Parse(candidate, urlutil.RegionUnknown); err == nil {
			keep(number)
		}
	}

	for _, match := range iddCandidatePattern.FindAllStringSubmatch(text, -1) {
		normalized := normalizeIDDPrefix(match[1])
		if !strings.HasPrefix(normalized, "+") {
			continue
		}
		if number, err := phonenumbers.Parse(normalized, urlutil.RegionUnknown); err == nil {
			keep(number)
		}
	}

	if doc != nil {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			if !strings.HasPrefix(strings.ToLower(href), "tel:") {
				return
			}
			value := parseTel(href)
			if value == "" {
				return
			}

			normalized := normalizeIDDPrefix(value)
			if strings.HasPrefix(normalized, "+") {
				if number, err := phonenumbers.Parse(normalized, urlutil.RegionUnknown); err == nil {
					keep(number)
				}
				return
			}
			for _, region := range regions {
				region = strings.ToUpper(strings.TrimSpace(region))
				if region == "" || region == urlutil.RegionUnknown {
					continue
				}
				number, err := phonenumbers.Parse(normalized, region)
				if err != nil {
					continue
				}
				if keep(number) {
					break
				}
			}
		})
	}

	return phones
}

// parseTel extracts the dialable part of a tel href: everything after
// the colon, up to the first "?" or ";", URL-decoded and trimmed.
func parseTel(href string) string {
	_, raw, ok := strings.Cut(href, ":")
	if !ok {
		return ""
	}
	raw, _, _ = strings.Cut(raw, "?")
	raw, _, _ = strings.Cut(raw, ";")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return strings.TrimSpace(raw)
}

// normalizeIDDPrefix rewrites a leading 00 or 011 as "+".
func normalizeIDDPrefix(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return value
	}
	return iddPrefixPattern.ReplaceAllString(value, "+")
}

// isValidNumber accepts numbers that are both possible and valid per
// the embedded numbering metadata.
func isValidNumber(number *phonenumbers.PhoneNumber) bool {
	return phonenumbers.IsPossibleNumber(number) && phonenumbers.IsValidNumber(number)
}
