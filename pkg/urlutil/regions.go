package urlutil

import (
	"net/url"
	"strings"
)

// RegionUnknown is the sentinel region for hosts whose TLD carries no
// dialing-region hint. It means "international numbers only".
const RegionUnknown = "ZZ"

// tldRegions maps country-code TLDs to ISO 3166-1 alpha-2 regions.
var tldRegions = map[string]string{
	"ru": "RU",
	"by": "BY",
	"kz": "KZ",
	"ua": "UA",
	"kg": "KG",
	"uz": "UZ",
	"am": "AM",
	"az": "AZ",
	"ge": "GE",
	"md": "MD",
	"ee": "EE",
	"lv": "LV",
	"lt": "LT",
	"pl": "PL",
	"de": "DE",
	"fr": "FR",
	"it": "IT",
	"es": "ES",
	"pt": "PT",
	"nl": "NL",
	"be": "BE",
	"ch": "CH",
	"at": "AT",
	"se": "SE",
	"no": "NO",
	"fi": "FI",
	"dk": "DK",
	"ie": "IE",
	"uk": "GB",
	"gb": "GB",
	"us": "US",
	"ca": "CA",
	"au": "AU",
	"nz": "NZ",
	"jp": "JP",
	"cn": "CN",
	"in": "IN",
}

// InferPhoneRegion guesses a phone dialing region from the URL's TLD.
// Unknown or missing TLDs yield RegionUnknown.
func InferPhoneRegion(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return RegionUnknown
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return RegionUnknown
	}

	labels := strings.Split(strings.Trim(hostname, "."), ".")
	tld := lowerASCII(labels[len(labels)-1])
	if region, ok := tldRegions[tld]; ok {
		return region
	}
	return RegionUnknown
}
