package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

/*
Canonical URL identity

Two URLs address the same page iff their normalized forms are equal.
Normalize is the single source of truth for that identity:
  - Scheme and host are lowercased; only http and https are accepted
  - Default ports are elided (:80 for http, :443 for https)
  - An empty path becomes "/"
  - Fragments are always dropped
  - The query is dropped unless includeQuery is set
  - Path and query keep their case

Properties:
  - Pure: no state, no memory
  - Deterministic: same input always produces same output
  - Idempotent: Normalize(Normalize(u)) == Normalize(u)
*/

// Normalize maps equivalent URL spellings to a single canonical string.
func Normalize(rawURL string, includeQuery bool) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnparseable, err.Error())
	}

	scheme := lowerASCII(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}

	hostname := lowerASCII(parsed.Hostname())
	if hostname == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingHost, rawURL)
	}

	canonical := *parsed
	canonical.Scheme = scheme
	canonical.Host = joinHostPort(scheme, hostname, parsed.Port())

	if canonical.Path == "" {
		canonical.Path = "/"
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""

	if !includeQuery {
		canonical.RawQuery = ""
		canonical.ForceQuery = false
	}

	canonical.User = nil

	return canonical.String(), nil
}

// HostnameKey returns the same-origin identity of a URL: the lowercased
// host with a leading "www." stripped.
func HostnameKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnparseable, err.Error())
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingHost, rawURL)
	}
	return StripWWW(hostname), nil
}

// Origin returns "scheme://authority" of an absolute URL.
func Origin(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnparseable, err.Error())
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNotAbsolute, rawURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// IsSameDomain reports whether the URL's hostname key equals baseKey.
// URLs without a parseable hostname are never same-domain.
func IsSameDomain(rawURL string, baseKey string) bool {
	key, err := HostnameKey(rawURL)
	if err != nil {
		return false
	}
	return key == baseKey
}

// StripWWW lowercases a hostname and removes a single leading "www." label.
func StripWWW(hostname string) string {
	host := lowerASCII(strings.TrimSpace(hostname))
	if strings.HasPrefix(host, "www.") {
		return host[4:]
	}
	return host
}

// joinHostPort rebuilds the authority, eliding the scheme's default port.
func joinHostPort(scheme string, hostname string, port string) string {
	hasDefaultPort := (scheme == "http" && port == "80") ||
		(scheme == "https" && port == "443")
	if port == "" || hasDefaultPort {
		return bracketIPv6(hostname)
	}
	return bracketIPv6(hostname) + ":" + port
}

func bracketIPv6(hostname string) string {
	if strings.Contains(hostname, ":") {
		return "[" + hostname + "]"
	}
	return hostname
}

// lowerASCII converts ASCII characters to lowercase without allocating
// when the input is already lowercase.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
