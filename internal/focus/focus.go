package focus

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

/*
Focus scorer

A pure ranking function over URLs, consulted only when focused crawling
is enabled. Lower scores dequeue first. It knows nothing about:
  - the frontier
  - fetching
  - extraction

Signals, in order of application:
  - keyword hits in path+query tokens
  - non-empty query penalty
  - path depth penalty (capped)
  - file-extension penalty
  - root-index bonus
*/

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Score returns the crawl priority of a URL; smaller is better.
// Unparseable URLs score 0 and compete on insertion order alone.
func Score(rawURL string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}

	urlPath := parsed.Path
	if urlPath == "" {
		urlPath = "/"
	}
	urlPath = strings.ToLower(urlPath)
	query := strings.ToLower(parsed.RawQuery)

	tokenSource := urlPath
	if query != "" {
		tokenSource = urlPath + "?" + query
	}

	score := 0
	for _, token := range uniqueTokens(tokenSource) {
		score += keywordWeights[token]
	}

	if query != "" {
		score += 10
	}

	segments := 0
	for _, segment := range strings.Split(urlPath, "/") {
		if segment != "" {
			segments++
		}
	}
	score += min(segments, 10)

	ext := strings.TrimPrefix(path.Ext(urlPath), ".")
	if ext != "" {
		score += extensionWeights[ext]
	}

	if urlPath == "/" || urlPath == "/index.html" || urlPath == "/index.htm" {
		score -= 5
	}

	return score
}

func uniqueTokens(s string) []string {
	seen := make(map[string]struct{})
	tokens := make([]string, 0, 8)
	for _, token := range tokenPattern.FindAllString(s, -1) {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
