package scheduler

import (
	"encoding/json"
	"strings"

	"github.com/rohmanhakim/site-parser/internal/fetcher"
	"github.com/rohmanhakim/site-parser/internal/metadata"
)

// ParseResult is the terminal output of a crawl: the effective site
// origin plus the sorted, deduplicated contacts.
type ParseResult struct {
	URL         string                `json:"url"`
	Emails      []string              `json:"emails"`
	Phones      []string              `json:"phones"`
	Diagnostics *metadata.Diagnostics `json:"diagnostics,omitempty"`
}

// AsJSON serializes the result. indent <= 0 yields compact output.
func (r ParseResult) AsJSON(indent int) (string, error) {
	var payload []byte
	var err error
	if indent > 0 {
		payload, err = json.MarshalIndent(r, "", strings.Repeat(" ", indent))
	} else {
		payload, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// completion is what a worker reports back to the orchestrator.
type completion struct {
	url      string
	depth    int
	outcome  fetcher.Outcome
	panicked bool
}
