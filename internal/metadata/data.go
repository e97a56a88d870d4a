package metadata

/*
Metadata Collected
- Scheduling and fetch counters
- Failure-reason histogram
- Depth high-water mark
- Stop reason and run duration

The data is observational only. It must never be used to derive
scheduling, retry, or termination decisions; the scheduler decides,
the recorder counts.
*/

// StopReason explains why a crawl ended.
type StopReason string

const (
	StopCompleted  StopReason = "completed"
	StopMaxPages   StopReason = "max_pages"
	StopMaxSeconds StopReason = "max_seconds"
)

// Limits echoes the budgets the run was started with.
type Limits struct {
	MaxPages   int     `json:"max_pages"`
	MaxDepth   int     `json:"max_depth"`
	MaxSeconds float64 `json:"max_seconds"`
}

// Counters is the per-run tally of scheduler activity.
type Counters struct {
	ScheduledPages    int `json:"scheduled_pages"`
	FetchedPages      int `json:"fetched_pages"`
	FailedPages       int `json:"failed_pages"`
	ProcessedPages    int `json:"processed_pages"`
	SkippedSoupParse  int `json:"skipped_soup_parse"`
	DiscoveredURLs    int `json:"discovered_urls"`
	LinksExamined     int `json:"links_examined"`
	LinksEnqueued     int `json:"links_enqueued"`
	FrontierRemaining int `json:"frontier_remaining"`
	MaxDepthReached   int `json:"max_depth_reached"`
}

// ContactsFound counts the distinct contacts in the result.
type ContactsFound struct {
	Emails int `json:"emails"`
	Phones int `json:"phones"`
}

// Diagnostics is the optional per-run report attached to a parse result.
type Diagnostics struct {
	StopReason      StopReason     `json:"stop_reason"`
	DurationSeconds float64        `json:"duration_seconds"`
	Limits          Limits         `json:"limits"`
	Counters        Counters       `json:"counters"`
	FailureReasons  map[string]int `json:"failure_reasons"`
	ContactsFound   ContactsFound  `json:"contacts_found"`
}
