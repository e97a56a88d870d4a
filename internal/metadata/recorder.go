package metadata

import (
	"math"
	"time"
)

// Recorder accumulates run counters. It is written only from the
// scheduler's orchestration goroutine, so it needs no locks or atomics.
type Recorder struct {
	scheduled       int
	fetched         int
	failed          int
	processed       int
	parseSkips      int
	linksExamined   int
	linksEnqueued   int
	maxDepthReached int
	failureReasons  map[string]int
}

func NewRecorder() Recorder {
	return Recorder{
		failureReasons: make(map[string]int),
	}
}

func (r *Recorder) RecordScheduled() {
	r.scheduled++
}

func (r *Recorder) RecordFetched() {
	r.fetched++
}

// RecordFailure counts a terminal per-URL failure under its reason tag.
func (r *Recorder) RecordFailure(reason string) {
	r.failed++
	r.failureReasons[reason]++
}

func (r *Recorder) RecordProcessed() {
	r.processed++
}

// RecordParseSkip counts a fetched page whose HTML could not be parsed.
func (r *Recorder) RecordParseSkip() {
	r.parseSkips++
}

func (r *Recorder) RecordLinkExamined() {
	r.linksExamined++
}

func (r *Recorder) RecordLinkEnqueued() {
	r.linksEnqueued++
}

// ObserveDepth raises the depth high-water mark.
func (r *Recorder) ObserveDepth(depth int) {
	if depth > r.maxDepthReached {
		r.maxDepthReached = depth
	}
}

func (r *Recorder) ScheduledCount() int {
	return r.scheduled
}

// Finalize renders the terminal diagnostics summary. It is called
// exactly once, after crawl termination.
func (r *Recorder) Finalize(
	stopReason StopReason,
	duration time.Duration,
	limits Limits,
	discoveredURLs int,
	frontierRemaining int,
	contacts ContactsFound,
) Diagnostics {
	reasons := make(map[string]int, len(r.failureReasons))
	for reason, count := range r.failureReasons {
		reasons[reason] = count
	}
	return Diagnostics{
		StopReason:      stopReason,
		DurationSeconds: math.Round(duration.Seconds()*1000) / 1000,
		Limits:          limits,
		Counters: Counters{
			ScheduledPages:    r.scheduled,
			FetchedPages:      r.fetched,
			FailedPages:       r.failed,
			ProcessedPages:    r.processed,
			SkippedSoupParse:  r.parseSkips,
			DiscoveredURLs:    discoveredURLs,
			LinksExamined:     r.linksExamined,
			LinksEnqueued:     r.linksEnqueued,
			FrontierRemaining: frontierRemaining,
			MaxDepthReached:   r.maxDepthReached,
		},
		FailureReasons: reasons,
		ContactsFound:  contacts,
	}
}
