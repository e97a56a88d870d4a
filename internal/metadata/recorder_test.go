package metadata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rohmanhakim/site-parser/internal/metadata"
)

func TestRecorder_Finalize(t *testing.T) {
	recorder := metadata.NewRecorder()

	recorder.RecordScheduled()
	recorder.RecordScheduled()
	recorder.RecordScheduled()
	recorder.RecordFetched()
	recorder.RecordFetched()
	recorder.RecordFailure("http_status")
	recorder.RecordProcessed()
	recorder.RecordProcessed()
	recorder.RecordLinkExamined()
	recorder.RecordLinkExamined()
	recorder.RecordLinkEnqueued()
	recorder.ObserveDepth(1)
	recorder.ObserveDepth(2)
	recorder.ObserveDepth(1)

	diagnostics := recorder.Finalize(
		metadata.StopCompleted,
		1234500*time.Microsecond,
		metadata.Limits{MaxPages: 10, MaxDepth: 3, MaxSeconds: 5.0},
		3,
		0,
		metadata.ContactsFound{Emails: 2, Phones: 1},
	)

	assert.Equal(t, metadata.StopCompleted, diagnostics.StopReason)
	assert.Equal(t, 1.235, diagnostics.DurationSeconds)
	assert.Equal(t, 3, diagnostics.Counters.ScheduledPages)
	assert.Equal(t, 2, diagnostics.Counters.FetchedPages)
	assert.Equal(t, 1, diagnostics.Counters.FailedPages)
	assert.Equal(t, 2, diagnostics.Counters.ProcessedPages)
	assert.Equal(t, 3, diagnostics.Counters.DiscoveredURLs)
	assert.Equal(t, 2, diagnostics.Counters.LinksExamined)
	assert.Equal(t, 1, diagnostics.Counters.LinksEnqueued)
	assert.Equal(t, 2, diagnostics.Counters.MaxDepthReached)
	assert.Equal(t, map[string]int{"http_status": 1}, diagnostics.FailureReasons)
	assert.Equal(t, metadata.ContactsFound{Emails: 2, Phones: 1}, diagnostics.ContactsFound)
}

func TestRecorder_FailureHistogramAccumulates(t *testing.T) {
	recorder := metadata.NewRecorder()

	recorder.RecordFailure("http_status")
	recorder.RecordFailure("http_status")
	recorder.RecordFailure("request_error")

	diagnostics := recorder.Finalize(
		metadata.StopCompleted,
		time.Second,
		metadata.Limits{},
		0,
		0,
		metadata.ContactsFound{},
	)

	assert.Equal(t, 3, diagnostics.Counters.FailedPages)
	assert.Equal(t, map[string]int{
		"http_status":   2,
		"request_error": 1,
	}, diagnostics.FailureReasons)
}

func TestRecorder_ScheduledCount(t *testing.T) {
	recorder := metadata.NewRecorder()
	assert.Equal(t, 0, recorder.ScheduledCount())

	recorder.RecordScheduled()
	assert.Equal(t, 1, recorder.ScheduledCount())
}
