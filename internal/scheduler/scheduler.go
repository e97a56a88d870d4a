package scheduler

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/rohmanhakim/site-parser/internal/config"
	"github.com/rohmanhakim/site-parser/internal/extractor"
	"github.com/rohmanhakim/site-parser/internal/fetcher"
	"github.com/rohmanhakim/site-parser/internal/focus"
	"github.com/rohmanhakim/site-parser/internal/frontier"
	"github.com/rohmanhakim/site-parser/internal/metadata"
	"github.com/rohmanhakim/site-parser/pkg/retry"
	"github.com/rohmanhakim/site-parser/pkg/timeutil"
	"github.com/rohmanhakim/site-parser/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of the crawl.

 Determinism and admission guarantees:
 - Scheduler is the ONLY component allowed to decide whether a URL
   may enter the crawl frontier.
 - All admission checks (scheme, scope, dedup, budgets) MUST be
   completed before a URL reaches the frontier.
 - The frontier, discovered set, in-flight map and all counters are
   owned by the orchestration goroutine and touched only between
   channel operations; workers own nothing but their single fetch.

 Scheduler Responsibilities:
 - Coordinate crawl lifecycle
 - Enforce global budgets (pages, depth, wall clock)
 - Adopt the effective start after the first successful fetch of the
   seed URL
 - Aggregate contacts and run diagnostics

 Failure containment: no per-URL failure aborts the run. Only a start
 URL that cannot be canonicalized is surfaced to the caller.
*/

// worker panic outcome tag; everything else comes from the fetcher.
const reasonWorkerPanic = "future_exception"

// cap for the exponential backoff between fetch retries.
const maxRetryDelay = 30 * time.Second

type Scheduler struct {
	cfg         config.Config
	htmlFetcher fetcher.Fetcher
	logger      *zap.Logger
}

func NewScheduler(cfg config.Config, logger *zap.Logger) Scheduler {
	htmlFetcher := fetcher.NewHtmlFetcher(fetchPolicy(cfg), logger)
	return Scheduler{
		cfg:         cfg,
		htmlFetcher: &htmlFetcher,
		logger:      logger,
	}
}

// NewSchedulerWithDeps creates a Scheduler with an injected fetcher for
// testing.
func NewSchedulerWithDeps(cfg config.Config, htmlFetcher fetcher.Fetcher, logger *zap.Logger) Scheduler {
	return Scheduler{
		cfg:         cfg,
		htmlFetcher: htmlFetcher,
		logger:      logger,
	}
}

func fetchPolicy(cfg config.Config) fetcher.Policy {
	return fetcher.NewPolicy(
		cfg.UserAgent(),
		cfg.RequestTimeout(),
		cfg.MaxBodyBytes(),
		cfg.IncludeQuery(),
		retry.NewRetryParam(
			cfg.RetryTotal(),
			timeutil.NewBackoffParam(cfg.RetryBackoffFactor(), maxRetryDelay),
		),
	)
}

// Parse crawls the start URL's site and returns the contacts found.
// The only fatal input is a start URL that fails canonicalization.
func (s *Scheduler) Parse(ctx context.Context, startURL string, includeDiagnostics bool) (ParseResult, error) {
	startedAt := time.Now()
	s.logger.Info("crawl start", zap.String("start_url", startURL))

	normalizedStart, err := urlutil.Normalize(startURL, s.cfg.IncludeQuery())
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: %s", ErrInvalidStartURL, err.Error())
	}
	baseHostname, err := urlutil.HostnameKey(normalizedStart)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: %s", ErrInvalidStartURL, err.Error())
	}

	deadline := startedAt.Add(s.cfg.MaxDuration())
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	phoneRegions, inferredRegions := resolvePhoneRegions(s.cfg.PhoneRegions(), normalizedStart)

	run := &crawlRun{
		scheduler:       s,
		recorder:        metadata.NewRecorder(),
		front:           frontier.NewFrontier(),
		inFlight:        make(map[string]int),
		results:         make(chan completion, s.cfg.MaxConcurrency()),
		emails:          make(map[string]struct{}),
		phones:          make(map[string]struct{}),
		normalizedStart: normalizedStart,
		effectiveStart:  normalizedStart,
		baseHostname:    baseHostname,
		phoneRegions:    phoneRegions,
		inferredRegions: inferredRegions,
		deadline:        deadline,
		stopReason:      metadata.StopCompleted,
	}

	run.front.Admit(normalizedStart, s.priority(normalizedStart), 0)
	run.crawl(ctx)

	origin, err := urlutil.Origin(run.effectiveStart)
	if err != nil {
		// effectiveStart is always a normalized absolute URL
		origin = run.effectiveStart
	}

	result := ParseResult{
		URL:    origin,
		Emails: sortedKeys(run.emails),
		Phones: sortedKeys(run.phones),
	}
	duration := time.Since(startedAt)
	if includeDiagnostics {
		diagnostics := run.recorder.Finalize(
			run.stopReason,
			duration,
			metadata.Limits{
				MaxPages:   s.cfg.MaxPages(),
				MaxDepth:   s.cfg.MaxDepth(),
				MaxSeconds: s.cfg.MaxDuration().Seconds(),
			},
			run.front.DiscoveredCount(),
			run.front.Remaining(),
			metadata.ContactsFound{
				Emails: len(result.Emails),
				Phones: len(result.Phones),
			},
		)
		result.Diagnostics = &diagnostics
	}

	s.logger.Info("crawl finish",
		zap.String("url", result.URL),
		zap.Int("emails", len(result.Emails)),
		zap.Int("phones", len(result.Phones)),
		zap.String("stop_reason", string(run.stopReason)),
		zap.Duration("duration", duration),
	)

	return result, nil
}

func (s *Scheduler) priority(rawURL string) int {
	if !s.cfg.FocusedCrawling() {
		return 0
	}
	return focus.Score(rawURL)
}

// dispatch runs one fetch on a worker goroutine. A panicking fetch is
// reported like any other completion so the URL still terminates.
func (s *Scheduler) dispatch(ctx context.Context, rawURL string, depth int, results chan<- completion) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("fetch worker panic",
				zap.String("url", rawURL),
				zap.Any("panic", r),
			)
			results <- completion{url: rawURL, depth: depth, panicked: true}
		}
	}()
	outcome := s.htmlFetcher.Fetch(ctx, rawURL)
	results <- completion{url: rawURL, depth: depth, outcome: outcome}
}

// crawlRun holds the mutable state of one crawl. Everything here is
// owned by the orchestration goroutine.
type crawlRun struct {
	scheduler       *Scheduler
	recorder        metadata.Recorder
	front           frontier.Frontier
	inFlight        map[string]int
	results         chan completion
	emails          map[string]struct{}
	phones          map[string]struct{}
	normalizedStart string
	effectiveStart  string
	baseHostname    string
	phoneRegions    []string
	inferredRegions bool
	startAdopted    bool
	deadline        time.Time
	stopReason      metadata.StopReason
}

// crawl drives the main loop. Invariant at the top of each iteration:
// the frontier is non-empty, or in-flight is non-empty, or we are
// about to exit.
func (r *crawlRun) crawl(ctx context.Context) {
	cfg := r.scheduler.cfg

	for r.front.Remaining() > 0 || len(r.inFlight) > 0 {
		if time.Now().After(r.deadline) {
			r.scheduler.logger.Info("stopping crawl by wall-clock budget",
				zap.Duration("max_duration", cfg.MaxDuration()))
			r.stopReason = metadata.StopMaxSeconds
			return
		}

		r.refill(ctx)

		if len(r.inFlight) == 0 {
			if r.front.Remaining() > 0 && r.recorder.ScheduledCount() >= cfg.MaxPages() {
				r.stopReason = metadata.StopMaxPages
			}
			return
		}

		timer := time.NewTimer(time.Until(r.deadline))
		select {
		case done := <-r.results:
			timer.Stop()
			r.processCompletion(done)
		case <-timer.C:
			r.stopReason = metadata.StopMaxSeconds
			return
		}

		// Take whatever else already finished before blocking again
	drained:
		for {
			select {
			case done := <-r.results:
				r.processCompletion(done)
			default:
				break drained
			}
		}
	}
}

// refill dispatches frontier items while there is concurrency headroom
// and page budget left.
func (r *crawlRun) refill(ctx context.Context) {
	cfg := r.scheduler.cfg
	for r.front.Remaining() > 0 &&
		len(r.inFlight) < cfg.MaxConcurrency() &&
		r.recorder.ScheduledCount() < cfg.MaxPages() {
		item, ok := r.front.Dequeue()
		if !ok {
			return
		}
		r.inFlight[item.URL()] = item.Depth()
		r.recorder.RecordScheduled()
		go r.scheduler.dispatch(ctx, item.URL(), item.Depth(), r.results)
	}
}

func (r *crawlRun) processCompletion(done completion) {
	delete(r.inFlight, done.url)
	r.recorder.ObserveDepth(done.depth)

	if done.panicked {
		r.recorder.RecordFailure(reasonWorkerPanic)
		return
	}
	if !done.outcome.OK() {
		r.recorder.RecordFailure(string(done.outcome.Reason()))
		return
	}

	r.recorder.RecordFetched()
	page := done.outcome.Page()

	// The first successful fetch of the seed decides the effective
	// start; re-enqueueing the seed is impossible (it is in the
	// discovered set from seeding), so this fires at most once.
	if done.url == r.normalizedStart && !r.startAdopted {
		r.startAdopted = true
		r.effectiveStart = page.FinalURL()
		if key, err := urlutil.HostnameKey(r.effectiveStart); err == nil {
			r.baseHostname = key
		}
		if r.inferredRegions {
			r.phoneRegions, _ = resolvePhoneRegions(nil, r.effectiveStart)
		}
	}

	doc, err := extractor.Parse(page.Text())
	if err != nil {
		r.recorder.RecordParseSkip()
		r.scheduler.logger.Debug("HTML parse skip", zap.String("url", done.url), zap.Error(err))
		return
	}

	r.recorder.RecordProcessed()
	text := extractor.VisibleText(doc)
	for _, email := range extractor.Emails(text, doc, r.scheduler.cfg.EmailDomainAllowlist()) {
		r.emails[email] = struct{}{}
	}
	for _, phone := range extractor.Phones(text, r.phoneRegions, doc) {
		r.phones[phone] = struct{}{}
	}

	if done.depth >= r.scheduler.cfg.MaxDepth() {
		return
	}
	r.admitLinks(doc, page.FinalURL(), done.depth)
}

// admitLinks canonicalizes, scopes and deduplicates the page's links,
// then admits survivors while the page budget allows.
func (r *crawlRun) admitLinks(doc *goquery.Document, finalURL string, depth int) {
	cfg := r.scheduler.cfg

	links := extractor.Links(doc)
	if len(links) > cfg.MaxLinksPerPage() {
		links = links[:cfg.MaxLinksPerPage()]
	}

	var candidates []string
	for _, href := range links {
		r.recorder.RecordLinkExamined()
		if !extractor.IsParseableHref(href) {
			continue
		}
		absolute, err := resolveReference(finalURL, href)
		if err != nil {
			continue
		}
		normalized, err := urlutil.Normalize(absolute, cfg.IncludeQuery())
		if err != nil {
			continue
		}
		if !urlutil.IsSameDomain(normalized, r.baseHostname) {
			continue
		}
		if r.front.Discovered(normalized) {
			continue
		}
		candidates = append(candidates, normalized)
	}

	if cfg.FocusedCrawling() {
		sort.SliceStable(candidates, func(i, j int) bool {
			return focus.Score(candidates[i]) < focus.Score(candidates[j])
		})
	}

	for _, normalized := range candidates {
		if r.front.DiscoveredCount() >= cfg.MaxPages() {
			break
		}
		if r.front.Discovered(normalized) {
			// same href may occur twice on one page
			continue
		}
		r.front.Admit(normalized, r.scheduler.priority(normalized), depth+1)
		r.recorder.RecordLinkEnqueued()
	}
}

func resolvePhoneRegions(configured []string, rawURL string) ([]string, bool) {
	if len(configured) > 0 {
		regions := make([]string, 0, len(configured))
		for _, region := range configured {
			region = strings.ToUpper(strings.TrimSpace(region))
			if region == "" || region == urlutil.RegionUnknown {
				continue
			}
			regions = append(regions, region)
		}
		return regions, false
	}

	inferred := urlutil.InferPhoneRegion(rawURL)
	if inferred == urlutil.RegionUnknown {
		return nil, true
	}
	return []string{inferred}, true
}

// resolveReference makes href absolute against the page it was found on.
func resolveReference(base string, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
