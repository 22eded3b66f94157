package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/dedup"
	"go-linkedin-jobhunter/internal/scraper"
)

// ErrFlush wraps a failure to persist the collected jobs
var ErrFlush = errors.New("failed to write collected jobs")

// Flusher persists the collected jobs once at the end of a run
type Flusher interface {
	Flush(jobs []scraper.Job) (string, error)
}

var _ scraper.Scraper = (*LinkedInScraper)(nil)

type LinkedInScraper struct {
	cfg     *config.Config
	sel     Selectors
	session *CrawlSession
	flusher Flusher
	pacer   browser.Pacer
}

func NewLinkedInScraper(cfg *config.Config, session *CrawlSession, flusher Flusher, pacer browser.Pacer) *LinkedInScraper {
	if pacer == nil {
		pacer = browser.HumanPacer{}
	}
	if session == nil {
		session = NewCrawlSession(cfg.Paths.StorageState, false, Credentials{})
	}
	return &LinkedInScraper{
		cfg:     cfg,
		sel:     SelectorsFromConfig(cfg.Selector),
		session: session,
		flusher: flusher,
		pacer:   pacer,
	}
}

func (s *LinkedInScraper) Name() string {
	return "LinkedIn"
}

type pageOutcome int

const (
	pageDone pageOutcome = iota
	pageExhausted
	pageTargetReached
)

// Scrape walks the result pages until the target count is reached, the results
// run out, the page limit is hit or ctx is cancelled. Whatever was collected is
// flushed exactly once on every exit path. A failure inside one page ends the
// crawl and is reported in Result.PageErr; only fatal login errors and a failed
// flush are returned as errors.
func (s *LinkedInScraper) Scrape(ctx context.Context, page browser.Page) (res *scraper.Result, err error) {
	log.Printf("💼 Searching LinkedIn Jobs for %q (target %d)...", s.cfg.Search.Keyword, s.target())

	jobs := dedup.NewOrderedSet()
	res = &scraper.Result{}
	defer func() {
		res.Jobs = jobs.Jobs()
		path, flushErr := s.flusher.Flush(res.Jobs)
		if flushErr != nil {
			log.Printf("❌ Could not save %d jobs: %v", len(res.Jobs), flushErr)
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrFlush, flushErr))
			return
		}
		res.OutputPath = path
		log.Printf("💾 Saved %d jobs to %s (stop: %s)", len(res.Jobs), path, res.Stop)
	}()

	visited := make(map[string]bool)
	for pageNum := 1; ; pageNum++ {
		if ctx.Err() != nil {
			res.Stop = scraper.StopCancelled
			return res, nil
		}
		if pageNum > s.maxPages() {
			log.Printf("🛑 Reached the page limit (%d).", s.maxPages())
			res.Stop = scraper.StopMaxPages
			return res, nil
		}

		res.Pages = pageNum
		outcome, pageErr := s.crawlPage(ctx, page, pageNum, jobs, visited)
		switch {
		case pageErr != nil && IsFatal(pageErr):
			res.Stop = scraper.StopFatal
			return res, pageErr
		case ctx.Err() != nil:
			res.Stop = scraper.StopCancelled
			return res, nil
		case pageErr != nil:
			log.Printf("⚠️ Stopping at page %d: %v", pageNum, pageErr)
			res.Stop = scraper.StopPageError
			res.PageErr = pageErr
			return res, nil
		}

		switch outcome {
		case pageTargetReached:
			log.Printf("🎯 Target of %d jobs reached.", s.target())
			res.Stop = scraper.StopTargetReached
			return res, nil
		case pageExhausted:
			log.Printf("🏁 No new jobs on page %d, results exhausted.", pageNum)
			res.Stop = scraper.StopExhausted
			return res, nil
		}
	}
}

// crawlPage processes one results page. A panic below this point is turned
// into an error so the collected jobs still get flushed.
func (s *LinkedInScraper) crawlPage(ctx context.Context, page browser.Page, pageNum int, jobs *dedup.OrderedSet, visited map[string]bool) (outcome pageOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic on page %d: %v", pageNum, r)
		}
	}()

	log.Printf("\n📑 Page %d", pageNum)
	if err := s.openSearchPage(ctx, page, pageNum); err != nil {
		return pageDone, err
	}

	ids, err := collectJobIDs(page, s.sel)
	if err != nil {
		return pageDone, err
	}
	fresh := 0
	for _, id := range ids {
		if !visited[id] {
			fresh++
		}
	}
	if fresh == 0 {
		return pageExhausted, nil
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return pageDone, ctx.Err()
		}
		visited[id] = true
		if jobs.Has(id) {
			continue
		}

		job, ok := s.scrapeJob(ctx, page, id)
		if !ok || !jobs.Add(job) {
			continue
		}
		log.Printf("    ✅ [%d/%d] %s - %s", jobs.Len(), s.target(), job.Title, job.Company)

		if jobs.Len() >= s.target() {
			return pageTargetReached, nil
		}
		t := s.cfg.Timing
		if err := s.pacer.Jitter(ctx, config.Ms(t.RecordJitterMin), config.Ms(t.RecordJitterMax)); err != nil {
			return pageDone, err
		}
	}
	return pageDone, nil
}

// scrapeJob selects one card and builds its record. ok is false when the
// posting is skipped or abandoned.
func (s *LinkedInScraper) scrapeJob(ctx context.Context, page browser.Page, id string) (job scraper.Job, ok bool) {
	card := page.Locator(s.sel.CardByID(id)).First()
	if err := card.ScrollIntoView(); err != nil {
		log.Printf("    ⚠️ [%s] Card not reachable: %v", id, err)
		return job, false
	}
	if err := s.clickJitter(ctx); err != nil {
		return job, false
	}
	if err := card.Click(); err != nil {
		log.Printf("    ⚠️ [%s] Could not select card: %v", id, err)
		return job, false
	}
	if err := s.clickJitter(ctx); err != nil {
		return job, false
	}

	d := s.readDetails(page, id)

	apply := s.resolveApply(ctx, page)
	switch apply.outcome {
	case ApplyEasySkip:
		log.Printf("    ⏭️ [%s] Easy Apply, skipping.", id)
		return job, false
	case ApplyUnresolved:
		log.Printf("    ⚠️ [%s] Apply did not resolve: %v", id, apply.err)
		if ctx.Err() != nil {
			return job, false
		}
		s.debugShot(page, "apply_unresolved_"+id)
		if err := page.Reload(); err != nil {
			log.Printf("    ⚠️ Reload failed: %v", err)
		}
		return job, false
	case ApplyControlMissing:
		log.Printf("    ℹ️ [%s] No apply control.", id)
	}

	return scraper.Job{
		ID:          id,
		Title:       d.title,
		Company:     d.company,
		WorkContext: d.workContext,
		Tags:        d.tags,
		Description: d.description,
		SourceURL:   JobURL(id),
		ApplyURL:    apply.url,
	}, true
}

func (s *LinkedInScraper) clickJitter(ctx context.Context) error {
	t := s.cfg.Timing
	return s.pacer.Jitter(ctx, config.Ms(t.ClickJitterMin), config.Ms(t.ClickJitterMax))
}

func (s *LinkedInScraper) debugShot(page browser.Page, name string) {
	if !s.cfg.Browser.DebugScreenshots {
		return
	}
	if path, err := page.Screenshot(name); err != nil {
		log.Printf("⚠️ Screenshot failed: %v", err)
	} else {
		log.Printf("📸 Screenshot saved: %s", path)
	}
}

func (s *LinkedInScraper) target() int {
	if s.cfg.Search.TargetCount <= 0 {
		return 300
	}
	return s.cfg.Search.TargetCount
}

func (s *LinkedInScraper) maxPages() int {
	if s.cfg.Search.MaxPages <= 0 {
		return 40
	}
	return s.cfg.Search.MaxPages
}

func (s *LinkedInScraper) settle() time.Duration {
	return msOr(s.cfg.Timing.SettleMs, 3*time.Second)
}

func (s *LinkedInScraper) applyTimeout() time.Duration {
	return msOr(s.cfg.Timing.ApplyTimeoutMs, 3*time.Second)
}

func (s *LinkedInScraper) applyPoll() time.Duration {
	return msOr(s.cfg.Timing.ApplyPollMs, 100*time.Millisecond)
}

func msOr(v int, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return config.Ms(v)
}
