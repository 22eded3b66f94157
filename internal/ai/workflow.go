package ai

import (
	"context"
	"fmt"
	"log"

	"go-linkedin-jobhunter/internal/database"
	"go-linkedin-jobhunter/internal/models"
	"go-linkedin-jobhunter/internal/profile"

	"golang.org/x/time/rate"
)

// JobStore is the slice of the repository the scorer needs
type JobStore interface {
	JobsForScoring(ctx context.Context, sel database.Selection) ([]models.Job, error)
	UpdateScore(ctx context.Context, id string, score int, reasoning string) error
}

// Notifier is told about jobs that scored at or above the notify threshold
type Notifier interface {
	SendJob(job models.Job) error
}

type ScorerOptions struct {
	RatePerSecond  float64
	BatchSize      int
	NotifyMinScore int
}

// Scorer runs the matcher over stored jobs and writes the scores back
type Scorer struct {
	store    JobStore
	matcher  *Matcher
	profile  *profile.Profile
	notifier Notifier
	limiter  *rate.Limiter
	opts     ScorerOptions
}

// NewScorer builds a scorer. notifier may be nil.
func NewScorer(store JobStore, matcher *Matcher, p *profile.Profile, notifier Notifier, opts ScorerOptions) *Scorer {
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	return &Scorer{
		store:    store,
		matcher:  matcher,
		profile:  p,
		notifier: notifier,
		limiter:  rate.NewLimiter(limit, 1),
		opts:     opts,
	}
}

// RunSummary counts what a scoring run did. Distribution is indexed by score.
type RunSummary struct {
	Total        int
	Processed    int
	Errors       int
	Notified     int
	Distribution [models.MaxScore + 1]int
}

// Run scores the selected jobs one at a time. A failing update is counted and
// skipped; only selection failures and cancellation end the run early.
func (s *Scorer) Run(ctx context.Context, sel database.Selection) (RunSummary, error) {
	var sum RunSummary

	jobs, err := s.store.JobsForScoring(ctx, sel)
	if err != nil {
		return sum, err
	}
	sum.Total = len(jobs)
	switch {
	case len(sel.IDs) > 0:
		log.Printf("🎯 Scoring %d specific jobs", len(jobs))
	case sel.Rescore:
		log.Printf("🔄 Re-scoring %d jobs", len(jobs))
	default:
		log.Printf("🆕 Scoring %d unscored jobs", len(jobs))
	}
	if len(jobs) == 0 {
		log.Println("✅ No jobs to score!")
		return sum, nil
	}

	for i, job := range jobs {
		if i > 0 && i%s.opts.BatchSize == 0 {
			log.Printf("📦 Batch done: %d/%d", i, len(jobs))
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return sum, fmt.Errorf("scoring interrupted: %w", err)
		}

		log.Printf("🤖 Analyzing job %d/%d: %s at %s", i+1, len(jobs), job.Title, job.Company)
		res := s.matcher.Analyze(ctx, job, s.profile)

		if err := s.store.UpdateScore(ctx, job.ID, res.Score, res.Reasoning); err != nil {
			log.Printf("❌ Error saving score of %s: %v", job.ID, err)
			sum.Errors++
			continue
		}
		sum.Processed++
		sum.Distribution[res.Score]++
		log.Printf("   ✅ Score: %d/10", res.Score)

		if s.notifier != nil && s.opts.NotifyMinScore > 0 && res.Score >= s.opts.NotifyMinScore {
			job.MatchScore = &res.Score
			job.MatchReasoning = &res.Reasoning
			if err := s.notifier.SendJob(job); err != nil {
				log.Printf("⚠️ Telegram notify failed for %s: %v", job.ID, err)
			} else {
				sum.Notified++
			}
		}
	}
	return sum, nil
}

// FormatDistribution renders a score table from 10 down to 0
func FormatDistribution(dist [models.MaxScore + 1]int) string {
	total := 0
	for _, n := range dist {
		total += n
	}
	out := "Score  Count  Percentage\n"
	for score := models.MaxScore; score >= models.MinScore; score-- {
		pct := 0.0
		if total > 0 {
			pct = float64(dist[score]) / float64(total) * 100
		}
		out += fmt.Sprintf("%5d  %5d  %9.1f%%\n", score, dist[score], pct)
	}
	return out
}
