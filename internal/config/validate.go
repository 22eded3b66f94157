package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate collects every problem instead of stopping at the first one
func Validate(cfg *Config) error {
	var errs []string

	s := cfg.Search
	if strings.TrimSpace(s.Keyword) == "" {
		errs = append(errs, "search.keyword is required")
	}
	if s.PageSize <= 0 {
		errs = append(errs, "search.page_size must be > 0")
	}
	if s.TargetCount <= 0 {
		errs = append(errs, "search.target_count must be > 0")
	}
	if s.MaxPages <= 0 {
		errs = append(errs, "search.max_pages must be > 0")
	}
	for i, lvl := range s.ExperienceLevels {
		if strings.TrimSpace(lvl) == "" {
			errs = append(errs, fmt.Sprintf("search.experience_levels[%d] cannot be empty", i))
		}
	}

	checkRange := func(name string, lo, hi int) {
		if lo < 0 || hi < lo {
			errs = append(errs, fmt.Sprintf("timing.%s range must satisfy 0 <= min <= max (got %d..%d)", name, lo, hi))
		}
	}
	t := cfg.Timing
	checkRange("click_jitter", t.ClickJitterMin, t.ClickJitterMax)
	checkRange("record_jitter", t.RecordJitterMin, t.RecordJitterMax)
	checkRange("popup_jitter", t.PopupJitterMin, t.PopupJitterMax)
	if t.ApplyTimeoutMs <= 0 || t.ApplyPollMs <= 0 {
		errs = append(errs, "timing.apply_timeout_ms and timing.apply_poll_ms must be > 0")
	}
	if t.RunTimeoutMin <= 0 {
		errs = append(errs, "timing.run_timeout_min must be > 0")
	}
	if t.ApplyPollMs > t.ApplyTimeoutMs {
		errs = append(errs, "timing.apply_poll_ms must not exceed timing.apply_timeout_ms")
	}

	if cfg.Scoring.RatePerSecond < 0 {
		errs = append(errs, "scoring.rate_per_second must be >= 0")
	}
	if cfg.Scoring.NotifyMinScore < 0 || cfg.Scoring.NotifyMinScore > 10 {
		errs = append(errs, "scoring.notify_min_score must be 0..10")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
