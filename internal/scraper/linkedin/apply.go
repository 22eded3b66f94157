package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/scraper"
)

// ApplyOutcome is how the apply control of a posting resolved
type ApplyOutcome int

const (
	//ApplyControlMissing: no apply control, the record is kept without an apply URL
	ApplyControlMissing ApplyOutcome = iota
	//ApplyEasySkip: in-platform application, the record is discarded
	ApplyEasySkip
	//ApplyDirectPopup: the click opened the external page in a new tab
	ApplyDirectPopup
	//ApplyConfirmThenPopup: a confirmation had to be accepted before the tab opened
	ApplyConfirmThenPopup
	//ApplyUnresolved: nothing usable happened; the page is reloaded and the posting abandoned
	ApplyUnresolved
)

func (o ApplyOutcome) String() string {
	switch o {
	case ApplyControlMissing:
		return "no apply control"
	case ApplyEasySkip:
		return "easy apply"
	case ApplyDirectPopup:
		return "direct popup"
	case ApplyConfirmThenPopup:
		return "confirm then popup"
	default:
		return "unresolved"
	}
}

// Keeps reports whether a record with this outcome is accumulated
func (o ApplyOutcome) Keeps() bool {
	return o == ApplyControlMissing || o == ApplyDirectPopup || o == ApplyConfirmThenPopup
}

var errNoPopup = errors.New("no tab or confirmation appeared")

type applyResult struct {
	outcome ApplyOutcome
	url     string
	err     error
}

func unresolved(err error) applyResult {
	return applyResult{outcome: ApplyUnresolved, err: err}
}

// IsEasyApply reports whether an apply control label means in-platform application
func IsEasyApply(label string) bool {
	return strings.Contains(scraper.NormalizeText(label), "easy apply")
}

// resolveApply drives the apply control and captures the external application URL.
// The primary page is in front again when it returns.
func (s *LinkedInScraper) resolveApply(ctx context.Context, page browser.Page) applyResult {
	btn := page.Locator(s.sel.ApplyButton).First()
	visible, err := btn.IsVisible()
	if err != nil {
		return unresolved(fmt.Errorf("probe apply control: %w", err))
	}
	if !visible {
		return applyResult{outcome: ApplyControlMissing}
	}

	label, err := btn.InnerText()
	if err != nil {
		return unresolved(fmt.Errorf("read apply label: %w", err))
	}
	if IsEasyApply(label) {
		return applyResult{outcome: ApplyEasySkip}
	}

	//watch before clicking so a fast popup is not missed
	tabs, stop := page.WatchTabs()
	defer stop()

	if err := btn.Click(); err != nil {
		return unresolved(fmt.Errorf("click apply: %w", err))
	}

	tab, outcome, err := s.awaitPopup(ctx, page, tabs)
	if err != nil {
		return unresolved(err)
	}

	applyURL, err := s.captureTab(ctx, page, tab)
	if err != nil {
		return unresolved(err)
	}
	return applyResult{outcome: outcome, url: applyURL}
}

// awaitPopup races a new tab against a confirmation control within the apply timeout.
// Whichever is observed first wins; a tab seen in the same poll as the control wins.
// The confirmation is accepted at most once.
func (s *LinkedInScraper) awaitPopup(ctx context.Context, page browser.Page, tabs <-chan browser.Tab) (browser.Tab, ApplyOutcome, error) {
	timeout := s.applyTimeout()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	poll := time.NewTicker(s.applyPoll())
	defer poll.Stop()

	confirm := page.Locator(s.sel.Continue).First()
	probeLogged := false
	for {
		select {
		case tab := <-tabs:
			return tab, ApplyDirectPopup, nil
		case <-ctx.Done():
			return nil, ApplyUnresolved, ctx.Err()
		case <-deadline.C:
			return nil, ApplyUnresolved, errNoPopup
		case <-poll.C:
			select {
			case tab := <-tabs:
				return tab, ApplyDirectPopup, nil
			default:
			}
			visible, err := confirm.IsVisible()
			if err != nil && !probeLogged {
				log.Printf("⚠️ Continue button probe failed: %v", err)
				probeLogged = true
			}
			if !visible {
				continue
			}
			if err := confirm.Click(); err != nil {
				return nil, ApplyUnresolved, fmt.Errorf("click continue: %w", err)
			}
			tab, err := waitTab(ctx, tabs, timeout)
			if err != nil {
				return nil, ApplyUnresolved, err
			}
			return tab, ApplyConfirmThenPopup, nil
		}
	}
}

func waitTab(ctx context.Context, tabs <-chan browser.Tab, timeout time.Duration) (browser.Tab, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case tab := <-tabs:
		return tab, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, errors.New("no tab opened after confirmation")
	}
}

// captureTab reads the settled URL of the popup, closes it and refocuses page
func (s *LinkedInScraper) captureTab(ctx context.Context, page browser.Page, tab browser.Tab) (string, error) {
	defer func() {
		if err := tab.Close(); err != nil {
			log.Printf("    ⚠️ Could not close apply tab: %v", err)
		}
		if err := page.BringToFront(); err != nil {
			log.Printf("    ⚠️ Could not refocus results page: %v", err)
		}
	}()

	if err := tab.WaitForLoad(); err != nil {
		return "", fmt.Errorf("apply tab did not load: %w", err)
	}
	applyURL := strings.TrimSpace(tab.URL())
	t := s.cfg.Timing
	if err := s.pacer.Jitter(ctx, config.Ms(t.PopupJitterMin), config.Ms(t.PopupJitterMax)); err != nil {
		return "", err
	}
	if applyURL == "" || applyURL == "about:blank" {
		return "", fmt.Errorf("apply tab has no url")
	}
	return applyURL, nil
}
