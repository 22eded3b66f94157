package linkedin

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"strings"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/config"
)

// NavState is what a search page load turned out to be
type NavState int

const (
	NavUnverified NavState = iota
	NavAuthenticated
	NavSignInRequired
)

func (n NavState) String() string {
	switch n {
	case NavAuthenticated:
		return "authenticated"
	case NavSignInRequired:
		return "sign-in required"
	default:
		return "unverified"
	}
}

// SearchURL builds the results URL for a 1-based page number
func SearchURL(search config.Search, pageNum int) string {
	if pageNum < 1 {
		pageNum = 1
	}
	keyword := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(search.Keyword)), "+", "%20")

	params := make([]string, 0, 5)
	if len(search.ExperienceLevels) > 0 {
		params = append(params, "f_E="+url.QueryEscape(strings.Join(search.ExperienceLevels, ",")))
	}
	if search.RemoteOnly {
		params = append(params, "f_WT=2")
	}
	params = append(params, "keywords="+keyword)
	if search.SortBy != "" {
		params = append(params, "sortBy="+url.QueryEscape(search.SortBy))
	}
	params = append(params, "start="+strconv.Itoa((pageNum-1)*search.PageSize))

	return searchURL + "?" + strings.Join(params, "&")
}

// ClassifyProbe maps the sign-in prompt probe to a navigation state.
// A probe that could not run counts as not authenticated.
func ClassifyProbe(signInVisible bool, probeErr error) NavState {
	if probeErr != nil || signInVisible {
		return NavSignInRequired
	}
	return NavAuthenticated
}

// openSearchPage loads one results page, logging in and retrying once when
// LinkedIn asks for a sign-in. Only fatal login errors and cancellation are returned.
func (s *LinkedInScraper) openSearchPage(ctx context.Context, page browser.Page, pageNum int) error {
	target := SearchURL(s.cfg.Search, pageNum)

	state, err := s.visit(ctx, page, target)
	if err != nil {
		return err
	}
	if state == NavAuthenticated {
		return nil
	}

	//the token can expire mid-run, so every prompt gets one login and one retry
	log.Printf("🔒 Sign-in required on page %d.", pageNum)
	if err := s.login(ctx, page); err != nil {
		if IsFatal(err) || ctx.Err() != nil {
			return err
		}
		log.Printf("⚠️ %v, retrying page %d anyway.", err, pageNum)
	}

	state, err = s.visit(ctx, page, target)
	if err != nil {
		return err
	}
	if state != NavAuthenticated {
		//no second retry; extraction will find what it finds
		log.Printf("⚠️ Still not authenticated on page %d, continuing anyway.", pageNum)
		s.debugShot(page, "signin_persists_page_"+strconv.Itoa(pageNum))
	}
	return nil
}

// visit navigates, lets the page settle and classifies it
func (s *LinkedInScraper) visit(ctx context.Context, page browser.Page, target string) (NavState, error) {
	log.Printf("🌐 Visiting Job Search: %s", target)
	if err := page.Goto(target); err != nil {
		log.Printf("⚠️ Navigation failed: %v", err)
		s.session.Authenticated = false
		return NavSignInRequired, ctx.Err()
	}
	if err := s.pacer.Sleep(ctx, s.settle()); err != nil {
		return NavUnverified, err
	}

	visible, probeErr := page.Locator(s.sel.SignIn).First().IsVisible()
	state := ClassifyProbe(visible, probeErr)
	s.session.Authenticated = state == NavAuthenticated
	return state, nil
}
