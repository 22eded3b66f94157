package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-linkedin-jobhunter/internal/browser"
)

var (
	//ErrMissingCredentials is returned when a login is needed but no credentials are configured
	ErrMissingCredentials = errors.New("linkedin credentials are not configured")
	//ErrLoginRejected is returned when LinkedIn refuses the submitted credentials
	ErrLoginRejected = errors.New("linkedin rejected the login")
	//ErrLogin wraps any other failure while driving the login form
	ErrLogin = errors.New("linkedin login failed")
)

// Credentials come from the environment, never from the config file
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) empty() bool {
	return strings.TrimSpace(c.Email) == "" || c.Password == ""
}

// CrawlSession tracks the authentication state of one run
type CrawlSession struct {
	TokenPath string
	//Restored is true when a stored session token was loaded at startup
	Restored      bool
	Authenticated bool
	//LoggedIn is true once this run has submitted the login form successfully
	LoggedIn bool
	creds    Credentials
}

func NewCrawlSession(tokenPath string, restored bool, creds Credentials) *CrawlSession {
	return &CrawlSession{TokenPath: tokenPath, Restored: restored, creds: creds}
}

// IsFatal reports whether err must end the run without a further attempt.
// Only missing or refused credentials qualify; ErrLogin is recoverable per page.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrLoginRejected)
}

// login submits the credential form and persists the resulting session token
func (s *LinkedInScraper) login(ctx context.Context, page browser.Page) error {
	sess := s.session
	if sess.creds.empty() {
		return ErrMissingCredentials
	}
	log.Println("🔐 Signing in to LinkedIn...")

	if err := page.Goto(loginURL); err != nil {
		return fmt.Errorf("%w: open login page: %v", ErrLogin, err)
	}
	if err := page.Locator(s.sel.Username).Fill(sess.creds.Email); err != nil {
		return fmt.Errorf("%w: fill username: %v", ErrLogin, err)
	}
	if err := page.Locator(s.sel.Password).Fill(sess.creds.Password); err != nil {
		return fmt.Errorf("%w: fill password: %v", ErrLogin, err)
	}
	if err := s.pacer.Sleep(ctx, s.loginSettle()); err != nil {
		return err
	}
	if err := page.Locator(s.sel.Submit).Click(); err != nil {
		return fmt.Errorf("%w: submit: %v", ErrLogin, err)
	}
	if err := page.WaitForLoad(); err != nil {
		log.Printf("⚠️ Page after login did not finish loading: %v", err)
	}

	if current := page.URL(); strings.Contains(current, "/checkpoint/") {
		s.debugShot(page, "login_checkpoint")
		return fmt.Errorf("%w: security checkpoint at %s", ErrLoginRejected, current)
	}
	if s.loginProbe(page, s.sel.LoginError, "login error") {
		s.debugShot(page, "login_rejected")
		return ErrLoginRejected
	}
	if s.loginProbe(page, s.sel.LoginForm, "login form") {
		s.debugShot(page, "login_rejected")
		return fmt.Errorf("%w: still on the login form", ErrLoginRejected)
	}

	sess.LoggedIn = true
	log.Println("✅ Login submitted.")

	//a token we cannot persist only costs a login next run
	if err := page.SaveSession(sess.TokenPath); err != nil {
		log.Printf("⚠️ Could not save session token: %v", err)
	} else {
		log.Printf("💾 Session token saved to %s", sess.TokenPath)
	}
	return nil
}

// loginProbe checks one post-submit marker; a failed probe counts as absent
func (s *LinkedInScraper) loginProbe(page browser.Page, selector, what string) bool {
	visible, err := page.Locator(selector).First().IsVisible()
	if err != nil {
		log.Printf("⚠️ Could not check for the %s (%s): %v", what, selector, err)
	}
	return visible
}

func (s *LinkedInScraper) loginSettle() time.Duration {
	return msOr(s.cfg.Timing.LoginSettleMs, 2*time.Second)
}
