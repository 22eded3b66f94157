package linkedin

import (
	"fmt"
	"strings"

	"go-linkedin-jobhunter/internal/config"
)

// LinkedIn markup selectors. These WILL break when LinkedIn changes its
// markup; every one can be overridden from the selectors section of the config.
const (
	baseURL   = "https://www.linkedin.com"
	loginURL  = baseURL + "/login"
	searchURL = baseURL + "/jobs/search/"

	// Result card in the left-hand list, carrying the posting id.
	defaultJobCard   = `li[data-occludable-job-id]`
	defaultJobIDAttr = "data-occludable-job-id"

	// Soft sign-in prompt shown instead of an error when the session is not authenticated.
	defaultSignIn = `button:has-text("Sign in")`

	// Detail pane fields.
	defaultTitle       = `h1.t-24.t-bold.inline`
	defaultCompany     = `div.job-details-jobs-unified-top-card__company-name a`
	defaultWorkContext = `div.job-details-jobs-unified-top-card__primary-description-container`
	defaultTags        = `.job-details-jobs-unified-top-card__job-insight span[dir="ltr"]`
	defaultDescription = `div.jobs-description-content__text--stretch`

	// Apply flow.
	defaultApplyButton = `button.jobs-apply-button`
	defaultContinue    = `button:has-text("Continue")`

	// Login form.
	defaultUsername   = `#username`
	defaultPassword   = `#password`
	defaultSubmit     = `button[type=submit]`
	defaultLoginError = `#error-for-password:visible, #error-for-username:visible, .alert-content:visible`
)

// Selectors is the resolved selector set used by one scraper
type Selectors struct {
	JobCard     string
	JobIDAttr   string
	SignIn      string
	Title       string
	Company     string
	WorkContext string
	Tags        string
	Description string
	ApplyButton string
	Continue    string
	Username    string
	Password    string
	Submit      string
	LoginError  string
	LoginForm   string
}

func DefaultSelectors() Selectors {
	return Selectors{
		JobCard:     defaultJobCard,
		JobIDAttr:   defaultJobIDAttr,
		SignIn:      defaultSignIn,
		Title:       defaultTitle,
		Company:     defaultCompany,
		WorkContext: defaultWorkContext,
		Tags:        defaultTags,
		Description: defaultDescription,
		ApplyButton: defaultApplyButton,
		Continue:    defaultContinue,
		Username:    defaultUsername,
		Password:    defaultPassword,
		Submit:      defaultSubmit,
		LoginError:  defaultLoginError,
		LoginForm:   defaultPassword,
	}
}

// SelectorsFromConfig applies non-empty overrides on top of the defaults
func SelectorsFromConfig(c config.Selector) Selectors {
	s := DefaultSelectors()
	override := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&s.JobCard, c.JobCard)
	override(&s.SignIn, c.SignIn)
	override(&s.Title, c.Title)
	override(&s.Company, c.Company)
	override(&s.WorkContext, c.WorkContext)
	override(&s.Tags, c.Tags)
	override(&s.Description, c.Description)
	override(&s.ApplyButton, c.ApplyButton)
	override(&s.Continue, c.Continue)
	override(&s.Username, c.Username)
	override(&s.Password, c.Password)
	override(&s.Submit, c.Submit)
	override(&s.LoginError, c.LoginError)
	override(&s.LoginForm, c.LoginForm)
	return s
}

// CardByID selects the result card of one posting
func (s Selectors) CardByID(id string) string {
	return fmt.Sprintf(`[%s="%s"]`, s.JobIDAttr, strings.ReplaceAll(id, `"`, `\"`))
}

// JobURL is the canonical deep link back to a posting
func JobURL(id string) string {
	return searchURL + "?currentJobId=" + id
}
