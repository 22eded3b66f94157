package linkedin

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/scraper"
)

type applyMode int

const (
	applyNone applyMode = iota
	applyEasy
	applyDirect
	applyConfirm
	applyDead
	//click opens a tab and shows the confirmation at once
	applyBoth
)

type fakeCard struct {
	id          string
	title       string
	company     string
	workContext string
	tags        []string
	description string
	noCompany   bool
	apply       applyMode
	applyURL    string
	panicOnOpen bool
}

// fakePage is an in-memory results page driven by the selectors the scraper uses
type fakePage struct {
	sel      Selectors
	results  func(pageIdx int) []fakeCard
	current  []fakeCard
	selected *fakeCard

	gotos      []string
	gotoErrs   int
	reloads    int
	fronts     int
	sessions   []string
	screenshot int

	//signIn decides whether the sign-in prompt shows on a search page
	signIn         func(p *fakePage) bool
	loginSubmitted bool
	logins         int
	rejectLogin    bool
	failFill       bool
	filled         map[string]string
	visibleErrs    map[string]error

	tabs           chan browser.Tab
	openedTabs     []*fakeTab
	confirmVisible bool
	applyClicks    int
	confirmClicks  int
}

func newFakePage(results func(pageIdx int) []fakeCard) *fakePage {
	return &fakePage{
		sel:     DefaultSelectors(),
		results: results,
		signIn:  func(*fakePage) bool { return false },
		filled:  make(map[string]string),
	}
}

func pagesOf(pages ...[]fakeCard) func(int) []fakeCard {
	return func(i int) []fakeCard {
		if i < len(pages) {
			return pages[i]
		}
		return nil
	}
}

func (p *fakePage) Goto(target string) error {
	p.gotos = append(p.gotos, target)
	if p.gotoErrs > 0 {
		p.gotoErrs--
		return errors.New("net::ERR_TIMED_OUT")
	}
	p.selected = nil
	p.confirmVisible = false
	p.current = nil
	if strings.HasPrefix(target, searchURL) {
		u, _ := url.Parse(target)
		start, _ := strconv.Atoi(u.Query().Get("start"))
		p.current = p.results(start / 25)
	}
	return nil
}

func (p *fakePage) Reload() error {
	p.reloads++
	p.selected = nil
	p.confirmVisible = false
	return nil
}

func (p *fakePage) WaitForLoad() error { return nil }

func (p *fakePage) BringToFront() error {
	p.fronts++
	return nil
}

func (p *fakePage) URL() string {
	if len(p.gotos) == 0 {
		return "about:blank"
	}
	return p.gotos[len(p.gotos)-1]
}

func (p *fakePage) Locator(selector string) browser.Locator {
	return &fakeLocator{page: p, sel: selector, nth: -1}
}

func (p *fakePage) WatchTabs() (<-chan browser.Tab, func()) {
	p.tabs = make(chan browser.Tab, 4)
	return p.tabs, func() {
		for {
			select {
			case t := <-p.tabs:
				t.Close()
			default:
				p.tabs = nil
				return
			}
		}
	}
}

func (p *fakePage) SaveSession(path string) error {
	p.sessions = append(p.sessions, path)
	return nil
}

func (p *fakePage) Screenshot(name string) (string, error) {
	p.screenshot++
	return name + ".png", nil
}

func (p *fakePage) openTab(u string) {
	t := &fakeTab{url: u}
	p.openedTabs = append(p.openedTabs, t)
	p.tabs <- t
}

func (p *fakePage) onSearchPage() bool {
	return strings.HasPrefix(p.URL(), searchURL)
}

type fakeLocator struct {
	page *fakePage
	sel  string
	nth  int
}

var errNotFound = errors.New("element not found")

func (l *fakeLocator) Count() (int, error) {
	if l.sel == l.page.sel.JobCard {
		return len(l.page.current), nil
	}
	return 0, nil
}

func (l *fakeLocator) Nth(i int) browser.Locator {
	return &fakeLocator{page: l.page, sel: l.sel, nth: i}
}

func (l *fakeLocator) First() browser.Locator { return l.Nth(0) }

func (l *fakeLocator) GetAttribute(name string) (string, error) {
	if l.sel == l.page.sel.JobCard && name == l.page.sel.JobIDAttr && l.nth >= 0 && l.nth < len(l.page.current) {
		return l.page.current[l.nth].id, nil
	}
	return "", errNotFound
}

func (l *fakeLocator) card() *fakeCard {
	prefix := `[` + l.page.sel.JobIDAttr + `="`
	if !strings.HasPrefix(l.sel, prefix) {
		return nil
	}
	id := strings.TrimSuffix(strings.TrimPrefix(l.sel, prefix), `"]`)
	for i := range l.page.current {
		if l.page.current[i].id == id {
			return &l.page.current[i]
		}
	}
	return nil
}

func (l *fakeLocator) InnerText() (string, error) {
	c := l.page.selected
	s := l.page.sel
	if c == nil {
		return "", errNotFound
	}
	switch l.sel {
	case s.Title:
		return c.title, nil
	case s.Company:
		if c.noCompany {
			return "", errNotFound
		}
		return c.company, nil
	case s.WorkContext:
		return c.workContext, nil
	case s.Description:
		return c.description, nil
	case s.ApplyButton:
		if c.apply == applyEasy {
			return "Easy Apply", nil
		}
		return "Apply", nil
	}
	return "", errNotFound
}

func (l *fakeLocator) AllInnerTexts() ([]string, error) {
	if l.sel == l.page.sel.Tags && l.page.selected != nil {
		return l.page.selected.tags, nil
	}
	return []string{}, nil
}

func (l *fakeLocator) IsVisible() (bool, error) {
	p := l.page
	if err := p.visibleErrs[l.sel]; err != nil {
		return false, err
	}
	switch l.sel {
	case p.sel.SignIn:
		return p.onSearchPage() && p.signIn(p), nil
	case p.sel.ApplyButton:
		return p.selected != nil && p.selected.apply != applyNone, nil
	case p.sel.Continue:
		return p.confirmVisible, nil
	case p.sel.LoginError, p.sel.LoginForm:
		return p.loginSubmitted && p.rejectLogin, nil
	}
	return false, nil
}

func (l *fakeLocator) ScrollIntoView() error {
	if l.card() == nil {
		return errNotFound
	}
	return nil
}

func (l *fakeLocator) Click() error {
	p := l.page
	if c := l.card(); c != nil {
		if c.panicOnOpen {
			panic("detached frame")
		}
		p.selected = c
		p.confirmVisible = false
		return nil
	}
	switch l.sel {
	case p.sel.ApplyButton:
		p.applyClicks++
		switch p.selected.apply {
		case applyDirect:
			p.openTab(p.selected.applyURL)
		case applyConfirm:
			p.confirmVisible = true
		case applyBoth:
			p.openTab(p.selected.applyURL)
			p.confirmVisible = true
		}
		return nil
	case p.sel.Continue:
		p.confirmClicks++
		p.confirmVisible = false
		p.openTab(p.selected.applyURL)
		return nil
	case p.sel.Submit:
		p.loginSubmitted = true
		p.logins++
		return nil
	}
	return errNotFound
}

func (l *fakeLocator) Fill(value string) error {
	if l.page.failFill {
		return errors.New("locator.fill: timeout 2000ms exceeded")
	}
	l.page.filled[l.sel] = value
	return nil
}

type fakeTab struct {
	url    string
	closed bool
}

func (t *fakeTab) URL() string        { return t.url }
func (t *fakeTab) WaitForLoad() error { return nil }
func (t *fakeTab) Close() error {
	t.closed = true
	return nil
}

type jitterCall struct{ min, max time.Duration }

// fakePacer never sleeps but keeps the requested ranges
type fakePacer struct {
	sleeps  []time.Duration
	jitters []jitterCall
}

func (f *fakePacer) Sleep(ctx context.Context, d time.Duration) error {
	f.sleeps = append(f.sleeps, d)
	return ctx.Err()
}

func (f *fakePacer) Jitter(ctx context.Context, min, max time.Duration) error {
	f.jitters = append(f.jitters, jitterCall{min, max})
	return ctx.Err()
}

func (f *fakePacer) count(min, max time.Duration) int {
	n := 0
	for _, j := range f.jitters {
		if j.min == min && j.max == max {
			n++
		}
	}
	return n
}

type fakeFlusher struct {
	calls int
	jobs  []scraper.Job
	err   error
}

func (f *fakeFlusher) Flush(jobs []scraper.Job) (string, error) {
	f.calls++
	f.jobs = jobs
	if f.err != nil {
		return "", f.err
	}
	return "jobs.csv", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Search: config.Search{
			Keyword:          "Software Engineer",
			ExperienceLevels: []string{"2", "3", "4"},
			RemoteOnly:       true,
			SortBy:           "DD",
			PageSize:         25,
			TargetCount:      300,
			MaxPages:         40,
		},
		Timing: config.Timing{
			SettleMs:        3000,
			LoginSettleMs:   2000,
			ClickJitterMin:  1500,
			ClickJitterMax:  3000,
			RecordJitterMin: 3000,
			RecordJitterMax: 4000,
			PopupJitterMin:  1000,
			PopupJitterMax:  2000,
			ApplyTimeoutMs:  60,
			ApplyPollMs:     5,
		},
		Paths: config.Paths{StorageState: "state.json"},
	}
}

type harness struct {
	page    *fakePage
	pacer   *fakePacer
	flusher *fakeFlusher
	scraper *LinkedInScraper
}

func newHarness(cfg *config.Config, creds Credentials, results func(int) []fakeCard) *harness {
	h := &harness{
		page:    newFakePage(results),
		pacer:   &fakePacer{},
		flusher: &fakeFlusher{},
	}
	session := NewCrawlSession(cfg.Paths.StorageState, true, creds)
	h.scraper = NewLinkedInScraper(cfg, session, h.flusher, h.pacer)
	return h
}

func (h *harness) run(ctx context.Context) (*scraper.Result, error) {
	return h.scraper.Scrape(ctx, h.page)
}

func card(id string, mode applyMode) fakeCard {
	return fakeCard{
		id:          id,
		title:       "Engineer " + id,
		company:     "Company " + id,
		workContext: "Remote · Full-time",
		tags:        []string{"Remote", " Full-time "},
		description: "Build things",
		apply:       mode,
		applyURL:    "https://careers.example/" + id,
	}
}

func ids(jobs []scraper.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}
