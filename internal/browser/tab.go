package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// PageOptions tunes the playwright adapter timeouts (milliseconds)
type PageOptions struct {
	NavigationTimeout float64
	ActionTimeout     float64
	ScreenshotDir     string
}

// PlaywrightPage adapts a playwright page and its context to Page
type PlaywrightPage struct {
	page  playwright.Page
	bctx  playwright.BrowserContext
	tabs  chan Tab
	opts  PageOptions
	shots *ScreenShotDebugger
}

// NewPage opens the primary tab in bctx and starts forwarding new tabs
func NewPage(bctx playwright.BrowserContext, opts PageOptions) (*PlaywrightPage, error) {
	if opts.NavigationTimeout == 0 {
		opts.NavigationTimeout = 30000
	}
	if opts.ActionTimeout == 0 {
		opts.ActionTimeout = 2000
	}

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}

	p := &PlaywrightPage{
		page:  page,
		bctx:  bctx,
		tabs:  make(chan Tab, 4),
		opts:  opts,
		shots: NewScreenShotDebugger(opts.ScreenshotDir),
	}
	bctx.OnPage(p.onPage)
	return p, nil
}

func (p *PlaywrightPage) onPage(pg playwright.Page) {
	if pg == p.page {
		return
	}
	select {
	case p.tabs <- &playwrightTab{page: pg}:
	default:
		log.Printf("⚠️ Unexpected extra tab %s, closing it", pg.URL())
		pg.Close()
	}
}

func (p *PlaywrightPage) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(p.opts.NavigationTimeout),
	})
	return err
}

func (p *PlaywrightPage) Reload() error {
	_, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(p.opts.NavigationTimeout),
	})
	return err
}

func (p *PlaywrightPage) WaitForLoad() error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(p.opts.NavigationTimeout),
	})
}

func (p *PlaywrightPage) BringToFront() error {
	return p.page.BringToFront()
}

func (p *PlaywrightPage) URL() string {
	return p.page.URL()
}

func (p *PlaywrightPage) Locator(selector string) Locator {
	return &playwrightLocator{loc: p.page.Locator(selector), timeout: p.opts.ActionTimeout}
}

func (p *PlaywrightPage) WatchTabs() (<-chan Tab, func()) {
	p.drain()
	return p.tabs, p.drain
}

// drain closes tabs nobody received
func (p *PlaywrightPage) drain() {
	for {
		select {
		case tab := <-p.tabs:
			if err := tab.Close(); err != nil {
				log.Printf("⚠️ Failed to close stale tab: %v", err)
			}
		default:
			return
		}
	}
}

func (p *PlaywrightPage) SaveSession(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create session directory: %w", err)
		}
	}
	if _, err := p.bctx.StorageState(path); err != nil {
		return fmt.Errorf("failed to save storage state: %w", err)
	}
	return nil
}

func (p *PlaywrightPage) Screenshot(name string) (string, error) {
	return p.shots.CaptureAndLog(p.page, name, "Debug screenshot: "+name)
}

type playwrightLocator struct {
	loc     playwright.Locator
	timeout float64
}

func (l *playwrightLocator) Count() (int, error) {
	return l.loc.Count()
}

func (l *playwrightLocator) Nth(i int) Locator {
	return &playwrightLocator{loc: l.loc.Nth(i), timeout: l.timeout}
}

func (l *playwrightLocator) First() Locator {
	return &playwrightLocator{loc: l.loc.First(), timeout: l.timeout}
}

func (l *playwrightLocator) GetAttribute(name string) (string, error) {
	return l.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(l.timeout),
	})
}

func (l *playwrightLocator) InnerText() (string, error) {
	return l.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(l.timeout),
	})
}

func (l *playwrightLocator) AllInnerTexts() ([]string, error) {
	return l.loc.AllInnerTexts()
}

func (l *playwrightLocator) IsVisible() (bool, error) {
	return l.loc.IsVisible()
}

func (l *playwrightLocator) ScrollIntoView() error {
	return l.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(l.timeout),
	})
}

func (l *playwrightLocator) Click() error {
	return l.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(l.timeout),
	})
}

func (l *playwrightLocator) Fill(value string) error {
	return l.loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(l.timeout),
	})
}

type playwrightTab struct {
	page playwright.Page
}

func (t *playwrightTab) URL() string {
	return t.page.URL()
}

func (t *playwrightTab) WaitForLoad() error {
	return t.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
}

func (t *playwrightTab) Close() error {
	return t.page.Close()
}
