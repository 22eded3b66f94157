package browser

// Page is the primary crawl tab. Every call blocks until the browser answers
// or the adapter's own timeout elapses.
type Page interface {
	Goto(url string) error
	Reload() error
	WaitForLoad() error
	BringToFront() error
	URL() string
	Locator(selector string) Locator

	//WatchTabs delivers tabs opened by the page from now on. stop closes any
	//tab that was delivered but never received.
	WatchTabs() (tabs <-chan Tab, stop func())

	//SaveSession writes the browser storage state (cookies, local storage) as JSON
	SaveSession(path string) error

	//Screenshot captures the page for debugging and returns the file path
	Screenshot(name string) (string, error)
}

// Locator mirrors the subset of playwright's Locator the scrapers use
type Locator interface {
	Count() (int, error)
	Nth(i int) Locator
	First() Locator
	GetAttribute(name string) (string, error)
	InnerText() (string, error)
	AllInnerTexts() ([]string, error)
	IsVisible() (bool, error)
	ScrollIntoView() error
	Click() error
	Fill(value string) error
}

// Tab is an auxiliary tab opened by the primary page (external apply pages)
type Tab interface {
	URL() string
	WaitForLoad() error
	Close() error
}
