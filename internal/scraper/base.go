// Define the job record and the interface shared by scrapers

package scraper

import (
	"context"

	"go-linkedin-jobhunter/internal/browser"
)

// NotAvailable is the sentinel for a text field that could not be extracted
const NotAvailable = "N/A"

// Job is one scraped posting. ID is the dedup key and is stable across runs.
type Job struct {
	ID          string   `json:"job_id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	WorkContext string   `json:"job_info"`
	Tags        []string `json:"job_tags"`
	Description string   `json:"job_description"`
	SourceURL   string   `json:"linkedin_url"`
	ApplyURL    string   `json:"apply_url"`
}

// Result summarizes one run
type Result struct {
	Jobs       []Job
	OutputPath string
	Pages      int
	Stop       StopReason
	//PageErr is the error that ended the crawl at a page boundary, if any
	PageErr error
}

type StopReason string

const (
	StopTargetReached StopReason = "target_reached"
	StopExhausted     StopReason = "exhausted"
	StopMaxPages      StopReason = "max_pages"
	StopPageError     StopReason = "page_error"
	StopCancelled     StopReason = "cancelled"
	StopFatal         StopReason = "fatal"
)

// Scraper defines the interface platform scrapers implement
type Scraper interface {
	//Scrape drives page until done and flushes what it collected
	Scrape(ctx context.Context, page browser.Page) (*Result, error)

	//Name is the platform name
	Name() string
}
