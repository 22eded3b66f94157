package linkedin

import (
	"errors"
	"log"
	"strings"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/scraper"
)

var errEmptyField = errors.New("element is empty")

// field is the outcome of reading one detail-pane element
type field[T any] struct {
	value T
	err   error
}

// or returns the value, or logs why it is missing and returns fallback
func (f field[T]) or(id, name string, fallback T) T {
	if f.err == nil {
		return f.value
	}
	log.Printf("    ⚠️ [%s] %s unavailable: %v", id, name, f.err)
	return fallback
}

func readText(loc browser.Locator) field[string] {
	text, err := loc.InnerText()
	if err != nil {
		return field[string]{err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return field[string]{err: errEmptyField}
	}
	return field[string]{value: text}
}

func readTags(loc browser.Locator) field[[]string] {
	texts, err := loc.AllInnerTexts()
	if err != nil {
		return field[[]string]{err: err}
	}
	return field[[]string]{value: scraper.CleanTags(texts)}
}

// details is the detail pane content of the selected card
type details struct {
	title       string
	company     string
	workContext string
	tags        []string
	description string
}

// readDetails never fails: each missing field falls back independently
func (s *LinkedInScraper) readDetails(page browser.Page, id string) details {
	return details{
		title:       readText(page.Locator(s.sel.Title).First()).or(id, "title", scraper.NotAvailable),
		company:     readText(page.Locator(s.sel.Company).First()).or(id, "company", scraper.NotAvailable),
		workContext: readText(page.Locator(s.sel.WorkContext).First()).or(id, "work context", scraper.NotAvailable),
		tags:        readTags(page.Locator(s.sel.Tags)).or(id, "tags", []string{}),
		description: readText(page.Locator(s.sel.Description).First()).or(id, "description", scraper.NotAvailable),
	}
}
