package linkedin

import (
	"fmt"
	"log"
	"strings"

	"go-linkedin-jobhunter/internal/browser"
)

// collectJobIDs reads the posting ids of the visible result cards in page order
func collectJobIDs(page browser.Page, sel Selectors) ([]string, error) {
	cards := page.Locator(sel.JobCard)
	count, err := cards.Count()
	if err != nil {
		return nil, fmt.Errorf("count job cards: %w", err)
	}

	ids := make([]string, 0, count)
	seen := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		id, err := cards.Nth(i).GetAttribute(sel.JobIDAttr)
		if err != nil {
			log.Printf("    ⚠️ Card %d has no readable id: %v", i, err)
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	log.Printf("📄 Found %d job cards (%d ids).", count, len(ids))
	return ids, nil
}
