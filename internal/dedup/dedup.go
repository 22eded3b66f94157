package dedup

import (
	"go-linkedin-jobhunter/internal/scraper"
)

// OrderedSet accumulates jobs keyed by ID in insertion order.
// The first observation of an ID wins; later ones are ignored.
// Owned by a single crawl loop, so it is not safe for concurrent use.
type OrderedSet struct {
	order []string
	jobs  map[string]scraper.Job
}

func NewOrderedSet() *OrderedSet {
	return &OrderedSet{jobs: make(map[string]scraper.Job)}
}

// Has checks if an ID has already been accumulated
func (s *OrderedSet) Has(id string) bool {
	_, exists := s.jobs[id]
	return exists
}

// Add inserts job unless its ID is already present. It reports whether it was added.
func (s *OrderedSet) Add(job scraper.Job) bool {
	if job.ID == "" || s.Has(job.ID) {
		return false
	}
	if job.Tags == nil {
		job.Tags = []string{}
	}
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	return true
}

func (s *OrderedSet) Len() int {
	return len(s.order)
}

// Jobs returns a copy of the accumulated jobs in insertion order
func (s *OrderedSet) Jobs() []scraper.Job {
	out := make([]scraper.Job, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.jobs[id])
	}
	return out
}
