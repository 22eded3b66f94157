package models

import (
	"time"

	"go-linkedin-jobhunter/internal/scraper"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Job is a stored posting. MatchScore is nil until the scorer has seen it.
type Job struct {
	ID             string     `json:"job_id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	JobInfo        string     `json:"job_info"`
	Tags           []string   `json:"job_tags"`
	Description    string     `json:"job_description"`
	LinkedInURL    string     `json:"linkedin_url"`
	ApplyURL       string     `json:"apply_url"`
	MatchScore     *int       `json:"match_score,omitempty"`
	MatchReasoning *string    `json:"match_reasoning,omitempty"`
	ScoredAt       *time.Time `json:"scored_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FromScraped converts a scraped record into a row to insert
func FromScraped(j scraper.Job) Job {
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}
	return Job{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		JobInfo:     j.WorkContext,
		Tags:        tags,
		Description: j.Description,
		LinkedInURL: j.SourceURL,
		ApplyURL:    j.ApplyURL,
	}
}

// ScoreStats summarizes scoring progress. Distribution is indexed by score.
type ScoreStats struct {
	Total        int               `json:"total_jobs"`
	Scored       int               `json:"scored_jobs"`
	Unscored     int               `json:"unscored_jobs"`
	Distribution [MaxScore + 1]int `json:"score_distribution"`
}
