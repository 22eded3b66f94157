package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"go-linkedin-jobhunter/internal/models"
	"go-linkedin-jobhunter/internal/profile"
)

// MatchResult is the verdict on one job. Score is always within 0..10.
type MatchResult struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

type Matcher struct {
	client Client
}

func NewMatcher(client Client) *Matcher {
	return &Matcher{client: client}
}

// Analyze scores job against p. It never fails: any error yields score 0
// with the error as reasoning.
func (m *Matcher) Analyze(ctx context.Context, job models.Job, p *profile.Profile) MatchResult {
	res, err := m.analyze(ctx, job, p)
	if err != nil {
		log.Printf("❌ Error analyzing job %s: %v", job.ID, err)
		return MatchResult{Score: models.MinScore, Reasoning: "Error occurred during analysis: " + err.Error()}
	}
	return res
}

func (m *Matcher) analyze(ctx context.Context, job models.Job, p *profile.Profile) (MatchResult, error) {
	reply, err := m.client.Complete(ctx, buildSystemPrompt(), buildUserPrompt(p.Summary(), job))
	if err != nil {
		return MatchResult{}, err
	}

	var raw struct {
		Score     *json.Number `json:"score"`
		Reasoning string       `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleanMarkdownJSON(reply)), &raw); err != nil {
		return MatchResult{}, fmt.Errorf("failed to parse model reply: %w", err)
	}
	if raw.Score == nil {
		return MatchResult{}, fmt.Errorf("model reply has no score")
	}
	score, err := raw.Score.Float64()
	if err != nil {
		return MatchResult{}, fmt.Errorf("invalid score %q: %w", raw.Score.String(), err)
	}
	return MatchResult{Score: clampScore(int(score)), Reasoning: raw.Reasoning}, nil
}

func clampScore(s int) int {
	if s < models.MinScore {
		return models.MinScore
	}
	if s > models.MaxScore {
		return models.MaxScore
	}
	return s
}
