package ai

import (
	"context"
	"fmt"
	"strings"

	"go-linkedin-jobhunter/internal/models"
)

// Client is the interface for chat completion providers
type Client interface {
	//Complete sends one system and one user message and returns the raw reply
	Complete(ctx context.Context, system, user string) (string, error)
}

const descriptionLimit = 2000

// buildSystemPrompt creates the system instruction for the scoring model
func buildSystemPrompt() string {
	return "You are an expert career counselor specializing in job matching analysis."
}

func describeJob(job models.Job) string {
	tags := "None"
	if len(job.Tags) > 0 {
		tags = strings.Join(job.Tags, ", ")
	}
	desc := job.Description
	if r := []rune(desc); len(r) > descriptionLimit {
		desc = string(r[:descriptionLimit]) + "..."
	}
	return fmt.Sprintf("Job Title: %s\nCompany: %s\nLocation/Type: %s\nJob Tags: %s\nJob Description: %s",
		job.Title, job.Company, job.JobInfo, tags, desc)
}

// buildUserPrompt combines the candidate summary and the posting into the scoring request
func buildUserPrompt(profileSummary string, job models.Job) string {
	return fmt.Sprintf(`Analyze how well this job matches the candidate's profile and career goals.

CANDIDATE PROFILE:
%s

JOB POSTING:
%s

ANALYSIS INSTRUCTIONS:
1. CRITICAL LOCATION REQUIREMENT: The candidate only wants REMOTE work. If the posting does not explicitly offer remote work ("Remote", "Work from home", "WFH" or similar), treat it as a major mismatch.

2. Evaluate the match on:
   - Location/Work Style (most important)
   - Role Alignment with the target roles
   - Skills Match with required and preferred skills
   - Experience Level
   - Career Growth
   - Compensation Alignment

3. SCORING RULES:
   - Not explicitly remote: score 0-2 regardless of other factors
   - Explicitly remote: score 3-10 based on the other factors
   - 0-2 poor, 3-4 below average, 5-6 average, 7-8 good, 9-10 excellent

4. Give concise reasoning (max 250 words): address the remote requirement first, then strengths, gaps and a recommendation.

Respond ONLY with this JSON object, no markdown:
{"score": <integer 0-10>, "reasoning": "<analysis>"}`, profileSummary, describeJob(job))
}
