package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by Load when no profile file exists
var ErrNotFound = errors.New("profile not found")

type Project struct {
	Title       string `json:"title"`
	Context     string `json:"context"`
	Action      string `json:"action"`
	Achievement string `json:"achievement"`
}

type JobHistory struct {
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	JobTitle    string    `json:"job_title"`
	Time        string    `json:"time"`
	Projects    []Project `json:"projects"`
}

// Profile is the candidate background and search goals the scorer matches jobs against
type Profile struct {
	CurrentTitle           string       `json:"current_title"`
	YearsExperience        int          `json:"years_experience"`
	ProfessionalExperience []JobHistory `json:"professional_experience"`
	Languages              []string     `json:"languages"`
	Technologies           []string     `json:"technologies"`
	Infrastructure         []string     `json:"infrastructure"`
	Education              string       `json:"education"`

	TargetRoles         []string `json:"target_roles"`
	MatchGoal           string   `json:"match_goal"`
	LocationPreferences []string `json:"location_preferences"`
	SalaryRange         string   `json:"salary_range,omitempty"`
	WorkPreferences     []string `json:"work_preferences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Load reads the profile at path
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if strings.TrimSpace(p.CurrentTitle) == "" {
		return nil, fmt.Errorf("profile %s has no current_title", path)
	}
	return &p, nil
}

// Save writes p as indented JSON and stamps UpdatedAt
func Save(path string, p *Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

const summaryListLimit = 8

// Summary renders the profile as the plain-text block used in scoring prompts
func (p *Profile) Summary() string {
	var b strings.Builder

	b.WriteString("Professional Background:\n")
	fmt.Fprintf(&b, "- Current Role: %s with %d years experience\n", p.CurrentTitle, p.YearsExperience)
	fmt.Fprintf(&b, "- Education: %s\n", p.Education)
	fmt.Fprintf(&b, "- Programming Languages: %s\n", strings.Join(p.Languages, ", "))
	fmt.Fprintf(&b, "- Technologies: %s\n", truncateList(p.Technologies))
	fmt.Fprintf(&b, "- Infrastructure: %s\n", truncateList(p.Infrastructure))

	b.WriteString("\nProfessional Experience:")
	for _, job := range p.ProfessionalExperience {
		fmt.Fprintf(&b, "\n• %s at %s (%s) - %s", job.JobTitle, job.CompanyName, job.Time, job.Location)
		for _, pr := range job.Projects {
			fmt.Fprintf(&b, "\n  - %s: %s %s %s", pr.Title, pr.Context, pr.Action, pr.Achievement)
		}
	}

	salary := p.SalaryRange
	if salary == "" {
		salary = "Not specified"
	}
	workStyle := "Flexible"
	if len(p.WorkPreferences) > 0 {
		workStyle = strings.Join(p.WorkPreferences, ", ")
	}

	b.WriteString("\n\nCareer Goals:\n")
	fmt.Fprintf(&b, "- Match Goal: %s\n", p.MatchGoal)
	fmt.Fprintf(&b, "- Target Roles: %s\n", strings.Join(p.TargetRoles, ", "))
	fmt.Fprintf(&b, "- Location Preferences: %s\n", strings.Join(p.LocationPreferences, ", "))
	fmt.Fprintf(&b, "- Salary Range: %s\n", salary)
	fmt.Fprintf(&b, "- Work Style: %s", workStyle)

	return b.String()
}

func truncateList(items []string) string {
	if len(items) <= summaryListLimit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:summaryListLimit], ", ") + "..."
}

// Sample is a starter profile written when none exists yet
func Sample() *Profile {
	return &Profile{
		CurrentTitle:    "Software Engineer",
		YearsExperience: 3,
		ProfessionalExperience: []JobHistory{{
			CompanyName: "Example Corp",
			Location:    "Remote",
			JobTitle:    "Backend Engineer",
			Time:        "2022 - Present",
			Projects: []Project{{
				Title:       "Order pipeline",
				Context:     "Checkout latency grew with traffic",
				Action:      "Moved order processing to Go workers behind a queue",
				Achievement: "Cut p95 latency by 40%",
			}},
		}},
		Languages:           []string{"Go", "Python", "SQL"},
		Technologies:        []string{"PostgreSQL", "Redis", "gRPC", "REST APIs"},
		Infrastructure:      []string{"Docker", "Kubernetes", "AWS", "Terraform"},
		Education:           "Bachelor's in Computer Science",
		TargetRoles:         []string{"Software Engineer", "Backend Engineer"},
		MatchGoal:           "Find a remote backend role working on distributed systems",
		LocationPreferences: []string{"Remote"},
		WorkPreferences:     []string{"Remote"},
	}
}
