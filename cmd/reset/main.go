package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/database"
	"go-linkedin-jobhunter/internal/models"
)

const unset = -1

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	force := flag.Bool("force", false, "skip the confirmation prompt")
	minScore := flag.Int("min-score", unset, "reset scores >= this value (0-10)")
	maxScore := flag.Int("max-score", unset, "reset scores <= this value (0-10)")
	statsOnly := flag.Bool("stats", false, "show current scoring statistics only")
	flag.Parse()

	min, max, err := scoreRange(*minScore, *maxScore)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(2)
	}
	if err := run(*configPath, min, max, *force, *statsOnly); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

// scoreRange validates the flags; unset bounds come back nil
func scoreRange(min, max int) (*int, *int, error) {
	var lo, hi *int
	if min != unset {
		if min < models.MinScore || min > models.MaxScore {
			return nil, nil, fmt.Errorf("min-score must be between 0 and 10")
		}
		lo = &min
	}
	if max != unset {
		if max < models.MinScore || max > models.MaxScore {
			return nil, nil, fmt.Errorf("max-score must be between 0 and 10")
		}
		hi = &max
	}
	if lo != nil && hi != nil && *lo > *hi {
		return nil, nil, fmt.Errorf("min-score cannot be greater than max-score")
	}
	return lo, hi, nil
}

func describeRange(min, max *int) string {
	var parts []string
	if min != nil {
		parts = append(parts, fmt.Sprintf("score >= %d", *min))
	}
	if max != nil {
		parts = append(parts, fmt.Sprintf("score <= %d", *max))
	}
	if len(parts) == 0 {
		return "ALL scored jobs"
	}
	return strings.Join(parts, " AND ")
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func run(configPath string, min, max *int, force, statsOnly bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	stats, err := repo.Stats(ctx)
	if err != nil {
		return err
	}
	log.Println("📊 Current Statistics:")
	fmt.Printf("Total Jobs: %d\nScored Jobs: %d\nUnscored Jobs: %d\n", stats.Total, stats.Scored, stats.Unscored)
	if statsOnly {
		return nil
	}

	affected, err := repo.CountScoresInRange(ctx, min, max)
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Println("✅ No scored jobs match, nothing to reset")
		return nil
	}

	log.Printf("⚠️ About to reset %d jobs (%s)", affected, describeRange(min, max))
	if !force && !confirm(os.Stdin, os.Stdout, "Are you sure you want to reset these scores?") {
		log.Println("❌ Reset cancelled")
		return nil
	}

	n, err := repo.ResetScores(ctx, min, max)
	if err != nil {
		return err
	}
	log.Printf("✅ Successfully reset %d job scores", n)
	return nil
}
