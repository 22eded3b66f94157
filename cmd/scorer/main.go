package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-linkedin-jobhunter/internal/ai"
	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/database"
	"go-linkedin-jobhunter/internal/profile"
	"go-linkedin-jobhunter/internal/telegram"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	rescore := flag.Bool("rescore", false, "score every job, not only unscored ones")
	ids := flag.String("ids", "", "comma-separated job ids to score (overrides -rescore)")
	limit := flag.Int("limit", 0, "maximum number of jobs to score (0 = no limit)")
	stats := flag.Bool("stats", false, "print scoring statistics and exit")
	initProfile := flag.Bool("init-profile", false, "write a sample profile if none exists and exit")
	flag.Parse()

	opts := options{
		selection: database.Selection{Rescore: *rescore, IDs: splitIDs(*ids), Limit: *limit},
		stats:     *stats,
		init:      *initProfile,
	}
	if err := run(*configPath, opts); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

type options struct {
	selection database.Selection
	stats     bool
	init      bool
}

func splitIDs(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func run(configPath string, opts options) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if opts.init {
		if _, err := profile.Load(cfg.Paths.Profile); err == nil {
			log.Printf("ℹ️ Profile already exists at %s", cfg.Paths.Profile)
			return nil
		}
		if err := profile.Save(cfg.Paths.Profile, profile.Sample()); err != nil {
			return err
		}
		log.Printf("✅ Sample profile saved to %s, edit it before scoring.", cfg.Paths.Profile)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	if opts.stats {
		return printStats(ctx, repo)
	}

	p, err := profile.Load(cfg.Paths.Profile)
	if errors.Is(err, profile.ErrNotFound) {
		return fmt.Errorf("%w (run with -init-profile to create one)", err)
	}
	if err != nil {
		return err
	}
	log.Printf("👤 Using profile for: %s", p.CurrentTitle)

	if cfg.GrokAPIKey == "" {
		return errors.New("GROK_API_KEY is not set")
	}
	matcher := ai.NewMatcher(ai.NewGrokClient(cfg.GrokAPIKey, cfg.Scoring.Model))

	var notifier ai.Notifier
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			notifier = bot
		}
	}

	scorer := ai.NewScorer(repo, matcher, p, notifier, ai.ScorerOptions{
		RatePerSecond:  cfg.Scoring.RatePerSecond,
		BatchSize:      cfg.Scoring.BatchSize,
		NotifyMinScore: cfg.Scoring.NotifyMinScore,
	})
	sum, err := scorer.Run(ctx, opts.selection)

	log.Printf("\n✅ Scoring completed! Processed: %d, Errors: %d, Notified: %d", sum.Processed, sum.Errors, sum.Notified)
	if sum.Processed > 0 {
		fmt.Print(ai.FormatDistribution(sum.Distribution))
	}
	return err
}

func printStats(ctx context.Context, repo *database.Repository) error {
	stats, err := repo.Stats(ctx)
	if err != nil {
		return err
	}
	log.Println("📊 Scoring Statistics")
	fmt.Printf("Total Jobs: %d\nScored Jobs: %d\nUnscored Jobs: %d\n", stats.Total, stats.Scored, stats.Unscored)
	if stats.Scored > 0 {
		fmt.Print(ai.FormatDistribution(stats.Distribution))
	}
	return nil
}
