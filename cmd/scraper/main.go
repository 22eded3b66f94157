package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/interchange"
	"go-linkedin-jobhunter/internal/scraper"
	"go-linkedin-jobhunter/internal/scraper/linkedin"
	"go-linkedin-jobhunter/internal/telegram"

	"github.com/playwright-community/playwright-go"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	keyword := flag.String("keyword", "", "search keyword (overrides config)")
	target := flag.Int("target", 0, "number of jobs to collect (overrides config)")
	cookiesPath := flag.String("cookies", "", "optional browser-exported cookie file to import")
	flag.Parse()

	if err := run(*configPath, *keyword, *target, *cookiesPath); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
	log.Println("🏁 Execution finished.")
}

func run(configPath, keyword string, target int, cookiesPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if keyword != "" {
		cfg.Search.Keyword = keyword
	}
	if target > 0 {
		cfg.Search.TargetCount = target
	}
	log.Printf("🔧 Config loaded. Keyword: %q, target: %d", cfg.Search.Keyword, cfg.Search.TargetCount)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Timing.RunTimeoutMin)*time.Minute)
	defer cancel()

	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		if bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID); err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
			bot = nil
		} else {
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	var cookies []playwright.OptionalCookie
	if cookiesPath != "" {
		if cookies, err = browser.LoadCookies(cookiesPath); err != nil {
			log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
		} else {
			log.Printf("🍪 Loaded %d cookies", len(cookies))
		}
	}

	log.Println("🚀 Starting LinkedIn job scraper...")
	pm, err := browser.NewPlaywright(!cfg.Browser.ShowBrowser)
	if err != nil {
		return err
	}
	defer pm.Close()

	bctx, restored, err := pm.NewContext(cfg.Paths.StorageState, cookies)
	if err != nil {
		return err
	}
	defer bctx.Close()

	page, err := browser.NewPage(bctx, browser.PageOptions{
		ActionTimeout: float64(cfg.Timing.FieldTimeoutMs),
		ScreenshotDir: cfg.Paths.ScreenshotDir,
	})
	if err != nil {
		return err
	}
	log.Println("✅ Browser initialized successfully!")

	session := linkedin.NewCrawlSession(cfg.Paths.StorageState, restored, linkedin.Credentials{
		Email:    cfg.LinkedInEmail,
		Password: cfg.LinkedInPassword,
	})
	var s scraper.Scraper = linkedin.NewLinkedInScraper(cfg, session, interchange.NewCSVWriter(cfg.Paths.OutputDir), browser.HumanPacer{})

	log.Printf("\n▶️ Starting scraper: %s", s.Name())
	res, scrapeErr := s.Scrape(ctx, page)
	if res != nil {
		log.Printf("📦 %d jobs over %d pages (stop: %s)", len(res.Jobs), res.Pages, res.Stop)
		if res.PageErr != nil {
			log.Printf("⚠️ Crawl ended early: %v", res.PageErr)
		}
	}

	if bot != nil {
		if err := bot.SendRunSummary(res, scrapeErr); err != nil {
			log.Printf("⚠️ Failed to send summary to Telegram: %v", err)
		}
	}

	//leave the window up briefly so a watching operator sees the final state
	if ctx.Err() == nil && cfg.Timing.TeardownMs > 0 {
		log.Printf("⏳ Closing browser in %s", config.Ms(cfg.Timing.TeardownMs))
		time.Sleep(config.Ms(cfg.Timing.TeardownMs))
	}
	return scrapeErr
}
