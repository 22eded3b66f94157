package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go-linkedin-jobhunter/internal/browser"
	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/scraper/linkedin"

	"github.com/playwright-community/playwright-go"
)

// Checks whether the stored session (or imported cookies) is still signed in
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	cookiesPath := flag.String("cookies", "", "browser-exported cookie file to import")
	save := flag.Bool("save", false, "write the storage state when the session is authenticated")
	flag.Parse()

	state, err := run(*configPath, *cookiesPath, *save)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if state != linkedin.NavAuthenticated {
		os.Exit(1)
	}
}

func run(configPath, cookiesPath string, save bool) (linkedin.NavState, error) {
	fmt.Println("🌐 Checking LinkedIn session...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return linkedin.NavUnverified, err
	}

	var cookies []playwright.OptionalCookie
	if cookiesPath != "" {
		if cookies, err = browser.LoadCookies(cookiesPath); err != nil {
			return linkedin.NavUnverified, fmt.Errorf("failed to load cookies: %w", err)
		}
		fmt.Printf("✅ Loaded %d cookies\n", len(cookies))
	}

	pm, err := browser.NewPlaywright(!cfg.Browser.ShowBrowser)
	if err != nil {
		return linkedin.NavUnverified, err
	}
	defer pm.Close()
	fmt.Println("✅ Playwright started")

	bctx, restored, err := pm.NewContext(cfg.Paths.StorageState, cookies)
	if err != nil {
		return linkedin.NavUnverified, err
	}
	defer bctx.Close()
	if !restored && len(cookies) == 0 {
		fmt.Printf("ℹ️ No stored session at %s\n", cfg.Paths.StorageState)
	}

	page, err := browser.NewPage(bctx, browser.PageOptions{ScreenshotDir: cfg.Paths.ScreenshotDir})
	if err != nil {
		return linkedin.NavUnverified, err
	}

	target := linkedin.SearchURL(cfg.Search, 1)
	fmt.Printf("🔍 Navigating to %s\n", target)
	if err := page.Goto(target); err != nil {
		fmt.Printf("⚠️ Navigation failed: %v\n", err)
		return linkedin.NavSignInRequired, nil
	}
	if err := (browser.HumanPacer{}).Sleep(context.Background(), config.Ms(cfg.Timing.SettleMs)); err != nil {
		return linkedin.NavUnverified, err
	}

	sel := linkedin.SelectorsFromConfig(cfg.Selector)
	visible, probeErr := page.Locator(sel.SignIn).First().IsVisible()
	state := linkedin.ClassifyProbe(visible, probeErr)
	cards, _ := page.Locator(sel.JobCard).Count()
	fmt.Printf("✅ Session state: %s (%d job cards visible)\n", state, cards)

	if path, err := page.Screenshot("session_check"); err != nil {
		log.Printf("Failed to take screenshot: %v", err)
	} else {
		fmt.Printf("📸 Screenshot saved: %s\n", path)
	}

	if save && state == linkedin.NavAuthenticated {
		if err := page.SaveSession(cfg.Paths.StorageState); err != nil {
			return state, err
		}
		fmt.Printf("💾 Session saved to %s\n", cfg.Paths.StorageState)
	}
	return state, nil
}
