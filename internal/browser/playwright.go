package browser

import (
	"fmt"
	"log"
	"os"

	"github.com/playwright-community/playwright-go"
)

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywright starts the driver and launches chromium
func NewPlaywright(headless bool) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewContext creates a browser context, restoring storageStatePath when the file exists.
// restored reports whether a stored session was used; it is a hint, not proof of login.
func (pm *PlaywrightManager) NewContext(storageStatePath string, cookies []playwright.OptionalCookie) (bctx playwright.BrowserContext, restored bool, err error) {
	opts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1366, Height: 900},
	}
	if SessionExists(storageStatePath) {
		opts.StorageStatePath = playwright.String(storageStatePath)
		restored = true
	}

	bctx, err = pm.browser.NewContext(opts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create browser context: %w", err)
	}
	if restored {
		log.Printf("ℹ️ Loaded storage state from %s", storageStatePath)
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			bctx.Close()
			return nil, false, fmt.Errorf("failed to add cookies: %w", err)
		}
		log.Printf("🍪 Added %d cookies to browser context", len(cookies))
	}
	return bctx, restored, nil
}

func (pm *PlaywrightManager) Close() error {
	if err := pm.browser.Close(); err != nil {
		log.Printf("⚠️ Failed to close browser: %v", err)
	}
	return pm.pw.Stop()
}

// SessionExists reports whether a stored session file is present
func SessionExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
