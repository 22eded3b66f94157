// Load envs from .env
// Load YAML config
// Apply env overrides and default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Search   Search   `yaml:"search"`
	Timing   Timing   `yaml:"timing"`
	Browser  Browser  `yaml:"browser"`
	Paths    Paths    `yaml:"paths"`
	Scoring  Scoring  `yaml:"scoring"`
	Server   Server   `yaml:"server"`
	Selector Selector `yaml:"selectors"`

	//Secrets, env only
	LinkedInEmail    string `yaml:"-"`
	LinkedInPassword string `yaml:"-"`
	DatabaseURL      string `yaml:"-"`
	GrokAPIKey       string `yaml:"-"`
	TelegramToken    string `yaml:"-"`
	TelegramChatID   int64  `yaml:"-"`
}

// Search holds the job search filters and crawl bounds
type Search struct {
	Keyword          string   `yaml:"keyword"`
	ExperienceLevels []string `yaml:"experience_levels"`
	RemoteOnly       bool     `yaml:"remote_only"`
	SortBy           string   `yaml:"sort_by"`
	PageSize         int      `yaml:"page_size"`
	TargetCount      int      `yaml:"target_count"`
	MaxPages         int      `yaml:"max_pages"`
}

// Timing values are in milliseconds
type Timing struct {
	SettleMs        int `yaml:"settle_ms"`
	LoginSettleMs   int `yaml:"login_settle_ms"`
	ClickJitterMin  int `yaml:"click_jitter_min_ms"`
	ClickJitterMax  int `yaml:"click_jitter_max_ms"`
	RecordJitterMin int `yaml:"record_jitter_min_ms"`
	RecordJitterMax int `yaml:"record_jitter_max_ms"`
	PopupJitterMin  int `yaml:"popup_jitter_min_ms"`
	PopupJitterMax  int `yaml:"popup_jitter_max_ms"`
	ApplyTimeoutMs  int `yaml:"apply_timeout_ms"`
	ApplyPollMs     int `yaml:"apply_poll_ms"`
	FieldTimeoutMs  int `yaml:"field_timeout_ms"`
	TeardownMs      int `yaml:"teardown_ms"`
	RunTimeoutMin   int `yaml:"run_timeout_min"`
}

type Browser struct {
	ShowBrowser      bool `yaml:"show_browser"`
	DebugScreenshots bool `yaml:"debug_screenshots"`
}

type Paths struct {
	StorageState  string `yaml:"storage_state"`
	OutputDir     string `yaml:"output_dir"`
	Profile       string `yaml:"profile"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type Scoring struct {
	Model          string  `yaml:"model"`
	RatePerSecond  float64 `yaml:"rate_per_second"`
	BatchSize      int     `yaml:"batch_size"`
	NotifyMinScore int     `yaml:"notify_min_score"`
}

type Server struct {
	Port string `yaml:"port"`
}

// Selector overrides for LinkedIn markup. Empty values keep the built-in ones.
type Selector struct {
	JobCard     string `yaml:"job_card"`
	SignIn      string `yaml:"sign_in"`
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	WorkContext string `yaml:"work_context"`
	Tags        string `yaml:"tags"`
	Description string `yaml:"description"`
	ApplyButton string `yaml:"apply_button"`
	Continue    string `yaml:"continue_button"`
	LoginError  string `yaml:"login_error"`
	LoginForm   string `yaml:"login_form"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Submit      string `yaml:"submit"`
}

// Load reads .env, the YAML file at path (missing file is a warning) and env overrides.
// Keys absent from the YAML keep their Defaults value, so an explicit 0 or false is honoured.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Could not read %s: %v. Using defaults.", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillBlanks()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LinkedInEmail = os.Getenv("LINKEDIN_EMAIL")
	c.LinkedInPassword = os.Getenv("LINKEDIN_PASSWORD")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.GrokAPIKey = os.Getenv("GROK_API_KEY")
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if keyword := os.Getenv("SEARCH_KEYWORD"); keyword != "" {
		c.Search.Keyword = keyword
	}
	if target := os.Getenv("TARGET_COUNT"); target != "" {
		n, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("invalid TARGET_COUNT: %w", err)
		}
		c.Search.TargetCount = n
	}
	return nil
}

// Defaults returns the built-in configuration: remote-only search, human pacing
func Defaults() *Config {
	return &Config{
		Search: Search{
			Keyword:          defaultKeyword,
			ExperienceLevels: []string{"2", "3", "4"},
			RemoteOnly:       true,
			SortBy:           "DD",
			PageSize:         25,
			TargetCount:      300,
			//LinkedIn stops serving results after 1000
			MaxPages: 40,
		},
		Timing: Timing{
			SettleMs:        3000,
			LoginSettleMs:   2000,
			ClickJitterMin:  1500,
			ClickJitterMax:  3000,
			RecordJitterMin: 3000,
			RecordJitterMax: 4000,
			PopupJitterMin:  1000,
			PopupJitterMax:  2000,
			ApplyTimeoutMs:  3000,
			ApplyPollMs:     100,
			FieldTimeoutMs:  2000,
			TeardownMs:      10000,
			RunTimeoutMin:   90,
		},
		Paths: Paths{
			StorageState:  defaultStorageState,
			OutputDir:     defaultOutputDir,
			Profile:       defaultProfile,
			ScreenshotDir: defaultScreenshotDir,
		},
		Scoring: Scoring{
			Model:          defaultModel,
			RatePerSecond:  2,
			BatchSize:      10,
			NotifyMinScore: 8,
		},
		Server: Server{Port: defaultPort},
	}
}

const (
	defaultKeyword       = "Software Engineer"
	defaultStorageState  = ".storage_state.json"
	defaultOutputDir     = ".scrapped_data"
	defaultProfile       = "user_profile.json"
	defaultScreenshotDir = "logs/screenshots"
	defaultModel         = "llama-3.3-70b-versatile"
	defaultPort          = "8080"
)

// fillBlanks restores defaults for strings and lists the YAML set to empty
func (c *Config) fillBlanks() {
	setBlank(&c.Search.Keyword, defaultKeyword)
	setBlank(&c.Search.SortBy, "DD")
	if len(c.Search.ExperienceLevels) == 0 {
		c.Search.ExperienceLevels = []string{"2", "3", "4"}
	}
	setBlank(&c.Paths.StorageState, defaultStorageState)
	setBlank(&c.Paths.OutputDir, defaultOutputDir)
	setBlank(&c.Paths.Profile, defaultProfile)
	setBlank(&c.Paths.ScreenshotDir, defaultScreenshotDir)
	setBlank(&c.Scoring.Model, defaultModel)
	setBlank(&c.Server.Port, defaultPort)
}

func setBlank(v *string, def string) {
	if strings.TrimSpace(*v) == "" {
		*v = def
	}
}

// Ms converts a millisecond config value into a time.Duration
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// TelegramEnabled reports whether both telegram secrets are present
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
