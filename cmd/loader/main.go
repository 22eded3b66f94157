package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-linkedin-jobhunter/internal/config"
	"go-linkedin-jobhunter/internal/database"
	"go-linkedin-jobhunter/internal/interchange"
	"go-linkedin-jobhunter/internal/models"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	latest := flag.Bool("latest", false, "load the newest file in the output directory")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: loader [-config path] (-latest | <file.csv>)\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configPath, *latest, flag.Arg(0)); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func run(configPath string, latest bool, name string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	path, err := resolveInput(cfg.Paths.OutputDir, latest, name)
	if err != nil {
		return err
	}
	jobs, err := interchange.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	log.Printf("📄 Read %d jobs from %s", len(jobs), path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	inserted, skipped := 0, 0
	for _, j := range jobs {
		ok, err := repo.InsertJobIgnore(ctx, models.FromScraped(j))
		if err != nil {
			return err
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}
	log.Printf("✅ Data loaded from %s: %d inserted, %d already present", path, inserted, skipped)
	return nil
}

// resolveInput finds the file to load: an explicit path, a bare name inside
// the output directory, or the newest interchange file there.
func resolveInput(outputDir string, latest bool, name string) (string, error) {
	if latest {
		matches, err := filepath.Glob(filepath.Join(outputDir, "jobs-*.csv"))
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			return "", fmt.Errorf("no job files in %s", outputDir)
		}
		//timestamped names sort chronologically
		sort.Strings(matches)
		return matches[len(matches)-1], nil
	}

	if name == "" {
		return "", errors.New("no input file given (pass a file or -latest)")
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if !strings.ContainsRune(name, os.PathSeparator) {
		candidate := filepath.Join(outputDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("file not found: %s", name)
}
