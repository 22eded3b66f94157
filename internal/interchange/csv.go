// Package interchange writes and reads the per-run delimited job file
// handed from the scraper to the loader.
package interchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-linkedin-jobhunter/internal/scraper"
)

// TagDelimiter joins tags inside the job_tags column. A delimiter or backslash
// inside a tag is escaped with a backslash.
const TagDelimiter = "|"

const tagEscape = '\\'

var tagEscaper = strings.NewReplacer(`\`, `\\`, TagDelimiter, `\`+TagDelimiter)

// JoinTags encodes tags for the job_tags column
func JoinTags(tags []string) string {
	escaped := make([]string, len(tags))
	for i, tag := range tags {
		escaped[i] = tagEscaper.Replace(tag)
	}
	return strings.Join(escaped, TagDelimiter)
}

// Columns is the fixed column order of the file
var Columns = []string{
	"job_id",
	"title",
	"company",
	"job_info",
	"job_tags",
	"job_description",
	"linkedin_url",
	"apply_url",
}

// CSVWriter writes one timestamped file per Flush into dir
type CSVWriter struct {
	dir string
	now func() time.Time
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, now: time.Now}
}

// Flush writes jobs to a new file and returns its path. The file appears
// atomically: it is written under a temp name and renamed when complete.
func (w *CSVWriter) Flush(jobs []scraper.Job) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("could not create output directory: %w", err)
	}

	filename := fmt.Sprintf("jobs-%s.csv", w.now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(w.dir, filename)

	tmp, err := os.CreateTemp(w.dir, filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, jobs); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("could not move %s into place: %w", filename, err)
	}
	return path, nil
}

// Write encodes jobs with a header row
func Write(out io.Writer, jobs []scraper.Job) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, job := range jobs {
		record := []string{
			job.ID,
			job.Title,
			job.Company,
			job.WorkContext,
			JoinTags(job.Tags),
			job.Description,
			job.SourceURL,
			job.ApplyURL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write job %s: %w", job.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// ReadFile decodes an interchange file
func ReadFile(path string) ([]scraper.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes an interchange stream. Columns are matched by header name.
func Read(in io.Reader) ([]scraper.Job, error) {
	cr := csv.NewReader(in)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index["job_id"]; !ok {
		return nil, errors.New("missing job_id column")
	}

	var jobs []scraper.Job
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		col := func(name string) string {
			if i, ok := index[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}
		job := scraper.Job{
			ID:          col("job_id"),
			Title:       col("title"),
			Company:     col("company"),
			WorkContext: col("job_info"),
			Tags:        SplitTags(col("job_tags")),
			Description: col("job_description"),
			SourceURL:   col("linkedin_url"),
			ApplyURL:    col("apply_url"),
		}
		if job.ID == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// SplitTags reverses the job_tags encoding. The result is never nil.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range raw {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == tagEscape:
			escaped = true
		case string(r) == TagDelimiter:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune(tagEscape)
	}
	parts = append(parts, cur.String())
	return scraper.CleanTags(parts)
}
