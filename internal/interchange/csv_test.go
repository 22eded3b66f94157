package interchange

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-linkedin-jobhunter/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_HeaderAndTagDelimiter(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []scraper.Job{{
		ID:          "4012",
		Title:       "Backend Engineer",
		Company:     "Acme, Inc.",
		WorkContext: "Remote · Full-time",
		Tags:        []string{"Remote", "Full-time"},
		Description: "Line one\nLine two",
		SourceURL:   "https://www.linkedin.com/jobs/search/?currentJobId=4012",
		ApplyURL:    "https://acme.example/careers/4012",
	}})
	require.NoError(t, err)

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, strings.Join(Columns, ","), lines[0])
	assert.Contains(t, buf.String(), "Remote|Full-time")
	assert.Contains(t, buf.String(), `"Acme, Inc."`)
}

func TestTags_DelimiterInsideTagSurvives(t *testing.T) {
	in := []string{"C++ | Go", `C:\dev`, "Remote"}
	joined := JoinTags(in)
	assert.Equal(t, `C++ \| Go|C:\\dev|Remote`, joined)
	assert.Equal(t, in, SplitTags(joined))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []scraper.Job{{ID: "7", Tags: in}}))
	jobs, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, in, jobs[0].Tags)

	assert.Equal(t, []string{"Remote", "Full-time"}, SplitTags("Remote|Full-time"))
	assert.Equal(t, []string{}, SplitTags(""))
}

func TestCSVWriter_FlushThenRead(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)
	w.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC) }

	jobs := []scraper.Job{
		{ID: "1", Title: "A", Company: "X", Tags: []string{"Remote"}},
		{ID: "2", Title: "B", Company: "Y", Tags: []string{}},
	}
	path, err := w.Flush(jobs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jobs-2026-10-14_09-30-05.csv"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Remote"}, got[0].Tags)
	assert.Equal(t, []string{}, got[1].Tags)
}

func TestCSVWriter_FlushEmpty(t *testing.T) {
	path, err := NewCSVWriter(t.TempDir()).Flush(nil)
	require.NoError(t, err)
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVWriter_FlushUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err := NewCSVWriter(filepath.Join(file, "out")).Flush(nil)
	assert.Error(t, err)
}

func TestRead_MissingIDColumn(t *testing.T) {
	_, err := Read(strings.NewReader("title,company\nA,B\n"))
	assert.Error(t, err)
}
