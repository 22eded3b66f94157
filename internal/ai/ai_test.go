package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-linkedin-jobhunter/internal/database"
	"go-linkedin-jobhunter/internal/models"
	"go-linkedin-jobhunter/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	reply string
	err   error
	calls int
}

func (c *stubClient) Complete(ctx context.Context, system, user string) (string, error) {
	c.calls++
	return c.reply, c.err
}

func TestGrokClient_Complete(t *testing.T) {
	var got grokRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	c := NewGrokClient("key", "test-model", WithBaseURL(srv.URL))
	reply, err := c.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)

	assert.Equal(t, "hello", reply)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
}

func TestGrokClient_Errors(t *testing.T) {
	status := http.StatusTooManyRequests
	body := `{"error":{"message":"slow down"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer srv.Close()
	c := NewGrokClient("key", "", WithBaseURL(srv.URL))

	_, err := c.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "status 429")

	status, body = http.StatusOK, `{"error":{"message":"bad model"}}`
	_, err = c.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "bad model")

	body = `{"choices":[]}`
	_, err = c.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "no choices")
}

func TestCleanMarkdownJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanMarkdownJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownJSON("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownJSON(`  {"a":1} `))
}

func TestMatcher_Analyze(t *testing.T) {
	p := profile.Sample()
	job := models.Job{ID: "1", Title: "Go Engineer", Company: "Acme", JobInfo: "Remote"}

	cases := []struct {
		name   string
		reply  string
		err    error
		score  int
		reason string
	}{
		{"plain", `{"score": 7, "reasoning": "remote, good stack"}`, nil, 7, "remote, good stack"},
		{"markdown wrapped", "```json\n{\"score\": 9, \"reasoning\": \"great\"}\n```", nil, 9, "great"},
		{"clamped high", `{"score": 14, "reasoning": "x"}`, nil, 10, "x"},
		{"clamped low", `{"score": -3, "reasoning": "x"}`, nil, 0, "x"},
		{"string score", `{"score": "6", "reasoning": "x"}`, nil, 6, "x"},
		{"not json", `I think 8`, nil, 0, "Error occurred during analysis"},
		{"no score", `{"reasoning": "x"}`, nil, 0, "no score"},
		{"client error", ``, errors.New("timeout"), 0, "timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMatcher(&stubClient{reply: tc.reply, err: tc.err})
			res := m.Analyze(context.Background(), job, p)
			assert.Equal(t, tc.score, res.Score)
			assert.Contains(t, res.Reasoning, tc.reason)
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	job := models.Job{Title: "Go Engineer", Company: "Acme", Description: strings.Repeat("x", 2500)}
	prompt := buildUserPrompt("SUMMARY", job)
	assert.Contains(t, prompt, "SUMMARY")
	assert.Contains(t, prompt, "Job Tags: None")
	assert.Contains(t, prompt, strings.Repeat("x", 2000)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 2001))
}

type fakeStore struct {
	jobs    []models.Job
	sel     database.Selection
	updated map[string]int
	failID  string
}

func (f *fakeStore) JobsForScoring(ctx context.Context, sel database.Selection) ([]models.Job, error) {
	f.sel = sel
	return f.jobs, nil
}

func (f *fakeStore) UpdateScore(ctx context.Context, id string, score int, reasoning string) error {
	if id == f.failID {
		return errors.New("connection reset")
	}
	f.updated[id] = score
	return nil
}

type fakeNotifier struct{ sent []models.Job }

func (f *fakeNotifier) SendJob(job models.Job) error {
	f.sent = append(f.sent, job)
	return nil
}

func TestScorer_Run(t *testing.T) {
	store := &fakeStore{
		jobs:    []models.Job{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		updated: map[string]int{},
		failID:  "b",
	}
	notifier := &fakeNotifier{}
	client := &stubClient{reply: `{"score": 8, "reasoning": "fit"}`}
	scorer := NewScorer(store, NewMatcher(client), profile.Sample(), notifier, ScorerOptions{NotifyMinScore: 8})

	sel := database.Selection{Rescore: true, Limit: 3}
	sum, err := scorer.Run(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, sel, store.sel)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 1, sum.Errors)
	assert.Equal(t, 2, sum.Distribution[8])
	assert.Equal(t, map[string]int{"a": 8, "c": 8}, store.updated)

	require.Len(t, notifier.sent, 2)
	require.NotNil(t, notifier.sent[0].MatchScore)
	assert.Equal(t, 8, *notifier.sent[0].MatchScore)
	assert.Equal(t, 3, client.calls)
}

func TestScorer_CancelledWhileWaiting(t *testing.T) {
	store := &fakeStore{jobs: []models.Job{{ID: "a"}}, updated: map[string]int{}}
	scorer := NewScorer(store, NewMatcher(&stubClient{}), profile.Sample(), nil, ScorerOptions{RatePerSecond: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scorer.Run(ctx, database.Selection{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.updated)
}

func TestFormatDistribution(t *testing.T) {
	var dist [models.MaxScore + 1]int
	dist[10] = 1
	dist[0] = 3
	out := FormatDistribution(dist)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[1], "25.0%")
	assert.Contains(t, lines[11], "75.0%")
}
