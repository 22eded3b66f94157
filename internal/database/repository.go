package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-linkedin-jobhunter/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a job id does not exist
var ErrNotFound = errors.New("job not found")

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	if connString == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Poolers in transaction mode (PgBouncer, Supabase) break on prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS job (
	job_id          TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	company         TEXT NOT NULL,
	job_info        TEXT,
	job_tags        TEXT[] NOT NULL DEFAULT '{}',
	job_description TEXT,
	linkedin_url    TEXT,
	apply_url       TEXT,
	match_score     INTEGER CHECK (match_score BETWEEN 0 AND 10),
	match_reasoning TEXT,
	scored_at       TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS job_match_score_idx ON job (match_score);
`

// EnsureSchema creates the job table if it is missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ---------------- JOB OPERATIONS ----------------

// InsertJobIgnore inserts job unless its id already exists. It reports whether a row was written.
func (r *Repository) InsertJobIgnore(ctx context.Context, job models.Job) (bool, error) {
	query := `
		INSERT INTO job (job_id, title, company, job_info, job_tags, job_description, linkedin_url, apply_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (job_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, job.ID, job.Title, job.Company, job.JobInfo, job.Tags, job.Description, job.LinkedInURL, job.ApplyURL)
	if err != nil {
		return false, fmt.Errorf("failed to insert job %s: %w", job.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListJobs returns one page of jobs ordered by id
func (r *Repository) ListJobs(ctx context.Context, offset, limit int) ([]models.Job, error) {
	rows, err := r.db.Query(ctx, selectJobs+` ORDER BY job_id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return collectJobs(rows)
}

func (r *Repository) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM job`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// GetJob retrieves a job by its posting id
func (r *Repository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	rows, err := r.db.Query(ctx, selectJobs+` WHERE job_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrNotFound
	}
	return &jobs[0], nil
}

// JobsForScoring returns the jobs a scoring run should look at
func (r *Repository) JobsForScoring(ctx context.Context, sel Selection) ([]models.Job, error) {
	query, args := scoringQuery(sel)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs for scoring: %w", err)
	}
	return collectJobs(rows)
}

// ---------------- SCORE OPERATIONS ----------------

// UpdateScore stores a scoring result and stamps scored_at
func (r *Repository) UpdateScore(ctx context.Context, id string, score int, reasoning string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE job SET match_score = $1, match_reasoning = $2, scored_at = now() WHERE job_id = $3`,
		score, reasoning, id)
	if err != nil {
		return fmt.Errorf("failed to update score of %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetScores clears scores, optionally only those within [min, max]. It returns the rows cleared.
func (r *Repository) ResetScores(ctx context.Context, min, max *int) (int64, error) {
	query, args := resetQuery(min, max)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to reset scores: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountScoresInRange counts scored jobs that ResetScores(min, max) would clear
func (r *Repository) CountScoresInRange(ctx context.Context, min, max *int) (int, error) {
	query, args := rangeCountQuery(min, max)
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scores: %w", err)
	}
	return n, nil
}

func (r *Repository) Stats(ctx context.Context) (models.ScoreStats, error) {
	var stats models.ScoreStats
	rows, err := r.db.Query(ctx, `SELECT match_score, count(*) FROM job GROUP BY match_score`)
	if err != nil {
		return stats, fmt.Errorf("failed to read score stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var score *int
		var n int
		if err := rows.Scan(&score, &n); err != nil {
			return stats, fmt.Errorf("failed to scan score stats: %w", err)
		}
		addToStats(&stats, score, n)
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to read score stats: %w", err)
	}
	return stats, nil
}

func addToStats(stats *models.ScoreStats, score *int, n int) {
	stats.Total += n
	if score == nil {
		stats.Unscored += n
		return
	}
	stats.Scored += n
	if *score >= models.MinScore && *score <= models.MaxScore {
		stats.Distribution[*score] += n
	}
}

const selectJobs = `
	SELECT job_id, title, company, coalesce(job_info, ''), job_tags, coalesce(job_description, ''),
		coalesce(linkedin_url, ''), coalesce(apply_url, ''), match_score, match_reasoning, scored_at, created_at
	FROM job`

func collectJobs(rows pgx.Rows) ([]models.Job, error) {
	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Job, error) {
		var j models.Job
		err := row.Scan(&j.ID, &j.Title, &j.Company, &j.JobInfo, &j.Tags, &j.Description,
			&j.LinkedInURL, &j.ApplyURL, &j.MatchScore, &j.MatchReasoning, &j.ScoredAt, &j.CreatedAt)
		if j.Tags == nil {
			j.Tags = []string{}
		}
		return j, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	return jobs, nil
}
