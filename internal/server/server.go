package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"go-linkedin-jobhunter/internal/database"
	"go-linkedin-jobhunter/internal/models"

	"github.com/gin-gonic/gin"
)

// JobReader is the read side of the job store
type JobReader interface {
	ListJobs(ctx context.Context, offset, limit int) ([]models.Job, error)
	CountJobs(ctx context.Context) (int, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
}

const defaultLimit = 9

// PageSizes are the page sizes the dashboard offers
var PageSizes = []int{6, 9, 12, 15}

type Server struct {
	store JobReader
}

// NewRouter wires the dashboard, the JSON API and the health check
func NewRouter(store JobReader) *gin.Engine {
	s := &Server{store: store}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(dashboardTemplate)

	r.GET("/", s.dashboard)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/jobs", s.listJobs)
	v1.GET("/jobs/:id", s.getJob)
	return r
}

type pageQuery struct {
	Page  int
	Limit int
}

func parsePage(c *gin.Context) (pageQuery, error) {
	q := pageQuery{Page: 1, Limit: defaultLimit}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, fmt.Errorf("page must be a positive integer")
		}
		q.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !validLimit(n) {
			return q, fmt.Errorf("limit must be one of %v", PageSizes)
		}
		q.Limit = n
	}
	return q, nil
}

func validLimit(n int) bool {
	for _, size := range PageSizes {
		if n == size {
			return true
		}
	}
	return false
}

type jobPage struct {
	Jobs       []models.Job `json:"jobs"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

func (s *Server) loadPage(ctx context.Context, q pageQuery) (jobPage, error) {
	total, err := s.store.CountJobs(ctx)
	if err != nil {
		return jobPage{}, err
	}
	jobs, err := s.store.ListJobs(ctx, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return jobPage{}, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobPage{
		Jobs:       jobs,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

func (s *Server) listJobs(c *gin.Context) {
	q, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := s.loadPage(c.Request.Context(), q)
	if err != nil {
		log.Printf("❌ Failed to list jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.store.GetJob(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to get job %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) dashboard(c *gin.Context) {
	q, err := parsePage(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.loadPage(c.Request.Context(), q)
	if err != nil {
		log.Printf("❌ Failed to render dashboard: %v", err)
		c.String(http.StatusInternalServerError, "failed to load jobs")
		return
	}
	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Page":      page,
		"PageSizes": PageSizes,
		"Prev":      page.Page - 1,
		"Next":      page.Page + 1,
		"HasNext":   page.Page < page.TotalPages,
	})
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"truncate": func(s string, n int) string {
		if r := []rune(s); len(r) > n {
			return string(r[:n]) + "..."
		}
		return s
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Job Listings</title>
<style>
body { font-family: sans-serif; margin: 16px; }
.grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 8px; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 8px; height: 220px; overflow: hidden; }
.card h4 { margin: 0 0 4px 0; }
.meta { font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>Job Listings</h1>
<p>{{.Page.Total}} jobs, page {{.Page.Page}} of {{.Page.TotalPages}}</p>
<div class="grid">
{{range .Page.Jobs}}
<div class="card">
<h4>{{.Title}}</h4>
<div class="meta"><b>Company:</b> {{.Company}}</div>
<div class="meta"><b>Job Info:</b> {{.JobInfo}}</div>
{{if .Tags}}<div class="meta"><b>Tags:</b> {{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}</div>{{end}}
{{if .MatchScore}}<div class="meta"><b>Score:</b> {{.MatchScore}}/10</div>{{end}}
<div class="meta">{{if .LinkedInURL}}<a href="{{.LinkedInURL}}" target="_blank">LinkedIn</a>{{end}}
{{if .ApplyURL}} | <a href="{{.ApplyURL}}" target="_blank">Apply</a>{{end}}</div>
<p class="meta">{{truncate .Description 300}}</p>
</div>
{{end}}
</div>
<p>
{{if gt .Prev 0}}<a href="/?page={{.Prev}}&limit={{.Page.Limit}}">Previous</a>{{end}}
{{if .HasNext}}<a href="/?page={{.Next}}&limit={{.Page.Limit}}">Next</a>{{end}}
</p>
<p>Per page: {{range .PageSizes}}<a href="/?limit={{.}}">{{.}}</a> {{end}}</p>
</body>
</html>`))
