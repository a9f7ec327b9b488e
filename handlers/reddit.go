package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/kova98/painhunt.api/exporter"
	"github.com/kova98/painhunt.api/models"
	"github.com/kova98/painhunt.api/sources"
)

const maxRequestBody = 1 << 20

type Scraper interface {
	Scrape(ctx context.Context, req models.ScrapeRequest) ([]models.Post, error)
}

type RedditHandler struct {
	logger  *slog.Logger
	scraper Scraper
	now     func() time.Time
}

type SubredditsResponse struct {
	Subreddits []string `json:"subreddits"`
}

func NewRedditHandler(logger *slog.Logger, scraper Scraper) *RedditHandler {
	return &RedditHandler{
		logger:  logger,
		scraper: scraper,
		now:     time.Now,
	}
}

func (h *RedditHandler) GetSubreddits(w http.ResponseWriter, r *http.Request) Result {
	return Ok(SubredditsResponse{Subreddits: sources.SuggestedSubreddits})
}

func (h *RedditHandler) GetPosts(w http.ResponseWriter, r *http.Request) Result {
	req, res, ok := h.decode(w, r)
	if !ok {
		return res
	}

	posts, res, ok := h.scrape(r.Context(), req)
	if !ok {
		return res
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return Ok(posts)
}

func (h *RedditHandler) ExportPosts(w http.ResponseWriter, r *http.Request) Result {
	req, res, ok := h.decode(w, r)
	if !ok {
		return res
	}

	posts, res, ok := h.scrape(r.Context(), req)
	if !ok {
		return res
	}

	data, err := exporter.Export(posts)
	if err != nil {
		return InternalError(err, "export posts")
	}
	h.logger.Info("export ready", "posts", len(posts), "bytes", len(data))

	return Attachment(exporter.FileName(h.now()), exporter.ContentType, data)
}

func (h *RedditHandler) decode(w http.ResponseWriter, r *http.Request) (models.ScrapeRequest, Result, bool) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		return req, BadRequest("Invalid request."), false
	}
	if err := req.Validate(); err != nil {
		return req, BadRequest(err.Error()), false
	}
	return req, Result{}, true
}

func (h *RedditHandler) scrape(ctx context.Context, req models.ScrapeRequest) ([]models.Post, Result, bool) {
	posts, err := h.scraper.Scrape(ctx, req)
	if err == nil {
		return posts, Result{}, true
	}

	var authErr *sources.AuthError
	if errors.As(err, &authErr) {
		return nil, BadGateway(err, "reddit authentication failed"), false
	}
	return nil, InternalError(err, "scrape failed"), false
}
