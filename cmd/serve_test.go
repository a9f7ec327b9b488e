package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/painhunt.api/config"
	"github.com/kova98/painhunt.api/exporter"
	"github.com/kova98/painhunt.api/handlers"
	"github.com/kova98/painhunt.api/models"
)

type stubScraper struct {
	posts []models.Post
	err   error
}

func (s stubScraper) Scrape(context.Context, models.ScrapeRequest) ([]models.Post, error) {
	return s.posts, s.err
}

func newTestRouter(t *testing.T, apiKey string, s handlers.Scraper) http.Handler {
	t.Helper()
	prev := config.Config
	config.Config.APIKey = apiKey
	t.Cleanup(func() { config.Config = prev })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newRouter(handlers.NewRedditHandler(logger, s))
}

func TestRouter_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, "", stubScraper{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, "", stubScraper{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "painhunt_")
}

func TestRouter_Subreddits(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, "", stubScraper{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reddit/subreddits", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.SubredditsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Subreddits, "SaaS")
}

func TestRouter_PostsAsJSON(t *testing.T) {
	s := stubScraper{posts: []models.Post{{ID: "a", Source: "SaaS", Title: "t", MatchedKeyword: "hate"}}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reddit/posts", strings.NewReader(`{"subreddits":["SaaS"],"keywords":["hate"]}`))
	newTestRouter(t, "", s).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "SaaS", posts[0]["subreddit"])
	assert.Equal(t, "hate", posts[0]["matchedKeyword"])
}

func TestRouter_EmptyResultIsEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reddit/posts", strings.NewReader(`{"subreddits":["SaaS"],"keywords":["hate"]}`))
	newTestRouter(t, "", stubScraper{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestRouter_BadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reddit/posts", strings.NewReader(`{"subreddits":["SaaS"],"keywords":["hate"],"limit":500}`))
	newTestRouter(t, "", stubScraper{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRouter_ExportIsAttachment(t *testing.T) {
	s := stubScraper{posts: []models.Post{{ID: "a", Source: "SaaS", Title: "t", MatchedKeyword: "hate"}}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reddit/export", strings.NewReader(`{"subreddits":["SaaS"],"keywords":["hate"]}`))
	newTestRouter(t, "", s).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.ContentType, rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="pain_points_\d{4}-\d{2}-\d{2}\.xlsx"$`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestRouter_APIKey(t *testing.T) {
	router := newTestRouter(t, "secret", stubScraper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reddit/subreddits", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reddit/subreddits", nil)
	req.Header.Set("x-api-key", "wrong")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reddit/subreddits", nil)
	req.Header.Set("x-api-key", "secret")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health is public")
}

func TestRouter_CORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, "secret", stubScraper{}).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/reddit/posts", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x-api-key")
}

func TestWriteResult_BadGateway(t *testing.T) {
	rec := httptest.NewRecorder()
	writeResult(rec, handlers.BadGateway(io.ErrUnexpectedEOF, "reddit authentication failed"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"reddit authentication failed"}`, rec.Body.String())
}
