package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kova98/painhunt.api/enums"
	"github.com/kova98/painhunt.api/metrics"
	"github.com/kova98/painhunt.api/models"
)

// redditSiteBase is prefixed to relative permalinks to build post URLs.
const redditSiteBase = "https://reddit.com"

type TokenProvider interface {
	Token(ctx context.Context) (Token, error)
}

// RedditClient fetches listing pages from the authenticated Reddit API.
type RedditClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	tokens     TokenProvider
	apiBase    string
	userAgent  string
}

func NewRedditClient(logger *slog.Logger, httpClient *http.Client, tokens TokenProvider, apiBase, userAgent string) *RedditClient {
	return &RedditClient{
		logger:     logger,
		httpClient: httpClient,
		tokens:     tokens,
		apiBase:    apiBase,
		userAgent:  userAgent,
	}
}

// FetchFeed returns at most limit posts from one feed of one subreddit.
// Token failures come back as *AuthError, everything else as *SourceFetchError.
func (c *RedditClient) FetchFeed(ctx context.Context, source string, kind enums.FeedKind, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = models.DefaultLimit
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	listing, status, err := c.fetchListing(ctx, token, source, kind, limit)
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	metrics.FeedFetchDuration.WithLabelValues(string(kind), result).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &SourceFetchError{Source: source, Feed: kind, StatusCode: status, Err: err}
	}

	children := listing.Data.Children
	posts := make([]models.Post, 0, min(len(children), limit))
	for _, child := range children {
		if len(posts) == limit {
			break
		}
		if child.Data.ID == "" {
			c.logger.Debug("skipping record without id", "subreddit", source, "feed", kind)
			continue
		}
		posts = append(posts, mapPost(child.Data, source))
	}

	c.logger.Debug("fetched feed", "subreddit", source, "feed", kind, "count", len(posts), "elapsed_ms", time.Since(start).Milliseconds())
	return posts, nil
}

func (c *RedditClient) fetchListing(ctx context.Context, token Token, source string, kind enums.FeedKind, limit int) (*models.RedditListing, int, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("raw_json", "1")
	if kind == enums.FeedTop {
		params.Set("t", enums.TopWindow)
	}
	endpoint := fmt.Sprintf("%s/r/%s/%s?%s", c.apiBase, url.PathEscape(source), kind, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, resp.StatusCode, fmt.Errorf("reddit returned: %s", string(body))
	}

	var listing models.RedditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode listing: %w", err)
	}

	return &listing, resp.StatusCode, nil
}

// mapPost converts a raw record. Missing optional fields fall back to safe
// defaults rather than rejecting the record.
func mapPost(raw models.RedditPost, requested string) models.Post {
	subreddit := raw.Subreddit
	if subreddit == "" {
		subreddit = requested
	}

	permalink := raw.Permalink
	if permalink == "" {
		permalink = buildPostPermalink(subreddit, raw.ID)
	}

	return models.Post{
		ID:           raw.ID,
		Source:       subreddit,
		Title:        raw.Title,
		Body:         raw.Selftext,
		Author:       raw.Author,
		Score:        raw.Score,
		CommentCount: max(raw.NumComments, 0),
		URL:          redditSiteBase + permalink,
		CreatedAt:    int64(raw.CreatedUTC),
	}
}

func buildPostPermalink(subreddit, postID string) string {
	return fmt.Sprintf("/r/%s/comments/%s", subreddit, postID)
}
