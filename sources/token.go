package sources

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kova98/painhunt.api/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// TokenSafetyMargin is how long before its reported expiry a token stops
// being handed out.
const TokenSafetyMargin = 60 * time.Second

type Token struct {
	Value     string
	ExpiresAt time.Time
}

// UsableAt reports whether the token can still be sent at now.
func (t Token) UsableAt(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-TokenSafetyMargin))
}

// TokenCache holds the app-only bearer token for the upstream API and
// refreshes it through the client-credentials grant.
type TokenCache struct {
	logger       *slog.Logger
	config       clientcredentials.Config
	httpClient   *http.Client
	now          func() time.Time
	refreshGroup singleflight.Group

	mu    sync.RWMutex
	token Token
}

func NewTokenCache(logger *slog.Logger, httpClient *http.Client, authURL, clientID, clientSecret, userAgent string) *TokenCache {
	return &TokenCache{
		logger: logger,
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     authURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: withUserAgent(httpClient, userAgent),
		now:        time.Now,
	}
}

// Token returns the cached token, or exchanges credentials for a new one.
// Concurrent callers during a refresh share a single upstream exchange.
func (c *TokenCache) Token(ctx context.Context) (Token, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	// The exchange outlives any single caller; each caller only stops waiting
	// when its own context ends.
	refresh := c.refreshGroup.DoChan("token", func() (interface{}, error) {
		if tok, ok := c.cached(); ok {
			return tok, nil
		}
		return c.exchange(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return Token{}, ctx.Err()
	case res := <-refresh:
		if res.Err != nil {
			return Token{}, res.Err
		}
		if res.Shared {
			c.logger.Debug("joined in-flight token refresh")
		}
		return res.Val.(Token), nil
	}
}

func (c *TokenCache) cached() (Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token.UsableAt(c.now())
}

func (c *TokenCache) exchange(ctx context.Context) (Token, error) {
	issuedAt := c.now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	res, err := c.config.Token(ctx)
	if err != nil {
		metrics.TokenExchanges.WithLabelValues(metrics.ResultError).Inc()
		c.logger.Error("token exchange failed", "error", truncateError(err))
		return Token{}, &AuthError{Err: err}
	}
	if res.Expiry.IsZero() {
		metrics.TokenExchanges.WithLabelValues(metrics.ResultError).Inc()
		return Token{}, &AuthError{Err: errors.New("token response missing expires_in")}
	}

	lifetime := time.Until(res.Expiry)
	token := Token{
		Value:     res.AccessToken,
		ExpiresAt: issuedAt.Add(lifetime),
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	metrics.TokenExchanges.WithLabelValues(metrics.ResultOK).Inc()
	c.logger.Info("refreshed reddit token", "lifetime_seconds", int(lifetime.Seconds()))

	return token, nil
}
