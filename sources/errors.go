package sources

import (
	"fmt"

	"github.com/kova98/painhunt.api/enums"
)

// AuthError means the upstream rejected or garbled the credentials exchange.
// It aborts the whole scrape.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("reddit auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// SourceFetchError is a failed page fetch for one source and feed. The
// scraper absorbs it at the source boundary.
type SourceFetchError struct {
	Source     string
	Feed       enums.FeedKind
	StatusCode int
	Err        error
}

func (e *SourceFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch r/%s/%s: status %d: %v", e.Source, e.Feed, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch r/%s/%s: %v", e.Source, e.Feed, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

func truncateError(err error) error {
	msg := err.Error()
	if len(msg) > 300 {
		return fmt.Errorf("%s...", msg[:300])
	}
	return err
}
