package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kova98/painhunt.api/enums"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

type ScrapeRequest struct {
	Sources   []string        `json:"subreddits"`
	Keywords  []string        `json:"keywords"`
	Limit     int             `json:"limit"`
	MatchMode enums.MatchMode `json:"matchMode,omitempty"`
}

// Validate trims sources and keywords, applies defaults and returns the first
// problem with the request.
func (r *ScrapeRequest) Validate() error {
	if len(r.Sources) == 0 {
		return errors.New("at least one subreddit is required")
	}
	for i, s := range r.Sources {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("subreddit %d is empty", i)
		}
		r.Sources[i] = s
	}

	if len(r.Keywords) == 0 {
		return errors.New("at least one keyword is required")
	}
	for i, k := range r.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			return fmt.Errorf("keyword %d is empty", i)
		}
		r.Keywords[i] = k
	}

	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}

	mode, err := enums.ParseMatchMode(string(r.MatchMode))
	if err != nil {
		return err
	}
	r.MatchMode = mode

	return nil
}
