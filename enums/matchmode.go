package enums

import "fmt"

type MatchMode string

const (
	MatchModeInvalid MatchMode = ""

	// MatchModeBroad matches a keyword anywhere in the text.
	// "hate" matches "i hate this" and also "whatever".
	MatchModeBroad MatchMode = "broad"

	// MatchModeExact requires the keyword to stand on word boundaries.
	// "hate" matches "i hate this" but not "whatever".
	MatchModeExact MatchMode = "exact"
)

// ParseMatchMode maps a request value to a MatchMode. Empty input selects
// MatchModeBroad, which is the behaviour scrapes had before modes existed.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case MatchModeInvalid, MatchModeBroad:
		return MatchModeBroad, nil
	case MatchModeExact:
		return MatchModeExact, nil
	}
	return MatchModeInvalid, fmt.Errorf("invalid match mode: %q", s)
}
