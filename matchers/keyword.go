package matchers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kova98/painhunt.api/enums"
)

// FirstMatch returns the first keyword, in the given order, that occurs in
// text. Comparison is case-insensitive. The keyword is returned as supplied.
func FirstMatch(text string, keywords []string, mode enums.MatchMode) (string, bool) {
	textLower := strings.ToLower(text)
	for _, keyword := range keywords {
		kw := strings.ToLower(keyword)
		if kw == "" {
			continue
		}
		if Matches(textLower, kw, mode) {
			return keyword, true
		}
	}
	return "", false
}

// Matches reports whether an already lowercased keyword occurs in an already
// lowercased text under the given mode.
func Matches(text, keyword string, mode enums.MatchMode) bool {
	if mode == enums.MatchModeExact {
		return MatchesWholeWord(text, keyword)
	}
	return MatchesPartially(text, keyword)
}

// MatchesWholeWord returns true if the keyword appears as a complete word in the text.
// Word boundaries are non-alphanumeric runes or the start/end of the string.
func MatchesWholeWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	idx := 0
	for idx <= len(text) {
		pos := strings.Index(text[idx:], keyword)
		if pos == -1 {
			return false
		}
		pos += idx

		before, _ := utf8.DecodeLastRuneInString(text[:pos])
		leftOk := pos == 0 || !isWordChar(before)

		endPos := pos + len(keyword)
		after, _ := utf8.DecodeRuneInString(text[endPos:])
		rightOk := endPos == len(text) || !isWordChar(after)

		if leftOk && rightOk {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[pos:])
		idx = pos + size
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func MatchesPartially(text, keyword string) bool {
	return strings.Contains(text, keyword)
}
