package matchers

import (
	"testing"

	"github.com/kova98/painhunt.api/enums"
	"github.com/stretchr/testify/assert"
)

func TestFirstMatch_Precedence(t *testing.T) {
	kw, ok := FirstMatch("foo and bar", []string{"foo", "bar"}, enums.MatchModeBroad)
	assert.True(t, ok)
	assert.Equal(t, "foo", kw)

	kw, ok = FirstMatch("foo and bar", []string{"bar", "foo"}, enums.MatchModeBroad)
	assert.True(t, ok)
	assert.Equal(t, "bar", kw, "request order decides, not position in text")
}

func TestFirstMatch_CaseInsensitive(t *testing.T) {
	kw, ok := FirstMatch("WHY IS THERE NO tool for FOO", []string{"foo"}, enums.MatchModeBroad)
	assert.True(t, ok)
	assert.Equal(t, "foo", kw)

	kw, ok = FirstMatch("i hate invoices", []string{"I Hate"}, enums.MatchModeBroad)
	assert.True(t, ok)
	assert.Equal(t, "I Hate", kw, "keyword is returned as supplied")
}

func TestFirstMatch_NoMatch(t *testing.T) {
	_, ok := FirstMatch("all good here", []string{"foo", "bar"}, enums.MatchModeBroad)
	assert.False(t, ok)
}

func TestFirstMatch_SkipsEmptyKeywords(t *testing.T) {
	kw, ok := FirstMatch("anything", []string{"", "any"}, enums.MatchModeBroad)
	assert.True(t, ok)
	assert.Equal(t, "any", kw)
}

func TestFirstMatch_ExactMode(t *testing.T) {
	_, ok := FirstMatch("whatever works", []string{"hate"}, enums.MatchModeExact)
	assert.False(t, ok)

	kw, ok := FirstMatch("I hate this", []string{"hate"}, enums.MatchModeExact)
	assert.True(t, ok)
	assert.Equal(t, "hate", kw)
}

func TestMatchesWholeWord_ExactMatch(t *testing.T) {
	assert.True(t, MatchesWholeWord("hello world", "hello"))
	assert.True(t, MatchesWholeWord("hello world", "world"))
	assert.True(t, MatchesWholeWord("hello world ", "world"))
	assert.True(t, MatchesWholeWord("hello", "hello"))
}

func TestMatchesWholeWord_NoMatch(t *testing.T) {
	assert.False(t, MatchesWholeWord("application", "app"))
	assert.False(t, MatchesWholeWord("unhappy", "happy"))
	assert.False(t, MatchesWholeWord("goodbye", "good"))
}

func TestMatchesWholeWord_WithPunctuation(t *testing.T) {
	assert.True(t, MatchesWholeWord("hello, world!", "hello"))
	assert.True(t, MatchesWholeWord("(app)", "app"))
	assert.True(t, MatchesWholeWord("check this app.", "app"))
}

func TestMatchesWholeWord_MultipleOccurrences(t *testing.T) {
	assert.True(t, MatchesWholeWord("the application has an app", "app"))
	assert.False(t, MatchesWholeWord("application apps", "app"))
}

func TestMatchesWholeWord_Unicode(t *testing.T) {
	assert.True(t, MatchesWholeWord("j'en ai marre", "marre"))
	assert.False(t, MatchesWholeWord("émarre", "marre"))
	assert.True(t, MatchesWholeWord("café marre", "marre"))
}

func TestMatchesWholeWord_EdgeCases(t *testing.T) {
	assert.False(t, MatchesWholeWord("", "app"))
	assert.False(t, MatchesWholeWord("app", ""))
	assert.True(t, MatchesWholeWord("app at start", "app"))
	assert.True(t, MatchesWholeWord("ends with app", "app"))
}

func TestMatchesPartially(t *testing.T) {
	assert.True(t, MatchesPartially("application", "app"))
	assert.True(t, MatchesPartially("unhappy", "happy"))
	assert.False(t, MatchesPartially("hello", "world"))
	assert.False(t, MatchesPartially("", "app"))
}
