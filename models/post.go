package models

// Post is a single upstream post after mapping. MatchedKeyword is empty until
// the post passes the keyword filter.
type Post struct {
	ID             string `json:"id"`
	Source         string `json:"subreddit"`
	Title          string `json:"title"`
	Body           string `json:"selftext"`
	Author         string `json:"author"`
	Score          int    `json:"score"`
	CommentCount   int    `json:"numComments"`
	URL            string `json:"url"`
	CreatedAt      int64  `json:"createdAt"`
	MatchedKeyword string `json:"matchedKeyword,omitempty"`
}

// WithKeyword returns a copy of p carrying the matched keyword.
func (p Post) WithKeyword(keyword string) Post {
	p.MatchedKeyword = keyword
	return p
}

// Text is the content keywords are matched against.
func (p Post) Text() string {
	return p.Title + " " + p.Body
}
