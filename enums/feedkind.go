package enums

// FeedKind is one of the ranking variants the upstream exposes per subreddit.
type FeedKind string

const (
	FeedHot FeedKind = "hot"
	FeedNew FeedKind = "new"
	FeedTop FeedKind = "top"
)

// FeedKinds is the fixed order feeds are fetched and merged in.
// Earlier feeds win when the same post shows up more than once.
var FeedKinds = []FeedKind{FeedHot, FeedNew, FeedTop}

// TopWindow is the only ranking window ever requested for FeedTop.
const TopWindow = "month"
