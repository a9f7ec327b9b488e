package sources

// SuggestedSubreddits are the communities offered to clients as a starting
// point. Requests may name any subreddit.
var SuggestedSubreddits = []string{
	// SaaS / tech
	"SaaS", "entrepreneur", "startups", "indiehackers", "webdev",
	"programming", "devops", "MachineLearning", "artificial",
	// small business
	"smallbusiness", "Entrepreneur", "freelance", "selfemployed",
	"realestate", "Accounting", "legaladvice",
	// creators
	"NewTubers", "podcasting", "blogging", "content_marketing",
	"freelanceWriters", "graphic_design", "UXDesign",
	// e-commerce
	"ecommerce", "shopify", "Etsy", "FulfillmentByAmazon",
	"dropship", "affiliatemarketing",
	// productivity / no-code
	"productivity", "Notion", "nocode", "automation",
}
