package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TokenExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painhunt_token_exchanges_total",
		Help: "Client-credentials exchanges against the upstream auth endpoint.",
	}, []string{"result"})

	FeedFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "painhunt_feed_fetch_duration_seconds",
		Help:    "Latency of a single feed page fetch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed", "result"})

	SourcesScraped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painhunt_sources_scraped_total",
		Help: "Sources processed by the scraper, by outcome.",
	}, []string{"outcome"})

	PostsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painhunt_posts_scanned_total",
		Help: "Unique posts inspected by the keyword filter.",
	})

	PostsMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painhunt_posts_matched_total",
		Help: "Posts that matched at least one keyword.",
	})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painhunt_exports_total",
		Help: "Spreadsheet exports, by result.",
	}, []string{"result"})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)
