package cmd

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kova98/painhunt.api/config"
	"github.com/kova98/painhunt.api/handlers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serveAction,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveAction(cmd *cobra.Command, _ []string) error {
	config.LoadConfig()

	logger := newLogger(os.Stdout, config.Config.LogLevel)
	slog.SetDefault(logger)

	scraper, err := newScraper(logger, config.Config)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.Config.Port,
		Handler:           newRouter(handlers.NewRedditHandler(logger, scraper)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", config.Config.Port, "env", config.Config.AppEnv)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-cmd.Context().Done():
	}

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRouter(reddit *handlers.RedditHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /reddit/subreddits", private(reddit.GetSubreddits))
	mux.HandleFunc("POST /reddit/posts", private(reddit.GetPosts))
	mux.HandleFunc("POST /reddit/export", private(reddit.ExportPosts))

	mux.HandleFunc("GET /healthz", public(handlers.Health))
	mux.Handle("GET /metrics", promhttp.Handler())

	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-api-key")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// private guards a handler with the configured API key. Without one every
// request is let through.
func private(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expected := config.Config.APIKey
		if expected != "" {
			key := r.Header.Get("x-api-key")
			if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
				slog.Debug("unauthorized request", "path", r.URL.Path)
				writeResult(w, handlers.Unauthorized("Invalid API key."))
				return
			}
		}

		public(handler)(w, r)
	}
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	if res.Error != nil && res.Code >= http.StatusInternalServerError {
		slog.Error("request failed", "code", res.Code, "error", res.Error.Error())
	}

	if res.File != nil {
		w.Header().Set("Content-Type", res.File.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.File.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.File.Data)))
		w.WriteHeader(res.Code)
		if _, err := w.Write(res.File.Data); err != nil {
			slog.Error("failed to write file response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}
