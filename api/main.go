package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"avissok/internal/archive"
	"avissok/internal/cache"
	"avissok/internal/chart"
	"avissok/internal/config"
	"avissok/internal/logger"
	"avissok/internal/pipeline"
	"avissok/internal/table"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:      log,
		cfg:      cfg,
		cache:    cache.New(cfg.CacheCapacity, cfg.CacheTTL),
		searcher: archive.New(cfg.ArchiveURL, cfg.ArchiveTimeout, log),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/api/status", srv.handleStatus)
	r.Post("/api/search", srv.handleSearch)
	r.Get("/", srv.handleIndex)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A search request may trigger a fresh archive fetch.
		WriteTimeout: cfg.ArchiveTimeout + 30*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	cache    *cache.Results
	searcher pipeline.Searcher
}

type searchResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    *chart.Payload `json:"data,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, searchResponse{
		Status:  "ok",
		Message: "archive search api is running",
	})
}

// handleSearch serves the chart payload for the configured query. An
// existing artifact (or a cached payload backed by one) is reused; a
// missing artifact triggers a fresh in-process run; a malformed artifact is
// reported as such, never silently replaced with empty data.
func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	name := table.ArtifactName(s.cfg.Phrase, s.cfg.Mode, s.cfg.FromYear, s.cfg.ToYear)
	path := filepath.Join(s.cfg.OutputDir, name)

	if payload, ok := s.cache.Get(name); ok {
		if _, err := os.Stat(path); err == nil {
			writeJSON(w, http.StatusOK, searchResponse{
				Status:  "success",
				Message: "serving cached results",
				Data:    &payload,
			})
			return
		}
		// Artifact gone; a cached payload would be stale.
		s.cache.Invalidate(name)
	}

	tbl, err := table.Read(path)
	switch {
	case err == nil:
		payload := chart.Build(tbl, s.cfg.TopN)
		s.cache.Put(name, payload)
		writeJSON(w, http.StatusOK, searchResponse{
			Status:  "success",
			Message: "serving existing search results",
			Data:    &payload,
		})

	case errors.Is(err, table.ErrArtifactMissing):
		s.runFresh(ctx, w, name)

	case errors.Is(err, table.ErrArtifactMalformed):
		s.log.Error("artifact malformed", slog.String("path", path), slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "stored results are malformed; delete the file and search again: " + err.Error(),
		})

	default:
		s.log.Error("read artifact", slog.String("path", path), slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *server) runFresh(ctx context.Context, w http.ResponseWriter, name string) {
	s.log.Info("no artifact on disk, running a fresh search")

	res, err := pipeline.Run(ctx, s.log, s.searcher, s.cfg.Query, s.cfg.OutputDir)
	if err != nil {
		s.log.Error("fresh run failed", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: "could not reach the newspaper archive: " + err.Error(),
		})
		return
	}

	payload := chart.Build(res.Table, s.cfg.TopN)
	s.cache.Put(name, payload)
	writeJSON(w, http.StatusOK, searchResponse{
		Status:  "success",
		Message: "search completed",
		Data:    &payload,
	})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join("web", "index.html"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; nothing useful to do on encode failure.
	_ = json.NewEncoder(w).Encode(payload)
}
