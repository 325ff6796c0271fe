package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/pipeline"
	"github.com/noah04091/contract-ai-sub004/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(env *pipelineEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/analyze", handleAnalyze(env))
	r.Get("/api/runs", handleListRuns(env))
	r.Get("/api/runs/{id}", handleGetRun(env))

	return r
}

type analyzeRequest struct {
	Text             string `json:"text"`
	Filename         string `json:"filename"`
	LanguageHint     string `json:"language_hint,omitempty"`
	JurisdictionHint string `json:"jurisdiction_hint,omitempty"`
}

// handleAnalyze runs one document synchronously and returns the full report.
// Validation failures map to 422, everything else to 502 so callers can
// distinguish bad input from a retryable outage.
func handleAnalyze(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
			return
		}
		if req.Filename == "" {
			req.Filename = "upload.txt"
		}

		doc := model.ContractDocument{
			Text:             req.Text,
			Filename:         req.Filename,
			LanguageHint:     req.LanguageHint,
			JurisdictionHint: req.JurisdictionHint,
		}

		run, err := env.Store.CreateRun(r.Context(), doc.Filename)
		if err != nil {
			zap.L().Error("create run failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		if err := env.Store.UpdateRunStatus(r.Context(), run.ID, model.RunStatusRunning); err != nil {
			zap.L().Warn("failed to mark run running", zap.String("run_id", run.ID), zap.Error(err))
		}

		report, err := env.Pipeline.Run(r.Context(), doc)
		if err != nil {
			if failErr := env.Store.FailRun(r.Context(), run.ID, err.Error()); failErr != nil {
				zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(failErr))
			}

			var failure *pipeline.Failure
			status := http.StatusBadGateway
			if errors.As(err, &failure) && !failure.Retryable {
				status = http.StatusUnprocessableEntity
			}
			writeJSON(w, status, map[string]string{"error": err.Error(), "run_id": run.ID})
			return
		}

		if err := env.Store.CompleteRun(r.Context(), run.ID, report); err != nil {
			zap.L().Warn("failed to persist report", zap.String("run_id", run.ID), zap.Error(err))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"run_id": run.ID,
			"report": report,
		})
	}
}

func handleListRuns(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.RunFilter{
			Status:       model.RunStatus(r.URL.Query().Get("status")),
			ContractType: r.URL.Query().Get("contract_type"),
		}

		runs, err := env.Store.ListRuns(r.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		// Reports are omitted from the listing; fetch a single run for details.
		for i := range runs {
			runs[i].Report = nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	}
}

func handleGetRun(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := env.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
