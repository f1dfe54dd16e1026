package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"arogyamitra/internal/config"
	"arogyamitra/internal/diagnosis"
	"arogyamitra/internal/logging"
	"arogyamitra/internal/predictor"
	"arogyamitra/internal/report"
	"arogyamitra/internal/summarizer"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.Logging)

	// 2. Model artifacts: loaded once, read-only for the process lifetime
	artifacts, err := predictor.LoadArtifacts(cfg.Artifacts.Dir)
	if err != nil {
		logger.Fatalf("failed to load model artifacts from %s: %v", cfg.Artifacts.Dir, err)
	}
	logger.WithField("symptoms", len(artifacts.Vocabulary)).Info("Model artifacts loaded")

	// 3. Stages and pipeline
	predictSvc := predictor.NewService(artifacts, logger)
	llmClient := summarizer.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.Timeout)
	summarizeSvc := summarizer.NewService(llmClient, cfg.LLM.Timeout, logger)
	reportSvc := report.NewService(cfg.Report.Font, logger)
	pipeline := diagnosis.NewPipeline(predictSvc, summarizeSvc, reportSvc, cfg.Report.Prefix, logger)

	handler := diagnosis.NewHandler(pipeline, artifacts.DisplaySymptoms(), logger)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "ArogyaMitra Diagnostic API",
			"status":  "running",
		})
	})
	r.Route("/api", func(r chi.Router) {
		diagnosis.RegisterRoutes(r, handler)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("addr", addr).Info("Server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal(err)
	}
}
