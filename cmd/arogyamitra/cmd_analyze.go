package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"arogyamitra/internal/config"
	"arogyamitra/internal/diagnosis"
	"arogyamitra/internal/logging"
	"arogyamitra/internal/predictor"
	"arogyamitra/internal/report"
	"arogyamitra/internal/summarizer"
)

var (
	analyzeSymptoms string
	analyzeName     string
	analyzeAge      int
	analyzeGender   string
	analyzeWorker   string
	analyzeLocation string
	analyzeOutput   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full diagnostic pipeline and write the PDF report",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSymptoms, "symptoms", "", "comma-separated list of symptoms (required)")
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "patient name")
	analyzeCmd.Flags().IntVar(&analyzeAge, "age", -1, "patient age")
	analyzeCmd.Flags().StringVar(&analyzeGender, "gender", "", "patient gender")
	analyzeCmd.Flags().StringVar(&analyzeWorker, "worker", "", "healthcare worker name")
	analyzeCmd.Flags().StringVar(&analyzeLocation, "location", "", "location / PHC name")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "output PDF filename (defaults to the derived report name)")
	analyzeCmd.MarkFlagRequired("symptoms")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var symptoms []string
	for _, s := range strings.Split(analyzeSymptoms, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symptoms = append(symptoms, s)
		}
	}
	if len(symptoms) == 0 {
		return fmt.Errorf("at least one symptom is required")
	}

	req := diagnosis.DiagnosticRequest{
		Symptoms:      symptoms,
		PatientName:   analyzeName,
		PatientGender: analyzeGender,
		WorkerName:    analyzeWorker,
		Location:      analyzeLocation,
	}
	if analyzeAge >= 0 {
		age := analyzeAge
		req.PatientAge = &age
	}
	req.SetDefaults()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.New(cfg.Logging)

	artifacts, err := predictor.LoadArtifacts(cfg.Artifacts.Dir)
	if err != nil {
		return fmt.Errorf("loading model artifacts: %w", err)
	}

	llmClient := summarizer.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.Timeout)
	pipeline := diagnosis.NewPipeline(
		predictor.NewService(artifacts, logger),
		summarizer.NewService(llmClient, cfg.LLM.Timeout, logger),
		report.NewService(cfg.Report.Font, logger),
		cfg.Report.Prefix,
		logger,
	)

	fmt.Printf("Running analysis for %s with symptoms: %s\n", req.PatientName, strings.Join(symptoms, ", "))

	state, err := pipeline.Run(context.Background(), req)
	if err != nil {
		return err
	}

	filename := analyzeOutput
	if filename == "" {
		filename = state.Filename
	}
	if err := os.WriteFile(filename, state.Document, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Printf("PDF saved: %s\n", filename)
	return nil
}
