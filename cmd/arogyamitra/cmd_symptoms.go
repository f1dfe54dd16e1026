package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arogyamitra/internal/config"
	"arogyamitra/internal/predictor"
)

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List the symptoms the model knows",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		artifacts, err := predictor.LoadArtifacts(cfg.Artifacts.Dir)
		if err != nil {
			return fmt.Errorf("loading model artifacts: %w", err)
		}
		for _, s := range artifacts.DisplaySymptoms() {
			fmt.Println(s)
		}
		return nil
	},
}
