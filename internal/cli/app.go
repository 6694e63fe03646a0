package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/config"
	"github.com/DoyleJ11/lol-rune-draft/internal/logging"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// loadEngine reads the mappings and connects the inference sidecar.
func loadEngine(cfg config.Config, p *predict.Predictor) error {
	if cfg.ModelURL == "" {
		return fmt.Errorf("RUNEDRAFT_MODEL_URL is not set")
	}
	m, err := predict.LoadMappingsFile(cfg.MappingsPath())
	if err != nil {
		return err
	}
	return p.Load(m, predict.NewHTTPModel(cfg.ModelURL, nil))
}

// AddPersistentFlags registers flags every command understands.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
}
