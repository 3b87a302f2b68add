package bootstrap

import (
	"flag"
	"fmt"

	"github.com/jonesrussell/request-manager/internal/config"
	"github.com/jonesrussell/request-manager/internal/logger"
)

// LoadConfig loads configuration. Uses the -config flag with the
// CONFIG_PATH-aware default.
func LoadConfig() (*config.Config, error) {
	configPath := flag.String("config", config.Path("config.yml"), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config, version string) (logger.Logger, error) {
	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:       level,
		Format:      "json",
		Development: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", "request-manager"),
		logger.String("version", version),
	), nil
}
