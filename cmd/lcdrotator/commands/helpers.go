package commands

import (
	"github.com/systmms/lcdrotator/internal/config"
	"github.com/systmms/lcdrotator/internal/handler"
	"github.com/systmms/lcdrotator/internal/logging"
	"github.com/systmms/lcdrotator/internal/metrics"
	"github.com/systmms/lcdrotator/pkg/rotator"
)

// logger returns the configured logger, falling back to a quiet one when a
// command runs without the root command's PersistentPreRun (tests).
func logger(cfg *config.Config) *logging.Logger {
	if cfg.Logger == nil {
		cfg.Logger = logging.New(false, true)
	}
	return cfg.Logger
}

// newHandler builds a registry preloaded from the optional config file and
// a handler serving it.
func newHandler(cfg *config.Config, m *metrics.Recorder) (*handler.Handler, error) {
	log := logger(cfg)

	if err := cfg.LoadOptional(); err != nil {
		return nil, err
	}

	reg := rotator.NewRegistry(log)
	h := handler.New(reg, log, m)
	h.RedactValues(cfg.Secrets())

	n, err := cfg.Preload(reg)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		log.Debug("Preloaded %d rotators from %s", n, cfg.Path)
	}
	return h, nil
}
