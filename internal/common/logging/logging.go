package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// ============================================================
// Logger
// ============================================================

// New строит логгер: в development человекочитаемый вывод в stdout,
// иначе production JSON.
func New(environment string) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	switch environment {
	case "development", "dev", "":
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
		logger, err = cfg.Build()
	default:
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Sugar(), nil
}

