package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/config"
)

// Init replaces the global zap logger, so callers use zap.L() afterwards.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case config.EnvProduction:
		l, err = zap.NewProduction()
	case config.EnvDevelopment, "":
		l, err = zap.NewDevelopment()
	default:
		return fmt.Errorf("unknown environment %q", environment)
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
