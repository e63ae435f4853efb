package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the text logger used by every command. PREVIEW_DEBUG
// forces debug output regardless of level.
func NewLogger(cfg Config, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.PreviewDebug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log, nil
}
