// Package logger builds the logrus loggers used by chanhub binaries.
package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Leegeev/chanhub/pkg/config"
)

// New returns a logger writing to out, configured from cfg. It does not touch
// the logrus standard logger.
func New(cfg config.Log, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: !cfg.Colors,
		})
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
	return l, nil
}
