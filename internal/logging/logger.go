// Package logging собирает logrus-логгер сервиса.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Форматы вывода.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New создаёт логгер. Пустой format выбирает text для debug и json для остальных уровней.
func New(level, format string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stdout, level, format)
}

// NewWithOutput то же, что New, но пишет в w.
func NewWithOutput(w io.Writer, level, format string) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
		if lvl >= logrus.DebugLevel {
			format = FormatText
		}
	}

	switch format {
	case FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	logger.Debug("Debug logging enabled")
	return logger, nil
}
