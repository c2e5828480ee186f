package logging

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/DeRuina/timberjack"
	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process wide logger from log_settings.
// debug forces the debug level regardless of the configured one.
func NewLogger(cfg *config.LogSettings, debug bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetLevel(parseLevel(cfg.LogLevel, debug))

	var output io.Writer = os.Stdout
	if cfg.LogFile != "" {
		output = io.MultiWriter(os.Stdout, &timberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		})
	}
	logger.SetOutput(output)

	logger.SetFormatter(&SourceFormatter{
		Underlying: &logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
			CallerPrettyfier: func(*runtime.Frame) (string, string) {
				return "", ""
			},
		},
	})
	logger.SetReportCaller(true)

	if cfg.LogFile != "" {
		logger.WithField("file", cfg.LogFile).Infoln("file logging enabled")
	}
	return logger, nil
}

func parseLevel(level *string, debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	if level == nil || *level == "" {
		return logrus.InfoLevel
	}
	lv, err := logrus.ParseLevel(strings.ToLower(*level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lv
}
