package logging

import (
	"bytes"
	"testing"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	lvl := "warn"
	logger, err := NewLogger(&config.LogSettings{LogLevel: &lvl}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger, err = NewLogger(&config.LogSettings{LogLevel: &lvl}, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	bad := "loud"
	logger, err = NewLogger(&config.LogSettings{LogLevel: &bad}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestSourceFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetReportCaller(true)
	logger.SetFormatter(&SourceFormatter{Underlying: &logrus.TextFormatter{DisableColors: true}})

	logger.Info("hello")
	assert.Contains(t, buf.String(), sourceField+"=\"logger_test.go:")
}
