package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const defaultLogTimeFormat = "15:04:05"

func consoleWriter(timeFormat string) models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		TimeFormat: timeFormat,
		OutputType: models.OutputFormatLogfmt,
	}
}

// InitLogger builds the arbor logger from [logging]. File output goes to
// logs/ragkit.log next to the badger data directory.
func InitLogger(config *Config) arbor.ILogger {
	logger := arbor.NewLogger()

	timeFormat := config.Logging.TimeFormat
	if timeFormat == "" {
		timeFormat = defaultLogTimeFormat
	}

	if slices.Contains(config.Logging.Output, "file") {
		logsDir := filepath.Join(filepath.Dir(config.Storage.Badger.Path), "logs")
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to create logs directory: %v\n", err)
		} else {
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   filepath.Join(logsDir, "ragkit.log"),
				TimeFormat: timeFormat,
				MaxSize:    100 * 1024 * 1024, // 100 MB
				MaxBackups: 3,
				OutputType: models.OutputFormatLogfmt,
			})
		}
	}

	if slices.Contains(config.Logging.Output, "stdout") || slices.Contains(config.Logging.Output, "console") {
		logger = logger.WithConsoleWriter(consoleWriter(timeFormat))
	}

	return logger.WithLevelFromString(config.Logging.Level)
}

// NewQuietLogger returns a console logger at warn level, used where stdout carries a protocol
func NewQuietLogger() arbor.ILogger {
	return arbor.NewLogger().WithConsoleWriter(consoleWriter(defaultLogTimeFormat)).WithLevelFromString("warn")
}
