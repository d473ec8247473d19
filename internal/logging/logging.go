package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes the global logger with a rotating file sink under
// dataDir/logs. The TUI owns the terminal, so nothing is written to
// stdout or stderr once the program is running.
func Init(dataDir string, verbose bool) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "readiness.log"),
		MaxSize:    8, // megabytes
		MaxBackups: 4,
		MaxAge:     90, // days
		Compress:   true,
	}

	log.Logger = zerolog.New(fileWriter).
		With().
		Timestamp().
		Logger()

	return nil
}
