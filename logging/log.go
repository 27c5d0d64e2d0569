package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// logPath defines the default log file path.
var logPath string

// Logger is the global logger instance.
var Logger zerolog.Logger

// Init initializes the logger with a file output. Stdout may carry the
// protocol stream, so logs never go there.
func Init(level zerolog.Level) {
	// TODO: Add option to take log file path from user

	// os.TempDir gives temporary directory of any platform
	logPath = filepath.Join(os.TempDir(), "dsp-adapter-log.txt")

	// Open the log file. Create it if it doesn't exist.
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		panic("Couldn't Open File")
	}
	Logger = zerolog.New(f).Level(level).With().Timestamp().Logger()
}

// Path returns where the log file is written, empty before Init.
func Path() string {
	return logPath
}
