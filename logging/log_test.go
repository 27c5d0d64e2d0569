package logging

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit(t *testing.T) {
	Init(zerolog.InfoLevel)

	if Path() == "" {
		t.Fatal("log path should be set after Init")
	}
	if _, err := os.Stat(Path()); err != nil {
		t.Fatalf("log file should exist: %v", err)
	}

	// Should not panic and should land in the file
	Logger.Info().Msg("hello")
}
