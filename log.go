package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "memegen").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "memegen.log"), nil
}

// setupLog keeps log output away from the TUI. Set MEMEGEN_DEBUG to write
// debug logs to a file in the user cache directory.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)
	if os.Getenv("MEMEGEN_DEBUG") == "" {
		return func() error { return nil }, nil
	}

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
