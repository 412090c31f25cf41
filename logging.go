package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	logDir        = "logs"
	logFileName   = "mazerunner.log"
	oldLogName    = "mazerunner.old.log"
	maxLogSize    = 10 * 1024 * 1024
	logFileFormat = log.LstdFlags | log.Lshortfile
)

// setupLogging points the standard logger at logs/mazerunner.log when debug
// is set and discards it otherwise. The terminal owns stdout and stderr while
// the game runs. A log file over maxLogSize is moved to mazerunner.old.log
// first. The returned file is nil when logging is off.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	path := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		// a failed rename just keeps appending to the big file
		_ = os.Rename(path, filepath.Join(logDir, oldLogName))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(logFileFormat)
	return f
}
