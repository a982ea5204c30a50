package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "imodel-browser.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	writer       io.WriteCloser
	errLog       *log.Logger
)

// Error writes errors to the shared log file.
func Error(err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	l := errorLoggerLocked()
	l.Println(err)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether trace entries are currently written.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}

	enc := json.NewEncoder(writerLocked())
	if err := enc.Encode(entry); err != nil {
		fmt.Fprintf(os.Stderr, "trace encoding failed: %v\n", err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing. The file is
// rotated once it grows past 10MB.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Path returns the active log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close flushes and releases the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func writerLocked() io.Writer {
	if writer == nil {
		writer = &lj.Logger{Filename: logPath, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
	}
	return writer
}

func errorLoggerLocked() *log.Logger {
	if errLog == nil {
		errLog = log.New(writerLocked(), "", log.LstdFlags)
	}
	return errLog
}

func closeLocked() {
	if writer != nil {
		if err := writer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing log failed: %v\n", err)
		}
	}
	writer = nil
	errLog = nil
}
