package main

import (
	"os"

	"github.com/atomicstack/imodel-browser/internal/config"
	"github.com/atomicstack/imodel-browser/internal/documents"
	"golang.org/x/term"
)

// startupTracePayload bundles runtime context for the app.start trace entry.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	payload := map[string]interface{}{
		"argv":         cfg.Args,
		"flags":        flags,
		"config":       cfg,
		"documentsDir": documents.Dir(cfg.App.DocumentsDir),
		"tty":          collectTTYDetails(),
	}
	setOrError(payload, "executable", os.Executable)
	setOrError(payload, "cwd", os.Getwd)
	return payload
}

// setOrError stores the result of get under key, or its error under key+"Error".
func setOrError(payload map[string]interface{}, key string, get func() (string, error)) {
	value, err := get()
	if err != nil {
		payload[key+"Error"] = err.Error()
		return
	}
	payload[key] = value
}

type ttyDetails struct {
	Detected *ttyDetected `json:"detected,omitempty"`
	Checks   []ttyCheck   `json:"checks"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyCheck struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects the standard descriptors in order. The first
// terminal with a readable size is reported as detected.
func collectTTYDetails() ttyDetails {
	var details ttyDetails
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		check := inspectTTY(f)
		if details.Detected == nil && check.IsTerminal && check.Error == "" {
			details.Detected = &ttyDetected{Source: check.Name, Width: check.Width, Height: check.Height}
		}
		details.Checks = append(details.Checks, check)
	}
	return details
}

func inspectTTY(f *os.File) ttyCheck {
	check := ttyCheck{Name: ttyName(f)}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return check
	}
	check.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Width, check.Height = width, height
	return check
}

func ttyName(f *os.File) string {
	switch f {
	case os.Stdin:
		return "stdin"
	case os.Stdout:
		return "stdout"
	case os.Stderr:
		return "stderr"
	}
	return f.Name()
}
