package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/imodel-browser/internal/app"
	"github.com/atomicstack/imodel-browser/internal/ui"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envConfigFile    = "IMODEL_BROWSER_CONFIG"
	envDocumentsDir  = "IMODEL_BROWSER_DOCUMENTS_DIR"
	envOpen          = "IMODEL_BROWSER_OPEN"
	envPanel         = "IMODEL_BROWSER_PANEL"
	envWidth         = "IMODEL_BROWSER_WIDTH"
	envHeight        = "IMODEL_BROWSER_HEIGHT"
	envShowFooter    = "IMODEL_BROWSER_FOOTER"
	envVerbose       = "IMODEL_BROWSER_VERBOSE"
	envTrace         = "IMODEL_BROWSER_TRACE"
	envLogFile       = "IMODEL_BROWSER_LOG_FILE"
	envWatch         = "IMODEL_BROWSER_WATCH"
	envWatchInterval = "IMODEL_BROWSER_WATCH_INTERVAL"

	defaultWatchInterval = 2 * time.Second
)

// File is the optional YAML configuration file. Its values are the lowest
// priority defaults, below environment variables and flags.
type File struct {
	DocumentsDir  string `yaml:"documents_dir"`
	Open          string `yaml:"open"`
	Panel         string `yaml:"panel"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Footer        *bool  `yaml:"footer"`
	Verbose       *bool  `yaml:"verbose"`
	Trace         *bool  `yaml:"trace"`
	LogFile       string `yaml:"log_file"`
	Watch         *bool  `yaml:"watch"`
	WatchInterval string `yaml:"watch_interval"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath := envOrDefault(env, envConfigFile, "")
	if path, ok := scanConfigFlag(args); ok {
		configPath = path
	}
	file, err := ReadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	fileInterval := defaultWatchInterval
	if strings.TrimSpace(file.WatchInterval) != "" {
		fileInterval, err = time.ParseDuration(file.WatchInterval)
		if err != nil {
			return Config{}, fmt.Errorf("config file %s: watch_interval: %w", configPath, err)
		}
	}

	fs := flag.NewFlagSet("imodel-browser", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "path to a YAML configuration file")
	documentsDir := fs.String("documents-dir", envOrDefault(env, envDocumentsDir, file.DocumentsDir), "directory listed for .bim snapshots (defaults to ~/Documents)")
	open := fs.String("open", envOrDefault(env, envOpen, file.Open), "snapshot to open right away")
	panel := fs.String("panel", envOrDefault(env, envPanel, file.Panel), "panel shown first: categories or models")
	width := fs.Int("width", envOrInt(env, envWidth, file.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, boolOr(file.Footer, false)), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, boolOr(file.Trace, false)), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, boolOr(file.Verbose, false)), "show a message after each action")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")
	watch := fs.Bool("watch", envOrBool(env, envWatch, boolOr(file.Watch, true)), "refresh the snapshot list when the documents directory changes")
	watchInterval := fs.Duration("watch-interval", envOrDuration(env, envWatchInterval, fileInterval), "polling interval used when filesystem notifications are unavailable")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *watchInterval <= 0 {
		return Config{}, fmt.Errorf("watch-interval must be > 0 (got %s)", *watchInterval)
	}

	cfg := Config{
		App: app.Config{
			DocumentsDir:  *documentsDir,
			Open:          *open,
			Panel:         strings.ToLower(strings.TrimSpace(*panel)),
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
			Verbose:       *verbose,
			Watch:         *watch,
			WatchInterval: *watchInterval,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"config":        configPath,
			"documentsDir":  *documentsDir,
			"open":          *open,
			"panel":         *panel,
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"trace":         strconv.FormatBool(*trace),
			"verbose":       strconv.FormatBool(*verbose),
			"logFile":       *logFile,
			"watch":         strconv.FormatBool(*watch),
			"watchInterval": watchInterval.String(),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// ReadFile decodes the YAML configuration at path. An empty path yields the
// zero File.
func ReadFile(path string) (File, error) {
	var file File
	if strings.TrimSpace(path) == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

// scanConfigFlag finds --config before the flag set is built, since the file
// supplies the other flags' defaults.
func scanConfigFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return "", false
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects an unknown panel name and an --open path that is missing
// or not a file.
func Validate(cfg Config) error {
	switch cfg.App.Panel {
	case "", ui.PanelCategories, ui.PanelModels:
	default:
		return fmt.Errorf("unknown panel %q (want %s or %s)", cfg.App.Panel, ui.PanelCategories, ui.PanelModels)
	}
	if path := strings.TrimSpace(cfg.App.Open); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		if info.IsDir() {
			return errors.New("open: " + path + " is a directory")
		}
	}
	return nil
}
