// Command imodel-browser lists the .bim snapshots in a documents directory and
// shows the categories and models of the one you open, with visibility toggles
// for its default spatial view.
package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/imodel-browser/internal/app"
	"github.com/atomicstack/imodel-browser/internal/config"
	"github.com/atomicstack/imodel-browser/internal/logging"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	defer logging.Close()

	events.App.Start(startupTracePayload(cfg))
	err := app.Run(cfg.App)
	events.App.Stop(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
