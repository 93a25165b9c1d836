package cli

import (
	"flag"
	"fmt"
	"os"

	"nexus-cli/internal/tui"
	"nexus-cli/internal/utils"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	backendURL, email, token, verbose := commonFlags(fs)
	logFile := fs.String("log-file", "", "write logs to this file (stderr is unusable under the TUI)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*backendURL, *email, *token, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	// Logging to stderr would corrupt the alternate screen, so without a
	// file target the TUI runs with logging off.
	var logger *utils.Logger
	if cfg.LogFile != "" {
		logger, err = utils.NewLoggerTo(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
	} else {
		logger = utils.NewNopLogger()
	}
	defer logger.Sync()

	authCtx, orch, bridge := buildStack(cfg, logger)

	if err := tui.Run(cfg, logger, authCtx, orch, bridge); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}
