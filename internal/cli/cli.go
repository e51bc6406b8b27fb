package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/flowctl/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments into a validated configuration.
// It returns the config, a boolean indicating the program should exit
// cleanly (help was printed), or an ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	flagSet := flag.NewFlagSet("flowctl", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowctl - An interactive client for a remote workflow-execution engine.

Connects to the engine's websocket endpoint and reads commands from stdin:
exec submits a plan, page fetches one page of an operator's results
(optionally exporting it as JSON Lines), kill terminates the execution.

Usage:
  flowctl [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	urlFlag := flagSet.String("url", "", "Engine websocket URL.")
	uFlag := flagSet.String("u", "", "Engine websocket URL (shorthand).")
	widFlag := flagSet.String("wid", "", "Workflow id, sent as the wid query parameter.")
	configFlag := flagSet.String("config", "", "Path to an optional HCL config file.")
	exportDirFlag := flagSet.String("export-dir", "", "Default directory for page exports.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := config.Default()

	if *configFlag != "" {
		fileCfg, err := config.LoadFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = config.Merge(cfg, fileCfg)
	}

	url := *urlFlag
	if url == "" {
		url = *uFlag
	}
	cfg = config.Merge(cfg, &config.Config{
		EngineURL:  url,
		WorkflowID: *widFlag,
		ExportDir:  *exportDirFlag,
		LogLevel:   strings.ToLower(*logLevelFlag),
		LogFormat:  strings.ToLower(*logFormatFlag),
	})

	validated, err := config.NewConfig(*cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return validated, false, nil
}
