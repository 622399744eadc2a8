// Package main implements the tasking CLI tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amonks/tasking/internal/config"
	"github.com/amonks/tasking/internal/log"
	loglogrus "github.com/amonks/tasking/internal/log/logrus"
	"github.com/amonks/tasking/internal/paths"
	"github.com/amonks/tasking/task"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasking",
	Short: "Tasking - a small to-do list kept in one JSON file",
	Long: `Tasking keeps a list of tasks with a status each.

Tasks are saved to task.json beside the tasking executable unless --file
or the store.file config key points somewhere else.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
}

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

var (
	rootFile      string
	rootConfig    string
	rootDebug     bool
	rootLogFormat string
)

// Set by setupRoot before any subcommand runs.
var (
	appConfig *config.Config
	appLogger log.Logger = log.Noop
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFile, "file", "f", "", "Save file (default: task.json beside the executable)")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "Extra config file, applied after the global and local ones")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", logFormatText, "Log format (text, json)")
}

func setupRoot(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr, rootDebug, rootLogFormat)
	if err != nil {
		return err
	}
	appLogger = logger

	var extra []string
	if rootConfig != "" {
		extra = append(extra, rootConfig)
	}
	cfg, err := config.Load(extra...)
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}

// newLogger returns the application logger. Logs go to out so that stdout
// only carries command output.
func newLogger(out io.Writer, debug bool, format string) (log.Logger, error) {
	logrusLog := logrus.New()
	logrusLog.Out = out
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	switch format {
	case "", logFormatText:
		noColor := !isTerminalWriter(out) || os.Getenv("NO_COLOR") != ""
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			DisableColors: noColor,
		})
	case logFormatJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (use %s or %s)", format, logFormatText, logFormatJSON)
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": buildVersion,
	})
	logger.Debugf("Debug level is enabled")

	return logger, nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveSaveFile picks the save file: --file, then store.file from config,
// then task.json beside the executable.
func resolveSaveFile(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.Store.File != "" {
		return cfg.Store.File
	}
	return paths.DefaultSaveFile()
}

// openSession loads the task list for a command.
func openSession() (*task.Session, error) {
	cfg := appConfig
	if cfg == nil {
		cfg = config.Default()
	}

	labels, err := task.LabelsForLanguage(cfg.Display.Language)
	if err != nil {
		return nil, err
	}

	path := resolveSaveFile(rootFile, cfg)
	appLogger.Debugf("using save file %s", path)

	gateway := task.NewFileGateway(path, appLogger)
	return task.NewSession(gateway, task.SessionOptions{Labels: &labels}), nil
}
