// Package cmd provides the command-line interface for the stopwatch.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stopwatch_tui/internal/config"
)

var (
	configFile string

	cfg     *config.Config
	logger  *log.Entry
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "stopwatch",
	Short: "A terminal stopwatch with lap history",
	Long: `stopwatch runs a tenth-of-a-second stopwatch in the terminal.

Laps are kept in a fixed-size history and survive restarts together with
the running or paused timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		return setupLogging(cfg)
	},
	RunE: runStopwatch,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnFinalize(closeLogFile)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ~/.stopwatch/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(lapsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogging sends logrus output to the configured file. The terminal
// belongs to the UI.
func setupLogging(c *config.Config) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log_level %q", c.LogLevel)
	}

	if err := os.MkdirAll(filepath.Dir(c.LogFile), 0755); err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to open log file")
	}
	logFile = f

	l := log.New()
	l.SetOutput(f)
	l.SetLevel(level)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})

	logger = l.WithField("session", uuid.New().String())
	return nil
}

// closeLogFile runs after every command, including failed ones.
func closeLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
