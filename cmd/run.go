package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"stopwatch_tui/internal"
	"stopwatch_tui/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive stopwatch",
	Long:  `Start the interactive stopwatch. This is also what running stopwatch without a command does.`,
	RunE:  runStopwatch,
}

func runStopwatch(cmd *cobra.Command, args []string) error {
	repo, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}

	m := internal.NewModel(cfg, repo, logger)
	logger.WithField("db", cfg.DBPath).Info("stopwatch started")

	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()
	closeErr := m.Close()
	if runErr != nil {
		return errors.Wrap(runErr, "error running program")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "failed to save state")
	}
	logger.Info("stopwatch stopped")
	return nil
}
