package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stopwatch_tui/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored timer and lap history",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	repo, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, key := range []storage.Key{storage.KeyTimerState, storage.KeyLapHistory} {
		if err := repo.Delete(key); err != nil {
			return err
		}
	}
	logger.Info("stored state deleted")
	fmt.Fprintln(cmd.OutOrStdout(), "Stopwatch reset.")
	return nil
}
