package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stopwatch_tui/internal/laps"
	"stopwatch_tui/internal/storage"
)

var lapsCmd = &cobra.Command{
	Use:   "laps",
	Short: "Print the stored lap history",
	Long:  `Print the lap history saved by the last session, newest lap first.`,
	RunE:  runLaps,
}

func runLaps(cmd *cobra.Command, args []string) error {
	repo, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	store := laps.New(cfg.LapCapacity, laps.WithLogger(logger))
	data, found, err := repo.Read(storage.KeyLapHistory)
	if err != nil {
		return err
	}
	if found {
		if err := store.Restore(data, store.Push); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if store.Displayed() == 0 {
		fmt.Fprintln(out, "No laps recorded.")
		return nil
	}
	for i := 0; i < store.Displayed(); i++ {
		fmt.Fprintln(out, store.FormatSlot(i))
	}
	return nil
}
