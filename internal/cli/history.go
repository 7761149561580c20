package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradecouncil/internal/config"
	"tradecouncil/internal/display"
	"tradecouncil/internal/storage/sqlite"
)

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := sqlite.Open(cfg.RunDBPath)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			records, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			display.History(records)
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	return cmd
}
