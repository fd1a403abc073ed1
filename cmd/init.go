package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/movie-collector/internal/persist"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the raw and prepared data directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := persist.Layout(cfg.Data.Root); err != nil {
			return eris.Wrap(err, "init")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "data directories ready under %s\n", cfg.Data.Root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
