package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Create graph constraints and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("index: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			if err := st.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("index: ensuring indexes: %w", err)
			}

			fmt.Println("Constraints and indexes are in place.")
			return nil
		},
	}
}
