package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("stats: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			stats, err := st.Stats(ctx)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			fmt.Printf("Consultants:        %d (%d available)\n", stats.Consultants, stats.AvailableConsultants)
			fmt.Printf("Skills:             %d\n", stats.Skills)
			fmt.Printf("Companies:          %d\n", stats.Companies)
			fmt.Printf("Projects:           %d\n", stats.Projects)
			fmt.Printf("Assignments:        %d (%d active)\n", stats.Assignments, stats.ActiveAssignments)
			return nil
		},
	}
}
