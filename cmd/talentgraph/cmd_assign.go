package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opentalent/talentgraph/internal/roster"
)

func assignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Manage project assignments",
	}
	cmd.AddCommand(
		assignAddCmd(),
		assignDeactivateCmd(),
		assignRemoveCmd(),
	)
	return cmd
}

func assignAddCmd() *cobra.Command {
	var (
		role       string
		allocation int
		startDate  string
		endDate    string
	)

	cmd := &cobra.Command{
		Use:   "add [consultant-id] [project-id]",
		Short: "Assign a consultant to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("assign add: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			req := roster.AssignRequest{Role: role}
			if cmd.Flags().Changed("allocation") {
				req.AllocationPercent = &allocation
			}
			if req.StartDate, err = parseFlagDate(startDate); err != nil {
				return err
			}
			if req.EndDate, err = parseFlagDate(endDate); err != nil {
				return err
			}

			c, err := newRoster(st, logger).AssignToProject(ctx, args[0], args[1], req)
			if err != nil {
				return fmt.Errorf("assign add: %w", err)
			}

			fmt.Printf("Assigned %s to project %s as %s (available: %t)\n", c.Name, args[1], role, c.Availability)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "role on the project (required)")
	cmd.Flags().IntVar(&allocation, "allocation", 100, "allocation percentage 0-100")
	cmd.Flags().StringVar(&startDate, "start-date", "", "assignment start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "assignment end date (YYYY-MM-DD); omit for open-ended")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func assignDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate [consultant-id] [project-id]",
		Short: "Deactivate an assignment and recompute availability",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("assign deactivate: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			c, err := newRoster(st, logger).DeactivateAssignment(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("assign deactivate: %w", err)
			}

			fmt.Printf("Deactivated assignment of %s on project %s (available: %t)\n", c.Name, args[1], c.Availability)
			return nil
		},
	}
}

func assignRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [consultant-id] [project-id]",
		Short: "Remove an assignment edge entirely",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("assign remove: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			c, err := newRoster(st, logger).RemoveAssignment(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("assign remove: %w", err)
			}

			fmt.Printf("Removed assignment of %s on project %s (available: %t)\n", c.Name, args[1], c.Availability)
			return nil
		},
	}
}
