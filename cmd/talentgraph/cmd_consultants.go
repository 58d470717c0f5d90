package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opentalent/talentgraph/internal/models"
	"github.com/opentalent/talentgraph/internal/roster"
)

func consultantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultants",
		Short: "Manage consultants",
	}
	cmd.AddCommand(
		consultantsAddCmd(),
		consultantsGetCmd(),
		consultantsListCmd(),
		consultantsDeleteCmd(),
		consultantsAddSkillCmd(),
	)
	return cmd
}

func consultantsAddCmd() *cobra.Command {
	var (
		email           string
		years           int
		wantsNewProject bool
		openToRemote    bool
		relocation      bool
		regions         []string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a consultant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("consultants add: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			c, err := newRoster(st, logger).Create(ctx, roster.CreateRequest{
				Name:              args[0],
				Email:             email,
				YearsOfExperience: years,
				WantsNewProject:   wantsNewProject,
				OpenToRemote:      openToRemote,
				OpenToRelocation:  relocation,
				PreferredRegions:  regions,
			})
			if err != nil {
				return fmt.Errorf("consultants add: %w", err)
			}

			fmt.Printf("Created consultant %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "consultant email (required, unique)")
	cmd.Flags().IntVar(&years, "years", 0, "total years of experience")
	cmd.Flags().BoolVar(&wantsNewProject, "wants-new-project", false, "consultant wants a new project")
	cmd.Flags().BoolVar(&openToRemote, "open-to-remote", false, "consultant accepts remote work")
	cmd.Flags().BoolVar(&relocation, "open-to-relocation", false, "consultant accepts relocation")
	cmd.Flags().StringSliceVar(&regions, "region", nil, "preferred region (repeatable)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func consultantsGetCmd() *cobra.Command {
	var byEmail bool

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a consultant with skills and assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("consultants get: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			ros := newRoster(st, logger)
			var c *models.Consultant
			if byEmail {
				c, err = ros.GetByEmail(ctx, args[0])
			} else {
				c, err = ros.Get(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("consultants get: %w", err)
			}

			printConsultant(c)
			return nil
		},
	}

	cmd.Flags().BoolVar(&byEmail, "email", false, "look up by email instead of id")
	return cmd
}

func consultantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all consultants",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("consultants list: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			consultants, err := newRoster(st, logger).List(ctx)
			if err != nil {
				return fmt.Errorf("consultants list: %w", err)
			}

			for i := range consultants {
				c := &consultants[i]
				status := "assigned"
				if c.Availability {
					status = "available"
				}
				fmt.Printf("%s  %-25s %-30s %s\n", c.ID, truncate(c.Name, 25), truncate(c.Email, 30), status)
			}

			if len(consultants) == 0 {
				fmt.Println("No consultants found.")
			}
			return nil
		},
	}
}

func consultantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a consultant and its edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("consultants delete: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			if err := newRoster(st, logger).Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("consultants delete: %w", err)
			}

			fmt.Printf("Deleted consultant %s\n", args[0])
			return nil
		},
	}
}

func consultantsAddSkillCmd() *cobra.Command {
	var years int

	cmd := &cobra.Command{
		Use:   "add-skill [consultant-id] [skill-id]",
		Short: "Attach a skill to a consultant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("consultants add-skill: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			c, err := newRoster(st, logger).AddSkill(ctx, args[0], args[1], years)
			if err != nil {
				return fmt.Errorf("consultants add-skill: %w", err)
			}

			fmt.Printf("Consultant %s now has %d skills\n", c.Name, len(c.Skills))
			return nil
		},
	}

	cmd.Flags().IntVar(&years, "years", 0, "years of experience with this skill")
	return cmd
}

func printConsultant(c *models.Consultant) {
	status := "assigned"
	if c.Availability {
		status = "available"
	}
	fmt.Printf("%s <%s>\n", c.Name, c.Email)
	fmt.Printf("  ID: %s | %d years | %s\n", c.ID, c.YearsOfExperience, status)
	fmt.Printf("  wants new project: %t | remote: %t | relocation: %t\n",
		c.WantsNewProject, c.OpenToRemote, c.OpenToRelocation)

	if len(c.Skills) > 0 {
		fmt.Println("  Skills:")
		for _, hs := range c.Skills {
			fmt.Printf("    - %s (%d years)\n", hs.SkillName, hs.YearsOfExperience)
		}
	}
	if len(c.Assignments) > 0 {
		fmt.Println("  Assignments:")
		for _, a := range c.Assignments {
			state := "inactive"
			if a.IsActive {
				state = "active"
			}
			company := a.CompanyName
			if company == "" {
				company = "-"
			}
			fmt.Printf("    - %s @ %s as %s (%d%%, %s)\n",
				a.ProjectName, company, a.Role, a.AllocationPercent, state)
		}
	}
}
