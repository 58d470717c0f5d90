package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opentalent/talentgraph/internal/catalog"
)

func skillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Manage the skill catalog",
	}
	cmd.AddCommand(skillsAddCmd(), skillsListCmd(), skillsDeleteCmd())
	return cmd
}

func skillsAddCmd() *cobra.Command {
	var synonyms []string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("skills add: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			skill, err := newCatalog(st, logger).CreateSkill(ctx, args[0], synonyms)
			if err != nil {
				return fmt.Errorf("skills add: %w", err)
			}

			fmt.Printf("Created skill %s (%s)\n", skill.Name, skill.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&synonyms, "synonym", nil, "alternate name for the skill (repeatable)")
	return cmd
}

func skillsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("skills list: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			skills, err := newCatalog(st, logger).ListSkills(ctx)
			if err != nil {
				return fmt.Errorf("skills list: %w", err)
			}

			for _, skill := range skills {
				line := skill.Name
				if len(skill.Synonyms) > 0 {
					line += " (" + strings.Join(skill.Synonyms, ", ") + ")"
				}
				fmt.Printf("%s  %s\n", skill.ID, line)
			}
			if len(skills) == 0 {
				fmt.Println("No skills found.")
			}
			return nil
		},
	}
}

func skillsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a skill and its edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("skills delete: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			if err := newCatalog(st, logger).DeleteSkill(ctx, args[0]); err != nil {
				return fmt.Errorf("skills delete: %w", err)
			}

			fmt.Printf("Deleted skill %s\n", args[0])
			return nil
		},
	}
}

func companiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Manage the company catalog",
	}
	cmd.AddCommand(companiesAddCmd(), companiesListCmd())
	return cmd
}

func companiesAddCmd() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("companies add: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			company, err := newCatalog(st, logger).CreateCompany(ctx, args[0], field)
			if err != nil {
				return fmt.Errorf("companies add: %w", err)
			}

			fmt.Printf("Created company %s (%s)\n", company.Name, company.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "industry or field the company operates in")
	return cmd
}

func companiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("companies list: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			companies, err := newCatalog(st, logger).ListCompanies(ctx)
			if err != nil {
				return fmt.Errorf("companies list: %w", err)
			}

			for _, company := range companies {
				field := company.Field
				if field == "" {
					field = "-"
				}
				fmt.Printf("%s  %-30s %s\n", company.ID, truncate(company.Name, 30), field)
			}
			if len(companies) == 0 {
				fmt.Println("No companies found.")
			}
			return nil
		},
	}
}

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage the project catalog",
	}
	cmd.AddCommand(projectsAddCmd(), projectsListCmd())
	return cmd
}

func projectsAddCmd() *cobra.Command {
	var (
		companyID    string
		requirements []string
		startDate    string
		endDate      string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("projects add: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			req := catalog.CreateProjectRequest{
				Name:         args[0],
				Requirements: requirements,
				CompanyID:    companyID,
			}
			if req.StartDate, err = parseFlagDate(startDate); err != nil {
				return err
			}
			if req.EndDate, err = parseFlagDate(endDate); err != nil {
				return err
			}

			project, err := newCatalog(st, logger).CreateProject(ctx, req)
			if err != nil {
				return fmt.Errorf("projects add: %w", err)
			}

			fmt.Printf("Created project %s (%s)\n", project.Name, project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "id of the owning company")
	cmd.Flags().StringSliceVar(&requirements, "requirement", nil, "free-text requirement (repeatable)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "project start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "project end date (YYYY-MM-DD)")
	return cmd
}

func projectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("projects list: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			projects, err := newCatalog(st, logger).ListProjects(ctx)
			if err != nil {
				return fmt.Errorf("projects list: %w", err)
			}

			for i := range projects {
				p := &projects[i]
				owner := "-"
				if p.Company != nil {
					owner = p.Company.Name
				}
				fmt.Printf("%s  %-30s %s\n", p.ID, truncate(p.Name, 30), owner)
			}
			if len(projects) == 0 {
				fmt.Println("No projects found.")
			}
			return nil
		},
	}
}
