package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opentalent/talentgraph/internal/search"
)

func searchCmd() *cobra.Command {
	var (
		skills          []string
		roles           []string
		companies       []string
		available       bool
		wantsNewProject bool
		openToRemote    bool
		minYears        int
		startDate       string
		endDate         string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search consultants by skills, roles, companies and availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("search: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(ctx) }()

			crit := search.Criteria{
				SkillNames:        skills,
				Roles:             roles,
				PreviousCompanies: companies,
			}
			if cmd.Flags().Changed("available") {
				crit.Availability = &available
			}
			if cmd.Flags().Changed("wants-new-project") {
				crit.WantsNewProject = &wantsNewProject
			}
			if cmd.Flags().Changed("open-to-remote") {
				crit.OpenToRemote = &openToRemote
			}
			if cmd.Flags().Changed("min-years") {
				crit.MinYearsOfExperience = &minYears
			}
			if crit.StartDate, err = parseFlagDate(startDate); err != nil {
				return err
			}
			if crit.EndDate, err = parseFlagDate(endDate); err != nil {
				return err
			}

			results, err := newSearcher(st, logger).Search(ctx, &crit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			for i := range results {
				r := &results[i]
				fmt.Printf("[%d] (score %d) %s <%s>\n", i+1, r.Score, r.Consultant.Name, r.Consultant.Email)
				fmt.Printf("    ID: %s | skills: %d, roles: %d, companies: %d | %s\n",
					r.Consultant.ID, r.MatchedSkills, r.MatchedRoles, r.MatchedCompanies,
					truncate(strings.Join(r.Consultant.SkillNames(), ", "), 80))
			}

			if len(results) == 0 {
				fmt.Println("No matching consultants found.")
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&skills, "skill", nil, "skill name to match (repeatable)")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role fragment to match (repeatable)")
	cmd.Flags().StringSliceVar(&companies, "company", nil, "company name to match (repeatable)")
	cmd.Flags().BoolVar(&available, "available", false, "require availability")
	cmd.Flags().BoolVar(&wantsNewProject, "wants-new-project", false, "require wanting a new project")
	cmd.Flags().BoolVar(&openToRemote, "open-to-remote", false, "require openness to remote work")
	cmd.Flags().IntVar(&minYears, "min-years", 0, "minimum years of experience")
	cmd.Flags().StringVar(&startDate, "start-date", "", "engagement window start (YYYY-MM-DD); requires --available")
	cmd.Flags().StringVar(&endDate, "end-date", "", "engagement window end (YYYY-MM-DD)")
	return cmd
}

// parseFlagDate parses a YYYY-MM-DD flag value, returning nil when unset.
func parseFlagDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", raw)
	}
	return &t, nil
}
