package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opentalent/talentgraph/internal/catalog"
	"github.com/opentalent/talentgraph/internal/config"
	"github.com/opentalent/talentgraph/internal/roster"
	"github.com/opentalent/talentgraph/internal/search"
	"github.com/opentalent/talentgraph/internal/store"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "talentgraph",
		Short: "TalentGraph — consultant staffing and matchmaking over a skills graph",
		Long:  "TalentGraph maintains a graph of consultants, skills, companies and projects, and answers staffing queries with weighted match scoring.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		searchCmd(),
		consultantsCmd(),
		assignCmd(),
		skillsCmd(),
		companiesCmd(),
		projectsCmd(),
		indexCmd(),
		statsCmd(),
		healthCmd(),
		serveCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newStore(logger *slog.Logger) (store.GraphStore, error) {
	return store.NewNeo4jStore(
		cfg.Neo4j.URI,
		cfg.Neo4j.Username,
		cfg.Neo4j.Password,
		cfg.Neo4j.Database,
		logger,
	)
}

func newSearcher(st store.GraphStore, logger *slog.Logger) *search.Searcher {
	return search.NewSearcher(st, cfg.Scoring, cfg.Search.MaxCandidates, logger)
}

func newRoster(st store.GraphStore, logger *slog.Logger) *roster.Service {
	return roster.NewService(st, logger)
}

func newCatalog(st store.GraphStore, logger *slog.Logger) *catalog.Service {
	return catalog.NewService(st, logger)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
