package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/session"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/logger"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Prompt for words and print matching lines",
		Long: `Reads the text file, then repeatedly asks for two words and a third,
runs ((first & second) | third) and prints every matching line.
Enter q to quit.`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// stdout belongs to the prompts
	logger.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	idx, err := buildIndex(cfg.Source.Path)
	if err != nil {
		return err
	}
	exec := executor.New(idx, nil, cfg.Search.MaxMatches)
	return session.New(exec, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}
