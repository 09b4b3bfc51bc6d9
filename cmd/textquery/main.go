package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/loader"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/config"
)

var (
	configPath string
	sourcePath string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "textquery",
		Short:         "Index a text file by word and answer boolean word queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVarP(&sourcePath, "file", "f", "", "text file to index (overrides source.path)")
	root.AddCommand(newReplCmd(), newServeCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "textquery: %v\n", err)
		os.Exit(1)
	}
}

var errNoSource = errors.New("no text file given: use --file or source.path")

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if sourcePath != "" {
		cfg.Source.Path = sourcePath
	}
	if cfg.Source.Path == "" {
		return nil, errNoSource
	}
	return cfg, nil
}

func buildIndex(path string) (*index.LineIndex, error) {
	lines, err := loader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	idx := index.Build(lines)
	slog.Info("line index built",
		"source", path,
		"lines", idx.LineCount(),
		"terms", idx.TermCount(),
	)
	return idx, nil
}
