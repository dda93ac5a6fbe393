// Package main is the entrypoint for the newsdesk CLI.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/config"
	"github.com/sgx-labs/newsdesk/internal/indexer"
	"github.com/sgx-labs/newsdesk/internal/logger"
	"github.com/sgx-labs/newsdesk/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "newsdesk",
		Short: "Browse and search a markdown news archive",
		Long:  "newsdesk reads a directory of markdown articles with YAML or TOML front matter and answers listing, archive and search queries from the command line, a local JSON API, or MCP.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(verbose)
		},
	}

	root.AddCommand(listCmd())
	root.AddCommand(recentCmd())
	root.AddCommand(showCmd())
	root.AddCommand(archiveCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(webCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	root.PersistentFlags().StringVar(&config.DirOverride, "dir", "", "Content directory (overrides config and NEWSDESK_CONTENT_DIR)")
	root.PersistentFlags().StringVar(&config.ConfigOverride, "config", "", "Path to config.toml (default: .newsdesk/config.toml, searched upwards)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print loader diagnostics")
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the newsdesk version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("newsdesk %s\n", Version)
			return nil
		},
	}
}

// site is a loaded content tree plus the settings it was loaded with.
type site struct {
	cfg   *config.Config
	dir   string
	opts  indexer.Options
	index *store.Index
	stats *indexer.Stats
}

// loadSite reads config and builds the index once for a command.
func loadSite() (*site, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, userError("Cannot read config", err.Error())
	}
	opts, err := cfg.LoadOptions()
	if err != nil {
		return nil, userError(err.Error(), "Fix the setting in "+configHint(cfg))
	}
	s := &site{cfg: cfg, dir: cfg.ContentDir(), opts: opts}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild loads the content tree again into a new index.
func (s *site) rebuild() error {
	ix, stats, err := indexer.Build(s.dir, s.opts)
	if err != nil {
		return loadError(err, s.cfg)
	}
	s.index, s.stats = ix, stats
	return nil
}

// loadError turns loader failures into actionable messages.
func loadError(err error, cfg *config.Config) error {
	var dup *indexer.DuplicateError
	switch {
	case errors.As(err, &dup):
		return userError(
			fmt.Sprintf("Two articles share the slug %q: %s", dup.Slug, strings.Join(dup.Paths, ", ")),
			"Rename one of the files, or set duplicates = \"path\" in "+configHint(cfg))
	case errors.Is(err, indexer.ErrMissingDate):
		return userError(err.Error(),
			"Add a date to the article's front matter, or set missing_date = \"fallback\" in "+configHint(cfg))
	}
	return err
}

func configHint(cfg *config.Config) string {
	if p := cfg.Path(); p != "" {
		return p
	}
	return ".newsdesk/config.toml"
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

type newsdeskError struct {
	message string
	hint    string
}

func (e *newsdeskError) Error() string {
	return fmt.Sprintf("%s\n  Hint: %s", e.message, e.hint)
}

func userError(message, hint string) error {
	return &newsdeskError{message: message, hint: hint}
}
