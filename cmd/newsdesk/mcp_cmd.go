package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/config"
	"github.com/sgx-labs/newsdesk/internal/indexer"
	mcpserver "github.com/sgx-labs/newsdesk/internal/mcp"
	"github.com/sgx-labs/newsdesk/internal/render"
	"github.com/sgx-labs/newsdesk/internal/setup"
	"github.com/sgx-labs/newsdesk/internal/store"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI tools (stdio)",
		Long: `Serve the news index to MCP clients over stdin/stdout.

Tools: list_news, get_news, news_siblings, news_archive, news_in_month,
search_news, reindex, index_stats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Register newsdesk in ./.mcp.json",
		Long: `Add a newsdesk entry to .mcp.json in the current directory, keeping any
other servers. Without a config file the content directory is recorded as
NEWSDESK_CONTENT_DIR so the client starts newsdesk on the same tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPInstall()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Remove newsdesk from ./.mcp.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPRemove()
		},
	})
	return cmd
}

func runMCPInstall() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return userError("Cannot read config", err.Error())
	}

	var contentDir string
	if cfg.Path() == "" || config.DirOverride != "" {
		if contentDir, err = filepath.Abs(cfg.ContentDir()); err != nil {
			return err
		}
	}
	p, err := setup.SetupMCP(cwd, contentDir)
	if err != nil {
		return userError(err.Error(), "Fix or move "+setup.MCPFileName+" and try again")
	}
	fmt.Printf("Registered newsdesk in %s\n", p)
	return nil
}

func runMCPRemove() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	removed, err := setup.RemoveMCP(cwd)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("newsdesk is not registered in %s\n", setup.MCPFileName)
		return nil
	}
	fmt.Printf("Removed newsdesk from %s\n", setup.MCPFileName)
	return nil
}

func runMCP() error {
	s, err := loadSite()
	if err != nil {
		return err
	}
	r, err := render.New(s.cfg.RenderOptions())
	if err != nil {
		return userError(err.Error(), "Fix [render] extensions in "+configHint(s.cfg))
	}

	dir, opts, cfg := s.dir, s.opts, s.cfg
	rebuild := func() (*store.Index, *indexer.Stats, error) {
		ix, stats, err := indexer.Build(dir, opts)
		if err != nil {
			return nil, nil, loadError(err, cfg)
		}
		return ix, stats, nil
	}

	mcpserver.Version = Version
	return mcpserver.Serve(store.NewSnapshot(s.index), mcpserver.Options{
		ContentDir: s.dir,
		PageSize:   s.cfg.PageSize(),
		Renderer:   r,
		Rebuild:    rebuild,
		Stats:      s.stats,
	})
}
