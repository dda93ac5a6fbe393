package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/cli"
	"github.com/sgx-labs/newsdesk/internal/store"
)

func listCmd() *cobra.Command {
	var (
		page    int
		size    int
		summary bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles, newest first",
		Long: `List one page of articles, newest first.

Examples:
  newsdesk list
  newsdesk list --page 3
  newsdesk list --size 50 --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(page, size, summary, jsonOut)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (out-of-range pages are clamped)")
	cmd.Flags().IntVar(&size, "size", 0, "Articles per page (default from config)")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Show summaries")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runList(page, size int, summary, jsonOut bool) error {
	s, err := loadSite()
	if err != nil {
		return err
	}
	if size <= 0 {
		size = s.cfg.PageSize()
	}

	res := s.index.Page(page, size)
	res.Items = store.Listings(res.Items)
	if jsonOut {
		return printJSON(res)
	}
	if res.Total == 0 {
		fmt.Printf("No articles found in %s\n", cli.ShortenHome(s.dir))
		return nil
	}
	cli.PrintArticles(res.Items, summary)
	cli.PageFooter(res.Page, res.TotalPages, res.Total)
	return nil
}

func recentCmd() *cobra.Command {
	var (
		limit   int
		exclude string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(limit, exclude, jsonOut)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of articles (default from config)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Slug to leave out")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runRecent(limit int, exclude string, jsonOut bool) error {
	s, err := loadSite()
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = s.cfg.RecentCount()
	}
	docs := store.Listings(s.index.Recent(limit, exclude))
	if jsonOut {
		return printJSON(docs)
	}
	if len(docs) == 0 {
		fmt.Printf("No articles found in %s\n", cli.ShortenHome(s.dir))
		return nil
	}
	cli.PrintArticles(docs, false)
	return nil
}
