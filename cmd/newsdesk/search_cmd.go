package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/cli"
	"github.com/sgx-labs/newsdesk/internal/store"
)

type searchFlags struct {
	scope   string
	from    string
	to      string
	page    int
	size    int
	summary bool
	jsonOut bool
}

func searchCmd() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find articles by keyword and date range",
		Long: `Search articles for a case-insensitive substring, optionally limited to a
date range. Bounds are inclusive; a date-only --to covers that whole day.

By default the keyword is matched against the article body. Use --scope list
to match titles and summaries instead.

Examples:
  newsdesk search "rate cut"
  newsdesk search launch --scope list
  newsdesk search --from 2024-01-01 --to 2024-03-31
  newsdesk search outage --from 2024-06-01 --page 2`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), f)
		},
	}
	cmd.Flags().StringVar(&f.scope, "scope", "body", "Fields to match: body or list (title and summary)")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page of results")
	cmd.Flags().IntVar(&f.size, "size", 0, "Results per page (default from config)")
	cmd.Flags().BoolVarP(&f.summary, "summary", "s", false, "Show summaries")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runSearch(query string, f searchFlags) error {
	query = strings.TrimSpace(query)
	if query == "" && f.from == "" && f.to == "" {
		return userError("Nothing to search for", "Pass a keyword, a date range, or both: newsdesk search launch --from 2024-01-01")
	}
	scope, err := store.ParseScope(f.scope)
	if err != nil {
		return userError(err.Error(), "Use --scope body or --scope list")
	}

	s, err := loadSite()
	if err != nil {
		return err
	}
	loc := s.index.Location()

	q := store.Query{Keyword: query, Scope: scope}
	if q.Start, err = store.ParseBound(f.from, false, loc); err != nil {
		return userError(fmt.Sprintf("Invalid --from date %q", f.from), "Use YYYY-MM-DD, for example 2024-01-31")
	}
	if q.End, err = store.ParseBound(f.to, true, loc); err != nil {
		return userError(fmt.Sprintf("Invalid --to date %q", f.to), "Use YYYY-MM-DD, for example 2024-12-31")
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return userError("--to is before --from", "Swap the dates")
	}

	size := f.size
	if size <= 0 {
		size = s.cfg.PageSize()
	}
	res := store.Paginate(s.index.Search(q), f.page, size)
	res.Items = store.Listings(res.Items)

	if f.jsonOut {
		return printJSON(res)
	}
	if res.Total == 0 {
		fmt.Println("No matching articles.")
		return nil
	}
	cli.PrintArticles(res.Items, f.summary)
	cli.PageFooter(res.Page, res.TotalPages, res.Total)
	return nil
}
