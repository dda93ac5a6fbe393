package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/cli"
	"github.com/sgx-labs/newsdesk/internal/store"
)

func archiveCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "archive [year [month]]",
		Short: "Browse articles by year and month",
		Long: `Without arguments, print every year and month that has articles with
the number of articles in each. With a year, list its months. With a year
and a month, list that month's articles.

Examples:
  newsdesk archive
  newsdesk archive 2024
  newsdesk archive 2024 3`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(args, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runArchive(args []string, jsonOut bool) error {
	year, month := 0, 0
	if len(args) > 0 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 1 {
			return userError(fmt.Sprintf("Invalid year %q", args[0]), "Use a four-digit year: newsdesk archive 2024")
		}
		year = y
	}
	if len(args) > 1 {
		m, err := strconv.Atoi(args[1])
		if err != nil || m < 1 || m > 12 {
			return userError(fmt.Sprintf("Invalid month %q", args[1]), "Months are numbered 1 to 12: newsdesk archive 2024 3")
		}
		month = m
	}

	s, err := loadSite()
	if err != nil {
		return err
	}
	ix := s.index

	switch {
	case month > 0:
		docs := store.Listings(ix.InMonth(year, month))
		if jsonOut {
			return printJSON(docs)
		}
		if len(docs) == 0 {
			fmt.Printf("No articles in %s %d\n", time.Month(month), year)
			return nil
		}
		cli.Section(fmt.Sprintf("%s %d", time.Month(month), year))
		cli.PrintArticles(docs, false)
		return nil

	case year > 0:
		months := ix.Months(year)
		if jsonOut {
			return printJSON(map[string]any{"year": year, "months": months})
		}
		if len(months) == 0 {
			fmt.Printf("No articles in %d\n", year)
			return nil
		}
		cli.Section(strconv.Itoa(year))
		for _, m := range months {
			fmt.Printf("  %-10s %s\n", time.Month(m), cli.Plural(len(ix.InMonth(year, m)), "article"))
		}
		return nil
	}

	tree := ix.Archive()
	if jsonOut {
		return printJSON(tree)
	}
	if len(tree) == 0 {
		fmt.Printf("No articles found in %s\n", cli.ShortenHome(s.dir))
		return nil
	}
	for _, y := range tree {
		cli.Section(strconv.Itoa(y.Year))
		for _, m := range y.Months {
			fmt.Printf("  %-10s %s\n", time.Month(m.Month), cli.Plural(m.Count, "article"))
		}
	}
	return nil
}
