package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/cli"
	"github.com/sgx-labs/newsdesk/internal/render"
	"github.com/sgx-labs/newsdesk/internal/store"
)

func showCmd() *cobra.Command {
	var (
		html    bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print one article",
		Long: `Print an article with its metadata and neighbours.

Examples:
  newsdesk show launch-day
  newsdesk show launch-day --html > launch-day.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], html, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Print the body rendered as HTML")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runShow(slug string, html, jsonOut bool) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return userError("Empty slug", "Pass an article slug: newsdesk show launch-day")
	}
	s, err := loadSite()
	if err != nil {
		return err
	}

	doc, ok := s.index.BySlug(slug)
	if !ok {
		return userError(fmt.Sprintf("No article %q", slug), "Run 'newsdesk search "+slug+"' to look for it")
	}

	var rendered string
	if html {
		r, err := render.New(s.cfg.RenderOptions())
		if err != nil {
			return userError(err.Error(), "Fix [render] extensions in "+configHint(s.cfg))
		}
		if rendered, err = r.Render(doc); err != nil {
			return err
		}
	}

	sib := s.index.Siblings(slug)
	if jsonOut {
		out := map[string]any{"article": doc, "siblings": sib}
		if html {
			out["html"] = rendered
		}
		return printJSON(out)
	}

	if html {
		fmt.Print(rendered)
		return nil
	}

	fmt.Printf("%s%s%s\n", cli.Bold, doc.Title, cli.Reset)
	fmt.Printf("%s%s · %s%s\n", cli.Dim, doc.Date.Format("2006-01-02 15:04 -07:00"), doc.Path, cli.Reset)
	if l := labels(doc); len(l) > 0 {
		fmt.Printf("%s%s%s\n", cli.Dim, strings.Join(l, " "), cli.Reset)
	}
	fmt.Println()
	fmt.Println(strings.TrimRight(doc.Body, "\n"))
	fmt.Println()
	printNeighbour("newer", sib.Newer)
	printNeighbour("older", sib.Older)
	return nil
}

func printNeighbour(label string, d *store.Document) {
	if d == nil {
		return
	}
	fmt.Printf("%s%s:%s %s\n", cli.Dim, label, cli.Reset, cli.ArticleLine(*d))
}

// labels lists categories as-is and tags with a leading '#'.
func labels(doc store.Document) []string {
	out := make([]string, 0, len(doc.Categories)+len(doc.Tags))
	out = append(out, doc.Categories...)
	for _, t := range doc.Tags {
		out = append(out, "#"+t)
	}
	return out
}
