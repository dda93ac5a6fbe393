package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/cli"
	"github.com/sgx-labs/newsdesk/internal/config"
)

func statsCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the content tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runStats(jsonOut bool) error {
	s, err := loadSite()
	if err != nil {
		return err
	}
	st := s.stats
	ix := s.index

	if jsonOut {
		out := map[string]any{
			"content_dir": s.dir,
			"articles":    ix.Len(),
			"years":       ix.Years(),
			"load":        st,
		}
		if all := ix.All(); len(all) > 0 {
			out["newest"] = all[0].Date
			out["oldest"] = all[len(all)-1].Date
		}
		return printJSON(out)
	}

	cli.Header("newsdesk stats")
	lines := []string{
		"Content:   " + cli.Truncate(cli.ShortenHome(s.dir), 34),
		"Files:     " + cli.FormatNumber(st.TotalFiles),
		"Articles:  " + cli.FormatNumber(ix.Len()),
	}
	if all := ix.All(); len(all) > 0 {
		lines = append(lines,
			"Newest:    "+cli.FormatDate(all[0].Date),
			"Oldest:    "+cli.FormatDate(all[len(all)-1].Date),
			fmt.Sprintf("Years:     %d", len(ix.Years())),
		)
	}
	cli.Box(lines)

	if st.Skipped+st.Drafts+st.Recovered+st.MissingDate > 0 {
		cli.Section("Load")
		fmt.Printf("  skipped        %d\n", st.Skipped)
		fmt.Printf("  drafts         %d\n", st.Drafts)
		fmt.Printf("  recovered      %d\n", st.Recovered)
		fmt.Printf("  missing date   %d\n", st.MissingDate)
	}
	if n := len(st.Warnings); n > 0 {
		fmt.Printf("\n  %s%s%s, run 'newsdesk check' for details\n", cli.Yellow, cli.Plural(n, "warning"), cli.Reset)
	}
	fmt.Println()
	return nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every article and report problems",
		Long: `Load the content tree the same way every other command does and print
each warning: unreadable files, malformed front matter, bad dates, and
duplicate slugs under the "path" or "first" policies.

Exits non-zero when anything was reported, so it can gate a CI job.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

func runCheck() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return userError("Cannot read config", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return userError(err.Error(), "Fix the setting in "+configHint(cfg))
	}
	dir := cfg.ContentDir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", config.ErrNoContent, dir)
	}

	s, err := loadSite()
	if err != nil {
		return err
	}
	st := s.stats

	fmt.Printf("Checked %s in %s\n", cli.Plural(st.TotalFiles, "file"), cli.ShortenHome(s.dir))
	if len(st.Warnings) == 0 {
		fmt.Printf("  %s✓%s %s loaded, no problems\n", cli.Green, cli.Reset, cli.Plural(s.index.Len(), "article"))
		return nil
	}
	for _, w := range st.Warnings {
		fmt.Printf("  %s!%s %s\n", cli.Yellow, cli.Reset, w)
	}
	return errors.New(cli.Plural(len(st.Warnings), "problem") + " found")
}
