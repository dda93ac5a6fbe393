// Package cli provides shared formatting helpers for CLI output.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sgx-labs/newsdesk/internal/store"
)

// ANSI color constants.
const (
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	DimCyan = "\033[2;36m"
	Dim     = "\033[2m"
	Bold    = "\033[1m"
	Reset   = "\033[0m"
)

// Box width is the inner content width (between the border characters).
const boxWidth = 48

// Margin is the left indent for all boxed output.
const margin = "  "

// DateLayout is how article dates are shown in lists.
const DateLayout = "2006-01-02"

// ShortenHome replaces $HOME prefix with ~.
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// FormatNumber adds comma separators (1234 -> "1,234").
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return FormatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}

// FormatDate renders t as a calendar date in the zone it carries.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Plural returns "1 article" / "2 articles".
func Plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return FormatNumber(n) + " " + word + "s"
}

// Header prints a small heavy-border box with a title. Used by `newsdesk stats`.
func Header(title string) {
	fmt.Println()
	heavyTop := margin + "┏" + strings.Repeat("━", boxWidth) + "┓"
	heavyBottom := margin + "┗" + strings.Repeat("━", boxWidth) + "┛"

	content := "  " + title
	padded := padRight(content, boxWidth)

	fmt.Printf("%s%s%s\n", Cyan, heavyTop, Reset)
	fmt.Printf("%s%s┃%s┃%s\n", Cyan, margin, padded, Reset)
	fmt.Printf("%s%s%s\n", Cyan, heavyBottom, Reset)
}

// Section prints a section divider line: ── Name ─────────────────
func Section(name string) {
	prefix := "── " + name + " "
	remaining := max(boxWidth+2-runeLen(prefix), 0)
	rule := prefix + strings.Repeat("─", remaining)
	fmt.Printf("\n%s%s%s%s\n\n", margin, Cyan, rule, Reset)
}

// Box prints a light-border box around content lines.
func Box(lines []string) {
	lightTop := margin + "┌" + strings.Repeat("─", boxWidth) + "┐"
	lightBottom := margin + "└" + strings.Repeat("─", boxWidth) + "┘"

	fmt.Println()
	fmt.Println(lightTop)
	for _, line := range lines {
		padded := padRight("  "+line, boxWidth)
		fmt.Printf("%s│%s│\n", margin, padded)
	}
	fmt.Println(lightBottom)
}

// ArticleLine formats a document for list output:
//
//	2025-04-10  launch-day  Launch day
func ArticleLine(d store.Document) string {
	title := d.Title
	if d.Draft {
		title += " " + Yellow + "(draft)" + Reset
	}
	return fmt.Sprintf("%s%s%s  %s%s%s  %s", Dim, FormatDate(d.Date), Reset, Cyan, d.Slug, Reset, title)
}

// PrintArticles prints one line per document, plus its summary when
// withSummary is set.
func PrintArticles(docs []store.Document, withSummary bool) {
	for _, d := range docs {
		fmt.Printf("%s%s\n", margin, ArticleLine(d))
		if withSummary && d.Summary != "" {
			fmt.Printf("%s            %s%s%s\n", margin, Dim, Truncate(d.Summary, 72), Reset)
		}
	}
}

// PageFooter prints "page 2 of 5 · 93 articles".
func PageFooter(page, totalPages, total int) {
	fmt.Printf("\n%s%spage %d of %d · %s%s\n", margin, Dim, page, totalPages, Plural(total, "article"), Reset)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// padRight pads s with spaces to exactly width characters.
// If s is longer than width, it is truncated.
func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		r := []rune(s)
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// runeLen counts the display width in runes.
func runeLen(s string) int {
	return len([]rune(s))
}
