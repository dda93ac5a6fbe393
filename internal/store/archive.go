package store

import (
	"slices"
	"time"
)

// MonthCount is one month of the archive with its document count.
type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// YearArchive groups the months of one year that have documents.
type YearArchive struct {
	Year   int          `json:"year"`
	Months []MonthCount `json:"months"`
}

// Years returns every calendar year that has at least one document, newest first.
func (ix *Index) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, d := range ix.docs {
		y := ix.local(d.Date).Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	slices.SortFunc(years, descending)
	return years
}

// Months returns the months (1-12) of year that have documents, newest first.
func (ix *Index) Months(year int) []int {
	var seen [13]bool
	var months []int
	for _, d := range ix.docs {
		t := ix.local(d.Date)
		if t.Year() != year {
			continue
		}
		m := int(t.Month())
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	slices.SortFunc(months, descending)
	return months
}

// InMonth returns the documents dated in the given year and month, newest first.
func (ix *Index) InMonth(year, month int) []Document {
	var out []Document
	for _, d := range ix.docs {
		t := ix.local(d.Date)
		if t.Year() == year && t.Month() == time.Month(month) {
			out = append(out, d)
		}
	}
	return out
}

// Archive returns the year/month tree with per-month counts.
func (ix *Index) Archive() []YearArchive {
	years := ix.Years()
	out := make([]YearArchive, 0, len(years))
	for _, y := range years {
		ya := YearArchive{Year: y}
		for _, m := range ix.Months(y) {
			ya.Months = append(ya.Months, MonthCount{Month: m, Count: len(ix.InMonth(y, m))})
		}
		out = append(out, ya)
	}
	return out
}

func descending(a, b int) int {
	return b - a
}
