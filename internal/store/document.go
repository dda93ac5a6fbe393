// Package store holds the in-memory content index: an immutable, date-sorted
// snapshot of every loaded document plus the queries the site renders from.
package store

import "time"

// Document is one normalized article derived from a single source file.
type Document struct {
	Slug       string    `json:"slug"`
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Summary    string    `json:"summary"`
	Body       string    `json:"body,omitempty"`
	Draft      bool      `json:"draft,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
}

// Listing returns a copy of d without the body, for list views.
func (d Document) Listing() Document {
	d.Body = ""
	return d
}

// Listings strips bodies from docs.
func Listings(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = d.Listing()
	}
	return out
}
