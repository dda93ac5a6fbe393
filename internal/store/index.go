package store

import (
	"slices"
	"time"
)

// Index is the canonical, read-only view over a set of documents, sorted by
// Date descending. Ties keep the order the documents were passed in.
//
// An Index is never modified after New returns, so any number of goroutines
// may query it concurrently. To pick up changes on disk, build a new one.
type Index struct {
	docs   []Document
	bySlug map[string]int
	loc    *time.Location
}

// Option configures an Index.
type Option func(*Index)

// WithLocation sets the time zone used for year/month grouping. Without it,
// each date is grouped in the offset it was written with.
func WithLocation(loc *time.Location) Option {
	return func(ix *Index) {
		ix.loc = loc
	}
}

// New builds an Index from docs in discovery order. The slice is copied.
func New(docs []Document, opts ...Option) *Index {
	ix := &Index{
		docs:   slices.Clone(docs),
		bySlug: make(map[string]int, len(docs)),
	}
	for _, opt := range opts {
		opt(ix)
	}

	slices.SortStableFunc(ix.docs, func(a, b Document) int {
		return b.Date.Compare(a.Date)
	})

	// With duplicate slugs the first document in canonical order wins.
	for i, d := range ix.docs {
		if _, ok := ix.bySlug[d.Slug]; !ok {
			ix.bySlug[d.Slug] = i
		}
	}
	return ix
}

// Len returns the number of documents in the index.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// All returns every document, newest first.
func (ix *Index) All() []Document {
	return slices.Clone(ix.docs)
}

// BySlug returns the document with the given slug.
func (ix *Index) BySlug(slug string) (Document, bool) {
	i, ok := ix.bySlug[slug]
	if !ok {
		return Document{}, false
	}
	return ix.docs[i], true
}

// Siblings holds the chronological neighbours of a document. Newer is the
// next article in time, Older the previous one. Either may be nil.
type Siblings struct {
	Newer *Document `json:"newer"`
	Older *Document `json:"older"`
}

// Siblings returns the neighbours of slug in canonical order. Both are nil
// when the slug is unknown.
func (ix *Index) Siblings(slug string) Siblings {
	i, ok := ix.bySlug[slug]
	if !ok {
		return Siblings{}
	}
	var s Siblings
	if i > 0 {
		d := ix.docs[i-1]
		s.Newer = &d
	}
	if i+1 < len(ix.docs) {
		d := ix.docs[i+1]
		s.Older = &d
	}
	return s
}

// Recent returns up to limit of the newest documents, leaving out exclude.
func (ix *Index) Recent(limit int, exclude string) []Document {
	if limit <= 0 {
		return nil
	}
	out := make([]Document, 0, min(limit, len(ix.docs)))
	for _, d := range ix.docs {
		if d.Slug == exclude {
			continue
		}
		out = append(out, d)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Location returns the grouping time zone, or nil when dates are grouped in
// the offset they were written with.
func (ix *Index) Location() *time.Location {
	return ix.loc
}

func (ix *Index) local(t time.Time) time.Time {
	if ix.loc == nil {
		return t
	}
	return t.In(ix.loc)
}
