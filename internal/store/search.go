package store

import (
	"fmt"
	"strings"
	"time"
)

// SearchScope selects which fields a keyword is matched against.
type SearchScope int

const (
	// ScopeBody matches the full article body.
	ScopeBody SearchScope = iota
	// ScopeList matches title and summary, as the list page filter does.
	ScopeList
)

// ParseScope maps "body" and "list" to a SearchScope. Empty means body.
func ParseScope(s string) (SearchScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "body", "content":
		return ScopeBody, nil
	case "list", "title":
		return ScopeList, nil
	default:
		return ScopeBody, fmt.Errorf("unknown search scope %q (want body or list)", s)
	}
}

func (s SearchScope) String() string {
	if s == ScopeList {
		return "list"
	}
	return "body"
}

// Query describes a search. A blank Keyword matches every document. Start and
// End are inclusive; a nil bound is unbounded.
type Query struct {
	Keyword string
	Start   *time.Time
	End     *time.Time
	Scope   SearchScope
}

// Search returns the documents matching q, newest first. Matching is a
// case-insensitive substring test; there is no ranking.
func (ix *Index) Search(q Query) []Document {
	kw := strings.ToLower(strings.TrimSpace(q.Keyword))
	var out []Document
	for _, d := range ix.docs {
		if q.Start != nil && d.Date.Before(*q.Start) {
			continue
		}
		if q.End != nil && d.Date.After(*q.End) {
			continue
		}
		if kw != "" && !matches(d, kw, q.Scope) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matches(d Document, kw string, scope SearchScope) bool {
	if scope == ScopeList {
		return strings.Contains(strings.ToLower(d.Title), kw) ||
			strings.Contains(strings.ToLower(d.Summary), kw)
	}
	return strings.Contains(strings.ToLower(d.Body), kw)
}

// ParseBound parses a date bound given as YYYY-MM-DD or RFC 3339. A date-only
// end bound covers the whole day. Empty input returns nil. Date-only values
// are read in loc, or UTC when loc is nil.
func ParseBound(s string, endOfDay bool, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
