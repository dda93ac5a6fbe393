package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func doc(t *testing.T, slug, date string) Document {
	t.Helper()
	return Document{Slug: slug, Title: slug, Date: mustTime(t, date)}
}

func slugs(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Slug
	}
	return out
}

func TestNew_SortsNewestFirst(t *testing.T) {
	ix := New([]Document{
		doc(t, "mid", "2025-04-15T09:00:00+08:00"),
		doc(t, "old", "2024-12-31T23:00:00Z"),
		doc(t, "new", "2025-04-29T07:00:00+08:00"),
	})

	if diff := cmp.Diff([]string{"new", "mid", "old"}, slugs(ix.All())); diff != "" {
		t.Errorf("All() order mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_TiesKeepDiscoveryOrder(t *testing.T) {
	same := "2025-04-10T08:00:00Z"
	ix := New([]Document{
		doc(t, "b", same),
		doc(t, "newest", "2025-05-01T00:00:00Z"),
		doc(t, "a", same),
		doc(t, "c", same),
	})

	if diff := cmp.Diff([]string{"newest", "b", "a", "c"}, slugs(ix.All())); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_SameInstantDifferentOffsetsTie(t *testing.T) {
	ix := New([]Document{
		doc(t, "shanghai", "2025-04-10T08:00:00+08:00"),
		doc(t, "utc", "2025-04-10T00:00:00Z"),
	})
	if diff := cmp.Diff([]string{"shanghai", "utc"}, slugs(ix.All())); diff != "" {
		t.Errorf("equal instants should keep input order (-want +got):\n%s", diff)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	ix := New([]Document{doc(t, "a", "2025-01-01T00:00:00Z")})
	all := ix.All()
	all[0].Title = "mutated"

	got, _ := ix.BySlug("a")
	if got.Title != "a" {
		t.Errorf("index was mutated through All(): title %q", got.Title)
	}
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	in := []Document{doc(t, "a", "2025-01-01T00:00:00Z"), doc(t, "b", "2025-02-01T00:00:00Z")}
	ix := New(in)
	in[0].Slug = "changed"

	if _, ok := ix.BySlug("a"); !ok {
		t.Error("index should not share backing array with input")
	}
}

func TestBySlug(t *testing.T) {
	ix := New([]Document{
		doc(t, "a", "2025-01-01T00:00:00Z"),
		doc(t, "b", "2025-02-01T00:00:00Z"),
	})

	got, ok := ix.BySlug("b")
	if !ok || got.Slug != "b" {
		t.Fatalf("BySlug(b) = %+v, %v", got, ok)
	}
	if _, ok := ix.BySlug("missing"); ok {
		t.Error("expected not found for unknown slug")
	}
}

func TestBySlug_DuplicateFirstInCanonicalOrderWins(t *testing.T) {
	older := doc(t, "dup", "2025-01-01T00:00:00Z")
	older.Title = "older"
	newer := doc(t, "dup", "2025-03-01T00:00:00Z")
	newer.Title = "newer"

	ix := New([]Document{older, newer})
	got, ok := ix.BySlug("dup")
	if !ok || got.Title != "newer" {
		t.Errorf("expected newest duplicate to win, got %+v", got)
	}
}

func TestSiblings(t *testing.T) {
	ix := New([]Document{
		doc(t, "first", "2025-01-01T00:00:00Z"),
		doc(t, "second", "2025-02-01T00:00:00Z"),
		doc(t, "third", "2025-03-01T00:00:00Z"),
	})

	tests := []struct {
		slug  string
		newer string
		older string
	}{
		{"third", "", "second"},
		{"second", "third", "first"},
		{"first", "second", ""},
		{"unknown", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			s := ix.Siblings(tt.slug)
			if got := slugOf(s.Newer); got != tt.newer {
				t.Errorf("newer = %q, want %q", got, tt.newer)
			}
			if got := slugOf(s.Older); got != tt.older {
				t.Errorf("older = %q, want %q", got, tt.older)
			}
		})
	}
}

func TestSiblings_SingleDocument(t *testing.T) {
	ix := New([]Document{doc(t, "only", "2025-01-01T00:00:00Z")})
	s := ix.Siblings("only")
	if s.Newer != nil || s.Older != nil {
		t.Errorf("expected no siblings, got %+v", s)
	}
}

func TestSiblings_BoundariesMatchAll(t *testing.T) {
	var docs []Document
	for i := 1; i <= 5; i++ {
		docs = append(docs, doc(t, fmt.Sprintf("d%d", i), fmt.Sprintf("2025-01-%02dT00:00:00Z", i)))
	}
	ix := New(docs)
	all := ix.All()

	first := ix.Siblings(all[0].Slug)
	if first.Newer != nil || slugOf(first.Older) != all[1].Slug {
		t.Errorf("first element siblings = %+v", first)
	}
	last := ix.Siblings(all[len(all)-1].Slug)
	if last.Older != nil || slugOf(last.Newer) != all[len(all)-2].Slug {
		t.Errorf("last element siblings = %+v", last)
	}
}

func TestRecent(t *testing.T) {
	var docs []Document
	for i := 1; i <= 8; i++ {
		docs = append(docs, doc(t, fmt.Sprintf("d%d", i), fmt.Sprintf("2025-01-%02dT00:00:00Z", i)))
	}
	ix := New(docs)

	got := slugs(ix.Recent(6, "d7"))
	want := []string{"d8", "d6", "d5", "d4", "d3", "d2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Recent mismatch (-want +got):\n%s", diff)
	}

	if got := ix.Recent(0, ""); len(got) != 0 {
		t.Errorf("Recent(0) should be empty, got %d", len(got))
	}
	if got := ix.Recent(100, ""); len(got) != 8 {
		t.Errorf("Recent(100) should return all 8, got %d", len(got))
	}
}

func TestSnapshot_StoreReplacesIndex(t *testing.T) {
	first := New([]Document{doc(t, "a", "2025-01-01T00:00:00Z")})
	snap := NewSnapshot(first)

	held := snap.Load()
	snap.Store(New([]Document{doc(t, "b", "2025-01-02T00:00:00Z")}))

	if _, ok := held.BySlug("a"); !ok {
		t.Error("previously loaded index should be unchanged")
	}
	if _, ok := snap.Load().BySlug("b"); !ok {
		t.Error("snapshot should return the new index")
	}
}

func TestSnapshot_ZeroValueIsEmpty(t *testing.T) {
	var snap Snapshot
	if snap.Load().Len() != 0 {
		t.Error("zero Snapshot should load an empty index")
	}
}

func slugOf(d *Document) string {
	if d == nil {
		return ""
	}
	return d.Slug
}
