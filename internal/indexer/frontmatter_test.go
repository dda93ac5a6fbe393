package indexer

import (
	"strings"
	"testing"
	"time"
)

func TestSniffDialect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Dialect
	}{
		{"yaml", "---\ntitle: a\n---\nbody", DialectYAML},
		{"toml", "+++\ntitle = 'a'\n+++\nbody", DialectTOML},
		{"none", "# Heading\n\ntext", DialectNone},
		{"empty", "", DialectNone},
		{"leading blank lines", "\n\n  ---\ntitle: a\n---\n", DialectYAML},
		{"crlf", "+++\r\ntitle = 'a'\r\n+++\r\n", DialectTOML},
		{"byte order mark", "\ufeff---\ntitle: a\n---\n", DialectYAML},
		{"fence not alone", "--- title\n", DialectNone},
		{"four dashes", "----\n", DialectNone},
		{"trailing spaces after fence", "---  \ntitle: a\n---\n", DialectNone},
		{"trailing tab after fence", "+++\t\ntitle = 'a'\n+++\n", DialectNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffDialect(tt.content); got != tt.want {
				t.Errorf("SniffDialect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNote_YAML(t *testing.T) {
	content := "---\ntitle: Launch day\ndate: 2025-04-10T09:00:00+02:00\ntags: [release, product]\n---\n\nWe shipped.\nMore text.\n"

	note := ParseNote(content)
	if note.Err != nil {
		t.Fatalf("unexpected error: %v", note.Err)
	}
	if note.Dialect != DialectYAML {
		t.Errorf("dialect = %v, want yaml", note.Dialect)
	}
	if got := note.Meta.String("title"); got != "Launch day" {
		t.Errorf("title = %q", got)
	}
	if got := note.Meta.Strings("tags"); len(got) != 2 || got[0] != "release" {
		t.Errorf("tags = %v", got)
	}
	if !strings.HasPrefix(note.Body, "We shipped.") {
		t.Errorf("body = %q, want it to start after the block", note.Body)
	}
	if strings.Contains(note.Body, "title:") {
		t.Error("body still contains metadata")
	}
}

func TestParseNote_TOML(t *testing.T) {
	content := "+++\ntitle = \"Quarterly results\"\ndate = 2024-12-31T18:30:00-05:00\ndraft = true\n+++\nRevenue grew.\n"

	note := ParseNote(content)
	if note.Err != nil {
		t.Fatalf("unexpected error: %v", note.Err)
	}
	if note.Dialect != DialectTOML {
		t.Errorf("dialect = %v, want toml", note.Dialect)
	}
	if got := note.Meta.String("title"); got != "Quarterly results" {
		t.Errorf("title = %q", got)
	}
	if !note.Meta.Bool("draft") {
		t.Error("draft = false, want true")
	}
	date, found, err := note.Meta.Time(nil, "date")
	if err != nil || !found {
		t.Fatalf("Time: found=%v err=%v", found, err)
	}
	want := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Errorf("date = %v, want %v", date, want)
	}
	if strings.TrimSpace(note.Body) != "Revenue grew." {
		t.Errorf("body = %q", note.Body)
	}
}

func TestParseNote_NoFrontMatter(t *testing.T) {
	content := "Just a paragraph.\n\nAnother one.\n"
	note := ParseNote(content)
	if note.Err != nil {
		t.Fatalf("unexpected error: %v", note.Err)
	}
	if note.Dialect != DialectNone {
		t.Errorf("dialect = %v", note.Dialect)
	}
	if len(note.Meta) != 0 {
		t.Errorf("meta = %v, want empty", note.Meta)
	}
	if note.Body != content {
		t.Errorf("body = %q, want whole input", note.Body)
	}
}

func TestParseNote_Recovery(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unterminated yaml", "---\ntitle: a\nno closing fence\n"},
		{"unterminated toml", "+++\ntitle = 'a'\n"},
		{"malformed yaml", "---\ntitle: [unclosed\n---\nbody\n"},
		{"malformed toml", "+++\ntitle = \n+++\nbody\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := ParseNote(tt.content)
			if note.Err == nil {
				t.Fatal("expected Err to record the decode failure")
			}
			if len(note.Meta) != 0 {
				t.Errorf("meta = %v, want empty", note.Meta)
			}
			if note.Body != tt.content {
				t.Errorf("body = %q, want whole input", note.Body)
			}
		})
	}
}

func TestParseNote_EmptyBlock(t *testing.T) {
	note := ParseNote("---\n---\nbody only\n")
	if note.Err != nil {
		t.Fatalf("unexpected error: %v", note.Err)
	}
	if note.Meta == nil || len(note.Meta) != 0 {
		t.Errorf("meta = %#v, want empty non-nil", note.Meta)
	}
	if strings.TrimSpace(note.Body) != "body only" {
		t.Errorf("body = %q", note.Body)
	}
}

func TestParseNote_NeverPanics(t *testing.T) {
	inputs := []string{"", "---", "+++", "---\n", "\n\n\n", "---\n---", "+++\n+++", "---\n: :\n---\n"}
	for _, in := range inputs {
		note := ParseNote(in)
		if note.Meta == nil {
			t.Errorf("ParseNote(%q) returned nil Meta", in)
		}
	}
}
