package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/sgx-labs/newsdesk/internal/logger"
	"github.com/sgx-labs/newsdesk/internal/store"
)

// Warning is a per-file problem that did not stop the load.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// Stats describes one load of a content tree.
type Stats struct {
	Root        string    `json:"root"`
	TotalFiles  int       `json:"total_files"`
	Loaded      int       `json:"loaded"`
	Skipped     int       `json:"skipped"`
	Drafts      int       `json:"drafts"`
	Recovered   int       `json:"recovered"`
	MissingDate int       `json:"missing_date"`
	Warnings    []Warning `json:"warnings,omitempty"`
	Timestamp   string    `json:"timestamp"`
}

func (s *Stats) warn(p, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.Warnings = append(s.Warnings, Warning{Path: p, Message: msg})
	logger.Warn("%s: %s", p, msg)
}

var errSkipFile = errors.New("skip file")

// Load reads every content file under dir. A missing dir, or one that is not
// a directory, yields no documents and no error.
func Load(dir string, opts Options) ([]store.Document, *Stats, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, newStats(dir), nil
	}
	docs, stats, err := LoadFS(os.DirFS(dir), ".", opts)
	stats.Root = dir
	return docs, stats, err
}

// Build loads dir and returns the resulting index.
func Build(dir string, opts Options) (*store.Index, *Stats, error) {
	docs, stats, err := Load(dir, opts)
	if err != nil {
		return nil, stats, err
	}
	return store.New(docs, store.WithLocation(opts.Location)), stats, nil
}

// LoadFS is Load over an fs.FS. Documents are returned in discovery order.
//
// Per-file problems (unreadable files, broken front matter, bad dates) are
// recorded in Stats.Warnings and never abort the scan. An error is returned
// only for duplicate slugs under DuplicatesError and for undated documents
// under MissingDateError.
func LoadFS(fsys fs.FS, root string, opts Options) ([]store.Document, *Stats, error) {
	opts = opts.withDefaults()
	stats := newStats(root)

	info, err := fs.Stat(fsys, root)
	if err != nil || !info.IsDir() {
		logger.Debug("content root %q is not a directory, nothing to load", root)
		return nil, stats, nil
	}

	var docs []store.Document
	for p := range contentFiles(fsys, root, opts, stats) {
		stats.TotalFiles++
		doc, err := loadFile(fsys, root, p, opts, stats)
		switch {
		case errors.Is(err, errSkipFile):
			stats.Skipped++
		case err != nil:
			return nil, stats, err
		default:
			docs = append(docs, doc)
		}
	}

	docs, err = resolveDuplicates(docs, opts, stats)
	if err != nil {
		return nil, stats, err
	}
	stats.Loaded = len(docs)
	logger.Info("loaded %d of %d files from %s", stats.Loaded, stats.TotalFiles, root)
	return docs, stats, nil
}

func newStats(root string) *Stats {
	return &Stats{
		Root:      root,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func loadFile(fsys fs.FS, root, p string, opts Options, stats *Stats) (store.Document, error) {
	rel := relPath(root, p)
	slug := strings.TrimSuffix(path.Base(p), opts.Extension)
	if slug == "" {
		stats.warn(rel, "empty file name, skipped")
		return store.Document{}, errSkipFile
	}

	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		stats.warn(rel, "unreadable, skipped: %v", err)
		return store.Document{}, errSkipFile
	}

	note := ParseNote(string(data))
	if note.Err != nil {
		stats.Recovered++
		stats.warn(rel, "%v; using the whole file as body", note.Err)
	}
	meta := note.Meta

	draft := meta.Bool("draft")
	if draft && !opts.IncludeDrafts {
		stats.Drafts++
		logger.Debug("%s: draft, skipped", rel)
		return store.Document{}, errSkipFile
	}

	date, err := resolveDate(fsys, p, rel, meta, opts, stats)
	if err != nil {
		return store.Document{}, err
	}

	title := meta.String("title")
	if title == "" {
		title = slug
	}
	summary := meta.String("summary", "description")
	if summary == "" {
		summary = firstLine(note.Body)
	}

	return store.Document{
		Slug:       slug,
		Path:       rel,
		Title:      title,
		Date:       date,
		Summary:    summary,
		Body:       note.Body,
		Draft:      draft,
		Categories: meta.Strings("categories"),
		Tags:       meta.Strings("tags"),
	}, nil
}

// resolveDate reads date (or publishDate) and applies the missing-date
// policy when neither holds a usable timestamp.
func resolveDate(fsys fs.FS, p, rel string, meta Meta, opts Options, stats *Stats) (time.Time, error) {
	date, found, err := meta.Time(opts.Location, "date", "publishDate")
	if err == nil && found {
		return date, nil
	}
	stats.MissingDate++

	// At most one warning per file.
	reason := "no date"
	if err != nil {
		reason = fmt.Sprintf("bad date: %v", err)
	}

	switch opts.MissingDate {
	case MissingDateError:
		return time.Time{}, fmt.Errorf("%s: %s: %w", rel, reason, ErrMissingDate)
	case MissingDateSkip:
		stats.warn(rel, "%s, skipped", reason)
		return time.Time{}, errSkipFile
	case MissingDateMtime:
		info, statErr := fs.Stat(fsys, p)
		if statErr == nil && !info.ModTime().IsZero() {
			if err != nil {
				stats.warn(rel, "%s, using modification time", reason)
			}
			return info.ModTime(), nil
		}
		logger.Debug("%s: no modification time, using fallback date", rel)
	}
	if err != nil {
		stats.warn(rel, "%s, using fallback date", reason)
	}
	return opts.FallbackDate, nil
}

// firstLine returns the first non-blank line of body, trimmed.
func firstLine(body string) string {
	for line := range strings.Lines(body) {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// resolveDuplicates applies the duplicate policy. Groups are visited in
// discovery order so the reported collision is deterministic.
func resolveDuplicates(docs []store.Document, opts Options, stats *Stats) ([]store.Document, error) {
	groups := make(map[string][]int, len(docs))
	for i, d := range docs {
		groups[d.Slug] = append(groups[d.Slug], i)
	}
	if len(groups) == len(docs) {
		return docs, nil
	}

	drop := make(map[int]bool)
	for i, d := range docs {
		idx := groups[d.Slug]
		if len(idx) < 2 || idx[0] != i {
			continue
		}
		switch opts.Duplicates {
		case DuplicatesPath:
			for _, j := range idx {
				docs[j].Slug = strings.TrimSuffix(docs[j].Path, opts.Extension)
				stats.warn(docs[j].Path, "slug %q is shared, using %q", d.Slug, docs[j].Slug)
			}
		case DuplicatesFirst:
			for _, j := range idx[1:] {
				drop[j] = true
				stats.Skipped++
				stats.warn(docs[j].Path, "slug %q already used by %s, skipped", d.Slug, docs[i].Path)
			}
		default:
			paths := make([]string, len(idx))
			for k, j := range idx {
				paths[k] = docs[j].Path
			}
			return nil, &DuplicateError{Slug: d.Slug, Paths: paths}
		}
	}

	if len(drop) == 0 {
		return docs, nil
	}
	kept := docs[:0:0]
	for i, d := range docs {
		if !drop[i] {
			kept = append(kept, d)
		}
	}
	return kept, nil
}
