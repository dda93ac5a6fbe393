package indexer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MissingDatePolicy decides what happens to a document without a date.
type MissingDatePolicy string

const (
	// MissingDateFallback dates the document at Options.FallbackDate.
	MissingDateFallback MissingDatePolicy = "fallback"
	// MissingDateMtime uses the file's modification time.
	MissingDateMtime MissingDatePolicy = "mtime"
	// MissingDateSkip leaves the document out with a warning.
	MissingDateSkip MissingDatePolicy = "skip"
	// MissingDateError fails the whole load.
	MissingDateError MissingDatePolicy = "error"
)

// DuplicatePolicy decides what happens when two files share a base name.
type DuplicatePolicy string

const (
	// DuplicatesError fails the load with a *DuplicateError.
	DuplicatesError DuplicatePolicy = "error"
	// DuplicatesPath gives every colliding document its relative path
	// (without extension) as slug.
	DuplicatesPath DuplicatePolicy = "path"
	// DuplicatesFirst keeps the first file found and skips the rest.
	DuplicatesFirst DuplicatePolicy = "first"
)

// ParseMissingDatePolicy validates a policy name.
func ParseMissingDatePolicy(s string) (MissingDatePolicy, error) {
	switch p := MissingDatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MissingDateFallback, nil
	case MissingDateFallback, MissingDateMtime, MissingDateSkip, MissingDateError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown missing_date policy %q (want fallback, mtime, skip or error)", s)
	}
}

// ParseDuplicatePolicy validates a policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicatesError, nil
	case DuplicatesError, DuplicatesPath, DuplicatesFirst:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicates policy %q (want error, path or first)", s)
	}
}

// Options controls how a content tree is loaded.
type Options struct {
	// Extension selects content files. Defaults to ".md".
	Extension string
	// SkipDirs names directories that are never entered.
	SkipDirs map[string]bool
	// IncludeDrafts keeps documents marked draft: true.
	IncludeDrafts bool
	// Location is used for dates written without an offset and for
	// year/month grouping. Nil reads naive dates as UTC and groups each date
	// in the offset it was written with.
	Location     *time.Location
	MissingDate  MissingDatePolicy
	FallbackDate time.Time
	Duplicates   DuplicatePolicy
}

// DefaultSkipDirs are directories skipped during content walks.
var DefaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".next":        true,
	".newsdesk":    true,
	".obsidian":    true,
	".trash":       true,
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Extension:    ".md",
		SkipDirs:     DefaultSkipDirs,
		MissingDate:  MissingDateFallback,
		FallbackDate: time.Unix(0, 0).UTC(),
		Duplicates:   DuplicatesError,
	}
}

func (o Options) withDefaults() Options {
	if o.Extension == "" {
		o.Extension = ".md"
	}
	if o.SkipDirs == nil {
		o.SkipDirs = DefaultSkipDirs
	}
	if o.MissingDate == "" {
		o.MissingDate = MissingDateFallback
	}
	if o.Duplicates == "" {
		o.Duplicates = DuplicatesError
	}
	if o.FallbackDate.IsZero() {
		o.FallbackDate = time.Unix(0, 0).UTC()
	}
	return o
}

var (
	// ErrDuplicateSlug is matched by *DuplicateError.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrMissingDate is returned under MissingDateError.
	ErrMissingDate = errors.New("missing date")
)

// DuplicateError names the files that share a slug.
type DuplicateError struct {
	Slug  string
	Paths []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate slug %q: %s", e.Slug, strings.Join(e.Paths, ", "))
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateSlug
}
