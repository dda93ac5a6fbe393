package indexer

import (
	"io/fs"
	"iter"
	"path"
	"strings"

	"github.com/sgx-labs/newsdesk/internal/logger"
)

// contentFiles yields the paths of content files under root in fs.WalkDir
// order: lexical within each directory, depth first. Unreadable directories
// are skipped and recorded in stats, or only logged when stats is nil.
func contentFiles(fsys fs.FS, root string, opts Options, stats *Stats) iter.Seq[string] {
	return func(yield func(string) bool) {
		fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				switch {
				case stats != nil:
					stats.warn(relPath(root, p), "unreadable directory, skipped: %v", err)
				case p != root:
					logger.Warn("%s: %v", relPath(root, p), err)
				}
				return nil
			}
			if d.IsDir() {
				if p != root && opts.SkipDirs[d.Name()] {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), opts.Extension) {
				return nil
			}
			if !yield(p) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// CountContentFiles returns the number of content files under dir.
func CountContentFiles(fsys fs.FS, root string, opts Options) int {
	opts = opts.withDefaults()
	n := 0
	for range contentFiles(fsys, root, opts, nil) {
		n++
	}
	return n
}

// relPath returns p relative to root, slash separated.
func relPath(root, p string) string {
	if root == "." || root == "" {
		return p
	}
	rel := strings.TrimPrefix(p, path.Clean(root)+"/")
	if rel == "" {
		return p
	}
	return rel
}
