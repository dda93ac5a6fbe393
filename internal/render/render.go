// Package render turns article bodies into HTML with goldmark.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/sgx-labs/newsdesk/internal/store"
)

// Options selects goldmark extensions and renderer behaviour.
type Options struct {
	// Extensions names entries of the extension registry. Empty means
	// DefaultExtensions.
	Extensions []string
	// HardWraps turns single newlines into <br>. Articles are written one
	// statement per line, so this is on by default.
	HardWraps bool
	// Unsafe passes raw HTML in the body through unchanged.
	Unsafe bool
}

// DefaultExtensions are used when Options.Extensions is empty.
var DefaultExtensions = []string{"gfm", "linkify"}

// DefaultOptions returns the renderer defaults.
func DefaultOptions() Options {
	return Options{Extensions: DefaultExtensions, HardWraps: true}
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// KnownExtension reports whether name is in the extension registry.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Renderer converts markdown to HTML. A Renderer holds no per-call state and
// may be shared between goroutines.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer. Unknown extension names are an error.
func New(opts Options) (*Renderer, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md}, nil
}

// Markdown renders src to HTML.
func (r *Renderer) Markdown(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Render returns the HTML for doc's body.
func (r *Renderer) Render(doc store.Document) (string, error) {
	out, err := r.Markdown([]byte(doc.Body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", doc.Slug, err)
	}
	return string(out), nil
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	if len(names) == 0 {
		names = DefaultExtensions
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q", name)
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders, nil
}
