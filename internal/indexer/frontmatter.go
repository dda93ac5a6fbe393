// Package indexer discovers markdown articles on disk, parses their front
// matter, and turns each file into a store.Document.
package indexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Dialect is the encoding of a document's metadata block.
type Dialect int

const (
	// DialectNone means the file has no metadata block; all of it is body.
	DialectNone Dialect = iota
	// DialectYAML is a block fenced by "---" lines.
	DialectYAML
	// DialectTOML is a block fenced by "+++" lines, as Hugo writes it.
	DialectTOML
)

func (d Dialect) String() string {
	switch d {
	case DialectYAML:
		return "yaml"
	case DialectTOML:
		return "toml"
	default:
		return "none"
	}
}

// leadingSpace is skipped before sniffing, including a UTF-8 byte order mark.
const leadingSpace = " \t\r\n\ufeff"

var errUnterminated = errors.New("missing closing delimiter")

// formats maps each fenced dialect to its decoder.
var formats = map[Dialect]*frontmatter.Format{
	DialectYAML: frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	DialectTOML: frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// ParsedNote holds the parsed content of a markdown file.
type ParsedNote struct {
	Dialect Dialect
	Meta    Meta
	Body    string
	// Err is set when a metadata block was found but could not be decoded.
	// Meta is then empty and Body is the whole input.
	Err error
}

// SniffDialect reports which metadata block, if any, content starts with.
// Only the first line after leading whitespace is inspected, and it must be
// exactly the fence; a CRLF line ending is the only thing allowed after it.
func SniffDialect(content string) Dialect {
	s := strings.TrimLeft(content, leadingSpace)
	line, _, _ := strings.Cut(s, "\n")
	switch strings.TrimSuffix(line, "\r") {
	case "---":
		return DialectYAML
	case "+++":
		return DialectTOML
	default:
		return DialectNone
	}
}

// ParseNote splits content into metadata and body. It never fails: a broken
// metadata block leaves Meta empty and the entire input as Body.
func ParseNote(content string) ParsedNote {
	dialect := SniffDialect(content)
	if dialect == DialectNone {
		return ParsedNote{Dialect: DialectNone, Meta: Meta{}, Body: content}
	}

	format := formats[dialect]
	trimmed := strings.TrimLeft(content, leadingSpace)
	if !hasClosingFence(trimmed, format.End) {
		return recovered(dialect, content, errUnterminated)
	}

	var meta map[string]any
	body, err := frontmatter.Parse(strings.NewReader(trimmed), &meta, format)
	if err != nil {
		return recovered(dialect, content, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return ParsedNote{
		Dialect: dialect,
		Meta:    Meta(meta),
		Body:    strings.TrimLeft(string(body), "\r\n"),
	}
}

func recovered(dialect Dialect, content string, err error) ParsedNote {
	return ParsedNote{
		Dialect: dialect,
		Meta:    Meta{},
		Body:    content,
		Err:     fmt.Errorf("%s front matter: %w", dialect, err),
	}
}

// hasClosingFence reports whether a line equal to fence follows the opening one.
func hasClosingFence(s, fence string) bool {
	_, rest, ok := strings.Cut(s, "\n")
	if !ok {
		return false
	}
	for _, line := range strings.Split(rest, "\n") {
		if strings.TrimRight(line, " \t\r") == fence {
			return true
		}
	}
	return false
}
