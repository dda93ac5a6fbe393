// Package mcp implements the MCP server that lets agents browse and search
// the news index.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgx-labs/newsdesk/internal/indexer"
	"github.com/sgx-labs/newsdesk/internal/render"
	"github.com/sgx-labs/newsdesk/internal/store"
)

// RebuildFunc loads the content tree again and returns a fresh index.
type RebuildFunc func() (*store.Index, *indexer.Stats, error)

// Options wires the server to the rest of newsdesk.
type Options struct {
	ContentDir string
	PageSize   int
	Renderer   *render.Renderer
	Rebuild    RebuildFunc
	// Stats describes the load that produced the initial index.
	Stats *indexer.Stats
}

var (
	snap            *store.Snapshot
	opts            Options
	lastStats       *indexer.Stats
	statsMu         sync.Mutex
	reindexMu       sync.Mutex
	lastReindexTime time.Time
)

const reindexCooldown = 60 * time.Second

// Version is set by the caller (main) before calling Serve.
var Version = "dev"

// Serve starts the MCP server on stdio.
func Serve(s *store.Snapshot, o Options) error {
	configure(s, o)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "newsdesk",
		Version: Version,
	}, nil)

	registerTools(server)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func configure(s *store.Snapshot, o Options) {
	if o.PageSize <= 0 {
		o.PageSize = store.DefaultPageSize
	}
	snap = s
	opts = o

	statsMu.Lock()
	lastStats = o.Stats
	statsMu.Unlock()

	reindexMu.Lock()
	lastReindexTime = time.Time{}
	reindexMu.Unlock()
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_news",
		Description: "List news articles, newest first, one page at a time. Use this to see what has been published recently.\n\nArgs:\n  page: Page number, starting at 1 (out-of-range pages are clamped)\n  size: Articles per page (default from config, max 100)\n\nReturns slugs, titles, dates and summaries plus page counts.",
	}, handleListNews)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_news",
		Description: "Read one article in full. Use this after list_news or search_news returns a relevant slug.\n\nArgs:\n  slug: Article slug (file name without extension)\n  html: Also return the body rendered as HTML\n\nReturns the article with its markdown body.",
	}, handleGetNews)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_siblings",
		Description: "Find the articles published just before and just after a given article.\n\nArgs:\n  slug: Article slug\n\nReturns the newer and older neighbours (either may be null).",
	}, handleSiblings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_archive",
		Description: "Summarise the archive: every year with articles, newest first, and the months in each year with article counts.",
	}, handleArchive)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_in_month",
		Description: "List every article published in one calendar month.\n\nArgs:\n  year: Four-digit year\n  month: Month number 1-12\n\nReturns the month's articles, newest first.",
	}, handleInMonth)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_news",
		Description: "Search articles by case-insensitive substring and optional date range. Matching is exact, not ranked.\n\nArgs:\n  query: Text to look for (empty matches everything)\n  scope: \"body\" (default) searches article text, \"list\" searches titles and summaries\n  start: Earliest date, YYYY-MM-DD or RFC 3339 (inclusive)\n  end: Latest date, YYYY-MM-DD or RFC 3339 (inclusive, whole day)\n  page: Page number (default 1)\n  size: Results per page (default from config, max 100)\n\nReturns matching articles, newest first.",
	}, handleSearchNews)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reindex",
		Description: "Re-scan the content directory and rebuild the article index. Use this if articles were added or edited since the server started.\n\nReturns load statistics and any per-file warnings.",
	}, handleReindex)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Check the size and health of the article index: article count, years covered, the last load's warnings, and uncommitted article changes when the content lives in git.",
	}, handleIndexStats)
}

// Tool input types

type listInput struct {
	Page int `json:"page" jsonschema:"Page number, starting at 1"`
	Size int `json:"size" jsonschema:"Articles per page (max 100)"`
}

type getInput struct {
	Slug string `json:"slug" jsonschema:"Article slug"`
	HTML bool   `json:"html,omitempty" jsonschema:"Also return the body rendered as HTML"`
}

type slugInput struct {
	Slug string `json:"slug" jsonschema:"Article slug"`
}

type monthInput struct {
	Year  int `json:"year" jsonschema:"Four-digit year"`
	Month int `json:"month" jsonschema:"Month number 1-12"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"Text to look for; empty matches everything"`
	Scope string `json:"scope,omitempty" jsonschema:"body (default) or list"`
	Start string `json:"start,omitempty" jsonschema:"Earliest date, YYYY-MM-DD or RFC 3339"`
	End   string `json:"end,omitempty" jsonschema:"Latest date, YYYY-MM-DD or RFC 3339"`
	Page  int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	Size  int    `json:"size,omitempty" jsonschema:"Results per page (max 100)"`
}

type emptyInput struct{}

// Tool handlers

func handleListNews(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	res := snap.Load().Page(input.Page, clampSize(input.Size, opts.PageSize))
	if res.Total == 0 {
		return textResult("No articles found. The content directory may be empty; try reindex()."), nil, nil
	}
	res.Items = store.Listings(res.Items)
	return jsonResult(res), nil, nil
}

func handleGetNews(ctx context.Context, req *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, any, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return textResult("Error: slug is required."), nil, nil
	}
	doc, ok := snap.Load().BySlug(slug)
	if !ok {
		return textResult(fmt.Sprintf("No article with slug %q.", slug)), nil, nil
	}

	out := map[string]any{"article": doc}
	if input.HTML {
		if opts.Renderer == nil {
			return textResult("Error: HTML rendering is not configured."), nil, nil
		}
		html, err := opts.Renderer.Render(doc)
		if err != nil {
			return textResult(fmt.Sprintf("Render error: %v", err)), nil, nil
		}
		out["html"] = html
	}
	return jsonResult(out), nil, nil
}

func handleSiblings(ctx context.Context, req *mcp.CallToolRequest, input slugInput) (*mcp.CallToolResult, any, error) {
	ix := snap.Load()
	if _, ok := ix.BySlug(input.Slug); !ok {
		return textResult(fmt.Sprintf("No article with slug %q.", input.Slug)), nil, nil
	}
	sib := ix.Siblings(input.Slug)
	out := store.Siblings{}
	if sib.Newer != nil {
		l := sib.Newer.Listing()
		out.Newer = &l
	}
	if sib.Older != nil {
		l := sib.Older.Listing()
		out.Older = &l
	}
	return jsonResult(out), nil, nil
}

func handleArchive(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	archive := snap.Load().Archive()
	if len(archive) == 0 {
		return textResult("The archive is empty."), nil, nil
	}
	return jsonResult(archive), nil, nil
}

func handleInMonth(ctx context.Context, req *mcp.CallToolRequest, input monthInput) (*mcp.CallToolResult, any, error) {
	if input.Month < 1 || input.Month > 12 {
		return textResult("Error: month must be between 1 and 12."), nil, nil
	}
	docs := snap.Load().InMonth(input.Year, input.Month)
	if len(docs) == 0 {
		return textResult(fmt.Sprintf("No articles in %04d-%02d.", input.Year, input.Month)), nil, nil
	}
	return jsonResult(store.Listings(docs)), nil, nil
}

func handleSearchNews(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	if len(input.Query) > 1000 {
		return textResult("Error: query is too long (max 1000 bytes)."), nil, nil
	}
	scope, err := store.ParseScope(input.Scope)
	if err != nil {
		return textResult("Error: " + err.Error()), nil, nil
	}

	ix := snap.Load()
	start, err := store.ParseBound(input.Start, false, ix.Location())
	if err != nil {
		return textResult("Error: start: " + err.Error()), nil, nil
	}
	end, err := store.ParseBound(input.End, true, ix.Location())
	if err != nil {
		return textResult("Error: end: " + err.Error()), nil, nil
	}

	results := ix.Search(store.Query{Keyword: input.Query, Start: start, End: end, Scope: scope})
	if len(results) == 0 {
		return textResult("No matching articles."), nil, nil
	}
	res := store.Paginate(results, input.Page, clampSize(input.Size, opts.PageSize))
	res.Items = store.Listings(res.Items)
	return jsonResult(res), nil, nil
}

func handleReindex(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	reindexMu.Lock()
	defer reindexMu.Unlock()

	if opts.Rebuild == nil {
		return textResult("Error: reindex is not available."), nil, nil
	}
	if time.Since(lastReindexTime) < reindexCooldown {
		remaining := int(reindexCooldown.Seconds() - time.Since(lastReindexTime).Seconds())
		data, _ := json.Marshal(map[string]string{
			"error": fmt.Sprintf("Reindex cooldown active. Try again in %ds.", remaining),
		})
		return textResult(string(data)), nil, nil
	}
	lastReindexTime = time.Now()

	ix, stats, err := opts.Rebuild()
	if err != nil {
		// The previous snapshot stays in place.
		return textResult(fmt.Sprintf("Reindex error: %v", err)), nil, nil
	}
	snap.Store(ix)

	statsMu.Lock()
	lastStats = stats
	statsMu.Unlock()

	return jsonResult(stats), nil, nil
}

func handleIndexStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	ix := snap.Load()
	out := map[string]any{
		"documents":   ix.Len(),
		"years":       ix.Years(),
		"content_dir": opts.ContentDir,
	}
	statsMu.Lock()
	if lastStats != nil {
		out["last_load"] = lastStats
	}
	statsMu.Unlock()
	if git := contentGitStatus(opts.ContentDir); git != nil {
		out["git"] = git
	}
	return jsonResult(out), nil, nil
}

// Helpers

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("Error encoding result: %v", err))
	}
	return textResult(string(data))
}

func clampSize(size, defaultVal int) int {
	if size <= 0 {
		return defaultVal
	}
	if size > 100 {
		return 100
	}
	return size
}
