// Package web provides a local read-only JSON API over the news index.
package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sgx-labs/newsdesk/internal/render"
	"github.com/sgx-labs/newsdesk/internal/store"
)

// Options configures the API.
type Options struct {
	Version    string
	ContentDir string
	PageSize   int
	Recent     int
	// Renderer enables ?format=html on single articles. May be nil.
	Renderer *render.Renderer
}

// Request limits.
const (
	maxPageSize   = 100
	maxRecent     = 100
	maxQueryBytes = 1000
)

// Serve starts the web server on the given address. Every request reads the
// index currently held by snap, so a rebuild is picked up without a restart.
func Serve(addr string, snap *store.Snapshot, opts Options) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	fmt.Fprintf(os.Stderr, "newsdesk web API: http://%s/api/status\n", listener.Addr())
	return http.Serve(listener, NewHandler(snap, opts))
}

// NewHandler returns the API with its middleware applied.
func NewHandler(snap *store.Snapshot, opts Options) http.Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = store.DefaultPageSize
	}
	if opts.Recent <= 0 {
		opts.Recent = 6
	}
	s := &server{snap: snap, opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/news", s.handleList)
	mux.HandleFunc("GET /api/news/{slug...}", s.handleNews) // also {slug}/siblings
	mux.HandleFunc("GET /api/siblings/{slug...}", s.handleSiblings)
	mux.HandleFunc("GET /api/recent", s.handleRecent)
	mux.HandleFunc("GET /api/archive", s.handleArchive)
	mux.HandleFunc("GET /api/archive/{year}", s.handleYear)
	mux.HandleFunc("GET /api/archive/{year}/{month}", s.handleMonth)
	mux.HandleFunc("GET /api/search", s.handleSearch)

	return localhostOnly(securityHeaders(mux))
}

type server struct {
	snap *store.Snapshot
	opts Options
}

// --- Middleware ---

func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if idx := strings.LastIndex(host, ":"); idx >= 0 {
			host = host[:idx]
		}
		host = strings.Trim(host, "[]") // strip IPv6 brackets

		if host == "localhost" {
			next.ServeHTTP(w, r)
			return
		}
		if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ix := s.snap.Load()
	status := map[string]any{
		"documents":   ix.Len(),
		"years":       ix.Years(),
		"version":     s.opts.Version,
		"content_dir": s.opts.ContentDir,
		"page_size":   s.opts.PageSize,
	}
	if recent := ix.Recent(1, ""); len(recent) == 1 {
		status["newest"] = recent[0].Date.Format(time.RFC3339)
	}
	writeJSON(w, status)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := intParam(q.Get("page"), 1)
	size := min(intParam(q.Get("size"), s.opts.PageSize), maxPageSize)

	res := s.snap.Load().Page(page, size)
	res.Items = store.Listings(res.Items)
	writeJSON(w, res)
}

type newsJSON struct {
	store.Document
	HTML string `json:"html,omitempty"`
}

// handleNews serves an article, or the sibling view for "{slug}/siblings".
// An article whose own slug ends in "/siblings" wins over the sibling view;
// /api/siblings/{slug} always means the sibling view.
func (s *server) handleNews(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	ix := s.snap.Load()

	doc, ok := ix.BySlug(slug)
	if !ok {
		if base, isSiblings := strings.CutSuffix(slug, "/siblings"); isSiblings {
			s.writeSiblings(w, ix, base)
			return
		}
		writeError(w, http.StatusNotFound, fmt.Sprintf("no article %q", slug))
		return
	}

	out := newsJSON{Document: doc}
	if r.URL.Query().Get("format") == "html" {
		if s.opts.Renderer == nil {
			writeError(w, http.StatusNotImplemented, "html rendering is not configured")
			return
		}
		html, err := s.opts.Renderer.Render(doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out.HTML = html
	}
	writeJSON(w, out)
}

func (s *server) handleSiblings(w http.ResponseWriter, r *http.Request) {
	s.writeSiblings(w, s.snap.Load(), r.PathValue("slug"))
}

func (s *server) writeSiblings(w http.ResponseWriter, ix *store.Index, slug string) {
	if _, ok := ix.BySlug(slug); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no article %q", slug))
		return
	}
	sib := ix.Siblings(slug)
	writeJSON(w, store.Siblings{Newer: listing(sib.Newer), Older: listing(sib.Older)})
}

func listing(d *store.Document) *store.Document {
	if d == nil {
		return nil
	}
	l := d.Listing()
	return &l
}

func (s *server) handleRecent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := min(intParam(q.Get("limit"), s.opts.Recent), maxRecent)
	writeJSON(w, store.Listings(s.snap.Load().Recent(limit, q.Get("exclude"))))
}

func (s *server) handleArchive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.snap.Load().Archive())
}

func (s *server) handleYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	months := s.snap.Load().Months(year)
	if len(months) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no articles in %d", year))
		return
	}
	writeJSON(w, map[string]any{
		"year":   year,
		"months": months,
	})
}

func (s *server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	writeJSON(w, map[string]any{
		"year":  year,
		"month": month,
		"items": store.Listings(s.snap.Load().InMonth(year, month)),
	})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := q.Get("q")
	if len(keyword) > maxQueryBytes {
		writeError(w, http.StatusBadRequest, "oversized query")
		return
	}

	scope, err := store.ParseScope(q.Get("scope"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ix := s.snap.Load()
	start, err := store.ParseBound(q.Get("start"), false, ix.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "start: "+err.Error())
		return
	}
	end, err := store.ParseBound(q.Get("end"), true, ix.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "end: "+err.Error())
		return
	}

	results := ix.Search(store.Query{Keyword: keyword, Start: start, End: end, Scope: scope})
	page := intParam(q.Get("page"), 1)
	size := min(intParam(q.Get("size"), s.opts.PageSize), maxPageSize)
	res := store.Paginate(results, page, size)
	res.Items = store.Listings(res.Items)

	writeJSON(w, map[string]any{
		"query":       keyword,
		"scope":       scope.String(),
		"items":       res.Items,
		"page":        res.Page,
		"total_pages": res.TotalPages,
		"total":       res.Total,
	})
}

// intParam parses a positive integer query value, returning def otherwise.
func intParam(v string, def int) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
