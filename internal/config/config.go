// Package config provides configuration for the newsdesk binary.
// Loads from: CLI flags > env vars > .newsdesk/config.toml > built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sgx-labs/newsdesk/internal/indexer"
	"github.com/sgx-labs/newsdesk/internal/logger"
	"github.com/sgx-labs/newsdesk/internal/render"
)

// Built-in defaults.
const (
	DefaultContentDir = "content/news"
	DefaultPort       = 4079
	DefaultRecent     = 6
	DefaultPageSize   = 20

	// ConfigDirName holds config.toml at the project root.
	ConfigDirName = ".newsdesk"
)

// Config holds all newsdesk configuration, loaded from TOML + env + flags.
type Config struct {
	Content ContentConfig `toml:"content"`
	Listing ListingConfig `toml:"listing"`
	Render  RenderConfig  `toml:"render"`
	Web     WebConfig     `toml:"web"`

	// path is the config file this was loaded from, if any.
	path string
	// base resolves a relative Content.Dir; empty means the working directory.
	base string
}

// ContentConfig describes where articles live and how they are read.
type ContentConfig struct {
	Dir           string   `toml:"dir"`
	Extension     string   `toml:"extension"`
	SkipDirs      []string `toml:"skip_dirs"`
	IncludeDrafts bool     `toml:"include_drafts"`
	Timezone      string   `toml:"timezone"`      // IANA name; "" keeps written offsets
	MissingDate   string   `toml:"missing_date"`  // "fallback" (default), "mtime", "skip", "error"
	FallbackDate  string   `toml:"fallback_date"` // used by the fallback policy
	Duplicates    string   `toml:"duplicates"`    // "error" (default), "path", "first"
}

// ListingConfig controls list views.
type ListingConfig struct {
	PageSize int `toml:"page_size"`
	Recent   int `toml:"recent"`
}

// RenderConfig controls markdown to HTML conversion.
type RenderConfig struct {
	Extensions []string `toml:"extensions"`
	HardWraps  bool     `toml:"hard_wraps"`
	UnsafeHTML bool     `toml:"unsafe_html"`
}

// WebConfig controls the local JSON API.
type WebConfig struct {
	Port int `toml:"port"`
}

// Sentinel errors for consistent messaging across commands.
var (
	// ErrNoContent is returned when the content directory does not exist.
	ErrNoContent = errors.New("no content directory found; run from your site root or pass --dir")
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrConfigExists is returned by GenerateConfig when it would overwrite.
	ErrConfigExists = errors.New("config file already exists")
)

// DirOverride is set by the --dir flag and wins over every other source.
var DirOverride string

// ConfigOverride is set by the --config flag.
var ConfigOverride string

// DefaultConfig returns a Config with all built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Dir:          DefaultContentDir,
			Extension:    ".md",
			MissingDate:  string(indexer.MissingDateFallback),
			FallbackDate: "1970-01-01T00:00:00Z",
			Duplicates:   string(indexer.DuplicatesError),
		},
		Listing: ListingConfig{
			PageSize: DefaultPageSize,
			Recent:   DefaultRecent,
		},
		Render: RenderConfig{
			Extensions: render.DefaultExtensions,
			HardWraps:  true,
		},
		Web: WebConfig{
			Port: DefaultPort,
		},
	}
}

// LoadConfig finds and loads the config file, then applies env overrides.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(findConfigFile())
}

// LoadConfigFrom loads configuration from a specific file path, merging with
// defaults and env vars. A missing file is not an error.
func LoadConfigFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			meta, err := toml.DecodeFile(configPath, cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: %w", configPath, err)
			}
			warnUnknownKeys(meta, configPath)
			cfg.path = configPath
			cfg.base = siteRoot(configPath)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets environment variables override TOML values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("NEWSDESK_CONTENT_DIR"); v != "" {
		cfg.Content.Dir = v
		// Env paths are relative to the working directory, not the config.
		cfg.base = ""
	}
	if v := os.Getenv("NEWSDESK_SKIP_DIRS"); v != "" {
		for _, d := range strings.Split(v, ",") {
			d = strings.TrimSpace(d)
			if d != "" {
				cfg.Content.SkipDirs = append(cfg.Content.SkipDirs, d)
			}
		}
	}
	if v := os.Getenv("NEWSDESK_INCLUDE_DRAFTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("NEWSDESK_INCLUDE_DRAFTS=%q is not a boolean (ignored)", v)
		} else {
			cfg.Content.IncludeDrafts = b
		}
	}
	if v := os.Getenv("NEWSDESK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			logger.Warn("NEWSDESK_PAGE_SIZE=%q is not a positive number (ignored)", v)
		} else {
			cfg.Listing.PageSize = n
		}
	}
}

// findConfigFile looks for .newsdesk/config.toml in the working directory
// and its parents.
func findConfigFile() string {
	if ConfigOverride != "" {
		return ConfigOverride
	}

	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; ; {
			p := ConfigFilePath(dir)
			if _, err := os.Stat(p); err == nil {
				return p
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return ""
}

// siteRoot is the directory holding .newsdesk/, or the config file's own
// directory when it lives elsewhere.
func siteRoot(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ConfigDirName {
		return filepath.Dir(dir)
	}
	return dir
}

// FindConfigFile returns the config file LoadConfig would read, or "".
func FindConfigFile() string {
	return findConfigFile()
}

// ConfigFilePath returns where the config file lives for a site root.
func ConfigFilePath(root string) string {
	return filepath.Join(root, ConfigDirName, "config.toml")
}

// Path returns the file this config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// ContentDir returns the directory to load articles from. --dir wins;
// a relative dir from the config file is resolved against the site root
// that holds .newsdesk/.
func (c *Config) ContentDir() string {
	if DirOverride != "" {
		return DirOverride
	}
	dir := c.Content.Dir
	if dir == "" {
		dir = DefaultContentDir
	}
	if filepath.IsAbs(dir) || c.base == "" {
		return dir
	}
	return filepath.Join(c.base, dir)
}

// Location returns the configured time zone, or nil to keep written offsets.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Content.Timezone)
	if tz == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: content.timezone %q: %v", ErrInvalidConfig, tz, err)
	}
	return loc, nil
}

// LoadOptions converts the content settings into loader options.
func (c *Config) LoadOptions() (indexer.Options, error) {
	opts := indexer.DefaultOptions()

	if ext := strings.TrimSpace(c.Content.Extension); ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		opts.Extension = ext
	}

	opts.SkipDirs = make(map[string]bool, len(indexer.DefaultSkipDirs)+len(c.Content.SkipDirs))
	for k, v := range indexer.DefaultSkipDirs {
		opts.SkipDirs[k] = v
	}
	for _, d := range c.Content.SkipDirs {
		if d = strings.Trim(strings.TrimSpace(d), "/"); d != "" {
			opts.SkipDirs[d] = true
		}
	}
	opts.IncludeDrafts = c.Content.IncludeDrafts

	loc, err := c.Location()
	if err != nil {
		return opts, err
	}
	opts.Location = loc

	if opts.MissingDate, err = indexer.ParseMissingDatePolicy(c.Content.MissingDate); err != nil {
		return opts, fmt.Errorf("%w: content.missing_date: %v", ErrInvalidConfig, err)
	}
	if opts.Duplicates, err = indexer.ParseDuplicatePolicy(c.Content.Duplicates); err != nil {
		return opts, fmt.Errorf("%w: content.duplicates: %v", ErrInvalidConfig, err)
	}
	if s := strings.TrimSpace(c.Content.FallbackDate); s != "" {
		t, err := indexer.ParseDate(s, loc)
		if err != nil {
			return opts, fmt.Errorf("%w: content.fallback_date: %v", ErrInvalidConfig, err)
		}
		opts.FallbackDate = t
	}
	return opts, nil
}

// RenderOptions converts the render settings into renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Extensions: c.Render.Extensions,
		HardWraps:  c.Render.HardWraps,
		Unsafe:     c.Render.UnsafeHTML,
	}
}

// PageSize returns the listing page size, falling back to the default.
func (c *Config) PageSize() int {
	if c.Listing.PageSize > 0 {
		return c.Listing.PageSize
	}
	return DefaultPageSize
}

// RecentCount returns how many recent articles side lists show.
func (c *Config) RecentCount() int {
	if c.Listing.Recent > 0 {
		return c.Listing.Recent
	}
	return DefaultRecent
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := c.LoadOptions(); err != nil {
		return err
	}
	for _, name := range c.Render.Extensions {
		if !render.KnownExtension(name) {
			return fmt.Errorf("%w: render.extensions: unknown extension %q", ErrInvalidConfig, name)
		}
	}
	if c.Listing.PageSize < 0 {
		return fmt.Errorf("%w: listing.page_size must be positive, got %d", ErrInvalidConfig, c.Listing.PageSize)
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("%w: web.port %d out of range", ErrInvalidConfig, c.Web.Port)
	}
	return nil
}

// GenerateConfig writes a default .newsdesk/config.toml with comments under
// root. It refuses to overwrite an existing file unless force is set.
func GenerateConfig(root, contentDir string, force bool) (string, error) {
	configPath := ConfigFilePath(root)
	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("%w: %s", ErrConfigExists, configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return configPath, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(generateTOMLContent(contentDir)), 0o644); err != nil {
		return configPath, fmt.Errorf("write config: %w", err)
	}
	return configPath, nil
}

func generateTOMLContent(contentDir string) string {
	if contentDir == "" {
		contentDir = DefaultContentDir
	}
	var b strings.Builder
	b.WriteString("# newsdesk configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Priority: CLI flags > environment variables > this file > built-in defaults\n")
	b.WriteString("# Environment variables: NEWSDESK_CONTENT_DIR, NEWSDESK_SKIP_DIRS,\n")
	b.WriteString("#   NEWSDESK_INCLUDE_DRAFTS, NEWSDESK_PAGE_SIZE\n\n")

	b.WriteString("[content]\n")
	b.WriteString("# Relative paths are resolved from the directory holding .newsdesk/\n")
	fmt.Fprintf(&b, "dir = %q\n", contentDir)
	b.WriteString("extension = \".md\"\n")
	b.WriteString("# skip_dirs = [\"archive-old\"]  # added to built-in exclusions\n")
	b.WriteString("include_drafts = false\n")
	b.WriteString("# IANA zone for dates written without an offset and for archive grouping.\n")
	b.WriteString("# Empty keeps each date in the offset it was written with.\n")
	b.WriteString("timezone = \"\"\n")
	b.WriteString("# Articles without a date:\n")
	b.WriteString("#   \"fallback\" = use fallback_date (default)\n")
	b.WriteString("#   \"mtime\"    = use the file's modification time\n")
	b.WriteString("#   \"skip\"     = leave the article out\n")
	b.WriteString("#   \"error\"    = refuse to load\n")
	b.WriteString("missing_date = \"fallback\"\n")
	b.WriteString("fallback_date = \"1970-01-01T00:00:00Z\"\n")
	b.WriteString("# Two files with the same name: \"error\" (default), \"path\", \"first\"\n")
	b.WriteString("duplicates = \"error\"\n\n")

	b.WriteString("[listing]\n")
	fmt.Fprintf(&b, "page_size = %d\n", DefaultPageSize)
	fmt.Fprintf(&b, "recent = %d\n\n", DefaultRecent)

	b.WriteString("[render]\n")
	b.WriteString("# gfm, table, strikethrough, linkify, tasklist, definition, footnote, typographer\n")
	b.WriteString("extensions = [\"gfm\", \"linkify\"]\n")
	b.WriteString("hard_wraps = true\n")
	b.WriteString("unsafe_html = false\n\n")

	b.WriteString("[web]\n")
	fmt.Fprintf(&b, "port = %d\n", DefaultPort)

	return b.String()
}

// ShowConfig returns the current effective configuration as TOML.
func ShowConfig() string {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Sprintf("# Error loading config: %v\n", err)
	}

	var b strings.Builder
	b.WriteString("# Effective newsdesk configuration (merged from all sources)\n")
	if cfg.path != "" {
		fmt.Fprintf(&b, "# Loaded from %s\n", cfg.path)
	}
	b.WriteString("\n")

	// Show the directory that will actually be read.
	cfg.Content.Dir = cfg.ContentDir()
	enc := toml.NewEncoder(&b)
	if err := enc.Encode(cfg); err != nil {
		fmt.Fprintf(&b, "# Error encoding config: %v\n", err)
	}
	return b.String()
}

// configSuggestions maps common wrong keys to the correct TOML key name.
var configSuggestions = map[string]string{
	"path":          "dir",
	"directory":     "dir",
	"content_dir":   "dir",
	"exclude_dirs":  "skip_dirs",
	"ignore_dirs":   "skip_dirs",
	"ignored_dirs":  "skip_dirs",
	"excludes":      "skip_dirs",
	"ext":           "extension",
	"drafts":        "include_drafts",
	"tz":            "timezone",
	"time_zone":     "timezone",
	"per_page":      "page_size",
	"pagesize":      "page_size",
	"page-size":     "page_size",
	"unsafe":        "unsafe_html",
	"hardwraps":     "hard_wraps",
	"hard-wraps":    "hard_wraps",
	"on_duplicate":  "duplicates",
	"missing_dates": "missing_date",
}

// warnUnknownKeys prints warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return
	}

	fname := filepath.Base(configPath)
	for _, key := range undecoded {
		keyStr := key.String()
		lastPart := key[len(key)-1]

		if suggestion, ok := configSuggestions[lastPart]; ok {
			logger.Warn("unknown key %q in %s, did you mean %q?", keyStr, fname, suggestion)
		} else {
			logger.Warn("unknown key %q in %s (will be ignored)", keyStr, fname)
		}
	}
}
