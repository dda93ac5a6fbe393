package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/cli"
	"github.com/sgx-labs/newsdesk/internal/config"
	"github.com/sgx-labs/newsdesk/internal/logger"
	"github.com/sgx-labs/newsdesk/internal/render"
	"github.com/sgx-labs/newsdesk/internal/store"
	"github.com/sgx-labs/newsdesk/internal/web"
)

func webCmd() *cobra.Command {
	var (
		port     int
		openFlag bool
	)
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the news index as a local JSON API",
		Long: `Start a local read-only JSON API over the news index.

The API only answers requests from localhost. Send SIGHUP to reload the
content directory without restarting.

Examples:
  newsdesk web                  # Port from config (default 4079)
  newsdesk web --port 8080      # Custom port
  newsdesk web --open           # Open /api/status in the browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(port, openFlag)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&openFlag, "open", false, "Auto-open browser")
	return cmd
}

func runWeb(port int, openFlag bool) error {
	s, err := loadSite()
	if err != nil {
		return err
	}
	r, err := render.New(s.cfg.RenderOptions())
	if err != nil {
		return userError(err.Error(), "Fix [render] extensions in "+configHint(s.cfg))
	}
	if port <= 0 {
		port = s.cfg.Web.Port
	}
	if port <= 0 {
		port = config.DefaultPort
	}

	wopts := web.Options{
		Version:    Version,
		ContentDir: s.dir,
		PageSize:   s.cfg.PageSize(),
		Recent:     s.cfg.RecentCount(),
		Renderer:   r,
	}
	snap := store.NewSnapshot(s.index)
	go reloadOnHangup(s, snap)

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	if openFlag {
		go func() {
			time.Sleep(300 * time.Millisecond)
			openBrowser(fmt.Sprintf("http://%s/api/status", addr))
		}()
	}

	return web.Serve(addr, snap, wopts)
}

// reloadOnHangup rebuilds the index on every SIGHUP. A failed rebuild keeps
// serving the previous index.
func reloadOnHangup(s *site, snap *store.Snapshot) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	for range hup {
		if err := s.rebuild(); err != nil {
			logger.Warn("reload failed, keeping previous index: %v", err)
			continue
		}
		snap.Store(s.index)
		fmt.Fprintf(os.Stderr, "newsdesk: reloaded %s\n", cli.Plural(s.index.Len(), "article"))
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}
	_ = cmd.Run()
}
