// Package setup registers newsdesk with MCP clients that read a project-level
// .mcp.json.
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// ServerName is the key newsdesk uses under mcpServers.
const ServerName = "newsdesk"

// MCPFileName is the client config file written at the site root.
const MCPFileName = ".mcp.json"

type mcpConfig struct {
	Servers map[string]mcpServer `json:"mcpServers"`
}

type mcpServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// readMCPConfig loads root/.mcp.json. A missing file yields an empty config;
// a file that is not valid JSON is an error so we never clobber it.
func readMCPConfig(mcpPath string) (mcpConfig, error) {
	var cfg mcpConfig
	data, err := os.ReadFile(mcpPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg.Servers = make(map[string]mcpServer)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", MCPFileName, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", MCPFileName, err)
	}
	if cfg.Servers == nil {
		cfg.Servers = make(map[string]mcpServer)
	}
	return cfg, nil
}

func writeMCPConfig(mcpPath string, cfg mcpConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(mcpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", MCPFileName, err)
	}
	return nil
}

// SetupMCP registers `newsdesk mcp` in root/.mcp.json, keeping any other
// servers. contentDir, when set, is passed through NEWSDESK_CONTENT_DIR.
func SetupMCP(root, contentDir string) (string, error) {
	mcpPath := filepath.Join(root, MCPFileName)
	cfg, err := readMCPConfig(mcpPath)
	if err != nil {
		return mcpPath, err
	}

	server := mcpServer{
		Command: detectBinaryPath(),
		Args:    []string{"mcp"},
	}
	if contentDir != "" {
		server.Env = map[string]string{"NEWSDESK_CONTENT_DIR": contentDir}
	}
	cfg.Servers[ServerName] = server

	return mcpPath, writeMCPConfig(mcpPath, cfg)
}

// RemoveMCP removes newsdesk from root/.mcp.json. It reports whether an
// entry was removed.
func RemoveMCP(root string) (bool, error) {
	mcpPath := filepath.Join(root, MCPFileName)
	if _, err := os.Stat(mcpPath); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	cfg, err := readMCPConfig(mcpPath)
	if err != nil {
		return false, err
	}
	if _, ok := cfg.Servers[ServerName]; !ok {
		return false, nil
	}
	delete(cfg.Servers, ServerName)
	return true, writeMCPConfig(mcpPath, cfg)
}

// MCPInstalled checks if newsdesk is registered in root/.mcp.json.
func MCPInstalled(root string) bool {
	cfg, err := readMCPConfig(filepath.Join(root, MCPFileName))
	if err != nil {
		return false
	}
	_, ok := cfg.Servers[ServerName]
	return ok
}

// detectBinaryPath prefers the running executable, then PATH, then the
// bare name.
func detectBinaryPath() string {
	if p, err := os.Executable(); err == nil && filepath.Base(p) == "newsdesk" {
		return p
	}
	if p, err := exec.LookPath("newsdesk"); err == nil {
		return p
	}
	return "newsdesk"
}
