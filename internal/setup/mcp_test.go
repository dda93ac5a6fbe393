package setup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readConfig(t *testing.T, dir string) mcpConfig {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, MCPFileName))
	if err != nil {
		t.Fatalf("read %s: %v", MCPFileName, err)
	}
	var cfg mcpConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("parse %s: %v", MCPFileName, err)
	}
	return cfg
}

func TestMCPInstalled_NoFile(t *testing.T) {
	if MCPInstalled(t.TempDir()) {
		t.Error("expected false when .mcp.json does not exist")
	}
}

func TestMCPInstalled_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, MCPFileName), []byte(`{bad`), 0o644)
	if MCPInstalled(dir) {
		t.Error("expected false for invalid JSON")
	}
}

func TestSetupMCP_CreatesNewFile(t *testing.T) {
	dir := t.TempDir()
	p, err := SetupMCP(dir, "content/news")
	if err != nil {
		t.Fatalf("SetupMCP: %v", err)
	}
	if p != filepath.Join(dir, MCPFileName) {
		t.Errorf("path = %q", p)
	}

	server, ok := readConfig(t, dir).Servers[ServerName]
	if !ok {
		t.Fatal("expected newsdesk server in .mcp.json")
	}
	if len(server.Args) != 1 || server.Args[0] != "mcp" {
		t.Errorf("expected args [mcp], got %v", server.Args)
	}
	if server.Env["NEWSDESK_CONTENT_DIR"] != "content/news" {
		t.Errorf("expected NEWSDESK_CONTENT_DIR=content/news, got %q", server.Env["NEWSDESK_CONTENT_DIR"])
	}
	if !MCPInstalled(dir) {
		t.Error("MCPInstalled should report true after SetupMCP")
	}
}

func TestSetupMCP_NoEnvWithoutContentDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := SetupMCP(dir, ""); err != nil {
		t.Fatalf("SetupMCP: %v", err)
	}
	if env := readConfig(t, dir).Servers[ServerName].Env; len(env) != 0 {
		t.Errorf("expected no env, got %v", env)
	}
}

func TestSetupMCP_PreservesExistingServers(t *testing.T) {
	dir := t.TempDir()
	existing := mcpConfig{
		Servers: map[string]mcpServer{
			"other-tool": {Command: "other-tool", Args: []string{"serve"}},
		},
	}
	data, _ := json.MarshalIndent(existing, "", "  ")
	os.WriteFile(filepath.Join(dir, MCPFileName), data, 0o644)

	if _, err := SetupMCP(dir, ""); err != nil {
		t.Fatalf("SetupMCP: %v", err)
	}

	cfg := readConfig(t, dir)
	if _, ok := cfg.Servers["other-tool"]; !ok {
		t.Error("existing server 'other-tool' was not preserved")
	}
	if _, ok := cfg.Servers[ServerName]; !ok {
		t.Error("newsdesk server was not added")
	}
}

func TestSetupMCP_RejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, MCPFileName), []byte(`{bad json`), 0o644)

	if _, err := SetupMCP(dir, ""); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	data, _ := os.ReadFile(filepath.Join(dir, MCPFileName))
	if string(data) != `{bad json` {
		t.Error("invalid file was overwritten")
	}
}

func TestRemoveMCP(t *testing.T) {
	dir := t.TempDir()
	cfg := mcpConfig{
		Servers: map[string]mcpServer{
			ServerName:   {Command: "newsdesk", Args: []string{"mcp"}},
			"other-tool": {Command: "other-tool", Args: []string{"serve"}},
		},
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	os.WriteFile(filepath.Join(dir, MCPFileName), data, 0o644)

	removed, err := RemoveMCP(dir)
	if err != nil || !removed {
		t.Fatalf("RemoveMCP = %v, %v", removed, err)
	}
	after := readConfig(t, dir)
	if _, ok := after.Servers[ServerName]; ok {
		t.Error("newsdesk still registered")
	}
	if _, ok := after.Servers["other-tool"]; !ok {
		t.Error("other-tool was removed")
	}

	removed, err = RemoveMCP(dir)
	if err != nil || removed {
		t.Fatalf("second RemoveMCP = %v, %v", removed, err)
	}
}

func TestRemoveMCP_NoFile(t *testing.T) {
	removed, err := RemoveMCP(t.TempDir())
	if err != nil || removed {
		t.Fatalf("RemoveMCP = %v, %v", removed, err)
	}
}
