package mcp

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	maxGitChangedFiles = 20
	maxGitCommits      = 5
)

// contentGitStatus reports, best effort, what git knows about the content
// directory: the branch, the last commits touching articles, and articles
// edited or added but not yet committed. Returns nil outside a repository.
func contentGitStatus(contentDir string) map[string]any {
	if contentDir == "" {
		return nil
	}
	gitRoot := findGitRoot(contentDir)
	if gitRoot == "" {
		return nil
	}
	abs, err := filepath.Abs(contentDir)
	if err != nil {
		return nil
	}

	result := map[string]any{}
	var notes []string

	branch, err := runGit(gitRoot, "branch", "--show-current")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return map[string]any{"note": "git not installed"}
		}
		notes = append(notes, "branch unavailable")
	} else if branch = strings.TrimSpace(branch); branch != "" {
		result["branch"] = branch
	}

	logOut, err := runGit(gitRoot, "log", "--oneline", "-n", "5", "--", abs)
	if err != nil {
		notes = append(notes, "commit history unavailable")
	} else if commits := splitNonEmptyLines(logOut, maxGitCommits); len(commits) > 0 {
		result["recent_commits"] = commits
	}

	statusOut, err := runGit(gitRoot, "status", "--porcelain", "--", abs)
	if err != nil {
		notes = append(notes, "status unavailable")
	} else {
		modified, added := parsePorcelainStatus(statusOut)
		if len(modified) > 0 {
			result["modified_articles"] = modified
		}
		if len(added) > 0 {
			result["new_articles"] = added
		}
	}

	if len(notes) > 0 {
		result["note"] = strings.Join(notes, "; ")
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func findGitRoot(startPath string) string {
	dir, err := filepath.Abs(startPath)
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func runGit(root string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	// Porcelain status lines start with a space, so output is not trimmed.
	return string(out), nil
}

func splitNonEmptyLines(text string, limit int) []string {
	var out []string
	for line := range strings.Lines(text) {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		out = append(out, line)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// parsePorcelainStatus splits `git status --porcelain` output into changed
// tracked files and untracked ones. Renames report the new name.
func parsePorcelainStatus(status string) (modified, added []string) {
	for line := range strings.Lines(status) {
		line = strings.TrimRight(line, "\r\n")
		if len(line) < 4 {
			continue
		}
		code, path := line[:2], strings.TrimSpace(line[3:])
		if _, to, ok := strings.Cut(path, " -> "); ok {
			path = strings.TrimSpace(to)
		}
		if path == "" {
			continue
		}
		if code == "??" {
			if len(added) < maxGitChangedFiles {
				added = append(added, path)
			}
			continue
		}
		if len(modified) < maxGitChangedFiles {
			modified = append(modified, path)
		}
	}
	return modified, added
}
