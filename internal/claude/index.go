package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IndexFileName is the per-project session index Claude Code maintains.
const IndexFileName = "sessions-index.json"

// FindSessionIndex locates the session index for projectPath. It first looks
// for a project-local <project>/.claude/projects/*/sessions-index.json, then
// for an index under claudeHome/projects/ whose originalPath overlaps the
// project path. Returns "" with a nil error when no index exists.
func FindSessionIndex(projectPath, claudeHome string) (string, error) {
	local := filepath.Join(projectPath, ".claude", "projects")
	dirs, err := listDirs(local)
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, IndexFileName)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	if claudeHome == "" {
		return "", nil
	}
	dirs, err = listDirs(filepath.Join(claudeHome, "projects"))
	if err != nil {
		return "", err
	}
	project := NormalizePath(projectPath)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, IndexFileName)
		if !fileExists(candidate) {
			continue
		}
		idx, err := LoadSessionIndex(candidate)
		if err != nil {
			// An unreadable index belonging to another project should not
			// block discovery of ours.
			continue
		}
		if pathsOverlap(project, NormalizePath(idx.OriginalPath)) {
			return candidate, nil
		}
	}
	return "", nil
}

// LoadSessionIndex reads a sessions-index.json file. An empty path or a
// missing file yields an empty index: no history is not an error.
func LoadSessionIndex(path string) (*SessionIndex, error) {
	if path == "" {
		return &SessionIndex{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &SessionIndex{}, nil
		}
		return nil, err
	}
	var idx SessionIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &idx, nil
}

// NormalizePath cleans a file path to a canonical form suitable for comparison.
// It resolves ".." components, removes trailing slashes, and normalizes
// separators. Returns an empty string for empty input.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// pathsOverlap reports whether either path contains the other.
func pathsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// listDirs returns the subdirectories of dir in lexical order, or nothing if
// dir does not exist.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	return dirs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
