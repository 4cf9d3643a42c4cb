package claude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIndex(t *testing.T, dir, originalPath string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, IndexFileName)
	content := `{"version":1,"originalPath":"` + originalPath + `","entries":[` +
		`{"sessionId":"abc-123","fullPath":"/tmp/abc-123.jsonl","firstPrompt":"implement it","messageCount":4,"created":"2026-01-15T10:00:00Z","gitBranch":"main"}` +
		`]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSessionIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeIndex(t, dir, "/home/user/proj")

	idx, err := LoadSessionIndex(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/proj", idx.OriginalPath)
	require.Len(t, idx.Entries, 1)
	assert.Equal(t, "abc-123", idx.Entries[0].SessionID)
	assert.Equal(t, "/tmp/abc-123.jsonl", idx.Entries[0].FullPath)
	assert.Equal(t, 4, idx.Entries[0].MessageCount)
	assert.Equal(t, "main", idx.Entries[0].GitBranch)
}

func TestLoadSessionIndex_MissingIsEmpty(t *testing.T) {
	idx, err := LoadSessionIndex(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, idx.Entries)

	idx, err = LoadSessionIndex("")
	require.NoError(t, err)
	assert.Empty(t, idx.Entries)
}

func TestLoadSessionIndex_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndexFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"entries":[`), 0o644))

	_, err := LoadSessionIndex(path)
	assert.Error(t, err)
}

func TestFindSessionIndex_ProjectLocalFirst(t *testing.T) {
	project := t.TempDir()
	home := t.TempDir()
	local := writeIndex(t, filepath.Join(project, ".claude", "projects", "p1"), project)
	writeIndex(t, filepath.Join(home, "projects", "p2"), project)

	got, err := FindSessionIndex(project, home)
	require.NoError(t, err)
	assert.Equal(t, local, got)
}

func TestFindSessionIndex_HomeMatchesOriginalPath(t *testing.T) {
	project := t.TempDir()
	home := t.TempDir()
	writeIndex(t, filepath.Join(home, "projects", "a-other"), "/somewhere/else")
	want := writeIndex(t, filepath.Join(home, "projects", "b-mine"), project)

	got, err := FindSessionIndex(project, home)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindSessionIndex_SubdirectoryOfOriginalPath(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	want := writeIndex(t, filepath.Join(home, "projects", "x"), root)

	got, err := FindSessionIndex(filepath.Join(root, "pkg"), home)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindSessionIndex_NotFound(t *testing.T) {
	got, err := FindSessionIndex(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = FindSessionIndex(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/home/user/project/", "/home/user/project"},
		{"/home/user/project", "/home/user/project"},
		{"/home/user/../user/project", "/home/user/project"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizePath(tc.input), tc.input)
	}
}
