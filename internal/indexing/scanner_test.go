package indexing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/config"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func scannerTestConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Index.MaxFileSize = 1 << 20
	return cfg
}

func TestFileScannerFindsSourceFilesUnderRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.cpp":       "int main() {}",
		"widget.h":       "class Widget {};",
		"README.md":      "docs",
		"build/out.o":    "binary-ish",
		".git/HEAD":      "ref: refs/heads/main",
	})

	fs := NewFileScanner(scannerTestConfig(root))
	tasks, err := fs.Scan(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, task := range tasks {
		paths = append(paths, filepath.Base(task.Path))
	}
	assert.Contains(t, paths, "main.cpp")
	assert.Contains(t, paths, "widget.h")
}

func TestFileScannerExcludesConfiguredGlobs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.cpp":          "int main() {}",
		"vendor/dep.cpp":    "int dep() {}",
	})

	cfg := scannerTestConfig(root)
	cfg.Exclude = []string{"vendor/**"}
	fs := NewFileScanner(cfg)

	tasks, err := fs.Scan(context.Background())
	require.NoError(t, err)

	for _, task := range tasks {
		assert.NotContains(t, task.Path, "vendor")
	}
}

func TestFileScannerRespectsMaxFileCount(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.cpp": "int a() {}",
		"b.cpp": "int b() {}",
		"c.cpp": "int c() {}",
	})

	cfg := scannerTestConfig(root)
	cfg.Index.MaxFileCount = 1
	fs := NewFileScanner(cfg)

	tasks, err := fs.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestFileScannerSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'x'
	}
	writeFiles(t, root, map[string]string{"huge.cpp": string(big)})

	cfg := scannerTestConfig(root)
	cfg.Index.MaxFileSize = 50
	fs := NewFileScanner(cfg)

	tasks, err := fs.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
