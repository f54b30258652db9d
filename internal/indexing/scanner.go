// FileScanner walks a project root and produces the FileTask list C1's
// change gate and the parse/extract workers consume.
package indexing

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codegraf/codegraf/internal/config"
	"github.com/codegraf/codegraf/internal/obslog"
)

// FileTask is a single file queued for the parse/extract phase.
type FileTask struct {
	Path     string
	Info     os.FileInfo
	Priority int
}

// FileScanner discovers candidate files under a project root, applying
// the config's include/exclude globs, gitignore rules, detected build
// artifact directories, and binary-extension rejection.
type FileScanner struct {
	cfg             *config.Config
	gitignoreParser *config.GitignoreParser
	binaryDetector  *BinaryDetector

	exclude []string // config.Exclude plus detected build-artifact globs
	include []string
}

func NewFileScanner(cfg *config.Config) *FileScanner {
	fs := &FileScanner{
		cfg:            cfg,
		binaryDetector: NewBinaryDetector(),
		include:        append([]string(nil), cfg.Include...),
	}

	fs.exclude = append([]string(nil), cfg.Exclude...)
	fs.exclude = append(fs.exclude, config.NewBuildArtifactDetector(cfg.Project.Root).DetectOutputDirectories()...)

	if cfg.Index.RespectGitignore {
		fs.gitignoreParser = config.NewGitignoreParser()
		if err := fs.gitignoreParser.LoadGitignore(cfg.Project.Root); err != nil {
			obslog.Warn("failed to load .gitignore", "error", err)
		}
	}

	return fs
}

// Scan walks cfg.Project.Root and returns every file that passes the
// inclusion/exclusion/gitignore/binary filters, up to Index.MaxFileCount.
func (fs *FileScanner) Scan(ctx context.Context) ([]FileTask, error) {
	var tasks []FileTask
	visitedDirs := make(map[string]bool)
	root := fs.cfg.Project.Root

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			return nil // per-entry walk errors don't abort the scan
		}

		if info.IsDir() {
			if !fs.cfg.Index.FollowSymlinks {
				if real, err := filepath.EvalSymlinks(path); err == nil {
					if visitedDirs[real] {
						return filepath.SkipDir
					}
					visitedDirs[real] = true
				}
			}
			if path == root {
				return nil
			}
			rel := relSlash(root, path)
			if fs.shouldExclude(rel+"/") || fs.shouldExclude(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		rel := relSlash(root, path)
		if fs.shouldExclude(rel) || !fs.shouldInclude(rel) {
			return nil
		}
		if fs.binaryDetector.IsBinaryByExtension(path) {
			return nil
		}
		if info.Size() > fs.cfg.Index.MaxFileSize {
			return nil
		}
		if fs.gitignoreParser != nil && fs.gitignoreParser.ShouldIgnore(rel, false) {
			return nil
		}

		tasks = append(tasks, FileTask{Path: path, Info: info, Priority: filePriority(path)})
		if fs.cfg.Index.MaxFileCount > 0 && len(tasks) >= fs.cfg.Index.MaxFileCount {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return tasks, err
	}
	return tasks, nil
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (fs *FileScanner) shouldExclude(path string) bool {
	for _, pattern := range fs.exclude {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

func (fs *FileScanner) shouldInclude(path string) bool {
	if len(fs.include) == 0 {
		return true
	}
	for _, pattern := range fs.include {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// filePriority gives source files over config/build files a head start
// in the worker pool's task ordering (spec.md §5 notes ordering among
// parses is not guaranteed — this is a scheduling hint, not a contract).
func filePriority(path string) int {
	switch filepath.Ext(path) {
	case ".cpp", ".cc", ".cxx", ".h", ".hpp", ".go", ".java", ".cs", ".py", ".ts", ".tsx", ".js", ".jsx", ".php":
		return 10
	default:
		return 0
	}
}
