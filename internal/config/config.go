// Package config implements the config/CLI layer contract of spec.md
// §6: a project root, a database location, a debug flag, and an
// optional list of files to (re)index, plus the ambient performance and
// watch-mode knobs the indexing core needs.
package config

type Config struct {
	Version     int
	Project     Project
	Index       Index
	Store       Store
	Performance Performance
	Detection   Detection
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

type Index struct {
	MaxFileSize      int64
	MaxFileCount     int
	FollowSymlinks   bool
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int
	Languages        []string // empty = all supported languages
}

// Store configures C4's relational backend.
type Store struct {
	DSN   string // sqlite file path, or "file::memory:?cache=shared"
	Debug bool
}

type Performance struct {
	ParallelFileWorkers int // 0 = auto-detect (min(NumCPU, 8))
	SemanticTimeoutMs   int // per spec.md §5: 5s timeout per semantic-worker call
	DetectionBatchSize  int // files per pattern-detection batch, spec default 5
	DetectionPerFileSec int // spec default 10s
	DetectionTotalSec   int // spec default 30s
	PatternCacheSize    int // bounded LRU entries, spec default 1000
	PatternCacheTTLMin  int // persistent pattern_cache TTL, spec default 60
}

// Detection tunes C9's aggregate thresholds.
type Detection struct {
	GodClassMethodThreshold int
	LongParamListThreshold  int
	LongMethodNameThreshold int
}

// Default returns the baseline configuration, matching the teacher's
// "smart defaults" idiom (internal/config/validator.go setSmartDefaults).
func Default() *Config {
	return &Config{
		Version: 1,
		Project: Project{Name: "codegraf-project"},
		Index: Index{
			MaxFileSize:      10 * 1024 * 1024,
			MaxFileCount:     50000,
			RespectGitignore: true,
		},
		Store: Store{DSN: ".codegraf/index.db"},
		Performance: Performance{
			SemanticTimeoutMs:   5000,
			DetectionBatchSize:  5,
			DetectionPerFileSec: 10,
			DetectionTotalSec:   30,
			PatternCacheSize:    1000,
			PatternCacheTTLMin:  60,
		},
		Detection: Detection{
			GodClassMethodThreshold: 20,
			LongParamListThreshold:  6,
			LongMethodNameThreshold: 40,
		},
		Exclude: []string{
			"**/.git/**", "**/node_modules/**", "**/vendor/**",
			"**/.codegraf/**",
		},
	}
}
