package config

import (
	"fmt"
	"runtime"

	"github.com/codegraf/codegraf/internal/xerrors"
)

// Validator validates configuration and fills in smart defaults,
// ported from the teacher's internal/config/validator.go.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		return xerrors.NewFatalError("config", fmt.Errorf("project root cannot be empty"))
	}
	if cfg.Index.MaxFileSize <= 0 {
		return xerrors.NewFatalError("config", fmt.Errorf("index.max_file_size must be positive, got %d", cfg.Index.MaxFileSize))
	}
	if cfg.Index.MaxFileCount <= 0 {
		return xerrors.NewFatalError("config", fmt.Errorf("index.max_file_count must be positive, got %d", cfg.Index.MaxFileCount))
	}
	if cfg.Store.DSN == "" {
		return xerrors.NewFatalError("config", fmt.Errorf("store.dsn cannot be empty"))
	}

	v.setSmartDefaults(cfg)
	return nil
}

// setSmartDefaults sets the worker count to the CPU count, clamped to
// spec.md §5's min(cpu_count, 8), and fills every other zero knob.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.ParallelFileWorkers == 0 {
		workers := runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
		cfg.Performance.ParallelFileWorkers = workers
	}
	if cfg.Performance.SemanticTimeoutMs == 0 {
		cfg.Performance.SemanticTimeoutMs = 5000
	}
	if cfg.Performance.DetectionBatchSize == 0 {
		cfg.Performance.DetectionBatchSize = 5
	}
	if cfg.Performance.DetectionPerFileSec == 0 {
		cfg.Performance.DetectionPerFileSec = 10
	}
	if cfg.Performance.DetectionTotalSec == 0 {
		cfg.Performance.DetectionTotalSec = 30
	}
	if cfg.Performance.PatternCacheSize == 0 {
		cfg.Performance.PatternCacheSize = 1000
	}
	if cfg.Performance.PatternCacheTTLMin == 0 {
		cfg.Performance.PatternCacheTTLMin = 60
	}
	if cfg.Detection.GodClassMethodThreshold == 0 {
		cfg.Detection.GodClassMethodThreshold = 20
	}
	if cfg.Detection.LongParamListThreshold == 0 {
		cfg.Detection.LongParamListThreshold = 6
	}
	if cfg.Detection.LongMethodNameThreshold == 0 {
		cfg.Detection.LongMethodNameThreshold = 40
	}
}

// ValidateConfig is a convenience wrapper, as in the teacher.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
