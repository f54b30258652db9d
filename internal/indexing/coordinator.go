// Package indexing implements C1 (the file-change gate, in hash.go and
// scanner.go) and the overall Pipeline coordinator that runs a complete
// indexing pass: Changed-file list -> C1 -> (C2 -> C3)^n in parallel ->
// C4 -> C5 -> C6 -> C8 -> C9 -> file-tracking update, per spec.md §2.
package indexing

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/config"
	"github.com/codegraf/codegraf/internal/extractor"
	"github.com/codegraf/codegraf/internal/metrics"
	"github.com/codegraf/codegraf/internal/model"
	"github.com/codegraf/codegraf/internal/obslog"
	"github.com/codegraf/codegraf/internal/parser"
	"github.com/codegraf/codegraf/internal/pattern"
	"github.com/codegraf/codegraf/internal/relate"
	"github.com/codegraf/codegraf/internal/resolver"
	"github.com/codegraf/codegraf/internal/semantic"
	"github.com/codegraf/codegraf/internal/store"
)

// Result is the run's exit/reporting contract (spec.md §6).
type Result struct {
	RunID string

	FilesConsidered int
	FilesIndexed    int
	FilesFailed     int
	Symbols         int
	Relationships   int
	Patterns        int
	AntiPatterns    int

	Failed    []FailedFile
	PhaseTime map[string]time.Duration
}

type FailedFile struct {
	Path   string
	Reason string
}

// Pipeline wires every component (C1-C9) to one SQLite-backed Store and
// runs them in spec.md's fixed phase order.
type Pipeline struct {
	cfg     *config.Config
	store   *store.Store
	gate    *ChangeGate
	scanner *FileScanner
	cascade *parser.Cascade
	extract *extractor.Extractor
	relate  *relate.Extractor
	detect  *pattern.Detector
	scan    *pattern.FileScanner
	metrics *metrics.Recorder
}

func NewPipeline(cfg *config.Config, st *store.Store, rec *metrics.Recorder) (*Pipeline, error) {
	fileScanner, err := pattern.NewFileScanner()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		store:   st,
		gate:    NewChangeGate(st.DB),
		scanner: NewFileScanner(cfg),
		cascade: parser.NewCascade(),
		extract: extractor.New(),
		relate:  relate.New(),
		detect: pattern.New(
			pattern.Thresholds(cfg.Detection),
			pattern.Budget{
				BatchSize:  cfg.Performance.DetectionBatchSize,
				PerFileCap: time.Duration(cfg.Performance.DetectionPerFileSec) * time.Second,
				TotalCap:   time.Duration(cfg.Performance.DetectionTotalSec) * time.Second,
			},
		),
		scan:    fileScanner,
		metrics: rec,
	}, nil
}

// parsedFile is one file's worker-pool output, merged back into the
// coordinator sequentially (spec.md §5: "workers return parse results
// to the coordinator; no parser thread writes to the store").
type parsedFile struct {
	path        string
	content     []byte
	parseResult *model.ParseResult
	symbols     []model.Symbol
	parserUsed  string
}

// Run executes one full indexing pass over explicitPaths, or a fresh
// directory scan when explicitPaths is empty.
func (p *Pipeline) Run(ctx context.Context, explicitPaths []string) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), PhaseTime: make(map[string]time.Duration)}

	timed := func(phase string, fn func() error) error {
		start := time.Now()
		err := fn()
		elapsed := time.Since(start)
		result.PhaseTime[phase] = elapsed
		p.metrics.ObservePhase(phase, elapsed.Seconds())
		return err
	}

	var tasks []FileTask
	if err := timed("scan", func() error {
		if len(explicitPaths) > 0 {
			for _, path := range explicitPaths {
				tasks = append(tasks, FileTask{Path: path})
			}
			return nil
		}
		var err error
		tasks, err = p.scanner.Scan(ctx)
		return err
	}); err != nil {
		return result, err
	}
	result.FilesConsidered = len(tasks)

	var parsed []parsedFile
	if err := timed("parse_extract", func() error {
		var err error
		parsed, err = p.parsePhase(ctx, tasks, result)
		return err
	}); err != nil {
		return result, err
	}

	if err := timed("store_symbols", func() error {
		return p.storePhase(parsed, result)
	}); err != nil {
		return result, err
	}

	if err := timed("relate", func() error {
		return p.relatePhase(parsed, result)
	}); err != nil {
		return result, err
	}

	if err := timed("resolve", func() error {
		return p.resolvePhase(ctx, parsed, result)
	}); err != nil {
		return result, err
	}

	if err := timed("semantic", func() error {
		return semantic.Connect(p.store.DB)
	}); err != nil {
		return result, err
	}

	if err := timed("pattern", func() error {
		return p.patternPhase(ctx, parsed, result)
	}); err != nil {
		return result, err
	}

	return result, nil
}

// parsePhase runs C1's gate then (C2 -> C3) per file on a worker pool
// sized min(NumCPU, 8), per spec.md §5.
func (p *Pipeline) parsePhase(ctx context.Context, tasks []FileTask, result *Result) ([]parsedFile, error) {
	workers := p.cfg.Performance.ParallelFileWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]*parsedFile, len(tasks))
	failures := make([]FailedFile, 0)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			decision, err := p.gate.Check(gctx, task.Path)
			if err != nil {
				failures = append(failures, FailedFile{Path: task.Path, Reason: err.Error()})
				p.metrics.CountFile("failed")
				return nil // per-file failure never aborts the run (spec.md §4.10)
			}
			if decision.Removed {
				_ = p.gate.Untrack(task.Path)
				p.metrics.CountFile("removed")
				return nil
			}
			if !decision.NeedsIndex {
				p.metrics.CountFile("unchanged")
				return nil
			}

			parseResult, err := p.cascade.Parse(gctx, task.Path, decision.Content)
			if err != nil {
				failures = append(failures, FailedFile{Path: task.Path, Reason: err.Error()})
				p.metrics.CountFile("failed")
				return nil
			}

			symbols := p.extract.Extract(task.Path, parseResult)
			isModule := parseResult.ModuleInfo != nil
			if err := p.gate.Record(task.Path, decision.ContentHash, decision.FastHash, len(symbols), parseResult.Confidence, parseResult.Parser, isModule); err != nil {
				obslog.Indexing("failed to record file hash", "path", task.Path, "error", err)
			}

			results[i] = &parsedFile{
				path: task.Path, content: decision.Content,
				parseResult: parseResult, symbols: symbols, parserUsed: parseResult.Parser,
			}
			p.metrics.CountFile("indexed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	parsed := make([]parsedFile, 0, len(results))
	for _, r := range results {
		if r != nil {
			parsed = append(parsed, *r)
		}
	}
	result.Failed = append(result.Failed, failures...)
	result.FilesFailed = len(result.Failed)
	result.FilesIndexed = len(parsed)
	return parsed, nil
}

// storePhase is C4: batched upsert of every file's symbols, followed by
// class-hierarchy rebuild and member_of edge seeding.
func (p *Pipeline) storePhase(parsed []parsedFile, result *Result) error {
	var all []model.Symbol
	for _, f := range parsed {
		all = append(all, f.symbols...)
	}
	if len(all) == 0 {
		return nil
	}
	if err := p.store.UpsertSymbols(all); err != nil {
		return err
	}
	if err := p.store.RebuildClassHierarchy(); err != nil {
		return err
	}
	if err := p.store.SeedMemberOfEdges(); err != nil {
		return err
	}

	var count int64
	p.store.DB.Model(&model.Symbol{}).Count(&count)
	result.Symbols = int(count)
	p.metrics.AddSymbols(len(all))
	return nil
}

// relatePhase is C5: per-file intra-file relationship extraction,
// against symbols now carrying their committed ids.
func (p *Pipeline) relatePhase(parsed []parsedFile, result *Result) error {
	for _, f := range parsed {
		committed, err := p.committedSymbols(f.path)
		if err != nil {
			return err
		}
		rels, pending := p.relate.Extract(f.path, f.parseResult, committed)
		if err := relate.Commit(p.store.DB, rels, pending); err != nil {
			return err
		}
		result.Relationships += len(rels)
	}
	p.metrics.AddRelationships(result.Relationships)
	return nil
}

// resolvePhase is C6/C7: build the three lookup structures once, scan
// every file's source for qualified/simple/type-usage edges, then
// retry the pending queue exactly once.
func (p *Pipeline) resolvePhase(ctx context.Context, parsed []parsedFile, result *Result) error {
	var all []model.Symbol
	if err := p.store.DB.Find(&all).Error; err != nil {
		return err
	}
	lookup := resolver.BuildLookup(all)

	for _, f := range parsed {
		committed, err := p.committedSymbols(f.path)
		if err != nil {
			return err
		}
		rels, pending := resolver.ResolveFile(lookup, f.path, f.content, committed)
		if err := relate.Commit(p.store.DB, rels, pending); err != nil {
			return err
		}
		result.Relationships += len(rels)
	}

	return resolver.RetryPending(p.store.DB, lookup)
}

// patternPhase is C9: aggregate stored-symbol checks over everything
// committed, then bounded file-content checks over this run's files.
func (p *Pipeline) patternPhase(ctx context.Context, parsed []parsedFile, result *Result) error {
	aggDetections, err := p.detect.RunAggregate(p.store.DB)
	if err != nil {
		return err
	}

	var files []pattern.FileToScan
	for _, f := range parsed {
		anchor, err := p.leadingSymbolID(f.path)
		if err != nil || anchor == 0 {
			continue
		}
		files = append(files, pattern.FileToScan{SymbolID: anchor, FilePath: f.path, Content: f.content})
	}
	fileDetections, err := p.detect.RunFileScans(ctx, p.store.DB, p.scan, files)
	if err != nil {
		return err
	}

	for _, d := range append(aggDetections, fileDetections...) {
		result.Patterns++
		if d.IsAntiPattern {
			result.AntiPatterns++
		}
	}
	return nil
}

func (p *Pipeline) committedSymbols(filePath string) ([]model.Symbol, error) {
	var symbols []model.Symbol
	err := p.store.DB.Preload("Parameters").Where("file_path = ?", filePath).Find(&symbols).Error
	return symbols, err
}

func (p *Pipeline) leadingSymbolID(filePath string) (uint64, error) {
	var sym model.Symbol
	err := p.store.DB.Where("file_path = ?", filePath).Order("line asc").First(&sym).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	return sym.ID, err
}
