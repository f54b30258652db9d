// Package pattern implements C9: the aggregate stored-symbol checks and
// bounded file-content checks that tag symbols with anti_pattern_<name>
// and record a Pattern row per detection, per spec.md §4.8.
package pattern

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

// Thresholds bundles the detection config (spec.md §6's
// Detection block) the aggregate checks are parameterized by.
type Thresholds struct {
	GodClassMethodThreshold int
	LongParamListThreshold  int
	LongMethodNameThreshold int
}

// Budget bounds a single detection run: spec.md §5's 5 files/batch,
// 10s/file, 30s total cap.
type Budget struct {
	BatchSize    int
	PerFileCap   time.Duration
	TotalCap     time.Duration
}

func DefaultBudget() Budget {
	return Budget{BatchSize: 5, PerFileCap: 10 * time.Second, TotalCap: 30 * time.Second}
}

// Detection is a single finding, before it's written as a Pattern row
// and folded into the affected symbol's SemanticTags.
type Detection struct {
	SymbolID      uint64
	Name          string // e.g. "god_class", "long_parameter_list"
	IsAntiPattern bool
	Detail        string
}

// Detector runs both layers and persists results. Partial results from
// a timed-out run are still committed — spec.md §4.10: "on timeout the
// phase yields partial results rather than fail the run."
type Detector struct {
	thresholds Thresholds
	budget     Budget
}

func New(thresholds Thresholds, budget Budget) *Detector {
	return &Detector{thresholds: thresholds, budget: budget}
}

// RunAggregate executes the stored-symbol checks against every symbol
// in db, respecting the total-cap deadline, and writes Pattern rows
// plus tag updates in one transaction.
func (d *Detector) RunAggregate(db *gorm.DB) ([]Detection, error) {
	deadline := time.Now().Add(d.budget.TotalCap)

	var symbols []model.Symbol
	if err := db.Find(&symbols).Error; err != nil {
		return nil, err
	}

	byParent := groupByParentClass(symbols)

	var detections []Detection
	for _, s := range symbols {
		if time.Now().After(deadline) {
			break // partial results: stop scanning, keep what's found so far
		}
		detections = append(detections, aggregateChecksForSymbol(s, byParent, d.thresholds)...)
	}

	if err := d.persist(db, detections); err != nil {
		return detections, err
	}
	return detections, nil
}

func (d *Detector) persist(db *gorm.DB, detections []Detection) error {
	if len(detections) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, det := range detections {
			detailBlob, err := json.Marshal(map[string]string{"evidence": det.Detail})
			if err != nil {
				continue
			}
			row := model.Pattern{
				SymbolID: det.SymbolID, Name: det.Name,
				IsAntiPattern: det.IsAntiPattern, Detail: datatypes.JSON(detailBlob),
			}
			if err := tx.Create(&row).Error; err != nil {
				continue
			}

			var sym model.Symbol
			if err := tx.First(&sym, det.SymbolID).Error; err != nil {
				continue
			}
			tagName := det.Name
			if det.IsAntiPattern {
				tagName = "anti_pattern_" + det.Name
			}
			sym.SemanticTags.Add(tagName)
			tx.Model(&model.Symbol{}).Where("id = ?", sym.ID).Update("semantic_tags", sym.SemanticTags)
		}
		return nil
	})
}

// FileToScan pairs a file's leading symbol (the anchor the detection
// tags attach to) with its raw content.
type FileToScan struct {
	SymbolID uint64
	FilePath string
	Content  []byte
}

// RunFileScans runs the bounded file-content checks in batches of
// d.budget.BatchSize, stopping early once d.budget.TotalCap elapses —
// spec.md §5's "5 files per batch, 10s per file, 30s total" budget.
// Results gathered before the cap is hit are still persisted.
func (d *Detector) RunFileScans(ctx context.Context, db *gorm.DB, scanner *FileScanner, files []FileToScan) ([]Detection, error) {
	deadline := time.Now().Add(d.budget.TotalCap)
	batchSize := d.budget.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	var detections []Detection
	for i := 0; i < len(files); i += batchSize {
		if time.Now().After(deadline) || ctx.Err() != nil {
			break
		}
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		for _, f := range files[i:end] {
			if time.Now().After(deadline) || ctx.Err() != nil {
				break
			}
			fileCtx, cancel := context.WithTimeout(ctx, d.budget.PerFileCap)
			detections = append(detections, scanner.ScanFile(fileCtx, f.SymbolID, f.FilePath, f.Content, d.budget.PerFileCap)...)
			cancel()
		}
	}

	if err := d.persist(db, detections); err != nil {
		return detections, err
	}
	return detections, nil
}

func groupByParentClass(symbols []model.Symbol) map[string][]model.Symbol {
	m := make(map[string][]model.Symbol)
	for _, s := range symbols {
		if s.ParentClass != nil {
			m[*s.ParentClass] = append(m[*s.ParentClass], s)
		}
	}
	return m
}
