package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
	"github.com/codegraf/codegraf/internal/obslog"
)

// UpsertSymbols writes symbols in a single transaction, applying
// spec.md §4.4's conflict rule on (name, file_path, line, kind):
//   - replace a field if the incoming record has higher parser
//     confidence, OR its parent-class is non-null while the stored one
//     is null
//   - mangled name and USR are preserved once set, never regressed to
//     null
//   - parse_timestamp is always bumped to the time of the merge
//
// After the batch, a duplicate-cleanup pass removes extra rows sharing
// (qualified_name, file_path, kind) across differing lines.
func (s *Store) UpsertSymbols(symbols []model.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range symbols {
			sym := &symbols[i]
			if err := upsertOne(tx, sym); err != nil {
				// A single failed insert is logged and skipped; the
				// batch commits the rest (spec.md §4.10).
				obslog.Warn("store: symbol upsert skipped", "symbol", sym.Name, "file", sym.FilePath, "error", err)
				continue
			}
		}
		return cleanupDuplicates(tx)
	})
}

func upsertOne(tx *gorm.DB, incoming *model.Symbol) error {
	var existing model.Symbol
	err := tx.Where("name = ? AND file_path = ? AND line = ? AND kind = ?",
		incoming.Name, incoming.FilePath, incoming.Line, incoming.Kind).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		return tx.Create(incoming).Error
	}
	if err != nil {
		return err
	}

	merged := mergeSymbol(existing, *incoming)
	merged.ID = existing.ID
	// Save (not Updates) so zero-value fields that legitimately changed
	// (e.g. IsConst flipping to false) are written rather than skipped.
	return tx.Save(&merged).Error
}

// mergeSymbol implements the field-replacement rule. It always returns
// a full struct so the caller can write it back with a single Save call.
func mergeSymbol(existing, incoming model.Symbol) model.Symbol {
	preferIncoming := incoming.ParserConfidence > existing.ParserConfidence ||
		(incoming.ParentClass != nil && existing.ParentClass == nil)

	merged := existing
	if preferIncoming {
		merged = incoming
		merged.ID = existing.ID
	}

	// Mangled name / USR are sticky once set, regardless of which side
	// "won" the rest of the merge.
	if merged.MangledName == nil && existing.MangledName != nil {
		merged.MangledName = existing.MangledName
	}
	if incoming.MangledName != nil {
		merged.MangledName = incoming.MangledName
	}
	if merged.USR == nil && existing.USR != nil {
		merged.USR = existing.USR
	}
	if incoming.USR != nil {
		merged.USR = incoming.USR
	}

	merged.ParseTimestamp = time.Now()
	return merged
}

// cleanupDuplicates removes extra rows with identical
// (qualified_name, file_path, kind) across differing lines, keeping
// the row with (a) non-null parent-class, then (b) highest confidence,
// then (c) lowest id.
func cleanupDuplicates(tx *gorm.DB) error {
	var groups []struct {
		QualifiedName string
		FilePath      string
		Kind          string
	}
	if err := tx.Model(&model.Symbol{}).
		Select("qualified_name, file_path, kind").
		Where("qualified_name <> ''").
		Group("qualified_name, file_path, kind").
		Having("COUNT(*) > 1").
		Find(&groups).Error; err != nil {
		return err
	}

	for _, g := range groups {
		var rows []model.Symbol
		if err := tx.Where("qualified_name = ? AND file_path = ? AND kind = ?",
			g.QualifiedName, g.FilePath, g.Kind).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) <= 1 {
			continue
		}

		keep := pickSurvivor(rows)
		for _, r := range rows {
			if r.ID == keep.ID {
				continue
			}
			if err := tx.Delete(&model.Symbol{}, r.ID).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func pickSurvivor(rows []model.Symbol) model.Symbol {
	best := rows[0]
	for _, r := range rows[1:] {
		if betterSurvivor(r, best) {
			best = r
		}
	}
	return best
}

// betterSurvivor reports whether candidate beats current under the
// (a) non-null parent-class, (b) highest confidence, (c) lowest id
// tie-break chain.
func betterSurvivor(candidate, current model.Symbol) bool {
	candidateHasParent := candidate.ParentClass != nil
	currentHasParent := current.ParentClass != nil
	if candidateHasParent != currentHasParent {
		return candidateHasParent
	}
	if candidate.ParserConfidence != current.ParserConfidence {
		return candidate.ParserConfidence > current.ParserConfidence
	}
	return candidate.ID < current.ID
}
