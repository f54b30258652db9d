package store

import (
	"regexp"

	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

// classSignaturePattern recognizes `: [access] Base` trailing a
// class/struct name in a signature, the textual shape spec.md §4.4
// names for the class-hierarchy regex scan. Only the base right after
// the colon is matched reliably; further comma-separated bases are not
// recognized (a namespaced one yields only the part after its last
// `::`).
var classSignaturePattern = regexp.MustCompile(`:\s*(public|private|protected)?\s*([A-Za-z_][A-Za-z0-9_:<>]*)`)

// RebuildClassHierarchy runs after a symbol batch commits: it regex-scans
// every class/struct symbol's signature for base-class references,
// recording a ClassHierarchy row per match and resolving BaseSymbolID
// when the base happens to already be a stored symbol in the same file
// set.
func (s *Store) RebuildClassHierarchy() error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var classes []model.Symbol
		if err := tx.Where("kind IN ?", []model.SymbolKind{model.KindClass, model.KindStruct}).
			Find(&classes).Error; err != nil {
			return err
		}

		for _, cls := range classes {
			matches := classSignaturePattern.FindAllStringSubmatch(cls.Signature, -1)
			for _, m := range matches {
				access, base := m[1], m[2]
				if base == "" || base == cls.Name {
					continue
				}

				var baseSymbolID *uint64
				var baseSym model.Symbol
				if err := tx.Where("name = ? AND kind IN ?", base,
					[]model.SymbolKind{model.KindClass, model.KindStruct}).
					First(&baseSym).Error; err == nil {
					id := baseSym.ID
					baseSymbolID = &id
				}

				row := model.ClassHierarchy{
					ClassSymbolID:   cls.ID,
					BaseName:        base,
					BaseSymbolID:    baseSymbolID,
					AccessSpecifier: access,
				}
				if err := tx.Create(&row).Error; err != nil {
					continue
				}
			}
		}
		return nil
	})
}

// SeedMemberOfEdges creates a pending `member_of` relationship for every
// symbol that carries a non-null parent class, per spec.md §4.4
// ("Method-to-class member_of edges are seeded for rows that carry
// parent-class"). Resolution to a concrete Relationship happens in C6/C7
// once the parent class symbol is looked up by name.
func (s *Store) SeedMemberOfEdges() error {
	var methods []model.Symbol
	if err := s.DB.Where("parent_class IS NOT NULL").Find(&methods).Error; err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range methods {
			var owner model.Symbol
			err := tx.Where("name = ? AND file_path = ? AND kind IN ?",
				*m.ParentClass, m.FilePath, []model.SymbolKind{model.KindClass, model.KindStruct}).
				First(&owner).Error
			if err == gorm.ErrRecordNotFound {
				pending := model.PendingRelationship{
					FromSymbolID: m.ID,
					FromFilePath: m.FilePath,
					ToName:       *m.ParentClass,
					ToFilePath:   m.FilePath,
					Kind:         model.RelMemberOf,
				}
				if err := tx.Create(&pending).Error; err != nil {
					continue
				}
				continue
			}
			if err != nil {
				continue
			}

			rel := model.Relationship{
				FromSymbolID: m.ID,
				ToSymbolID:   owner.ID,
				Kind:         model.RelMemberOf,
				Confidence:   1.0,
				DetectedBy:   model.DetectedIntraFile,
			}
			if err := tx.Create(&rel).Error; err != nil {
				continue
			}
		}
		return nil
	})
}
