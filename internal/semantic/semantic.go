// Package semantic implements C8: derived, higher-level edges produced
// by scanning the already-committed symbol set rather than parser
// output. All detected edges are written in a single transaction per
// spec.md §4.7. The pair detectors compare every symbol against every
// other, so the phase's cost grows with the square of the symbol count.
package semantic

import (
	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

// Connect runs every C8 detector against the full committed symbol set
// and writes the resulting relationships in one transaction.
func Connect(db *gorm.DB) error {
	var symbols []model.Symbol
	if err := db.Preload("Parameters").Find(&symbols).Error; err != nil {
		return err
	}

	var rels []model.Relationship
	rels = append(rels, gpuCPUPairs(symbols)...)
	rels = append(rels, factoryProductPairs(symbols)...)
	rels = append(rels, managerManagedPairs(symbols)...)
	rels = append(rels, templateSpecializations(symbols)...)
	rels = append(rels, constructorDestructorPairs(symbols)...)
	rels = append(rels, operatorOverloadFamilies(symbols)...)
	rels = append(rels, constNonConstPairs(symbols)...)
	rels = append(rels, moduleExportCohesion(symbols)...)
	rels = append(rels, typeAffinity(symbols)...)
	rels = append(rels, pipelineDataFlow(symbols)...)

	if len(rels) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rels {
			if err := tx.Create(&r).Error; err != nil {
				continue
			}
		}
		return nil
	})
}

func connector(kind model.RelationshipKind, from, to model.Symbol, confidence float64) model.Relationship {
	return model.Relationship{
		FromSymbolID: from.ID, ToSymbolID: to.ID, Kind: kind,
		Confidence: confidence, DetectedBy: model.DetectedBySemanticConnect,
	}
}
