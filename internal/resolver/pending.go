package resolver

import (
	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

// RetryPending implements the pending-edge queue's state machine:
// Queued -> Resolved (moved to the relationships table) | Dropped
// (after a single retry). Every row not yet retried is tried once
// against the strategy chain; a row already marked RetriedOnce that
// still fails is deleted.
func RetryPending(db *gorm.DB, lookup *Lookup) error {
	var rows []model.PendingRelationship
	if err := db.Find(&rows).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range rows {
			var caller model.Symbol
			if p.FromSymbolID != 0 {
				tx.First(&caller, p.FromSymbolID)
			}

			if res, ok := Resolve(lookup, caller, p.ToName); ok {
				rel := model.Relationship{
					FromSymbolID: p.FromSymbolID, ToSymbolID: res.Symbol.ID, Kind: p.Kind,
					Confidence: res.Confidence, DetectedBy: res.DetectedBy,
					ContextLine: p.ContextLine, CallingFunction: p.CallingFunction,
				}
				if err := tx.Create(&rel).Error; err == nil {
					tx.Delete(&model.PendingRelationship{}, p.ID)
					continue
				}
			}

			if p.RetriedOnce {
				tx.Delete(&model.PendingRelationship{}, p.ID)
				continue
			}
			tx.Model(&model.PendingRelationship{}).Where("id = ?", p.ID).Update("retried_once", true)
		}
		return nil
	})
}
