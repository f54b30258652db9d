package indexing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

// ChangeGate implements C1: decides which files require (re)indexing by
// computing both a fast xxhash fingerprint and the collision-resistant
// sha256 the record persists, and comparing both against the stored
// FileRecord.
type ChangeGate struct {
	db    *gorm.DB
	group singleflight.Group
}

func NewChangeGate(db *gorm.DB) *ChangeGate {
	return &ChangeGate{db: db}
}

// Decision is the gate's verdict for one file.
type Decision struct {
	Path        string
	NeedsIndex  bool
	ContentHash string
	FastHash    uint64
	Content     []byte
	Removed     bool
}

// Check reads path, computes both hashes, and compares against the
// stored FileRecord. Concurrent checks against the same path are
// deduplicated via singleflight so a watch-mode burst of events for one
// file never re-reads and re-hashes it more than once at a time.
func (g *ChangeGate) Check(ctx context.Context, path string) (Decision, error) {
	v, err, _ := g.group.Do(path, func() (any, error) {
		return g.check(path)
	})
	if err != nil {
		return Decision{}, err
	}
	return v.(Decision), nil
}

func (g *ChangeGate) check(path string) (Decision, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Decision{Path: path, Removed: true}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	fast := xxhash.Sum64(content)
	sum := sha256.Sum256(content)
	contentHash := hex.EncodeToString(sum[:])

	var existing model.FileRecord
	err = g.db.Where("path = ?", path).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return Decision{Path: path, NeedsIndex: true, ContentHash: contentHash, FastHash: fast, Content: content}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	// Invariant (spec.md §3.5): tracked hash == on-disk hash iff no
	// re-parse is performed. The fast hash is the cheap first compare;
	// sha256 backs the stored record for collision resistance.
	unchanged := existing.FastHash == fast && existing.ContentHash == contentHash
	return Decision{
		Path: path, NeedsIndex: !unchanged,
		ContentHash: contentHash, FastHash: fast, Content: content,
	}, nil
}

// Record upserts the FileRecord for a successfully indexed file.
func (g *ChangeGate) Record(path, contentHash string, fastHash uint64, symbolCount int, confidence float64, parserUsed string, isModule bool) error {
	rec := model.FileRecord{
		Path: path, ContentHash: contentHash, FastHash: fastHash,
		LastIndexed: time.Now(), SymbolCount: symbolCount, ParserConfidence: confidence,
		ParserUsed: parserUsed, IsModule: isModule,
	}

	var existing model.FileRecord
	err := g.db.Where("path = ?", path).First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return g.db.Create(&rec).Error
	case err != nil:
		return err
	default:
		return g.db.Save(&rec).Error
	}
}

// Untrack removes a file's record, used when the gate observes the
// file no longer exists on disk (a deletion, not a parse failure).
func (g *ChangeGate) Untrack(path string) error {
	return g.db.Where("path = ?", path).Delete(&model.FileRecord{}).Error
}
