package model

import (
	"time"

	"gorm.io/datatypes"
)

// FileRecord tracks a single indexed file's content hash, used by the
// C1 file-change gate to decide whether a (re)parse is required.
type FileRecord struct {
	Path             string `gorm:"primaryKey;size:1024"`
	ContentHash      string `gorm:"size:64;not null"` // sha256 hex
	FastHash         uint64 `gorm:"not null"`          // xxhash, for the gate's quick compare
	LastIndexed      time.Time
	SymbolCount      int
	ParserConfidence float64
	IsModule         bool
	ParserUsed       string `gorm:"size:32"`
}

func (FileRecord) TableName() string { return "files" }

// ClassHierarchy records a single inheritance edge discovered by the
// regex class-signature scan in the symbol store.
type ClassHierarchy struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	ClassSymbolID uint64 `gorm:"not null;index"`
	BaseName      string `gorm:"size:512;not null"`
	BaseSymbolID  *uint64
	AccessSpecifier string `gorm:"size:16"` // public|private|protected|""
}

func (ClassHierarchy) TableName() string { return "class_hierarchies" }

// ModuleRecord tracks a language module/namespace unit (e.g. a C++20
// module, a Go package, a Python package __init__).
type ModuleRecord struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:256;not null;uniqueIndex"`
	FilePath   string `gorm:"size:1024"`
	IsExported bool
}

func (ModuleRecord) TableName() string { return "modules" }

// Pattern is a single structural-pattern or anti-pattern detection
// recorded for reporting, in addition to the semantic-tag appended to
// the affected symbol.
type Pattern struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	SymbolID   uint64 `gorm:"not null;index"`
	Name       string `gorm:"size:128;not null"` // e.g. "anti_pattern_god_class"
	IsAntiPattern bool
	Detail     datatypes.JSON `gorm:"type:text"` // structured supporting evidence
	DetectedAt time.Time `gorm:"autoCreateTime"`
}

func (Pattern) TableName() string { return "patterns" }

// PatternCacheEntry is the row type of the pattern_cache table, whose
// entries carry an expiry time. The store migrates the table, but no
// code reads or writes it; the file scanner's 1000-entry LRU cache is
// in memory only.
type PatternCacheEntry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"index"`
}

func (PatternCacheEntry) TableName() string { return "pattern_cache" }
