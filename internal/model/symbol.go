// Package model defines the symbol graph produced by the indexing core:
// symbols, parameters, relationships, pending relationships, and file
// records, plus the parser-output tagged union they are built from.
package model

import "time"

// SymbolKind classifies a declared entity.
type SymbolKind string

const (
	KindFunction    SymbolKind = "function"
	KindMethod      SymbolKind = "method"
	KindClass       SymbolKind = "class"
	KindStruct      SymbolKind = "struct"
	KindEnum        SymbolKind = "enum"
	KindEnumClass   SymbolKind = "enum_class"
	KindModule      SymbolKind = "module"
	KindField       SymbolKind = "field"
	KindVariable    SymbolKind = "variable"
	KindOperator    SymbolKind = "operator"
	KindConstructor SymbolKind = "constructor"
	KindDestructor  SymbolKind = "destructor"
)

// ExecutionMode is the intended compute target of a symbol.
type ExecutionMode string

const (
	ModeCPU     ExecutionMode = "cpu"
	ModeGPU     ExecutionMode = "gpu"
	ModeAuto    ExecutionMode = "auto"
	ModeUnknown ExecutionMode = "unknown"
)

// PipelineStage is the coarse processing-pipeline bucket a symbol falls
// into, derived from path heuristics.
type PipelineStage string

const (
	StageTerrainFormation PipelineStage = "terrain_formation"
	StageRendering        PipelineStage = "rendering"
	StagePhysics          PipelineStage = "physics_processing"
	StageOrchestration    PipelineStage = "orchestration"
	StageGUI              PipelineStage = "gui"
	StageUnknown          PipelineStage = "unknown"
)

// Visibility mirrors the source-level access specifier, best-effort.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityUnknown   Visibility = "unknown"
)

// Confidence bounds, per spec.
const (
	MinConfidence = 0.1
	MaxConfidence = 0.99
)

// Symbol is a declared entity: function, method, class, struct, enum,
// enum-class, module, field, variable, operator, constructor, destructor.
//
// Identity key for conflict resolution is (Name, FilePath, Line, Kind);
// see internal/store for the upsert/merge rule that enforces this.
type Symbol struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// Identity attributes
	Name          string     `gorm:"size:512;not null;index:idx_symbol_identity,priority:1"`
	QualifiedName string     `gorm:"size:1024;index"`
	Kind          SymbolKind `gorm:"size:32;not null;index:idx_symbol_identity,priority:4"`
	FilePath      string     `gorm:"size:1024;not null;index:idx_symbol_identity,priority:2"`
	Line          int        `gorm:"not null;index:idx_symbol_identity,priority:3"`
	Column        int

	// Type attributes
	Signature               string `gorm:"size:2048"`
	ReturnType               string `gorm:"size:256"`
	BaseType                 string `gorm:"size:256"`
	IsPointer                bool
	IsReference               bool
	IsConst                   bool
	TemplateParameters        string `gorm:"size:512"` // comma-joined
	TemplateArguments          string `gorm:"size:512"` // comma-joined
	IsTemplateSpecialization bool

	// Scope attributes
	ParentClass     *string `gorm:"size:512;index"`
	Namespace       string  `gorm:"size:512"`
	ModuleName      string  `gorm:"size:256;index"`
	ExportNamespace string  `gorm:"size:256"`
	IsExported      bool
	Visibility      Visibility `gorm:"size:16"`

	// Semantic attributes
	PipelineStage    PipelineStage `gorm:"size:32"`
	ExecutionMode    ExecutionMode `gorm:"size:16"`
	IsAsync          bool
	IsFactory        bool
	IsGenerator      bool
	ReturnsVectorFloat bool
	UsesGPUCompute     bool
	HasCPUFallback     bool
	SemanticTags       TagSet `gorm:"type:text"`
	BodyHash           string `gorm:"size:64"`
	Complexity         int    `gorm:"not null;default:1"` // clamped [1, 20]

	// Provenance
	ParserUsed       string  `gorm:"size:32"`
	ParserConfidence float64 `gorm:"not null"`
	ParseTimestamp   time.Time

	// Mangled name / USR are preserved once set, never regressed to null
	// (invariant enforced in the store, not here).
	MangledName *string `gorm:"size:512"`
	USR         *string `gorm:"size:512"`

	PartialExtraction bool

	Parameters []Parameter `gorm:"foreignKey:FunctionID"`
}

func (Symbol) TableName() string { return "symbols" }

// ClampConfidence enforces the [MinConfidence, MaxConfidence] bound.
func ClampConfidence(c float64) float64 {
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}
