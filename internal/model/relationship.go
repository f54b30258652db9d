package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RelationshipKind enumerates the directed-edge kinds the indexer emits.
type RelationshipKind string

const (
	RelIncludes                RelationshipKind = "includes"
	RelImports                 RelationshipKind = "imports"
	RelInherits                RelationshipKind = "inherits"
	RelCalls                   RelationshipKind = "calls"
	RelUses                    RelationshipKind = "uses"
	RelMemberOf                RelationshipKind = "member_of"
	RelManages                 RelationshipKind = "manages"
	RelInstanceOf              RelationshipKind = "instance_of"
	RelSharesNamespace         RelationshipKind = "shares_namespace"
	RelGPUCPUPair              RelationshipKind = "gpu_cpu_pair"
	RelFactoryProduct          RelationshipKind = "factory_product"
	RelManagerManaged          RelationshipKind = "manager_managed"
	RelTemplateSpecialization  RelationshipKind = "template_specialization"
	RelPipelineStageCohesion   RelationshipKind = "pipeline_stage_cohesion"
	RelPipelineDataFlow        RelationshipKind = "pipeline_data_flow"
	RelVulkanWrapper           RelationshipKind = "vulkan_wrapper"
	RelConstructorDestructor   RelationshipKind = "constructor_destructor_pair"
	RelOperatorOverloadFamily  RelationshipKind = "operator_overload_family"
	RelModuleExportCohesion    RelationshipKind = "module_export_cohesion"
	RelTypeAffinity            RelationshipKind = "type_affinity"
	RelConstNonConstPair       RelationshipKind = "const_nonconst_pair"
	RelMemberOfClass           RelationshipKind = "member_of_class"
)

// DetectedBy names the component/strategy that produced an edge, used
// for the round-trip "strategy determinism" testable property.
type DetectedBy string

const (
	DetectedByQualifiedCall   DetectedBy = "exact_qualified"
	DetectedBySameClass       DetectedBy = "same_class_method"
	DetectedByFieldAccess     DetectedBy = "field_access"
	DetectedByCrossLanguage   DetectedBy = "cross_language_service"
	DetectedBySimpleCallScore DetectedBy = "simple_call_scored"
	DetectedByTypeUsage       DetectedBy = "type_usage_scored"
	DetectedByIntraFile       DetectedBy = "intra_file"
	DetectedBySemanticConnect DetectedBy = "semantic_connector"
)

// Relationship is a directed edge between two committed symbols.
// Invariant: both FromSymbolID and ToSymbolID must reference live rows
// at insertion time (enforced by the store, never half-resolved).
type Relationship struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	FromSymbolID uint64 `gorm:"not null;index"`
	ToSymbolID   uint64 `gorm:"not null;index"`
	Kind         RelationshipKind `gorm:"size:32;not null;index"`

	Confidence float64 `gorm:"not null"`
	DetectedBy DetectedBy `gorm:"size:32"`

	// Context
	ContextLine     int
	ContextSnippet  string `gorm:"size:1024"`
	UsagePattern    string `gorm:"size:64"`
	CallingFunction string `gorm:"size:512"` // "[global]" when no enclosing function

	// Context is a structured mirror of the granular context fields
	// above, populated automatically on create — a JSON column lets
	// later query-time tools (§6's visualization layer contract) filter
	// on context shape without a schema migration per new attribute.
	Context datatypes.JSON `gorm:"type:text"`

	// CrossLanguage marks an edge as crossing a language boundary. No
	// code in this repo sets or reads it; it's a deliberate plug-in point matching
	// spec.md §9's note that the source never guarantees it is set.
	CrossLanguage bool

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Relationship) TableName() string { return "relationships" }

// BeforeCreate folds the granular context columns into the structured
// Context blob so callers never have to hand-build JSON themselves.
func (r *Relationship) BeforeCreate(tx *gorm.DB) error {
	blob, err := json.Marshal(map[string]any{
		"line":             r.ContextLine,
		"snippet":          r.ContextSnippet,
		"usage_pattern":    r.UsagePattern,
		"calling_function": r.CallingFunction,
	})
	if err != nil {
		return err
	}
	r.Context = datatypes.JSON(blob)
	return nil
}

// PendingRelationship is an edge whose target could not be resolved at
// first pass. It stores endpoint descriptors rather than symbol ids and
// is consumed (moved to Relationship) or dropped after a single retry.
type PendingRelationship struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	FromSymbolID uint64 `gorm:"not null;index"`
	FromFilePath string `gorm:"size:1024;not null"`

	ToName     string `gorm:"size:512;not null"`
	ToFilePath string `gorm:"size:1024"` // may be empty if unknown

	Kind       RelationshipKind `gorm:"size:32;not null"`
	Confidence float64
	ContextLine int
	CallingFunction string `gorm:"size:512"`

	RetriedOnce bool
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (PendingRelationship) TableName() string { return "pending_relationships" }
