package model

// SemanticRole is a best-effort classification of what a parameter is
// used for, derived from its name/type during extraction.
type SemanticRole string

const (
	RoleUnknown  SemanticRole = "unknown"
	RoleSelf     SemanticRole = "self"
	RoleCallback SemanticRole = "callback"
	RoleContext  SemanticRole = "context"
	RoleOutput   SemanticRole = "output"
	RoleConfig   SemanticRole = "config"
)

// Parameter is an ordered attribute of a function/method symbol. It is
// owned by its function and keyed by (FunctionID, Position).
type Parameter struct {
	FunctionID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Position   int    `gorm:"primaryKey;autoIncrement:false"`

	Name         string `gorm:"size:256"`
	Type         string `gorm:"size:256"`
	IsConst      bool
	IsReference  bool
	IsPointer    bool
	DefaultValue *string `gorm:"size:512"`
	SemanticRole SemanticRole `gorm:"size:16"`
}

func (Parameter) TableName() string { return "parameters" }
