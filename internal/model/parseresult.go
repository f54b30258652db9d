package model

// ParseResult is the uniform record every parser in the C2 cascade
// emits, regardless of language or fidelity tier. It is a single
// tagged union (per design note in spec.md §9: "dynamic shapes ->
// tagged variants") — every variant is a concrete, named Go slice
// field, never a reflective map[string]any grab-bag.
type ParseResult struct {
	Language string
	Parser   string // which cascade tier produced this: "ast" | "token"

	Functions  []ParsedFunction
	Methods    []ParsedFunction
	Classes    []ParsedClass
	Enums      []ParsedEnum
	Exports    []ParsedExport
	Imports    []ParsedImport
	Includes   []ParsedInclude
	ModuleInfo *ParsedModule

	// Relationships is intra-file evidence C5 consumes directly; it is
	// NOT yet a committed Relationship (no symbol ids exist yet at
	// parse time).
	Relationships []ParsedRelationshipEvidence

	Patterns []ParsedPatternHint

	Confidence       float64
	TruncatedByCap   bool // AST output exceeded the byte bound; partial-extraction path ran
	MangledNamesSeen bool
	USRsSeen         bool
}

type ParsedFunction struct {
	Name          string
	QualifiedName string
	ParentClass   string
	Namespace     string
	Line, Column  int
	Signature     string
	ReturnType    string
	Parameters    []ParsedParameter
	IsConst       bool
	IsAsync       bool
	IsGenerator   bool
	IsExported    bool
	MangledName   string
	USR           string
	BodyStart     int // line
	BodyEnd       int // line, -1 if unknown
	BodySource    string
}

type ParsedParameter struct {
	Name         string
	Type         string
	IsConst      bool
	IsReference  bool
	IsPointer    bool
	DefaultValue string
}

type ParsedClass struct {
	Name          string
	QualifiedName string
	Namespace     string
	Line, Column  int
	Kind          SymbolKind // class, struct, enum, enum_class
	BaseClasses   []ParsedBaseClass
	MemberCount   int
	IsExported    bool
	TemplateParameters []string
}

type ParsedBaseClass struct {
	Name            string
	AccessSpecifier string
}

type ParsedEnum struct {
	Name          string
	QualifiedName string
	Line, Column  int
	IsEnumClass   bool
}

type ParsedExport struct {
	Name string
	Line int
}

type ParsedImport struct {
	Path string
	Line int
	// Symbols named explicitly in the import statement, if any.
	Symbols []string
}

type ParsedInclude struct {
	Path       string
	Line       int
	IsSystem   bool
}

type ParsedModule struct {
	Name     string
	Line     int
	IsExport bool
}

// ParsedRelationshipEvidence is a same-file textual clue C5 turns into a
// Relationship once both endpoints are resolvable to symbol ids.
type ParsedRelationshipEvidence struct {
	FromName string
	ToName   string
	Kind     RelationshipKind
	Line     int
	Snippet  string
}

type ParsedPatternHint struct {
	Name string
	Line int
}
