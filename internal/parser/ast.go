package parser

import (
	"context"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codegraf/codegraf/internal/model"
)

// langEntry binds a tree-sitter parser and compiled query to every file
// extension that language owns. Built once at ASTParser construction and
// never mutated afterward, so concurrent Parse calls need no locking.
type langEntry struct {
	language string
	parser   *tree_sitter.Parser
	query    *tree_sitter.Query
}

// ASTParser is the strict tier of the cascade: a tree-sitter query per
// supported language, grounded on the teacher's per-language setup
// functions in parser_language_setup.go. Unlike the teacher, it does not
// thread StringRef/CompositeSymbolID zero-copy plumbing through capture
// handling — plain string slicing off content, documented in DESIGN.md
// as a deliberate simplification.
type ASTParser struct {
	byExt map[string]*langEntry
}

func NewASTParser() *ASTParser {
	p := &ASTParser{byExt: make(map[string]*langEntry)}
	p.setupGo()
	p.setupCpp()
	p.setupJava()
	p.setupCSharp()
	p.setupJavaScript()
	p.setupTypeScript()
	p.setupPython()
	p.setupPHP()
	return p
}

func (p *ASTParser) register(language string, languagePtr *tree_sitter.Language, queryStr string, exts ...string) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(languagePtr); err != nil {
		return
	}
	query, _ := tree_sitter.NewQuery(languagePtr, queryStr)
	// The tree-sitter Go binding can return a typed-nil error on success;
	// query != nil is the only reliable success signal.
	if query == nil {
		return
	}
	entry := &langEntry{language: language, parser: parser, query: query}
	for _, ext := range exts {
		p.byExt[ext] = entry
	}
}

func (p *ASTParser) setupGo() {
	language := tree_sitter.NewLanguage(tree_sitter_go.Language())
	p.register("go", language, `
        (function_declaration name: (identifier) @function.name) @function
        (method_declaration
            receiver: (parameter_list) @method.receiver
            name: (field_identifier) @method.name) @method
        (type_declaration
            (type_spec name: (type_identifier) @class.name)) @class
        (import_spec path: (interpreted_string_literal) @import.path) @import
    `, ".go")
}

func (p *ASTParser) setupCpp() {
	language := tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	p.register("cpp", language, `
        (function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
        (class_specifier name: (type_identifier) @class.name) @class
        (struct_specifier name: (type_identifier) @class.name) @class
        (enum_specifier name: (type_identifier) @enum.name) @enum
        (namespace_definition) @namespace
        (preproc_include) @import
        (using_declaration) @import
    `, ".cpp", ".cc", ".cxx", ".c", ".h", ".hpp")
}

func (p *ASTParser) setupJava() {
	language := tree_sitter.NewLanguage(tree_sitter_java.Language())
	p.register("java", language, `
        (method_declaration name: (identifier) @method.name) @method
        (constructor_declaration name: (identifier) @method.name) @method
        (class_declaration name: (identifier) @class.name) @class
        (record_declaration name: (identifier) @class.name) @class
        (interface_declaration name: (identifier) @class.name) @class
        (enum_declaration name: (identifier) @enum.name) @enum
        (import_declaration) @import
    `, ".java")
}

func (p *ASTParser) setupCSharp() {
	language := tree_sitter.NewLanguage(tree_sitter_csharp.Language())
	p.register("csharp", language, `
        (method_declaration name: (identifier) @method.name) @method
        (constructor_declaration name: (identifier) @method.name) @method
        (class_declaration name: (identifier) @class.name) @class
        (interface_declaration name: (identifier) @class.name) @class
        (struct_declaration name: (identifier) @class.name) @class
        (record_declaration name: (identifier) @class.name) @class
        (enum_declaration name: (identifier) @enum.name) @enum
        (using_directive (qualified_name) @import.path) @import
        (using_directive (identifier) @import.path) @import
    `, ".cs")
}

func (p *ASTParser) setupJavaScript() {
	language := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	p.register("javascript", language, `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (variable_declarator
            name: (identifier) @function.name
            value: [(arrow_function) (function_expression) (generator_function)]) @function
        (method_definition name: (property_identifier) @method.name) @method
        (class_declaration name: (identifier) @class.name) @class
        (export_statement declaration: (_) @export.target) @export
        (import_statement source: (string) @import.path) @import
    `, ".js", ".jsx")
}

func (p *ASTParser) setupTypeScript() {
	language := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	p.register("typescript", language, `
        (function_declaration name: (identifier) @function.name) @function
        (method_definition name: (property_identifier) @method.name) @method
        (class_declaration name: (type_identifier) @class.name) @class
        (interface_declaration name: (type_identifier) @class.name) @class
        (export_statement declaration: (_) @export.target) @export
        (import_statement source: (string) @import.path) @import
    `, ".ts", ".tsx")
}

func (p *ASTParser) setupPython() {
	language := tree_sitter.NewLanguage(tree_sitter_python.Language())
	p.register("python", language, `
        (class_definition
            body: (block
                (function_definition name: (identifier) @method.name))) @method
        (function_definition name: (identifier) @function.name) @function
        (class_definition name: (identifier) @class.name) @class
        (import_statement) @import
        (import_from_statement) @import
    `, ".py")
}

func (p *ASTParser) setupPHP() {
	language := tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	p.register("php", language, `
        (class_declaration name: (name) @class.name) @class
        (interface_declaration name: (name) @class.name) @class
        (trait_declaration name: (name) @class.name) @class
        (enum_declaration name: (name) @enum.name) @enum
        (function_definition name: (name) @function.name) @function
        (method_declaration name: (name) @method.name) @method
        (namespace_use_declaration) @import
    `, ".php", ".phtml")
}

func (p *ASTParser) SupportsFile(path string) bool {
	_, ok := p.byExt[extOf(path)]
	return ok
}

// Parse runs the compiled query for path's extension over content and
// folds the matches into a ParseResult. Returns ok=false only when the
// extension has no registered language or the parse produced a nil tree.
func (p *ASTParser) Parse(ctx context.Context, path string, content []byte) (*model.ParseResult, bool) {
	entry, ok := p.byExt[extOf(path)]
	if !ok {
		return nil, false
	}

	truncated := false
	scanContent := content
	if len(scanContent) > astByteCap {
		scanContent = scanContent[:astByteCap]
		truncated = true
	}

	tree := entry.parser.ParseCtx(ctx, scanContent, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	result := &model.ParseResult{
		Language: entry.language,
		Parser:   TierAST,
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	captureNames := entry.query.CaptureNames()
	matches := qc.Matches(entry.query, tree.RootNode(), scanContent)

	sawMangled := false
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		names := make(map[string]string, 4)
		var mainCapture *tree_sitter.Node
		var mainName string
		for i := range match.Captures {
			c := &match.Captures[i]
			capName := captureNames[c.Index]
			if strings.Contains(capName, ".") {
				names[capName] = nodeText(&c.Node, scanContent)
				continue
			}
			node := c.Node
			mainCapture = &node
			mainName = capName
		}
		if mainCapture == nil {
			continue
		}

		line, col := nodePosition(mainCapture)

		switch mainName {
		case "function":
			result.Functions = append(result.Functions, model.ParsedFunction{
				Name: firstNonEmpty(names["function.name"], names["method.name"]),
				Line: line, Column: col,
			})
		case "method":
			result.Methods = append(result.Methods, model.ParsedFunction{
				Name: names["method.name"], Line: line, Column: col,
			})
		case "class":
			result.Classes = append(result.Classes, model.ParsedClass{
				Name: firstNonEmpty(names["class.name"], names["interface.name"]),
				Line: line, Column: col,
			})
		case "enum":
			result.Enums = append(result.Enums, model.ParsedEnum{
				Name: names["enum.name"], Line: line, Column: col,
			})
		case "import":
			result.Imports = append(result.Imports, model.ParsedImport{
				Path: firstNonEmpty(names["import.path"], names["import.source"]),
				Line: line,
			})
		case "export":
			result.Exports = append(result.Exports, model.ParsedExport{
				Name: names["export.target"], Line: line,
			})
		case "namespace":
			if result.ModuleInfo == nil {
				result.ModuleInfo = &model.ParsedModule{Line: line}
			}
		}

		if strings.Contains(mainName, "mangled") {
			sawMangled = true
		}
	}

	result.TruncatedByCap = truncated
	result.USRsSeen = sawMangled
	result.MangledNamesSeen = sawMangled
	if sawMangled {
		result.Confidence = ConfidenceASTWithUSR
	} else {
		result.Confidence = ConfidenceASTNoUSR
	}

	return result, true
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(path[idx:])
}

func nodeText(n *tree_sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

func nodePosition(n *tree_sitter.Node) (line, col int) {
	p := n.StartPosition()
	return int(p.Row) + 1, int(p.Column) + 1
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
