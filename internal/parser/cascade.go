// Package parser implements the C2 parser hierarchy: a cascade from a
// strict tree-sitter AST parser down to a lenient token-stream scanner.
// The first parser whose output contains at least one valid symbol is
// accepted, per spec.md §4.2.
package parser

import (
	"context"
	"time"

	"github.com/codegraf/codegraf/internal/model"
	"github.com/codegraf/codegraf/internal/xerrors"
)

// Confidence base table (spec.md §9 Open Question, resolved in
// DESIGN.md): the AST tier varies by whether mangled names/USRs were
// observed, the token tier is flat.
const (
	ConfidenceASTWithUSR    = 0.90
	ConfidenceASTNoUSR      = 0.78
	ConfidenceTokenStream   = 0.50
	astByteCap              = 4 * 1024 * 1024 // truncate AST output beyond this many source bytes scanned
	defaultParseWallClock   = 8 * time.Second
)

// Tier names recorded on ParseResult.Parser / model.Symbol.ParserUsed.
const (
	TierAST   = "ast"
	TierToken = "token"
)

// Cascade runs the parser hierarchy for a single file.
type Cascade struct {
	ast   *ASTParser
	token *TokenParser
}

func NewCascade() *Cascade {
	return &Cascade{
		ast:   NewASTParser(),
		token: NewTokenParser(),
	}
}

// Parse runs the cascade against a single file's content, returning the
// first result with >=1 valid symbol. A ParseFailure is returned only if
// every tier in the cascade fails to produce anything.
func (c *Cascade) Parse(ctx context.Context, path string, content []byte) (*model.ParseResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultParseWallClock)
	defer cancel()

	if c.ast.SupportsFile(path) {
		if result, ok := c.ast.Parse(ctx, path, content); ok && hasValidSymbol(result) {
			return result, nil
		}
	}

	if result, ok := c.token.Parse(path, content); ok && hasValidSymbol(result) {
		return result, nil
	}

	return nil, xerrors.NewParseFailure(path, errCascadeExhausted)
}

var errCascadeExhausted = cascadeExhaustedError{}

type cascadeExhaustedError struct{}

func (cascadeExhaustedError) Error() string { return "no parser in the cascade produced a valid symbol" }

// hasValidSymbol implements the cascade's acceptance test: functions,
// methods, classes, exports, or imports — any one is enough.
func hasValidSymbol(r *model.ParseResult) bool {
	if r == nil {
		return false
	}
	return len(r.Functions) > 0 || len(r.Methods) > 0 || len(r.Classes) > 0 ||
		len(r.Exports) > 0 || len(r.Imports) > 0 || len(r.Enums) > 0
}
