// Package resolver implements C6 (cross-file resolver) and C7 (the
// call-resolution orchestrator): a set of lookup structures built once
// per run, a per-file scoring pass over qualified calls, simple calls,
// and type usages, and an ordered strategy chain that RetryPending runs
// over the pending queue. Neither the per-file scoring pass nor the
// intra-file pass (relate) consults the chain.
package resolver

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

// Lookup is the three index structures C6 builds once per run: by
// simple name, by qualified name, by file path. Grounded on the
// teacher's SymbolLinkerEngine pattern of building lookup structures
// once at engine construction and reusing them for every file's link
// pass (internal/symbollinker/linker_engine.go).
type Lookup struct {
	bySimpleName    map[string][]model.Symbol
	byQualifiedName map[string]model.Symbol
	byFilePath      map[string][]model.Symbol
}

func BuildLookup(symbols []model.Symbol) *Lookup {
	l := &Lookup{
		bySimpleName:    make(map[string][]model.Symbol),
		byQualifiedName: make(map[string]model.Symbol),
		byFilePath:      make(map[string][]model.Symbol),
	}
	for _, s := range symbols {
		l.bySimpleName[s.Name] = append(l.bySimpleName[s.Name], s)
		if s.QualifiedName != "" {
			l.byQualifiedName[s.QualifiedName] = s
		}
		l.byFilePath[s.FilePath] = append(l.byFilePath[s.FilePath], s)
	}
	return l
}

var languageKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "return": {}, "catch": {},
	"new": {}, "delete": {}, "sizeof": {}, "typeof": {}, "function": {}, "def": {},
	"class": {}, "struct": {}, "enum": {}, "namespace": {}, "using": {}, "import": {},
}

func isKeyword(name string) bool {
	_, ok := languageKeywords[strings.ToLower(name)]
	return ok
}
