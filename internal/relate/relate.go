// Package relate implements C5: per-file relationship extraction from
// parser output and symbol-to-symbol name patterns within the same
// file. Cross-file resolution is internal/resolver's job (C6/C7).
package relate

import (
	"regexp"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

// inheritsPattern mirrors store's class-hierarchy regex: `: [access]? Base`.
var inheritsPattern = regexp.MustCompile(`:\s*(public|private|protected)?\s*([A-Za-z_][A-Za-z0-9_:<>]*)`)

// Extractor produces same-file relationships for one file's already
// committed symbol set plus the raw parse result that produced them.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Extract runs the includes/imports, inherits, calls/uses/manages/
// member_of/shares_namespace/instance_of passes and returns both
// resolved relationships (both endpoints are symbols in fileSymbols)
// and pending ones (endpoint not found in this file — left for the
// cross-file resolver).
func (e *Extractor) Extract(filePath string, result *model.ParseResult, fileSymbols []model.Symbol) ([]model.Relationship, []model.PendingRelationship) {
	var rels []model.Relationship
	var pending []model.PendingRelationship

	byName := indexByName(fileSymbols)
	functions := functionsByLine(fileSymbols)

	for _, imp := range result.Imports {
		pending = append(pending, model.PendingRelationship{
			FromFilePath: filePath,
			ToName:       imp.Path,
			ToFilePath:   imp.Path,
			Kind:         model.RelImports,
			ContextLine:  imp.Line,
		})
	}
	for _, inc := range result.Includes {
		pending = append(pending, model.PendingRelationship{
			FromFilePath: filePath,
			ToName:       inc.Path,
			ToFilePath:   inc.Path,
			Kind:         model.RelIncludes,
			ContextLine:  inc.Line,
		})
	}

	for _, cls := range fileSymbols {
		if cls.Kind != model.KindClass && cls.Kind != model.KindStruct {
			continue
		}
		for _, m := range inheritsPattern.FindAllStringSubmatch(cls.Signature, -1) {
			base := m[2]
			if base == "" || base == cls.Name {
				continue
			}
			if target, ok := byName[base]; ok {
				rels = append(rels, model.Relationship{
					FromSymbolID: cls.ID, ToSymbolID: target.ID, Kind: model.RelInherits,
					Confidence: 0.85, DetectedBy: model.DetectedByIntraFile,
				})
				continue
			}
			pending = append(pending, model.PendingRelationship{
				FromSymbolID: cls.ID, FromFilePath: filePath,
				ToName: base, Kind: model.RelInherits,
			})
		}
	}

	for _, ev := range result.Relationships {
		from, fromOK := byName[ev.FromName]
		to, toOK := byName[ev.ToName]
		if !fromOK {
			continue
		}
		ctxLine := ev.Line
		callingFn := callingFunction(functions, ctxLine)

		if !toOK {
			pending = append(pending, model.PendingRelationship{
				FromSymbolID: from.ID, FromFilePath: filePath,
				ToName: ev.ToName, Kind: ev.Kind,
				ContextLine: ctxLine, CallingFunction: callingFn,
			})
			continue
		}

		rels = append(rels, model.Relationship{
			FromSymbolID: from.ID, ToSymbolID: to.ID, Kind: ev.Kind,
			Confidence: 0.75, DetectedBy: model.DetectedByIntraFile,
			ContextLine: ctxLine, ContextSnippet: ev.Snippet, CallingFunction: callingFn,
		})
	}

	rels = append(rels, promoteMemberVariables(fileSymbols, byName)...)

	return rels, pending
}

func indexByName(symbols []model.Symbol) map[string]model.Symbol {
	m := make(map[string]model.Symbol, len(symbols))
	for _, s := range symbols {
		if _, exists := m[s.Name]; !exists {
			m[s.Name] = s
		}
	}
	return m
}

// functionsByLine returns function/method symbols sorted by start line,
// for the calling-context heuristic.
func functionsByLine(symbols []model.Symbol) []model.Symbol {
	var fns []model.Symbol
	for _, s := range symbols {
		if s.Kind == model.KindFunction || s.Kind == model.KindMethod ||
			s.Kind == model.KindConstructor || s.Kind == model.KindDestructor {
			fns = append(fns, s)
		}
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Line < fns[j].Line })
	return fns
}

// maxFunctionSizeLines bounds the "last function started before line"
// heuristic so an unrelated trailing function doesn't falsely claim a
// line far beyond any real body.
const maxFunctionSizeLines = 2000

// callingFunction finds the function whose line range contains line:
// the last function that started at or before line, whose next sibling
// starts after line (or there is no next sibling), bounded by
// maxFunctionSizeLines. Falls back to "[global]".
func callingFunction(sortedFns []model.Symbol, line int) string {
	best := ""
	for i, fn := range sortedFns {
		if fn.Line > line {
			break
		}
		nextStart := line + maxFunctionSizeLines + 1
		if i+1 < len(sortedFns) {
			nextStart = sortedFns[i+1].Line
		}
		if line < nextStart && line-fn.Line <= maxFunctionSizeLines {
			best = fn.Name
		}
	}
	if best == "" {
		return "[global]"
	}
	return best
}

// promoteMemberVariables turns field symbols into instance_of edges to
// their declared type, when that type is resolvable within the file.
func promoteMemberVariables(symbols []model.Symbol, byName map[string]model.Symbol) []model.Relationship {
	var rels []model.Relationship
	for _, s := range symbols {
		if s.Kind != model.KindField && s.Kind != model.KindVariable {
			continue
		}
		typeName := strings.TrimSuffix(strings.TrimSuffix(s.BaseType, "*"), "&")
		typeName = strings.TrimSpace(typeName)
		if typeName == "" {
			continue
		}
		if target, ok := byName[typeName]; ok {
			rels = append(rels, model.Relationship{
				FromSymbolID: s.ID, ToSymbolID: target.ID, Kind: model.RelInstanceOf,
				Confidence: 0.8, DetectedBy: model.DetectedByIntraFile,
			})
		}
	}
	return rels
}

// Commit writes rels and pending in one transaction per spec.md §4.5.
// A foreign-key violation on an edge (dangling endpoint that slipped
// past the in-memory byName lookup, e.g. a symbol deleted by the
// store's duplicate-cleanup pass after extraction ran) is dropped and
// re-queued as pending rather than failing the batch.
func Commit(db *gorm.DB, rels []model.Relationship, pending []model.PendingRelationship) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rels {
			if err := tx.Create(&r).Error; err != nil {
				p := model.PendingRelationship{
					FromSymbolID: r.FromSymbolID, Kind: r.Kind,
					ContextLine: r.ContextLine, CallingFunction: r.CallingFunction,
				}
				tx.Create(&p)
				continue
			}
		}
		for _, p := range pending {
			if err := tx.Create(&p).Error; err != nil {
				continue
			}
		}
		return nil
	})
}
