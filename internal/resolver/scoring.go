package resolver

import (
	"path"
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/codegraf/codegraf/internal/model"
)

var (
	qualifiedCallPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*(?:::[A-Za-z_][A-Za-z0-9_]*)+)\s*\(`)
	simpleCallPattern    = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	typeUsagePattern     = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s+[A-Za-z_][A-Za-z0-9_]*\s*[;=]`)
)

// candidateScore is the accumulated score from the simple-call / type-
// usage heuristic in spec.md §4.6.
type candidateScore struct {
	symbol model.Symbol
	score  int
	fuzzy  float64
}

// ResolveFile scans source for qualified calls (confidence 0.95),
// simple calls (confidence 0.7, highest-scoring candidate only), and
// type usages in declarations (confidence 0.8), emitting relationships
// whose target lies outside filePath. A qualified call with no match in
// the lookup is returned as a pending calls edge, which RetryPending
// later runs through the C7 strategy chain; simple calls and type
// usages with no scoring candidate are skipped and not queued.
func ResolveFile(lookup *Lookup, filePath string, source []byte, fileSymbols []model.Symbol) ([]model.Relationship, []model.PendingRelationship) {
	var rels []model.Relationship
	var pending []model.PendingRelationship

	text := string(source)
	lines := strings.Split(text, "\n")
	functions := sortedCallers(fileSymbols)

	resolveQualified(lookup, filePath, lines, functions, &rels, &pending)
	resolveSimple(lookup, filePath, text, lines, functions, &rels, &pending)
	resolveTypeUsages(lookup, filePath, lines, functions, &rels, &pending)

	return rels, pending
}

func resolveQualified(lookup *Lookup, filePath string, lines []string, functions []model.Symbol, rels *[]model.Relationship, pending *[]model.PendingRelationship) {
	for lineNo, line := range lines {
		for _, m := range qualifiedCallPattern.FindAllStringSubmatch(line, -1) {
			qname := m[1]
			target, ok := lookup.byQualifiedName[qname]
			if ok && target.FilePath == filePath {
				continue
			}
			fromFn := callingFunctionAt(functions, lineNo+1)
			from, found := lookup.symbolByName(fromFn, filePath)
			if !found {
				continue
			}
			if !ok {
				*pending = append(*pending, model.PendingRelationship{
					FromSymbolID: from.ID, FromFilePath: filePath, ToName: qname,
					Kind: model.RelCalls, Confidence: 0.95,
					ContextLine: lineNo + 1, CallingFunction: fromFn,
				})
				continue
			}
			*rels = append(*rels, model.Relationship{
				FromSymbolID: from.ID, ToSymbolID: target.ID, Kind: model.RelCalls,
				Confidence: 0.95, DetectedBy: model.DetectedByQualifiedCall,
				ContextLine: lineNo + 1, CallingFunction: fromFn,
			})
		}
	}
}

func resolveSimple(lookup *Lookup, filePath, text string, lines []string, functions []model.Symbol, rels *[]model.Relationship, pending *[]model.PendingRelationship) {
	for lineNo, line := range lines {
		for _, m := range simpleCallPattern.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if isKeyword(name) {
				continue
			}
			candidates := lookup.bySimpleName[name]
			if len(candidates) == 0 {
				continue
			}

			best := scoreCandidates(candidates, filePath, text)
			if best == nil || best.score <= 0 {
				continue
			}

			fromFn := callingFunctionAt(functions, lineNo+1)
			from, ok := lookup.symbolByName(fromFn, filePath)
			if !ok {
				continue
			}
			*rels = append(*rels, model.Relationship{
				FromSymbolID: from.ID, ToSymbolID: best.symbol.ID, Kind: model.RelCalls,
				Confidence: 0.7, DetectedBy: model.DetectedBySimpleCallScore,
				ContextLine: lineNo + 1, CallingFunction: fromFn,
			})
		}
	}
}

func resolveTypeUsages(lookup *Lookup, filePath string, lines []string, functions []model.Symbol, rels *[]model.Relationship, pending *[]model.PendingRelationship) {
	text := strings.Join(lines, "\n")
	for lineNo, line := range lines {
		for _, m := range typeUsagePattern.FindAllStringSubmatch(line, -1) {
			typeName := m[1]
			if isKeyword(typeName) {
				continue
			}
			candidates := lookup.bySimpleName[typeName]
			if len(candidates) == 0 {
				continue
			}
			best := scoreCandidates(candidates, filePath, text)
			if best == nil || best.score <= 0 {
				continue
			}

			fromFn := callingFunctionAt(functions, lineNo+1)
			from, ok := lookup.symbolByName(fromFn, filePath)
			if !ok {
				continue
			}
			*rels = append(*rels, model.Relationship{
				FromSymbolID: from.ID, ToSymbolID: best.symbol.ID, Kind: model.RelUses,
				Confidence: 0.8, DetectedBy: model.DetectedByTypeUsage,
				ContextLine: lineNo + 1, CallingFunction: fromFn,
			})
		}
	}
}

// scoreCandidates implements spec.md §4.6's point scheme:
//   +30 if the candidate's file base name appears literally in source
//   +5 * common path-prefix depth
//   +10 for class/struct/enum kinds
//   +5 for methods (parent-class present)
// plus a fractional fuzzy-proximity bonus (0..2 points) scaled by
// go-edlib's Jaro-Winkler similarity between the calling file's base
// name and the candidate's, breaking ties between same-score
// candidates in favor of the one whose file name most resembles the
// caller's rather than an arbitrary map-iteration order.
func scoreCandidates(candidates []model.Symbol, filePath, source string) *candidateScore {
	callerBase := path.Base(filePath)
	var best *candidateScore
	for _, c := range candidates {
		score := 0
		base := path.Base(c.FilePath)
		if base != "" && strings.Contains(source, base) {
			score += 30
		}
		score += 5 * commonPrefixDepth(filePath, c.FilePath)
		switch c.Kind {
		case model.KindClass, model.KindStruct, model.KindEnum, model.KindEnumClass:
			score += 10
		case model.KindMethod:
			if c.ParentClass != nil {
				score += 5
			}
		}

		fuzzy := 0.0
		if sim, err := edlib.StringsSimilarity(callerBase, base, edlib.JaroWinkler); err == nil {
			fuzzy = sim * 2
		}

		if best == nil || float64(score)+fuzzy > float64(best.score)+best.fuzzy {
			cc := c
			best = &candidateScore{symbol: cc, score: score, fuzzy: fuzzy}
		}
	}
	return best
}

func commonPrefixDepth(a, b string) int {
	pa := strings.Split(path.Dir(a), "/")
	pb := strings.Split(path.Dir(b), "/")
	depth := 0
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			break
		}
		depth++
	}
	return depth
}

// symbolByName resolves the calling-context function name to its own
// symbol id within filePath. A "[global]" context has no enclosing
// symbol to anchor an edge to, so callers skip emitting in that case —
// consistent with spec.md's rule that an edge without a resolvable
// endpoint is dropped or queued, never backed by a fabricated id.
func (l *Lookup) symbolByName(name, filePath string) (model.Symbol, bool) {
	if name == "[global]" {
		return model.Symbol{}, false
	}
	for _, s := range l.byFilePath[filePath] {
		if s.Name == name {
			return s, true
		}
	}
	return model.Symbol{}, false
}
