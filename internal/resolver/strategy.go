package resolver

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

// Resolution is a successful strategy outcome.
type Resolution struct {
	Symbol     model.Symbol
	Confidence float64
	DetectedBy model.DetectedBy
}

// Strategy is one link in C7's ordered chain. A strategy returns
// ok=false rather than an error — "no match" is an expected outcome,
// not a failure.
type Strategy func(lookup *Lookup, caller model.Symbol, targetName string) (Resolution, bool)

// Chain is the fixed strategy order spec.md §4.6 names for C7:
// exact qualified match, same-class method match, field access, and
// cross-language service resolution (a no-op placeholder — see
// CrossLanguageStrategy below). The first non-null result wins.
var Chain = []Strategy{
	ExactQualifiedStrategy,
	SameClassMethodStrategy,
	FieldAccessStrategy,
	CrossLanguageStrategy,
}

// Resolve runs the chain in order and returns the first hit.
func Resolve(lookup *Lookup, caller model.Symbol, targetName string) (Resolution, bool) {
	for _, strategy := range Chain {
		if res, ok := strategy(lookup, caller, targetName); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

// ExactQualifiedStrategy matches targetName directly against the
// qualified-name index.
func ExactQualifiedStrategy(lookup *Lookup, _ model.Symbol, targetName string) (Resolution, bool) {
	sym, ok := lookup.byQualifiedName[targetName]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Symbol: sym, Confidence: 0.95, DetectedBy: model.DetectedByQualifiedCall}, true
}

// SameClassMethodStrategy resolves targetName to a method on the
// caller's own parent class, when the caller's parent class is known.
func SameClassMethodStrategy(lookup *Lookup, caller model.Symbol, targetName string) (Resolution, bool) {
	if caller.ParentClass == nil {
		return Resolution{}, false
	}
	for _, cand := range lookup.bySimpleName[targetName] {
		if cand.Kind == model.KindMethod && cand.ParentClass != nil && *cand.ParentClass == *caller.ParentClass {
			return Resolution{Symbol: cand, Confidence: 0.9, DetectedBy: model.DetectedBySameClass}, true
		}
	}
	return Resolution{}, false
}

// FieldAccessStrategy strips a trailing `.field` from targetName,
// resolves the owning object's declared type (from the caller's own
// symbol's BaseType, a best-effort proxy for "the object's type in
// scope"), then looks up the field on that type.
func FieldAccessStrategy(lookup *Lookup, caller model.Symbol, targetName string) (Resolution, bool) {
	idx := strings.LastIndexByte(targetName, '.')
	if idx < 0 {
		return Resolution{}, false
	}
	fieldName := targetName[idx+1:]
	ownerType := caller.BaseType
	if ownerType == "" {
		return Resolution{}, false
	}
	for _, cand := range lookup.bySimpleName[fieldName] {
		if cand.Kind == model.KindField && cand.ParentClass != nil && *cand.ParentClass == ownerType {
			return Resolution{Symbol: cand, Confidence: 0.75, DetectedBy: model.DetectedByFieldAccess}, true
		}
	}
	return Resolution{}, false
}

// CrossLanguageStrategy is a no-op placeholder so the chain's shape is
// complete: it never matches, and nothing consults
// model.Relationship.CrossLanguage, matching spec.md §9's note that the
// source never guarantees that flag is set. ResolveCrossLanguage below
// performs the name-only match for a caller that has already confirmed
// the edge is cross-language; the indexing pipeline does not call it.
func CrossLanguageStrategy(_ *Lookup, _ model.Symbol, _ string) (Resolution, bool) {
	return Resolution{}, false
}

// ResolveCrossLanguage matches targetName by simple name in the
// lookup's symbol set regardless of language, with a reduced
// confidence reflecting the lower precision of a name-only match
// across language boundaries.
func ResolveCrossLanguage(lookup *Lookup, targetName string) (Resolution, bool) {
	candidates := lookup.bySimpleName[targetName]
	if len(candidates) == 0 {
		return Resolution{}, false
	}
	return Resolution{Symbol: candidates[0], Confidence: 0.5, DetectedBy: model.DetectedByCrossLanguage}, true
}
