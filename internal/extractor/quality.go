package extractor

import "github.com/codegraf/codegraf/internal/model"

// functionQuality sums the signature-richness / return-type-richness /
// class-namespace-context / kind-specificity / semantic-tag-richness /
// execution-mode-determination signals into a normalized [0,1] score,
// the "quality" term in spec's confidence formula.
func functionQuality(fn model.ParsedFunction, kind model.SymbolKind, complexity int) float64 {
	const signals = 6
	var hits float64

	if fn.Signature != "" || len(fn.Parameters) > 0 {
		hits++
	}
	if fn.ReturnType != "" {
		hits++
	}
	if fn.ParentClass != "" || fn.Namespace != "" {
		hits++
	}
	if kind != model.KindFunction {
		hits++
	}
	tags := semanticTags(fn.Name, fn.Signature, "")
	if len(tags) > 0 {
		hits++
	}
	if executionMode(fn.Name, "", fn.Parameters) != model.ModeUnknown {
		hits++
	}

	return hits / signals
}

// classQuality is the class-adapted profile: no return type, member
// presence counts instead.
func classQuality(cls model.ParsedClass, complexity int) float64 {
	const signals = 5
	var hits float64

	if cls.MemberCount > 0 {
		hits++
	}
	if len(cls.BaseClasses) > 0 {
		hits++
	}
	if cls.Namespace != "" {
		hits++
	}
	if cls.Kind != "" {
		hits++
	}
	if complexity > minComplexity {
		hits++
	}

	return hits / signals
}
