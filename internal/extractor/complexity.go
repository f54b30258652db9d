package extractor

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

const (
	minComplexity = 1
	maxComplexity = 20
)

// functionComplexity derives a 1..20 score from signature shape
// (parameter count, pointer/reference density, template presence,
// namespace depth) plus the async/generator flags.
func functionComplexity(fn model.ParsedFunction) int {
	score := 1
	score += len(fn.Parameters)
	for _, p := range fn.Parameters {
		if p.IsPointer || p.IsReference {
			score++
		}
	}
	if strings.Contains(fn.Signature, "<") {
		score += 3
	}
	score += strings.Count(fn.Namespace, "::")
	if fn.IsAsync || fn.IsGenerator {
		score += 2
	}
	return clampComplexity(score)
}

func classComplexity(cls model.ParsedClass) int {
	score := 1 + cls.MemberCount/2 + len(cls.BaseClasses)*2
	if len(cls.TemplateParameters) > 0 {
		score += 3
	}
	score += strings.Count(cls.Namespace, "::")
	return clampComplexity(score)
}

func clampComplexity(score int) int {
	if score < minComplexity {
		return minComplexity
	}
	if score > maxComplexity {
		return maxComplexity
	}
	return score
}
