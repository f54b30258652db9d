package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/model"
)

func TestExactQualifiedStrategyWins(t *testing.T) {
	target := model.Symbol{ID: 1, Name: "Render", QualifiedName: "Widget::Render"}
	lookup := BuildLookup([]model.Symbol{target})

	res, ok := Resolve(lookup, model.Symbol{}, "Widget::Render")
	require.True(t, ok)
	assert.Equal(t, model.DetectedByQualifiedCall, res.DetectedBy)
	assert.Equal(t, 0.95, res.Confidence)
}

func TestSameClassMethodStrategyFallsThroughWhenNoQualifiedMatch(t *testing.T) {
	parent := "Widget"
	method := model.Symbol{ID: 2, Name: "helper", Kind: model.KindMethod, ParentClass: &parent}
	lookup := BuildLookup([]model.Symbol{method})
	caller := model.Symbol{ParentClass: &parent}

	res, ok := Resolve(lookup, caller, "helper")
	require.True(t, ok)
	assert.Equal(t, model.DetectedBySameClass, res.DetectedBy)
}

func TestChainOrderPrefersQualifiedOverSameClass(t *testing.T) {
	parent := "Widget"
	qualified := model.Symbol{ID: 1, Name: "helper", QualifiedName: "helper", Kind: model.KindFunction}
	method := model.Symbol{ID: 2, Name: "helper", Kind: model.KindMethod, ParentClass: &parent}
	lookup := BuildLookup([]model.Symbol{qualified, method})

	res, ok := Resolve(lookup, model.Symbol{ParentClass: &parent}, "helper")
	require.True(t, ok)
	assert.Equal(t, model.DetectedByQualifiedCall, res.DetectedBy)
	assert.Equal(t, uint64(1), res.Symbol.ID)
}

func TestScoreCandidatesPrefersTypeKindAndFileProximity(t *testing.T) {
	classCand := model.Symbol{ID: 1, Name: "Widget", Kind: model.KindClass, FilePath: "ui/widget.cpp"}
	varCand := model.Symbol{ID: 2, Name: "Widget", Kind: model.KindVariable, FilePath: "other/widget.cpp"}

	best := scoreCandidates([]model.Symbol{varCand, classCand}, "ui/main.cpp", "#include \"widget.cpp\"\nWidget w;")
	require.NotNil(t, best)
	assert.Equal(t, uint64(1), best.symbol.ID)
}

func TestResolveCrossLanguageReducedConfidence(t *testing.T) {
	lookup := BuildLookup([]model.Symbol{{ID: 5, Name: "sharedService"}})
	res, ok := ResolveCrossLanguage(lookup, "sharedService")
	require.True(t, ok)
	assert.Equal(t, 0.5, res.Confidence)
	assert.Equal(t, model.DetectedByCrossLanguage, res.DetectedBy)
}

func TestCallingFunctionAtBoundedByMaxFunctionSize(t *testing.T) {
	fns := []model.Symbol{{Name: "tiny", Line: 1}}
	assert.Equal(t, "[global]", callingFunctionAt(fns, 1+maxFunctionSizeLines+1))
	assert.Equal(t, "tiny", callingFunctionAt(fns, 2))
}
