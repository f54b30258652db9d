package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/model"
)

func TestExtractFunctionKindClassification(t *testing.T) {
	e := New()
	result := &model.ParseResult{
		Parser:     "ast",
		Confidence: 0.78,
		Functions: []model.ParsedFunction{
			{Name: "Widget", ParentClass: "Widget", Line: 1},
			{Name: "~Widget", ParentClass: "Widget", Line: 2},
			{Name: "operator==", ParentClass: "Widget", Line: 3},
			{Name: "Render", ParentClass: "Widget", Line: 4},
			{Name: "main", Line: 5},
		},
	}

	symbols := e.Extract("rendering/widget.cpp", result)
	require.Len(t, symbols, 5)
	assert.Equal(t, model.KindConstructor, symbols[0].Kind)
	assert.Equal(t, model.KindDestructor, symbols[1].Kind)
	assert.Equal(t, model.KindOperator, symbols[2].Kind)
	assert.Equal(t, model.KindMethod, symbols[3].Kind)
	assert.Equal(t, model.KindFunction, symbols[4].Kind)
	assert.Equal(t, model.StageRendering, symbols[0].PipelineStage)
}

func TestQualifiedNameFallbackChain(t *testing.T) {
	assert.Equal(t, "ns::Cls::m", qualifiedName("ns", "Cls", "m"))
	assert.Equal(t, "Cls::m", qualifiedName("", "Cls", "m"))
	assert.Equal(t, "m", qualifiedName("", "", "m"))
}

func TestConfidenceClampedToBounds(t *testing.T) {
	e := New()
	result := &model.ParseResult{
		Parser:     "token",
		Confidence: 0.5,
		Functions:  []model.ParsedFunction{{Name: "f"}},
	}
	symbols := e.Extract("x.go", result)
	require.Len(t, symbols, 1)
	assert.GreaterOrEqual(t, symbols[0].ParserConfidence, model.MinConfidence)
	assert.LessOrEqual(t, symbols[0].ParserConfidence, model.MaxConfidence)
}

func TestSemanticTagsDeduplicated(t *testing.T) {
	tags := semanticTags("CreateFactoryManager", "", "")
	assert.True(t, tags.Has("generator"))
	assert.True(t, tags.Has("factory_class"))
	assert.True(t, tags.Has("manager_class"))
	// "create" implies "generator"; the tag appears exactly once since
	// TagSet is a set, not a multiset.
	count := 0
	for _, tag := range tags.Slice() {
		if tag == "generator" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestComplexityClamp(t *testing.T) {
	assert.Equal(t, minComplexity, clampComplexity(-5))
	assert.Equal(t, maxComplexity, clampComplexity(999))
	assert.Equal(t, 5, clampComplexity(5))
}
