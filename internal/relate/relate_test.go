package relate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/model"
)

func TestExtractResolvesIntraFileCall(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "main", Kind: model.KindFunction, Line: 10},
		{ID: 2, Name: "helper", Kind: model.KindFunction, Line: 1},
	}
	result := &model.ParseResult{
		Relationships: []model.ParsedRelationshipEvidence{
			{FromName: "main", ToName: "helper", Kind: model.RelCalls, Line: 11},
		},
	}

	e := New()
	rels, pending := e.Extract("f.go", result, symbols)
	require.Len(t, rels, 1)
	assert.Empty(t, pending)
	assert.Equal(t, uint64(1), rels[0].FromSymbolID)
	assert.Equal(t, uint64(2), rels[0].ToSymbolID)
	assert.Equal(t, "main", rels[0].CallingFunction)
}

func TestExtractQueuesPendingWhenTargetUnresolved(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "main", Kind: model.KindFunction, Line: 1},
	}
	result := &model.ParseResult{
		Relationships: []model.ParsedRelationshipEvidence{
			{FromName: "main", ToName: "externalHelper", Kind: model.RelCalls, Line: 2},
		},
	}

	e := New()
	rels, pending := e.Extract("f.go", result, symbols)
	assert.Empty(t, rels)
	require.Len(t, pending, 1)
	assert.Equal(t, "externalHelper", pending[0].ToName)
}

func TestExtractInheritsFromSignatureRegex(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "Derived", Kind: model.KindClass, Signature: "class Derived : public Base"},
		{ID: 2, Name: "Base", Kind: model.KindClass},
	}

	e := New()
	rels, _ := e.Extract("f.cpp", &model.ParseResult{}, symbols)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelInherits, rels[0].Kind)
	assert.Equal(t, uint64(1), rels[0].FromSymbolID)
	assert.Equal(t, uint64(2), rels[0].ToSymbolID)
}

func TestCallingFunctionFallsBackToGlobal(t *testing.T) {
	fns := functionsByLine([]model.Symbol{
		{Name: "a", Line: 50, Kind: model.KindFunction},
	})
	assert.Equal(t, "[global]", callingFunction(fns, 5))
	assert.Equal(t, "a", callingFunction(fns, 55))
}

func TestPromoteMemberVariablesEmitsInstanceOf(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "renderer", Kind: model.KindField, BaseType: "Renderer"},
		{ID: 2, Name: "Renderer", Kind: model.KindClass},
	}
	rels := promoteMemberVariables(symbols, indexByName(symbols))
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelInstanceOf, rels[0].Kind)
}
