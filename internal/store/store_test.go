package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertSymbolsInsertsNewRow(t *testing.T) {
	s := newTestStore(t)
	err := s.UpsertSymbols([]model.Symbol{{
		Name: "Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindFunction,
		ParserConfidence: 0.8,
	}})
	require.NoError(t, err)

	var count int64
	s.DB.Model(&model.Symbol{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpsertSymbolsIsIdempotentOnUnchangedInput(t *testing.T) {
	s := newTestStore(t)
	sym := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindFunction, ParserConfidence: 0.8}

	require.NoError(t, s.UpsertSymbols([]model.Symbol{sym}))
	require.NoError(t, s.UpsertSymbols([]model.Symbol{sym}))

	var count int64
	s.DB.Model(&model.Symbol{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpsertSymbolsPrefersHigherConfidence(t *testing.T) {
	s := newTestStore(t)
	low := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindFunction, ParserConfidence: 0.5, ReturnType: ""}
	high := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindFunction, ParserConfidence: 0.9, ReturnType: "void"}

	require.NoError(t, s.UpsertSymbols([]model.Symbol{low}))
	require.NoError(t, s.UpsertSymbols([]model.Symbol{high}))

	var stored model.Symbol
	require.NoError(t, s.DB.First(&stored).Error)
	assert.Equal(t, "void", stored.ReturnType)
	assert.Equal(t, 0.9, stored.ParserConfidence)
}

func TestUpsertSymbolsNeverRegressesMangledNameToNull(t *testing.T) {
	s := newTestStore(t)
	mangled := "_ZN6Widget6RenderEv"
	withMangled := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindFunction, ParserConfidence: 0.9, MangledName: &mangled}
	withoutMangled := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindFunction, ParserConfidence: 0.95}

	require.NoError(t, s.UpsertSymbols([]model.Symbol{withMangled}))
	require.NoError(t, s.UpsertSymbols([]model.Symbol{withoutMangled}))

	var stored model.Symbol
	require.NoError(t, s.DB.First(&stored).Error)
	require.NotNil(t, stored.MangledName)
	assert.Equal(t, mangled, *stored.MangledName)
}

func TestCleanupDuplicatesKeepsHighestConfidenceSurvivor(t *testing.T) {
	s := newTestStore(t)
	dup1 := model.Symbol{Name: "Render", QualifiedName: "Widget::Render", FilePath: "widget.cpp", Line: 10, Kind: model.KindMethod, ParserConfidence: 0.6}
	dup2 := model.Symbol{Name: "Render", QualifiedName: "Widget::Render", FilePath: "widget.cpp", Line: 99, Kind: model.KindMethod, ParserConfidence: 0.9}

	require.NoError(t, s.DB.Create(&dup1).Error)
	require.NoError(t, s.DB.Create(&dup2).Error)
	require.NoError(t, cleanupDuplicates(s.DB))

	var rows []model.Symbol
	require.NoError(t, s.DB.Where("qualified_name = ?", "Widget::Render").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.9, rows[0].ParserConfidence)
}

func TestSeedMemberOfEdgesQueuesPendingWhenParentMissing(t *testing.T) {
	s := newTestStore(t)
	parent := "Widget"
	method := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 5, Kind: model.KindMethod, ParserConfidence: 0.8, ParentClass: &parent}
	require.NoError(t, s.DB.Create(&method).Error)

	require.NoError(t, s.SeedMemberOfEdges())

	var pending []model.PendingRelationship
	require.NoError(t, s.DB.Find(&pending).Error)
	require.Len(t, pending, 1)
	assert.Equal(t, model.RelMemberOf, pending[0].Kind)
	assert.Equal(t, "Widget", pending[0].ToName)
}

func TestSeedMemberOfEdgesResolvesWhenParentPresent(t *testing.T) {
	s := newTestStore(t)
	cls := model.Symbol{Name: "Widget", FilePath: "widget.cpp", Line: 1, Kind: model.KindClass, ParserConfidence: 0.8}
	require.NoError(t, s.DB.Create(&cls).Error)

	parent := "Widget"
	method := model.Symbol{Name: "Render", FilePath: "widget.cpp", Line: 5, Kind: model.KindMethod, ParserConfidence: 0.8, ParentClass: &parent}
	require.NoError(t, s.DB.Create(&method).Error)

	require.NoError(t, s.SeedMemberOfEdges())

	var rels []model.Relationship
	require.NoError(t, s.DB.Find(&rels).Error)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelMemberOf, rels[0].Kind)
	assert.Equal(t, cls.ID, rels[0].ToSymbolID)
}
