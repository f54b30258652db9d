package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/model"
)

func TestGPUCPUPairsMatchStrippedName(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "RenderGPU", ExecutionMode: model.ModeGPU, PipelineStage: model.StageRendering},
		{ID: 2, Name: "Render", PipelineStage: model.StageRendering},
	}
	rels := gpuCPUPairs(symbols)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelGPUCPUPair, rels[0].Kind)
}

func TestFactoryProductPairsFromSmartPointerReturnType(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "CreateWidget", ReturnType: "unique_ptr<Widget>"},
		{ID: 2, Name: "Widget", Kind: model.KindClass},
	}
	rels := factoryProductPairs(symbols)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelFactoryProduct, rels[0].Kind)
	assert.Equal(t, uint64(2), rels[0].ToSymbolID)
}

func TestManagerManagedPairsStripSuffix(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "ResourceManager"},
		{ID: 2, Name: "Resource"},
	}
	rels := managerManagedPairs(symbols)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelManagerManaged, rels[0].Kind)
}

func TestConstructorDestructorPairing(t *testing.T) {
	parent := "Widget"
	symbols := []model.Symbol{
		{ID: 1, Name: "Widget", Kind: model.KindConstructor, ParentClass: &parent},
		{ID: 2, Name: "~Widget", Kind: model.KindDestructor, ParentClass: &parent},
	}
	rels := constructorDestructorPairs(symbols)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelConstructorDestructor, rels[0].Kind)
}

func TestModuleExportCohesionBoundedGroupSize(t *testing.T) {
	var symbols []model.Symbol
	for i := 0; i < cohesionGroupBound+5; i++ {
		symbols = append(symbols, model.Symbol{ID: uint64(i + 1), Name: "x", IsExported: true, ModuleName: "huge"})
	}
	rels := moduleExportCohesion(symbols)
	assert.Empty(t, rels, "oversized export group should be skipped, not O(n^2) exploded")
}

func TestPipelineDataFlowMatchesReturnToParamType(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "GenerateHeightmap", PipelineStage: model.StageTerrainFormation, ReturnType: "Heightmap"},
		{ID: 2, Name: "SimulateErosion", PipelineStage: model.StagePhysics,
			Parameters: []model.Parameter{{Type: "Heightmap"}}},
	}
	rels := pipelineDataFlow(symbols)
	require.Len(t, rels, 1)
	assert.Equal(t, model.RelPipelineDataFlow, rels[0].Kind)
}
