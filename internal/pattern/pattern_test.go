package pattern

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraf/codegraf/internal/model"
)

func testThresholds() Thresholds {
	return Thresholds{GodClassMethodThreshold: 5, LongParamListThreshold: 4, LongMethodNameThreshold: 30}
}

func TestGodClassDetectedWhenMethodCountExceedsThreshold(t *testing.T) {
	parent := "Widget"
	var methods []model.Symbol
	for i := 0; i < 6; i++ {
		methods = append(methods, model.Symbol{ID: uint64(i + 2), Kind: model.KindMethod, ParentClass: &parent})
	}
	byParent := map[string][]model.Symbol{"Widget": methods}
	classSym := model.Symbol{ID: 1, Name: "Widget", Kind: model.KindClass, ParentClass: &parent}

	dets := aggregateChecksForSymbol(classSym, byParent, testThresholds())
	require.Len(t, dets, 1)
	assert.Equal(t, "god_class", dets[0].Name)
	assert.True(t, dets[0].IsAntiPattern)
}

func TestLongParameterListDetectedFromSignatureCommaCount(t *testing.T) {
	sym := model.Symbol{ID: 1, Kind: model.KindFunction, Signature: "func(a, b, c, d, e int)"}
	dets := aggregateChecksForSymbol(sym, nil, testThresholds())
	names := detectionNames(dets)
	assert.Contains(t, names, "long_parameter_list")
}

func TestManagerFunctionPatternFlagsFreeFunctionOnly(t *testing.T) {
	freeFn := model.Symbol{ID: 1, Name: "ResourceManagerInit", Kind: model.KindFunction}
	dets := aggregateChecksForSymbol(freeFn, nil, testThresholds())
	names := detectionNames(dets)
	assert.Contains(t, names, "manager_function")

	parent := "Widget"
	method := model.Symbol{ID: 2, Name: "ManagerHook", Kind: model.KindMethod, ParentClass: &parent}
	dets2 := aggregateChecksForSymbol(method, nil, testThresholds())
	assert.NotContains(t, detectionNames(dets2), "manager_function")
}

func TestFactoryBypassFlaggedOutsideFactoryPath(t *testing.T) {
	sym := model.Symbol{ID: 1, Name: "Create", ParentClass: strPtr("Pipeline"), FilePath: "src/pipeline/pipeline.cpp", Kind: model.KindMethod}
	dets := aggregateChecksForSymbol(sym, nil, testThresholds())
	names := detectionNames(dets)
	assert.Contains(t, names, "pipeline_factory_violation")
}

func TestFactoryBypassNotFlaggedInsideFactoryPath(t *testing.T) {
	sym := model.Symbol{ID: 1, Name: "Create", ParentClass: strPtr("Pipeline"), FilePath: "src/pipeline/PipelineFactory.cpp", Kind: model.KindMethod}
	dets := aggregateChecksForSymbol(sym, nil, testThresholds())
	assert.NotContains(t, detectionNames(dets), "pipeline_factory_violation")
}

func TestResponsibilityBucketsGroupByStemmedPrefix(t *testing.T) {
	sym := model.Symbol{Name: "RenderAndValidateAndLogFrame"}
	buckets := responsibilityBuckets(sym)
	assert.GreaterOrEqual(t, len(buckets), 3)
}

func TestFileScannerFlagsRawMemoryManagement(t *testing.T) {
	scanner, err := NewFileScanner()
	require.NoError(t, err)
	content := []byte("void f() {\n  int* p = (int*)malloc(4);\n  free(p);\n}\n")
	dets := scanner.ScanFile(context.Background(), 1, "a.cpp", content, time.Second)
	names := detectionNames(dets)
	assert.Contains(t, names, "raw_memory_management")
}

func TestFileScannerSkipsPathologicalLongLines(t *testing.T) {
	scanner, err := NewFileScanner()
	require.NoError(t, err)
	longLine := make([]byte, maxLineLength+500)
	for i := range longLine {
		longLine[i] = 'x'
	}
	content := append(longLine, []byte(" malloc(\n")...)
	dets := scanner.ScanFile(context.Background(), 1, "huge.cpp", content, time.Second)
	assert.Empty(t, dets, "pathological line should be skipped, not flagged")
}

func TestFileScannerCachesResultForUnchangedContent(t *testing.T) {
	scanner, err := NewFileScanner()
	require.NoError(t, err)
	content := []byte("void f() { malloc(4); }\n")
	first := scanner.ScanFile(context.Background(), 1, "a.cpp", content, time.Second)
	second := scanner.ScanFile(context.Background(), 1, "a.cpp", content, time.Second)
	assert.Equal(t, first, second)
}

func detectionNames(dets []Detection) []string {
	var names []string
	for _, d := range dets {
		names = append(names, d.Name)
	}
	return names
}

func strPtr(s string) *string { return &s }
