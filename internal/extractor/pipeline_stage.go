package extractor

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

// pipelineStage derives the coarse pipeline bucket a symbol belongs to
// from substrings of its file path.
func pipelineStage(filePath string) model.PipelineStage {
	lower := strings.ToLower(filePath)
	switch {
	case strings.Contains(lower, "generation/heightmap") || strings.Contains(lower, "heightmap"):
		return model.StageTerrainFormation
	case strings.Contains(lower, "rendering"):
		return model.StageRendering
	case strings.Contains(lower, "physics"):
		return model.StagePhysics
	case strings.Contains(lower, "orchestrat"):
		return model.StageOrchestration
	case strings.Contains(lower, "gui"):
		return model.StageGUI
	default:
		return model.StageUnknown
	}
}
