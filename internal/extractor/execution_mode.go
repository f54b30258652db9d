package extractor

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

// executionMode inspects name/path substrings and parameter-type hints
// to guess the intended compute target.
func executionMode(name, filePath string, params []model.ParsedParameter) model.ExecutionMode {
	haystack := strings.ToLower(name + " " + filePath)
	for _, p := range params {
		haystack += " " + strings.ToLower(p.Type)
	}

	hasGPU := strings.Contains(haystack, "gpu") || strings.Contains(haystack, "vulkan") || strings.Contains(haystack, "compute")
	hasCPU := strings.Contains(haystack, "cpu")
	hasAutoHint := strings.Contains(haystack, "gpumode") || strings.Contains(haystack, "automode")

	switch {
	case hasAutoHint:
		return model.ModeAuto
	case hasGPU && hasCPU:
		return model.ModeAuto
	case hasGPU:
		return model.ModeGPU
	case hasCPU:
		return model.ModeCPU
	default:
		return model.ModeUnknown
	}
}
