package extractor

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

// tagCatalog is the fixed substring -> tag mapping. Order doesn't
// matter; TagSet dedups on Add.
var tagCatalog = map[string]string{
	"generator":  "generator",
	"factory":    "factory_class",
	"create":     "generator",
	"compute":    "compute",
	"render":     "render",
	"init":       "initializer",
	"destroy":    "destructor",
	"~":          "destructor",
	"bind":       "binder",
	"get":        "getter",
	"set":        "setter",
	"refcount":   "ref_counting",
	"pool":       "pool_management",
	"registry":   "registry",
	"mutex":      "synchronization",
	"lock":       "synchronization",
	"atomic":     "atomic_operation",
	"alloc":      "memory_management",
	"free":       "memory_management",
	"pipeline":   "pipeline",
	"descriptor": "descriptor",
	"buffer":     "buffer",
	"image":      "image",
	"texture":    "texture",
	"swapchain":  "swapchain",
	"template":   "template",
	"virtual":    "virtual",
	"static":     "static",
	"const":      "const",
	"thread":     "thread_safe",
	"async":      "async",
	"parallel":   "parallel",
	"batch":      "batch",
	"stream":     "streaming",
	"exception":  "exception_handling",
	"validat":    "validation",
	"vector":     "vector_math",
	"matrix":     "matrix_operation",
	"lerp":       "interpolation",
	"interpolat": "interpolation",
	"shader":     "shader",
	"dispatch":   "compute_dispatch",
	"manager":    "manager_class",
	"base":       "base_class",
	"interface":  "interface",
}

// semanticTags scans name/signature/path against the fixed catalog,
// deduplicating via TagSet.
func semanticTags(name, signature, filePath string) model.TagSet {
	tags := model.NewTagSet()
	haystack := strings.ToLower(name + " " + signature + " " + filePath)
	for substr, tag := range tagCatalog {
		if strings.Contains(haystack, substr) {
			tags.Add(tag)
		}
	}
	return tags
}
