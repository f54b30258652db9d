package pattern

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"

	"github.com/codegraf/codegraf/internal/model"
)

// aggregateChecksForSymbol runs every stored-symbol check against a
// single symbol and its owning class (if any), per spec.md §4.8.
func aggregateChecksForSymbol(s model.Symbol, byParent map[string][]model.Symbol, th Thresholds) []Detection {
	var dets []Detection

	if s.Kind == model.KindClass || s.Kind == model.KindStruct {
		if methods := byParent[s.Name]; len(methods) > th.GodClassMethodThreshold {
			// Only tag the class symbol itself, not every member: its
			// members are the rows grouped under its name by parent
			// class.
			dets = append(dets, Detection{
				SymbolID: s.ID, Name: "god_class", IsAntiPattern: true,
				Detail: "method_count_exceeds_threshold",
			})
		}
	}

	if paramCount := strings.Count(s.Signature, ","); s.Signature != "" && paramCount+1 > th.LongParamListThreshold {
		dets = append(dets, Detection{
			SymbolID: s.ID, Name: "long_parameter_list", IsAntiPattern: true,
			Detail: "parameter_count_exceeds_threshold",
		})
	}

	if len(s.Name) > th.LongMethodNameThreshold {
		dets = append(dets, Detection{
			SymbolID: s.ID, Name: "long_method_name", IsAntiPattern: true,
			Detail: "name_length_exceeds_threshold",
		})
	}

	if managerFunctionPattern(s) {
		dets = append(dets, Detection{
			SymbolID: s.ID, Name: "manager_function", IsAntiPattern: false,
			Detail: "function_name_contains_manager",
		})
	}

	if violatesNamingConvention(s) {
		dets = append(dets, Detection{
			SymbolID: s.ID, Name: "naming_convention_violation", IsAntiPattern: true,
			Detail: "name_diverges_from_known_conventions",
		})
	}

	if buckets := responsibilityBuckets(s); len(buckets) > srpBucketThreshold {
		dets = append(dets, Detection{
			SymbolID: s.ID, Name: "srp_violation", IsAntiPattern: true,
			Detail: "spans_multiple_responsibility_buckets",
		})
	}

	if isFactoryBypass(s) {
		dets = append(dets, Detection{
			SymbolID: s.ID, Name: "pipeline_factory_violation", IsAntiPattern: true,
			Detail: "creation_function_outside_factory_builder_path",
		})
	}

	return dets
}

// managerFunctionPattern flags a free function (no parent class) whose
// name contains "Manager" — a function doing a class's job.
func managerFunctionPattern(s model.Symbol) bool {
	return s.ParentClass == nil && s.Kind == model.KindFunction && strings.Contains(s.Name, "Manager")
}

// violatesNamingConvention flags the cheap, symbol-local case: a
// method or function name that doesn't fuzzy-resemble any recognized
// verb-noun convention strongly enough to be one of the catalog's
// known shapes (getters/setters/factories/handlers). Names are not
// compared against the sibling methods of their class.
func violatesNamingConvention(s model.Symbol) bool {
	if s.Kind != model.KindMethod && s.Kind != model.KindFunction {
		return false
	}
	if s.Name == "" {
		return false
	}
	best := 0.0
	for _, convention := range namingConventionExemplars {
		sim, err := edlib.StringsSimilarity(strings.ToLower(s.Name), convention, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if sim > best {
			best = sim
		}
	}
	return best < namingConventionMinSimilarity
}

var namingConventionExemplars = []string{
	"get", "set", "is", "has", "create", "build", "make", "on", "handle", "update", "init", "destroy",
}

const namingConventionMinSimilarity = 0.45

const srpBucketThreshold = 3

// responsibilityBuckets buckets a symbol's stemmed name/signature
// tokens into coarse responsibility categories. A flagged known false-
// positive source per spec.md's design notes: English substring
// matching over identifier tokens, nothing more rigorous.
var responsibilityStems = map[string]string{
	"render": "rendering", "draw": "rendering", "paint": "rendering",
	"load": "io", "save": "io", "read": "io", "writ": "io", "parse": "io",
	"valid": "validation", "check": "validation", "verifi": "validation",
	"comput": "computation", "calcul": "computation", "process": "computation",
	"network": "networking", "send": "networking", "receiv": "networking",
	"log": "logging", "trace": "logging",
	"alloc": "memory", "free": "memory", "releas": "memory",
}

func responsibilityBuckets(s model.Symbol) map[string]struct{} {
	buckets := make(map[string]struct{})
	tokens := splitIdentifierWords(s.Name)
	for _, tok := range tokens {
		stem := porter2.Stem(strings.ToLower(tok))
		for prefix, bucket := range responsibilityStems {
			if strings.HasPrefix(stem, prefix) {
				buckets[bucket] = struct{}{}
			}
		}
	}
	return buckets
}

// splitIdentifierWords splits a camelCase/PascalCase/snake_case name
// into lowercase words.
func splitIdentifierWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == ':':
			flush()
		case r >= 'A' && r <= 'Z' && i > 0 && !(runes[i-1] >= 'A' && runes[i-1] <= 'Z'):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// isFactoryBypass flags a creation function (name is or ends in
// "::Create"/".Create", or starts with "Create"/"New"/"Make") declared outside a file path that
// names a Factory or Builder — spec.md's scenario 4.
func isFactoryBypass(s model.Symbol) bool {
	if !isCreationName(s.Name) {
		return false
	}
	lowerPath := strings.ToLower(s.FilePath)
	if strings.Contains(lowerPath, "factory") || strings.Contains(lowerPath, "builder") {
		return false
	}
	if s.ParentClass != nil {
		lowerParent := strings.ToLower(*s.ParentClass)
		if strings.Contains(lowerParent, "factory") || strings.Contains(lowerParent, "builder") {
			return false
		}
	}
	return true
}

func isCreationName(name string) bool {
	return strings.HasSuffix(name, "::Create") || strings.HasSuffix(name, ".Create") ||
		strings.HasPrefix(name, "Create") || strings.HasPrefix(name, "New") || strings.HasPrefix(name, "Make") ||
		name == "Create"
}
