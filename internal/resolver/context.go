package resolver

import (
	"sort"

	"github.com/codegraf/codegraf/internal/model"
)

// maxFunctionSizeLines mirrors relate's bound on the calling-context
// heuristic so both passes agree on what "contains this line" means.
const maxFunctionSizeLines = 2000

func sortedCallers(symbols []model.Symbol) []model.Symbol {
	var fns []model.Symbol
	for _, s := range symbols {
		if s.Kind == model.KindFunction || s.Kind == model.KindMethod ||
			s.Kind == model.KindConstructor || s.Kind == model.KindDestructor {
			fns = append(fns, s)
		}
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Line < fns[j].Line })
	return fns
}

// callingFunctionAt mirrors relate.callingFunction: the last function
// started at or before line, whose next sibling starts after line (or
// has no next sibling), bounded by maxFunctionSizeLines.
func callingFunctionAt(sortedFns []model.Symbol, line int) string {
	best := ""
	for i, fn := range sortedFns {
		if fn.Line > line {
			break
		}
		nextStart := line + maxFunctionSizeLines + 1
		if i+1 < len(sortedFns) {
			nextStart = sortedFns[i+1].Line
		}
		if line < nextStart && line-fn.Line <= maxFunctionSizeLines {
			best = fn.Name
		}
	}
	if best == "" {
		return "[global]"
	}
	return best
}
