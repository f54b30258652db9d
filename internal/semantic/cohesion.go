package semantic

import "github.com/codegraf/codegraf/internal/model"

// cohesionGroupBound caps the size of a module-export-cohesion or
// type-affinity group: beyond this, the group is almost certainly a
// coincidental name collision rather than a meaningful cluster, and
// emitting edges for it would add noise rather than signal.
const cohesionGroupBound = 12

// moduleExportCohesion links the first symbol exported from a module to
// every other symbol exported from the same module, skipping groups
// larger than cohesionGroupBound.
func moduleExportCohesion(symbols []model.Symbol) []model.Relationship {
	byModule := make(map[string][]model.Symbol)
	for _, s := range symbols {
		if !s.IsExported || s.ModuleName == "" {
			continue
		}
		byModule[s.ModuleName] = append(byModule[s.ModuleName], s)
	}

	var rels []model.Relationship
	for _, group := range byModule {
		if len(group) < 2 || len(group) > cohesionGroupBound {
			continue
		}
		anchor := group[0]
		for _, m := range group[1:] {
			rels = append(rels, connector(model.RelModuleExportCohesion, anchor, m, 0.7))
		}
	}
	return rels
}

// typeAffinity links functions sharing a base parameter/return type,
// bounded the same way module-export cohesion is.
func typeAffinity(symbols []model.Symbol) []model.Relationship {
	byType := make(map[string][]model.Symbol)
	for _, s := range symbols {
		if s.Kind != model.KindFunction && s.Kind != model.KindMethod {
			continue
		}
		if s.BaseType == "" {
			continue
		}
		byType[s.BaseType] = append(byType[s.BaseType], s)
	}

	var rels []model.Relationship
	for _, group := range byType {
		if len(group) < 2 || len(group) > cohesionGroupBound {
			continue
		}
		anchor := group[0]
		for _, m := range group[1:] {
			rels = append(rels, connector(model.RelTypeAffinity, anchor, m, 0.65))
		}
	}
	return rels
}

// pipelineOrder is the fixed stage ordering spec.md §4.7 names for
// pipeline-data-flow ("along a fixed stage ordering"): terrain
// generation feeds physics, physics feeds rendering, rendering feeds
// the GUI layer. Orchestration is cross-cutting and excluded from the
// linear flow.
var pipelineOrder = []model.PipelineStage{
	model.StageTerrainFormation,
	model.StagePhysics,
	model.StageRendering,
	model.StageGUI,
}

// pipelineDataFlow links a stage-N symbol's return type to a stage-N+1
// symbol's parameter type, when the types match by name.
func pipelineDataFlow(symbols []model.Symbol) []model.Relationship {
	byStage := make(map[model.PipelineStage][]model.Symbol)
	for _, s := range symbols {
		byStage[s.PipelineStage] = append(byStage[s.PipelineStage], s)
	}

	var rels []model.Relationship
	for i := 0; i+1 < len(pipelineOrder); i++ {
		producers := byStage[pipelineOrder[i]]
		consumers := byStage[pipelineOrder[i+1]]
		for _, p := range producers {
			if p.ReturnType == "" {
				continue
			}
			for _, c := range consumers {
				if !symbolConsumesType(c, p.ReturnType) {
					continue
				}
				rels = append(rels, connector(model.RelPipelineDataFlow, p, c, 0.7))
			}
		}
	}
	return rels
}

func symbolConsumesType(s model.Symbol, typeName string) bool {
	for _, p := range s.Parameters {
		if p.Type == typeName {
			return true
		}
	}
	return false
}
