package semantic

import (
	"strings"

	"github.com/codegraf/codegraf/internal/model"
)

// gpuCPUPairs matches a gpu-mode symbol with a same-pipeline-stage
// counterpart whose name is the GPU name minus "GPU"/"Vulkan" or plus
// "CPU".
func gpuCPUPairs(symbols []model.Symbol) []model.Relationship {
	var rels []model.Relationship
	for _, gpu := range symbols {
		if gpu.ExecutionMode != model.ModeGPU {
			continue
		}
		stripped := strings.NewReplacer("GPU", "", "Vulkan", "").Replace(gpu.Name)
		for _, cand := range symbols {
			if cand.ID == gpu.ID || cand.PipelineStage != gpu.PipelineStage {
				continue
			}
			if cand.Name == stripped || cand.Name == stripped+"CPU" {
				rels = append(rels, connector(model.RelGPUCPUPair, gpu, cand, 0.9))
			}
		}
	}
	return rels
}

// factoryProductPairs matches a factory symbol (IsFactory, or a return
// type shaped like unique_ptr<T>/shared_ptr<T>/Create<T>) to the class
// symbol T it produces.
func factoryProductPairs(symbols []model.Symbol) []model.Relationship {
	var rels []model.Relationship
	for _, factory := range symbols {
		if !factory.IsFactory && !isFactoryReturnType(factory.ReturnType) {
			continue
		}
		productName := extractProductType(factory.ReturnType, factory.Name)
		if productName == "" {
			continue
		}
		for _, cand := range symbols {
			if cand.Name == productName && (cand.Kind == model.KindClass || cand.Kind == model.KindStruct) {
				rels = append(rels, connector(model.RelFactoryProduct, factory, cand, 0.95))
			}
		}
	}
	return rels
}

func isFactoryReturnType(returnType string) bool {
	return strings.Contains(returnType, "unique_ptr<") || strings.Contains(returnType, "shared_ptr<") ||
		strings.HasPrefix(returnType, "Create<")
}

func extractProductType(returnType, fnName string) string {
	for _, prefix := range []string{"unique_ptr<", "shared_ptr<", "Create<"} {
		if idx := strings.Index(returnType, prefix); idx >= 0 {
			rest := returnType[idx+len(prefix):]
			if end := strings.IndexByte(rest, '>'); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
		}
	}
	if strings.HasPrefix(fnName, "Create") {
		return strings.TrimPrefix(fnName, "Create")
	}
	return ""
}

// managerManagedPairs pairs a "FooManager" symbol with the "Foo"
// symbol it manages.
func managerManagedPairs(symbols []model.Symbol) []model.Relationship {
	var rels []model.Relationship
	for _, mgr := range symbols {
		if !strings.Contains(mgr.Name, "Manager") {
			continue
		}
		stripped := strings.Replace(mgr.Name, "Manager", "", 1)
		if stripped == "" {
			continue
		}
		for _, cand := range symbols {
			if cand.ID != mgr.ID && cand.Name == stripped {
				rels = append(rels, connector(model.RelManagerManaged, mgr, cand, 0.85))
			}
		}
	}
	return rels
}

// templateSpecializations groups symbols named "T<...>" with their
// base template "T".
func templateSpecializations(symbols []model.Symbol) []model.Relationship {
	var rels []model.Relationship
	for _, spec := range symbols {
		idx := strings.IndexByte(spec.Name, '<')
		if idx <= 0 {
			continue
		}
		base := spec.Name[:idx]
		for _, cand := range symbols {
			if cand.ID != spec.ID && cand.Name == base {
				rels = append(rels, connector(model.RelTemplateSpecialization, spec, cand, 0.9))
			}
		}
	}
	return rels
}

// constructorDestructorPairs links a class's constructor with its
// destructor.
func constructorDestructorPairs(symbols []model.Symbol) []model.Relationship {
	byClass := make(map[string][]model.Symbol)
	for _, s := range symbols {
		if s.Kind != model.KindConstructor && s.Kind != model.KindDestructor {
			continue
		}
		if s.ParentClass == nil {
			continue
		}
		byClass[*s.ParentClass] = append(byClass[*s.ParentClass], s)
	}
	var rels []model.Relationship
	for _, members := range byClass {
		var ctor, dtor *model.Symbol
		for i := range members {
			m := members[i]
			if m.Kind == model.KindConstructor && ctor == nil {
				ctor = &m
			}
			if m.Kind == model.KindDestructor && dtor == nil {
				dtor = &m
			}
		}
		if ctor != nil && dtor != nil {
			rels = append(rels, connector(model.RelConstructorDestructor, *ctor, *dtor, 0.9))
		}
	}
	return rels
}

// operatorOverloadFamilies groups operator symbols on the same class by
// operator kind (e.g. all operator== overloads).
func operatorOverloadFamilies(symbols []model.Symbol) []model.Relationship {
	type key struct {
		parent string
		kind   string
	}
	groups := make(map[key][]model.Symbol)
	for _, s := range symbols {
		if s.Kind != model.KindOperator || s.ParentClass == nil {
			continue
		}
		groups[key{*s.ParentClass, s.Name}] = append(groups[key{*s.ParentClass, s.Name}], s)
	}
	var rels []model.Relationship
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		anchor := members[0]
		for _, m := range members[1:] {
			rels = append(rels, connector(model.RelOperatorOverloadFamily, anchor, m, 0.85))
		}
	}
	return rels
}

// constNonConstPairs links a method's const and non-const overload on
// the same class.
func constNonConstPairs(symbols []model.Symbol) []model.Relationship {
	type key struct {
		parent string
		name   string
	}
	groups := make(map[key][]model.Symbol)
	for _, s := range symbols {
		if s.Kind != model.KindMethod || s.ParentClass == nil {
			continue
		}
		groups[key{*s.ParentClass, s.Name}] = append(groups[key{*s.ParentClass, s.Name}], s)
	}
	var rels []model.Relationship
	for _, members := range groups {
		var constM, nonConstM *model.Symbol
		for i := range members {
			m := members[i]
			if m.IsConst {
				constM = &m
			} else {
				nonConstM = &m
			}
		}
		if constM != nil && nonConstM != nil {
			rels = append(rels, connector(model.RelConstNonConstPair, *constM, *nonConstM, 0.85))
		}
	}
	return rels
}
