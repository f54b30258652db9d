// Package extractor implements C3: turning a single file's ParseResult
// into the uniform Symbol records the store persists, applying the
// normalization rules for kind, qualified name, pipeline stage,
// execution mode, semantic tags, complexity, and confidence.
package extractor

import (
	"strings"
	"time"

	"github.com/codegraf/codegraf/internal/model"
)

// Extractor turns one file's parse result into Symbol records.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Extract runs every normalization rule over result and returns the
// symbol set for filePath. Parameters are attached to function/method
// symbols in-memory; the store is responsible for persisting them
// under the owning symbol's id.
func (e *Extractor) Extract(filePath string, result *model.ParseResult) []model.Symbol {
	now := time.Now()
	var out []model.Symbol

	for _, fn := range result.Functions {
		out = append(out, e.buildFunctionSymbol(filePath, result, fn, false, now))
	}
	for _, fn := range result.Methods {
		out = append(out, e.buildFunctionSymbol(filePath, result, fn, true, now))
	}
	for _, cls := range result.Classes {
		out = append(out, e.buildClassSymbol(filePath, result, cls, now))
	}
	for _, en := range result.Enums {
		out = append(out, e.buildEnumSymbol(filePath, result, en, now))
	}

	return out
}

func (e *Extractor) buildFunctionSymbol(filePath string, result *model.ParseResult, fn model.ParsedFunction, hasMethodShape bool, now time.Time) model.Symbol {
	var parentClass *string
	if fn.ParentClass != "" {
		pc := fn.ParentClass
		parentClass = &pc
	}

	kind := classifyKind(fn.Name, parentClass, hasMethodShape)

	sym := model.Symbol{
		Name:                     fn.Name,
		QualifiedName:            qualifiedName(fn.Namespace, fn.ParentClass, fn.Name),
		Kind:                     kind,
		FilePath:                 filePath,
		Line:                     fn.Line,
		Column:                   fn.Column,
		Signature:                fn.Signature,
		ReturnType:               fn.ReturnType,
		IsConst:                  fn.IsConst,
		ParentClass:              parentClass,
		Namespace:                fn.Namespace,
		IsExported:               fn.IsExported,
		IsAsync:                  fn.IsAsync,
		IsGenerator:              fn.IsGenerator,
		ParserUsed:               result.Parser,
		ParseTimestamp:           now,
		PartialExtraction:        result.TruncatedByCap,
	}
	if fn.MangledName != "" {
		m := fn.MangledName
		sym.MangledName = &m
	}
	if fn.USR != "" {
		u := fn.USR
		sym.USR = &u
	}

	sym.PipelineStage = pipelineStage(filePath)
	sym.ExecutionMode = executionMode(fn.Name, filePath, fn.Parameters)
	sym.UsesGPUCompute = sym.ExecutionMode == model.ModeGPU
	sym.HasCPUFallback = sym.ExecutionMode == model.ModeAuto
	sym.SemanticTags = semanticTags(fn.Name, fn.Signature, filePath)
	sym.BaseType = ""

	params := make([]model.Parameter, 0, len(fn.Parameters))
	for i, p := range fn.Parameters {
		param := model.Parameter{
			Position:     i,
			Name:         p.Name,
			Type:         p.Type,
			IsConst:      p.IsConst,
			IsReference:  p.IsReference,
			IsPointer:    p.IsPointer,
			SemanticRole: classifyParameterRole(p, i),
		}
		if p.DefaultValue != "" {
			dv := p.DefaultValue
			param.DefaultValue = &dv
		}
		params = append(params, param)
	}
	sym.Parameters = params

	complexity := functionComplexity(fn)
	sym.Complexity = complexity
	sym.ParserConfidence = model.ClampConfidence(
		parserBaseConfidence(result) + qualityBonus(functionQuality(fn, kind, complexity))*(1-parserBaseConfidence(result)))

	return sym
}

func (e *Extractor) buildClassSymbol(filePath string, result *model.ParseResult, cls model.ParsedClass, now time.Time) model.Symbol {
	kind := cls.Kind
	if kind == "" {
		kind = model.KindClass
	}

	sym := model.Symbol{
		Name:                     cls.Name,
		QualifiedName:            qualifiedName(cls.Namespace, "", cls.Name),
		Kind:                     kind,
		FilePath:                 filePath,
		Line:                     cls.Line,
		Column:                   cls.Column,
		Namespace:                cls.Namespace,
		IsExported:               cls.IsExported,
		TemplateParameters:       strings.Join(cls.TemplateParameters, ","),
		IsTemplateSpecialization: strings.Contains(cls.Name, "<"),
		ParserUsed:               result.Parser,
		ParseTimestamp:           now,
		PartialExtraction:        result.TruncatedByCap,
	}

	sym.PipelineStage = pipelineStage(filePath)
	sym.ExecutionMode = executionMode(cls.Name, filePath, nil)
	sym.SemanticTags = semanticTags(cls.Name, "", filePath)
	if isFactoryName(cls.Name) {
		sym.IsFactory = true
	}

	complexity := classComplexity(cls)
	sym.Complexity = complexity
	sym.ParserConfidence = model.ClampConfidence(
		parserBaseConfidence(result) + qualityBonus(classQuality(cls, complexity))*(1-parserBaseConfidence(result)))

	return sym
}

func (e *Extractor) buildEnumSymbol(filePath string, result *model.ParseResult, en model.ParsedEnum, now time.Time) model.Symbol {
	kind := model.KindEnum
	if en.IsEnumClass {
		kind = model.KindEnumClass
	}
	sym := model.Symbol{
		Name:              en.Name,
		QualifiedName:      qualifiedName("", "", en.Name),
		Kind:               kind,
		FilePath:           filePath,
		Line:               en.Line,
		Column:             en.Column,
		ParserUsed:         result.Parser,
		ParseTimestamp:     now,
		PartialExtraction:  result.TruncatedByCap,
	}
	sym.PipelineStage = pipelineStage(filePath)
	sym.ExecutionMode = model.ModeUnknown
	sym.SemanticTags = semanticTags(en.Name, "", filePath)
	sym.Complexity = minComplexity
	sym.ParserConfidence = model.ClampConfidence(
		parserBaseConfidence(result) + 0.2*(1-parserBaseConfidence(result)))
	return sym
}

func parserBaseConfidence(result *model.ParseResult) float64 {
	return result.Confidence
}

// qualifiedName implements spec's namespace::parent::name / parent::name
// / name fallback chain.
func qualifiedName(namespace, parentClass, name string) string {
	parts := make([]string, 0, 3)
	if namespace != "" {
		parts = append(parts, namespace)
	}
	if parentClass != "" {
		parts = append(parts, parentClass)
	}
	parts = append(parts, name)
	return strings.Join(parts, "::")
}

// classifyKind implements the constructor/destructor/operator/method/
// function/preserved-as-is dispatch.
func classifyKind(name string, parentClass *string, hasMethodShape bool) model.SymbolKind {
	if strings.HasPrefix(name, "~") {
		return model.KindDestructor
	}
	if strings.Contains(name, "operator") {
		return model.KindOperator
	}
	if parentClass != nil {
		if name == *parentClass {
			return model.KindConstructor
		}
		return model.KindMethod
	}
	if hasMethodShape {
		return model.KindMethod
	}
	return model.KindFunction
}

func classifyParameterRole(p model.ParsedParameter, position int) model.SemanticRole {
	switch {
	case position == 0 && (p.Name == "self" || p.Name == "this"):
		return model.RoleSelf
	case strings.Contains(strings.ToLower(p.Name), "callback") || strings.Contains(strings.ToLower(p.Type), "func"):
		return model.RoleCallback
	case strings.Contains(strings.ToLower(p.Type), "context") || strings.Contains(strings.ToLower(p.Type), "ctx"):
		return model.RoleContext
	case strings.Contains(strings.ToLower(p.Name), "out") || strings.Contains(strings.ToLower(p.Name), "result"):
		return model.RoleOutput
	case strings.Contains(strings.ToLower(p.Type), "config") || strings.Contains(strings.ToLower(p.Type), "options"):
		return model.RoleConfig
	default:
		return model.RoleUnknown
	}
}

func isFactoryName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "factory") || strings.HasPrefix(lower, "create") || strings.HasPrefix(lower, "new")
}

func qualityBonus(quality float64) float64 {
	if quality < 0 {
		return 0
	}
	if quality > 1 {
		return 1
	}
	return quality
}
