package parser

import (
	"bufio"
	"bytes"
	"regexp"

	"github.com/codegraf/codegraf/internal/model"
)

// TokenParser is the cascade's lenient tier: a line-oriented regex scan
// that recovers name-level symbols (no signatures, no bodies) when the
// strict AST parser can't be used or produced nothing. Grounded on the
// teacher's repeated "fallback to field-based/text extraction" pattern
// in parser_parse_methods.go, generalized here into a standalone scanner
// instead of a per-capture fallback path, since the token tier has no
// tree to fall back from in the first place.
type TokenParser struct {
	patterns []tokenPattern
}

type tokenPattern struct {
	re   *regexp.Regexp
	kind string // "function" | "class" | "import"
}

func NewTokenParser() *TokenParser {
	return &TokenParser{
		patterns: []tokenPattern{
			{kind: "function", re: regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)\s*\(`)},
			{kind: "function", re: regexp.MustCompile(`\bfunction\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)},
			{kind: "function", re: regexp.MustCompile(`\bdef\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)},
			{kind: "function", re: regexp.MustCompile(`\b(?:public|private|protected|static|final|internal|async)\s+[\w<>\[\],. ]+?\s+([A-Za-z_][A-Za-z0-9_]*)\s*\([^;{]*\)\s*\{`)},
			{kind: "class", re: regexp.MustCompile(`\bclass\s+([A-Za-z_][A-Za-z0-9_]*)`)},
			{kind: "class", re: regexp.MustCompile(`\bstruct\s+([A-Za-z_][A-Za-z0-9_]*)`)},
			{kind: "class", re: regexp.MustCompile(`\binterface\s+([A-Za-z_][A-Za-z0-9_]*)`)},
			{kind: "import", re: regexp.MustCompile(`^\s*(?:import|#include|using)\s+[<"]?([^;">\s]+)[>"]?`)},
		},
	}
}

// Parse never reports failure on IO grounds; it returns ok=false only
// when the scan recovered nothing at all, leaving the cascade's
// acceptance test in Cascade.Parse to decide whether that counts as
// exhaustion.
func (t *TokenParser) Parse(path string, content []byte) (*model.ParseResult, bool) {
	result := &model.ParseResult{
		Parser:     TierToken,
		Confidence: ConfidenceTokenStream,
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		for _, p := range t.patterns {
			m := p.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			name := m[1]
			switch p.kind {
			case "function":
				result.Functions = append(result.Functions, model.ParsedFunction{
					Name: name, Line: line,
				})
			case "class":
				result.Classes = append(result.Classes, model.ParsedClass{
					Name: name, Line: line,
				})
			case "import":
				result.Imports = append(result.Imports, model.ParsedImport{
					Path: name, Line: line,
				})
			}
			break // one match per line is enough at this fidelity tier
		}
	}

	if len(result.Functions) == 0 && len(result.Classes) == 0 && len(result.Imports) == 0 {
		return result, false
	}
	return result, true
}
