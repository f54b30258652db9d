package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeGoFile(t *testing.T) {
	c := NewCascade()
	src := []byte(`package widget

import "fmt"

type Widget struct{}

func (w *Widget) Render() string {
	return fmt.Sprintf("widget")
}

func NewWidget() *Widget {
	return &Widget{}
}
`)

	result, err := c.Parse(context.Background(), "widget.go", src)
	require.NoError(t, err)
	assert.Equal(t, TierAST, result.Parser)
	assert.NotEmpty(t, result.Functions)
	assert.NotEmpty(t, result.Methods)
	assert.NotEmpty(t, result.Classes)
	assert.Equal(t, ConfidenceASTNoUSR, result.Confidence)
}

func TestCascadeUnsupportedExtensionFallsBackToTokenTier(t *testing.T) {
	c := NewCascade()
	src := []byte("def greet(name):\n    return name\n")

	// ".py" is AST-supported, so exercise the fallback path with an
	// extension the AST tier has no query for at all.
	result, err := c.Parse(context.Background(), "script.unknownlang", src)
	require.NoError(t, err)
	assert.Equal(t, TierToken, result.Parser)
	assert.Equal(t, ConfidenceTokenStream, result.Confidence)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "greet", result.Functions[0].Name)
}

func TestCascadeExhaustedOnEmptyFile(t *testing.T) {
	c := NewCascade()
	_, err := c.Parse(context.Background(), "empty.go", []byte("package empty\n"))
	require.Error(t, err)
}

func TestASTParserSupportsFile(t *testing.T) {
	a := NewASTParser()
	assert.True(t, a.SupportsFile("main.go"))
	assert.True(t, a.SupportsFile("Foo.java"))
	assert.True(t, a.SupportsFile("widget.tsx"))
	assert.False(t, a.SupportsFile("README.md"))
}

func TestTokenParserRecoversNamesFromPlainText(t *testing.T) {
	tp := NewTokenParser()
	src := []byte(`
class Account {
    function withdraw(amount) {
    }
}
`)
	result, ok := tp.Parse("account.js", src)
	require.True(t, ok)
	assert.Equal(t, ConfidenceTokenStream, result.Confidence)
	require.Len(t, result.Classes, 1)
	assert.Equal(t, "Account", result.Classes[0].Name)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "withdraw", result.Functions[0].Name)
}
