package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"warscope/internal/classfile"
	"warscope/internal/config"
)

func lexicon(t *testing.T) *config.LexiconConfig {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return &cfg.Lexicon
}

func TestCollectParameterWithValidAndNotNullYieldsTwoDescriptors(t *testing.T) {
	lex := lexicon(t)
	m := &classfile.MethodView{
		Name: "create",
		ParameterAnnotations: [][]classfile.Annotation{
			{
				{SimpleName: "Valid"},
				{SimpleName: "NotNull"},
			},
		},
	}
	got := Collect(lex, m)
	require.Len(t, got, 2)
	require.Contains(t, got, "@Valid on parameter 'param0'")
	require.Contains(t, got, "@NotNull on parameter 'param0'")
}

func TestCollectIsSortedAndDeduplicated(t *testing.T) {
	lex := lexicon(t)
	m := &classfile.MethodView{
		Name: "create",
		ParameterAnnotations: [][]classfile.Annotation{
			{{SimpleName: "NotNull"}},
			{{SimpleName: "NotNull"}},
		},
	}
	got := Collect(lex, m)
	require.Equal(t, []string{"@NotNull on parameter 'param0'", "@NotNull on parameter 'param1'"}, got)
}

func TestCollectRequestBodyBindingDescriptor(t *testing.T) {
	lex := lexicon(t)
	m := &classfile.MethodView{
		Name: "create",
		ParameterAnnotations: [][]classfile.Annotation{
			{
				{SimpleName: "RequestBody"},
				{SimpleName: "Valid"},
			},
		},
	}
	got := Collect(lex, m)
	require.Contains(t, got, "@RequestBody on parameter 'param0' enables request-body validation")
	require.Contains(t, got, "@Valid on parameter 'param0'")
}

func TestCollectCallTargetValidationHint(t *testing.T) {
	lex := lexicon(t)
	m := &classfile.MethodView{
		Name: "create",
		CallTargets: []classfile.CallTarget{
			{Owner: "com.ex.UserValidator", Name: "validate"},
		},
	}
	got := Collect(lex, m)
	require.Len(t, got, 1)
	require.Contains(t, got[0], "service-layer validation")
}
