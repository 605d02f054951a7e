package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"warscope/internal/classfile"
)

func TestIsHandlerClassRecognizesRestController(t *testing.T) {
	cv := &classfile.ClassView{Annotations: []classfile.Annotation{{SimpleName: "RestController"}}}
	require.True(t, IsHandlerClass(cv))
}

func TestIsHandlerClassRejectsPlainClass(t *testing.T) {
	cv := &classfile.ClassView{Annotations: []classfile.Annotation{{SimpleName: "Component"}}}
	require.False(t, IsHandlerClass(cv))
}

func TestHandlerMethodsFiltersByMappingAnnotation(t *testing.T) {
	cv := &classfile.ClassView{
		Methods: []*classfile.MethodView{
			{Name: "list", Annotations: []classfile.Annotation{{SimpleName: "GetMapping"}}},
			{Name: "helper"},
		},
	}
	got := HandlerMethods(cv)
	require.Len(t, got, 1)
	require.Equal(t, "list", got[0].Name)
}

func TestIsVerbSpecific(t *testing.T) {
	verb, ok := IsVerbSpecific("PostMapping")
	require.True(t, ok)
	require.Equal(t, "POST", verb)

	_, ok = IsVerbSpecific("RequestMapping")
	require.False(t, ok)
}

func TestMappingAnnotationReturnsFirstMatch(t *testing.T) {
	anns := []classfile.Annotation{
		{SimpleName: "Deprecated"},
		{SimpleName: "PutMapping"},
	}
	ann, ok := MappingAnnotation(anns)
	require.True(t, ok)
	require.Equal(t, "PutMapping", ann.SimpleName)
}
