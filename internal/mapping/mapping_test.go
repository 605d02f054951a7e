package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeSingleClassAndMethodPath(t *testing.T) {
	class := ClassMapping{Paths: []string{"/a/"}}
	method := MethodMapping{Paths: []string{"/x"}, Verbs: []string{"GET"}}
	got := Compose(class, method)
	require.Len(t, got, 1)
	require.Equal(t, "/a/x", got[0].Path)
	require.Equal(t, "GET", got[0].Verb)
}

func TestComposeCartesianProductOfPathsAndVerbs(t *testing.T) {
	class := ClassMapping{Paths: []string{"/a", "/b"}}
	method := MethodMapping{Paths: []string{"/x", "/y"}, Verbs: []string{"GET", "POST"}}
	got := Compose(class, method)
	require.Len(t, got, 8)
}

func TestComposeVerbFallbackToClassThenGet(t *testing.T) {
	class := ClassMapping{Paths: []string{"/a"}, Verbs: []string{"POST"}}
	method := MethodMapping{Paths: []string{"/x"}}
	got := Compose(class, method)
	require.Len(t, got, 1)
	require.Equal(t, "POST", got[0].Verb)

	class2 := ClassMapping{Paths: []string{"/a"}}
	got2 := Compose(class2, method)
	require.Len(t, got2, 1)
	require.Equal(t, "GET", got2[0].Verb)
}

func TestComposeMethodProducesOverridesClass(t *testing.T) {
	class := ClassMapping{Paths: []string{"/a"}, Produces: []string{"application/xml"}}
	method := MethodMapping{Paths: []string{"/x"}, Verbs: []string{"GET"}, Produces: []string{"application/json"}}
	got := Compose(class, method)
	require.Equal(t, []string{"application/json"}, got[0].Produces)
}

func TestComposeNoPathsOnEitherSideYieldsEmptyPath(t *testing.T) {
	got := Compose(ClassMapping{}, MethodMapping{Verbs: []string{"GET"}})
	require.Len(t, got, 1)
	require.Equal(t, "", got[0].Path)
}

func TestComposeDeduplicatesIdenticalPathVerbPairs(t *testing.T) {
	class := ClassMapping{Paths: []string{"/a"}}
	method := MethodMapping{Paths: []string{"/a"}, Verbs: []string{"GET", "GET"}}
	got := Compose(class, method)
	require.Len(t, got, 1)
}
