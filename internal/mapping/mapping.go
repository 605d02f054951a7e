// Package mapping extracts class- and method-level mapping annotations
// into path, verb, produces, and consumes sets, then composes them into
// the concrete (url-pattern, http-verb) tuples each handler method emits.
package mapping

import (
	"strings"

	"warscope/internal/classfile"
	"warscope/internal/discovery"
)

// ClassMapping is the class-level mapping annotation's contribution:
// base paths, verbs, produces, and consumes sets (any of which may be
// empty).
type ClassMapping struct {
	Paths    []string
	Verbs    []string
	Produces []string
	Consumes []string
}

// MethodMapping is the same shape at method scope.
type MethodMapping struct {
	Paths    []string
	Verbs    []string
	Produces []string
	Consumes []string
}

// ExtractClassMapping reads the class-level mapping annotation, if any.
// A class with no mapping annotation yields an all-empty ClassMapping,
// which composition treats as contributing nothing.
func ExtractClassMapping(cv *classfile.ClassView) ClassMapping {
	ann, ok := discovery.MappingAnnotation(cv.Annotations)
	if !ok {
		return ClassMapping{}
	}
	return ClassMapping{
		Paths:    pathsOf(ann),
		Verbs:    verbsOf(ann, ""),
		Produces: stringsOf(ann, "produces"),
		Consumes: stringsOf(ann, "consumes"),
	}
}

// ExtractMethodMapping reads a handler method's mapping annotation. If
// the verb set is empty and the annotation is one of the verb-specific
// variants, the verb set becomes that single verb.
func ExtractMethodMapping(m *classfile.MethodView) MethodMapping {
	ann, ok := discovery.MappingAnnotation(m.Annotations)
	if !ok {
		return MethodMapping{}
	}
	verb, _ := discovery.IsVerbSpecific(ann.SimpleName)
	return MethodMapping{
		Paths:    pathsOf(ann),
		Verbs:    verbsOf(ann, verb),
		Produces: stringsOf(ann, "produces"),
		Consumes: stringsOf(ann, "consumes"),
	}
}

func pathsOf(ann classfile.Annotation) []string {
	if v, ok := ann.Values["value"]; ok {
		if s := v.StringValues(); len(s) > 0 {
			return s
		}
	}
	if v, ok := ann.Values["path"]; ok {
		return v.StringValues()
	}
	return nil
}

// verbsOf reads the annotation's `method` attribute (enum references
// naming RequestMethod constants); if it's empty and impliedVerb is
// non-empty (the annotation was a verb-specific variant), the implied
// verb is used instead.
func verbsOf(ann classfile.Annotation, impliedVerb string) []string {
	if v, ok := ann.Values["method"]; ok {
		verbs := v.StringValues()
		if len(verbs) > 0 {
			return verbs
		}
	}
	if impliedVerb != "" {
		return []string{impliedVerb}
	}
	return nil
}

func stringsOf(ann classfile.Annotation, key string) []string {
	if v, ok := ann.Values[key]; ok {
		return v.StringValues()
	}
	return nil
}

// Endpoint is one composed (path, verb) tuple for a handler method,
// before mutation classification or validation collection decorate it.
type Endpoint struct {
	Path     string
	Verb     string
	Produces []string
	Consumes []string
}

// Compose produces the Cartesian product of class and method paths
// crossed with the resolved verb set, applying the produces/consumes
// override rule and the documented GET fallback, and deduplicating
// identical (path, verb) pairs for the same method.
func Compose(class ClassMapping, method MethodMapping) []Endpoint {
	paths := composePaths(class.Paths, method.Paths)

	verbs := method.Verbs
	if len(verbs) == 0 {
		verbs = class.Verbs
	}
	if len(verbs) == 0 {
		// A generic mapping annotation with no verb anywhere, on either
		// class or method, defaults to GET.
		verbs = []string{"GET"}
	}

	produces := method.Produces
	if len(produces) == 0 {
		produces = class.Produces
	}
	consumes := method.Consumes
	if len(consumes) == 0 {
		consumes = class.Consumes
	}

	seen := make(map[string]bool)
	var out []Endpoint
	for _, p := range paths {
		for _, v := range verbs {
			key := p + "\x00" + v
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Endpoint{Path: p, Verb: v, Produces: produces, Consumes: consumes})
		}
	}
	return out
}

// composePaths is the Cartesian product of class base paths and method
// paths, each pair joined so exactly one slash separates them. Empty on
// both sides yields [""]; empty on one side yields the other side's
// paths unchanged except that a missing leading slash is added.
func composePaths(classPaths, methodPaths []string) []string {
	if len(classPaths) == 0 && len(methodPaths) == 0 {
		return []string{""}
	}
	if len(classPaths) == 0 {
		out := make([]string, len(methodPaths))
		for i, p := range methodPaths {
			out[i] = normalizeLeading(p)
		}
		return out
	}
	if len(methodPaths) == 0 {
		out := make([]string, len(classPaths))
		for i, p := range classPaths {
			out[i] = normalizeLeading(p)
		}
		return out
	}

	var out []string
	for _, c := range classPaths {
		for _, m := range methodPaths {
			out = append(out, joinOne(c, m))
		}
	}
	return out
}

func joinOne(base, rel string) string {
	base = strings.TrimSuffix(normalizeLeading(base), "/")
	rel = normalizeLeading(rel)
	if base == "" {
		return rel
	}
	if rel == "" || rel == "/" {
		return base
	}
	return base + rel
}

func normalizeLeading(p string) string {
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
