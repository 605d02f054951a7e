// Package discovery filters decoded classes down to those carrying a
// recognized controller marker annotation, and their methods down to
// those carrying a recognized mapping annotation.
package discovery

import "warscope/internal/classfile"

// controllerMarkers are the class-level annotation simple names that
// mark a class as handler-bearing.
var controllerMarkers = map[string]bool{
	"Controller":            true, // the stereotype controller
	"RestController":        true, // the REST-oriented controller
	"ControllerAdvice":      true,
	"RestControllerAdvice":  true, // the global advice marker
}

// mappingAnnotations are the method-level annotation simple names that
// mark a method as a handler.
var mappingAnnotations = map[string]bool{
	"RequestMapping": true, // generic
	"GetMapping":     true,
	"PostMapping":    true,
	"PutMapping":     true,
	"DeleteMapping":  true,
	"PatchMapping":   true,
}

// IsHandlerClass reports whether cv carries a recognized controller
// marker annotation.
func IsHandlerClass(cv *classfile.ClassView) bool {
	for _, a := range cv.Annotations {
		if controllerMarkers[a.SimpleName] {
			return true
		}
	}
	return false
}

// HandlerMethods returns the subset of cv's methods that carry a
// recognized mapping annotation.
func HandlerMethods(cv *classfile.ClassView) []*classfile.MethodView {
	var out []*classfile.MethodView
	for _, m := range cv.Methods {
		if hasMappingAnnotation(m) {
			out = append(out, m)
		}
	}
	return out
}

func hasMappingAnnotation(m *classfile.MethodView) bool {
	for _, a := range m.Annotations {
		if mappingAnnotations[a.SimpleName] {
			return true
		}
	}
	return false
}

// MappingAnnotation returns the method's (or class's, called with the
// same annotation list) recognized mapping annotation, if any.
func MappingAnnotation(annotations []classfile.Annotation) (classfile.Annotation, bool) {
	for _, a := range annotations {
		if mappingAnnotations[a.SimpleName] {
			return a, true
		}
	}
	return classfile.Annotation{}, false
}

// IsVerbSpecific reports whether simpleName is one of the verb-specific
// mapping variants (as opposed to the generic RequestMapping).
func IsVerbSpecific(simpleName string) (verb string, ok bool) {
	switch simpleName {
	case "GetMapping":
		return "GET", true
	case "PostMapping":
		return "POST", true
	case "PutMapping":
		return "PUT", true
	case "DeleteMapping":
		return "DELETE", true
	case "PatchMapping":
		return "PATCH", true
	default:
		return "", false
	}
}
