// Package validation collects validation evidence for a handler method:
// method-level annotations, per-parameter annotations, and call-target
// name hints, each emitting human-readable descriptors that are
// deduplicated and sorted per endpoint.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"warscope/internal/classfile"
	"warscope/internal/config"
)

var beanValidationLexicon = map[string]bool{
	"Valid": true, "Validated": true, "NotNull": true, "NotEmpty": true,
	"NotBlank": true, "Size": true, "Min": true, "Max": true, "Pattern": true,
	"Email": true, "Positive": true, "Negative": true, "PositiveOrZero": true,
	"NegativeOrZero": true, "DecimalMin": true, "DecimalMax": true,
	"Digits": true, "Future": true, "Past": true, "FutureOrPresent": true,
	"PastOrPresent": true, "AssertTrue": true, "AssertFalse": true,
}

var bodyBindingAnnotations = map[string]bool{
	"RequestBody": true, "ModelAttribute": true, "RequestPart": true,
}

var paramBindingAnnotations = map[string]bool{
	"PathVariable": true, "RequestParam": true, "RequestHeader": true,
	"CookieValue": true,
}

var customValidationTokens = []string{"validation", "constraint", "validator"}

// Collect walks a handler method's annotations, parameter annotations,
// and call targets, emitting the full set of validation descriptors. The
// result is deduplicated and sorted lexicographically.
func Collect(lex *config.LexiconConfig, m *classfile.MethodView) []string {
	var out []string

	for _, a := range m.Annotations {
		out = append(out, methodLevelDescriptors(a)...)
	}

	for pos, anns := range m.ParameterAnnotations {
		for _, a := range anns {
			out = append(out, parameterDescriptors(pos, a)...)
		}
	}

	for _, ct := range m.CallTargets {
		if d, ok := callTargetDescriptor(lex, ct); ok {
			out = append(out, d)
		}
	}

	return dedupeSorted(out)
}

func methodLevelDescriptors(a classfile.Annotation) []string {
	if a.SimpleName == "Valid" || a.SimpleName == "Validated" {
		return []string{fmt.Sprintf("@%s on method enables parameter cascade validation", a.SimpleName)}
	}
	lower := strings.ToLower(a.TypeName)
	for _, token := range customValidationTokens {
		if strings.Contains(lower, token) {
			return []string{fmt.Sprintf("custom validation annotation @%s", a.SimpleName)}
		}
	}
	return nil
}

func parameterDescriptors(pos int, a classfile.Annotation) []string {
	param := fmt.Sprintf("param%d", pos)

	if beanValidationLexicon[a.SimpleName] {
		return []string{fmt.Sprintf("@%s on parameter '%s'", a.SimpleName, param)}
	}
	if bodyBindingAnnotations[a.SimpleName] {
		return []string{fmt.Sprintf("@%s on parameter '%s' enables request-body validation", a.SimpleName, param)}
	}
	if paramBindingAnnotations[a.SimpleName] {
		return []string{fmt.Sprintf("@%s on parameter '%s' is a binding with potential validation", a.SimpleName, param)}
	}
	return nil
}

func callTargetDescriptor(lex *config.LexiconConfig, ct classfile.CallTarget) (string, bool) {
	name := strings.ToLower(ct.Name)
	for _, token := range lex.ValidationCalls {
		if strings.Contains(name, token) {
			return fmt.Sprintf("service-layer validation via call to %s.%s", ct.Owner, ct.Name), true
		}
	}
	return "", false
}

func dedupeSorted(descriptors []string) []string {
	seen := make(map[string]bool, len(descriptors))
	out := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
