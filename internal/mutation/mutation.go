// Package mutation classifies a handler method as state-altering or not:
// a flat set of predicate functions over the decoded class/method/mapping
// data, combined by short-circuit OR for the boolean alters_state, plus
// an independent weighted confidence score. No inheritance or dispatch
// table — just tagged predicates evaluated in a fixed order.
package mutation

import (
	"strings"

	"warscope/internal/classfile"
	"warscope/internal/config"
)

// Result is the classifier's full output: the boolean, the weighted
// confidence score, and the per-signal breakdown the report package
// surfaces as a non-contractual field.
type Result struct {
	AltersState bool
	Confidence  float64
	Verb        bool
	Name        bool
	Transaction bool
	Persistence bool
	Repository  bool
	Service     bool
}

const (
	weightVerb        = 0.30
	weightName        = 0.20
	weightTransaction = 0.25
	weightPersistence = 0.20
	weightRepository  = 0.15
	weightService     = 0.10
)

// Classify runs all six signals over one handler method and its
// resolved verbs.
func Classify(lex *config.LexiconConfig, m *classfile.MethodView, verbs []string) Result {
	r := Result{
		Verb:        verbSignal(verbs),
		Name:        nameSignal(lex, m.Name),
		Transaction: transactionSignal(m.Annotations),
		Persistence: persistenceSignal(lex, m.CallTargets),
		Repository:  repositorySignal(lex, m.CallTargets),
		Service:     serviceSignal(lex, m.CallTargets),
	}

	r.AltersState = r.Verb || r.Name || r.Transaction || r.Persistence || r.Repository || r.Service

	score := 0.0
	if r.Verb {
		score += weightVerb
	}
	if r.Name {
		score += weightName
	}
	if r.Transaction {
		score += weightTransaction
	}
	if r.Persistence {
		score += weightPersistence
	}
	if r.Repository {
		score += weightRepository
	}
	if r.Service {
		score += weightService
	}
	if score > 1.0 {
		score = 1.0
	}
	r.Confidence = score

	return r
}

func verbSignal(verbs []string) bool {
	for _, v := range verbs {
		switch v {
		case "POST", "PUT", "DELETE", "PATCH":
			return true
		}
	}
	return false
}

func nameSignal(lex *config.LexiconConfig, name string) bool {
	lower := strings.ToLower(name)
	for _, token := range lex.MutatingNames {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// transactionSignal fires when a transactional annotation is present
// and its readOnly attribute is not literally true.
func transactionSignal(annotations []classfile.Annotation) bool {
	for _, a := range annotations {
		if a.SimpleName != "Transactional" {
			continue
		}
		if v, ok := a.Values["readOnly"]; ok {
			if b, isBool := v.AsBool(); isBool && b {
				return false
			}
		}
		return true
	}
	return false
}

func persistenceSignal(lex *config.LexiconConfig, targets []classfile.CallTarget) bool {
	for _, ct := range targets {
		name := strings.ToLower(ct.Name)
		for _, token := range lex.PersistenceCalls {
			if strings.Contains(name, token) {
				return true
			}
		}
	}
	return false
}

func repositorySignal(lex *config.LexiconConfig, targets []classfile.CallTarget) bool {
	for _, ct := range targets {
		owner := strings.ToLower(ct.Owner)
		if !strings.Contains(owner, "repository") && !strings.Contains(owner, "dao") {
			continue
		}
		name := strings.ToLower(ct.Name)
		for _, token := range lex.RepositoryVerbs {
			if strings.Contains(name, token) {
				return true
			}
		}
		for _, prefix := range lex.RepositoryPrefixes {
			if strings.HasPrefix(name, prefix) {
				return true
			}
		}
	}
	return false
}

func serviceSignal(lex *config.LexiconConfig, targets []classfile.CallTarget) bool {
	for _, ct := range targets {
		owner := strings.ToLower(ct.Owner)
		if !strings.Contains(owner, "service") {
			continue
		}
		name := strings.ToLower(ct.Name)
		for _, token := range lex.ServiceVerbs {
			if strings.Contains(name, token) {
				return true
			}
		}
		for _, token := range lex.ServiceOperations {
			if strings.Contains(name, token) {
				return true
			}
		}
	}
	return false
}
