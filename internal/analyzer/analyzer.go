// Package analyzer wires the archive walker, class decoder, handler
// discovery, mapping composition, mutation classifier, and validation
// collector into the single entry point callers use to turn a WAR path
// into a Report.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warscope/internal/archive"
	"warscope/internal/classfile"
	"warscope/internal/config"
	"warscope/internal/discovery"
	"warscope/internal/mapping"
	"warscope/internal/mutation"
	"warscope/internal/report"
	"warscope/internal/tracelog"
	"warscope/internal/validation"
)

// ErrAnalysisTimeout and ErrAnalysisCancelled back the two non-decode
// fatal outcomes: both abort the run without returning a partial report.
var (
	ErrAnalysisTimeout   = fmt.Errorf("analysis timeout")
	ErrAnalysisCancelled = fmt.Errorf("analysis cancelled")
)

// decodeCacheKey identifies one class entry within a run by its origin
// (outer archive, nested jar) and entry path, so an entry that shows up
// again under the same origin and path is decoded once per run. The
// same class found under a different origin or path (e.g. both as a
// loose classes/ entry and inside a nested jar) has a different key and
// is decoded separately.
type decodeCacheKey struct {
	outer string
	inner string
	path  string
}

// Analyze is the sole entry point embedding callers (CLI, tests, any
// future HTTP surface) use. archivePath must point to a readable WAR;
// relative paths are resolved against the caller's working directory by
// the underlying os/archive/zip calls. The returned error is one of
// archive.ErrArchiveNotFound, archive.ErrArchiveOpenError,
// ErrAnalysisTimeout, or ErrAnalysisCancelled — each aborts the run
// without a partial Report.
func Analyze(ctx context.Context, archivePath string, cfg *config.Config) (*report.Report, error) {
	timeout := time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries, diag, err := archive.Walk(ctx, archivePath, cfg)
	if err != nil {
		return nil, err
	}

	cache := make(map[decodeCacheKey]*classfile.ClassView)
	var diagnostics []string
	var endpoints []report.Endpoint

	for entry := range entries {
		select {
		case <-ctx.Done():
			drain(entries)
			return nil, classifyCancellation(ctx)
		default:
		}

		key := decodeCacheKey{outer: entry.Origin.Outer, inner: entry.Origin.Inner, path: entry.Path}
		cv, ok := cache[key]
		if !ok {
			var decodeErr error
			var warnings []string
			cv, warnings, decodeErr = classfile.Decode(entry.Bytes)
			for _, w := range warnings {
				diagnostics = append(diagnostics, fmt.Sprintf("%s: %s", entry.Path, w))
			}
			if decodeErr != nil {
				tracelog.Warnf("skipping %s: %v", entry.Path, decodeErr)
				diagnostics = append(diagnostics, fmt.Sprintf("%s: %v", entry.Path, decodeErr))
				continue
			}
			cache[key] = cv
		}

		if !discovery.IsHandlerClass(cv) {
			continue
		}
		classMapping := mapping.ExtractClassMapping(cv)

		for _, m := range discovery.HandlerMethods(cv) {
			methodMapping := mapping.ExtractMethodMapping(m)
			composed := mapping.Compose(classMapping, methodMapping)

			for _, c := range composed {
				endpoints = append(endpoints, buildEndpoint(cfg, cv, m, c))
			}
		}
	}

	select {
	case <-ctx.Done():
		return nil, classifyCancellation(ctx)
	default:
	}

	if diag != nil {
		if walkErr := diag.ErrorOrNil(); walkErr != nil {
			for _, e := range diag.Errors {
				diagnostics = append(diagnostics, e.Error())
			}
		}
	}

	return report.Build(archivePath, time.Now(), endpoints, diagnostics), nil
}

func buildEndpoint(cfg *config.Config, cv *classfile.ClassView, m *classfile.MethodView, c mapping.Endpoint) report.Endpoint {
	signals := mutation.Classify(&cfg.Lexicon, m, []string{c.Verb})
	checks := validation.Collect(&cfg.Lexicon, m)

	annotationNames := make([]string, 0, len(m.Annotations))
	for _, a := range m.Annotations {
		annotationNames = append(annotationNames, "@"+a.SimpleName)
	}

	txn := report.TransactionAttributes{}
	for _, a := range m.Annotations {
		if a.SimpleName != "Transactional" {
			continue
		}
		txn.IsTransactional = true
		if v, ok := a.Values["readOnly"]; ok {
			if b, isBool := v.AsBool(); isBool {
				txn.ReadOnly = b
			}
		}
	}

	return report.Endpoint{
		APIURL:            c.Path,
		HTTPMethod:        c.Verb,
		ControllerClass:   cv.Name,
		ControllerMethod:  m.Name,
		AltersState:       signals.AltersState,
		Validation:        checks,
		MethodDetails: report.MethodDetails{
			ReturnType:            m.ReturnType,
			ParameterTypes:        m.ParameterTypes,
			Annotations:           annotationNames,
			TransactionAttributes: txn,
			Produces:              c.Produces,
			Consumes:              c.Consumes,
			JavaVersion:           cv.MajorVersion,
			Deprecated:            cv.Deprecated || m.Deprecated,
		},
		MutationSignals: report.MutationSignals{
			Verb:        signals.Verb,
			Name:        signals.Name,
			Transaction: signals.Transaction,
			Persistence: signals.Persistence,
			Repository:  signals.Repository,
			Service:     signals.Service,
			Confidence:  signals.Confidence,
		},
	}
}

func classifyCancellation(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrAnalysisTimeout
	}
	return ErrAnalysisCancelled
}

// drain empties a channel so its producer goroutine's sends do not
// block forever after the consumer has already decided to abort.
func drain(entries <-chan archive.ClassEntry) {
	for range entries {
	}
}
