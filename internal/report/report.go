// Package report defines the stable wire contract the analyzer emits
// and the rollup-summary computation over a run's endpoints. Field
// names here are fixed by the contract other tooling consumes.
package report

import "time"

// CanonicalVerbs lists the seven HTTP verbs the report's histogram
// always covers, in the declared order.
var CanonicalVerbs = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"}

// TransactionAttributes surfaces whether a handler participates in a
// transaction and, if so, whether it is read-only.
type TransactionAttributes struct {
	IsTransactional bool `json:"is_transactional"`
	ReadOnly        bool `json:"read_only"`
}

// MethodDetails is the additional descriptive block attached to every
// endpoint.
type MethodDetails struct {
	ReturnType           string                `json:"return_type"`
	ParameterTypes       []string              `json:"parameter_types"`
	Annotations          []string              `json:"annotations"`
	TransactionAttributes TransactionAttributes `json:"transaction_attributes"`
	Produces             []string              `json:"produces"`
	Consumes             []string              `json:"consumes"`

	// JavaVersion and Deprecated are informational fields carried from
	// the class-file major version and the Deprecated attribute. Neither
	// affects alters_state or validation, and both are additive to the
	// stable contract.
	JavaVersion int  `json:"java_version"`
	Deprecated  bool `json:"deprecated"`
}

// Endpoint is one (class, method, verb, path) tuple produced by mapping
// composition, decorated with the mutation classifier's and validation
// collector's findings.
type Endpoint struct {
	APIURL           string        `json:"api_url"`
	HTTPMethod       string        `json:"http_method"`
	ControllerClass  string        `json:"controller_class"`
	ControllerMethod string        `json:"controller_method"`
	AltersState      bool          `json:"alters_state"`
	Validation       []string      `json:"validation"`
	MethodDetails    MethodDetails `json:"method_details"`

	// MutationSignals is additive — not part of the stable contract —
	// exposing which of the six mutation signals fired and the weighted
	// confidence score behind AltersState.
	MutationSignals MutationSignals `json:"-"`
}

// MutationSignals is the non-contractual per-signal breakdown behind
// AltersState, kept off the JSON wire but available to embedding
// callers that want to see why a handler was classified as mutating.
type MutationSignals struct {
	Verb        bool    `json:"verb"`
	Name        bool    `json:"name"`
	Transaction bool    `json:"transaction"`
	Persistence bool    `json:"persistence"`
	Repository  bool    `json:"repository"`
	Service     bool    `json:"service"`
	Confidence  float64 `json:"confidence"`
}

// Summary is the rollup over every endpoint in a Report.
type Summary struct {
	StateAlteringAPIs       int            `json:"state_altering_apis"`
	ReadOnlyAPIs            int            `json:"read_only_apis"`
	ValidatedAPIs           int            `json:"validated_apis"`
	ControllerClasses       int            `json:"controller_classes"`
	HTTPMethodsDistribution map[string]int `json:"http_methods_distribution"`
}

// Report is the sole artifact the analyzer produces for one analysis
// request.
type Report struct {
	WARFileName     string    `json:"war_file_name"`
	AnalysisDate    time.Time `json:"analysis_date"`
	TotalAPIs       int       `json:"total_apis"`
	AnalysisSummary Summary   `json:"analysis_summary"`
	APIs            []Endpoint `json:"apis"`

	// Diagnostics aggregates every per-entry DecodeError/skip message
	// accumulated during the run, so embedding callers can inspect what
	// was skipped without the run itself failing.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Build assembles the Report entity from a flat endpoint list, computing
// the summary rollup over those endpoints.
func Build(warFileName string, analysisDate time.Time, endpoints []Endpoint, diagnostics []string) *Report {
	summary := Summary{
		HTTPMethodsDistribution: make(map[string]int, len(CanonicalVerbs)),
	}
	for _, v := range CanonicalVerbs {
		summary.HTTPMethodsDistribution[v] = 0
	}

	controllers := make(map[string]struct{})
	for _, ep := range endpoints {
		if ep.AltersState {
			summary.StateAlteringAPIs++
		} else {
			summary.ReadOnlyAPIs++
		}
		if len(ep.Validation) > 0 {
			summary.ValidatedAPIs++
		}
		controllers[ep.ControllerClass] = struct{}{}
		if _, ok := summary.HTTPMethodsDistribution[ep.HTTPMethod]; ok {
			summary.HTTPMethodsDistribution[ep.HTTPMethod]++
		}
	}
	summary.ControllerClasses = len(controllers)

	return &Report{
		WARFileName:     warFileName,
		AnalysisDate:    analysisDate,
		TotalAPIs:       len(endpoints),
		AnalysisSummary: summary,
		APIs:            endpoints,
		Diagnostics:     diagnostics,
	}
}
