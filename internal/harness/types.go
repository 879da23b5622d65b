package harness

import (
	"fmt"
	"strings"
)

// OutcomeOK is the outcome of a step that succeeded.
const OutcomeOK = "ok"

// StepResult records what one step did.
type StepResult struct {
	Step    int    `json:"step"`
	Op      string `json:"op"`
	Outcome string `json:"outcome"` // OutcomeOK or an error code
	ID      int64  `json:"id,omitempty"`
	Total   string `json:"total,omitempty"`
	Stock   *int64 `json:"stock,omitempty"`
}

// String renders the step as one trace line, e.g.
// "2 record_sale ok id=1 total=30.00 stock=2".
func (r StepResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s %s", r.Step, r.Op, r.Outcome)
	if r.ID != 0 {
		fmt.Fprintf(&b, " id=%d", r.ID)
	}
	if r.Total != "" {
		fmt.Fprintf(&b, " total=%s", r.Total)
	}
	if r.Stock != nil {
		fmt.Fprintf(&b, " stock=%d", *r.Stock)
	}
	return b.String()
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every step matched its expectation and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains one entry per executed step, in order.
	Trace []StepResult `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Exports holds the final CSV export of each collection, keyed by
	// collection name.
	Exports map[string]string `json:"exports"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []StepResult{},
		Errors:  []string{},
		Exports: make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step to the trace.
func (r *Result) AddStep(step StepResult) {
	r.Trace = append(r.Trace, step)
}
