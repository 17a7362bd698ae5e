// =============================================================================
// Itinerary Processor - Diagnostics and Errors
// =============================================================================
//
// Spreadsheet input is untrusted and often partially malformed. The pipeline
// never fails on bad content; it skips or defaults and records what it did.
//
// ERROR HANDLING:
//   - Content problems are collected as Diagnostics, not returned as errors
//   - Each diagnostic carries the original grid row index and a reason code
//   - Only structural violations produce a *ProcessingError
//
// =============================================================================

package itinerary

import (
	"fmt"
	"strings"
)

// Reason is a machine-readable diagnostic code.
type Reason string

const (
	ReasonMissingDay         Reason = "missing_day"
	ReasonMissingCity        Reason = "missing_city"
	ReasonMissingDescription Reason = "missing_description"
	ReasonHeaderRow          Reason = "header_row"
	ReasonInvalidTiming      Reason = "invalid_timing"
)

// Diagnostic describes one skipped row or ignored value.
type Diagnostic struct {
	// Row is the 0-based index in the input grid. -1 when unknown, as for
	// duration warnings computed from items that no longer carry row indices.
	Row int `json:"row"`

	// Reason is the diagnostic code.
	Reason Reason `json:"reason"`

	// Detail is a human-readable explanation.
	Detail string `json:"detail,omitempty"`
}

// String formats the diagnostic for logs.
func (d Diagnostic) String() string {
	if d.Row < 0 {
		return fmt.Sprintf("%s: %s", d.Reason, d.Detail)
	}
	return fmt.Sprintf("row %d: %s: %s", d.Row+1, d.Reason, d.Detail)
}

// CountByReason tallies diagnostics per reason.
func CountByReason(diags []Diagnostic) map[Reason]int {
	counts := make(map[Reason]int)
	for _, d := range diags {
		counts[d.Reason]++
	}
	return counts
}

// FormatDiagnostics renders diagnostics one per line for logs.
func FormatDiagnostics(diags []Diagnostic) string {
	if len(diags) == 0 {
		return "No diagnostics."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processing completed with %d diagnostic(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.String())
	}
	return b.String()
}

// =============================================================================
// PROCESSING ERROR
// =============================================================================

// ProcessingError reports input the pipeline cannot interpret at all.
// Callers usually surface it as a generic "could not process file" message.
type ProcessingError struct {
	// Op names the stage that failed, e.g. "process" or "load".
	Op string

	// Source is the file or stream being processed, if known.
	Source string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("could not process %s: %s: %v", e.Source, e.Op, e.Err)
	}
	return fmt.Sprintf("could not process itinerary: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}
