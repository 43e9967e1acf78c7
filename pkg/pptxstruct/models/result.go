package models

import "encoding/json"

// ApplyResult summarizes a content-application run.
type ApplyResult struct {
	// Modified is the number of shapes whose text was replaced.
	Modified int `json:"modified"`
	// Slides is the number of slides addressed by the replacement file.
	Slides int `json:"slides"`
	// Deleted is the number of slides removed.
	Deleted int `json:"deleted"`
	// FinalSlideCount is the number of slides in the written presentation.
	FinalSlideCount int `json:"final_slide_count"`
	// SummaryAdded is true when an agenda slide was inserted.
	SummaryAdded bool `json:"summary_added,omitempty"`
	// Warnings are advisory messages with slide-N.shape-M locations.
	Warnings []string `json:"warnings,omitempty"`
}

// Status values of a validation run.
const (
	StatusPass = "PASS"
	StatusWarn = "WARN"
	StatusFail = "FAIL"
)

// Finding is one validation message.
type Finding struct {
	Type       string `json:"type"`
	Location   string `json:"location"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult collects fatal errors, warnings and informational findings.
type ValidationResult struct {
	Errors   []Finding `json:"fatal_errors"`
	Warnings []Finding `json:"warnings"`
	Info     []Finding `json:"info"`
}

// AddError records a fatal finding.
func (v *ValidationResult) AddError(typ, location, message, suggestion string) {
	v.Errors = append(v.Errors, Finding{Type: typ, Location: location, Message: message, Suggestion: suggestion})
}

// AddWarning records a non-fatal finding.
func (v *ValidationResult) AddWarning(typ, location, message, suggestion string) {
	v.Warnings = append(v.Warnings, Finding{Type: typ, Location: location, Message: message, Suggestion: suggestion})
}

// AddInfo records an informational finding.
func (v *ValidationResult) AddInfo(typ, location, message string) {
	v.Info = append(v.Info, Finding{Type: typ, Location: location, Message: message})
}

// Status returns FAIL when errors exist, WARN when only warnings exist, PASS otherwise.
func (v *ValidationResult) Status() string {
	switch {
	case len(v.Errors) > 0:
		return StatusFail
	case len(v.Warnings) > 0:
		return StatusWarn
	}
	return StatusPass
}

// ExitCode maps the status to 0 (PASS), 1 (FAIL) or 2 (WARN).
func (v *ValidationResult) ExitCode() int {
	switch v.Status() {
	case StatusFail:
		return 1
	case StatusWarn:
		return 2
	}
	return 0
}

// MarshalJSON adds status and counts to the serialized result.
func (v ValidationResult) MarshalJSON() ([]byte, error) {
	type plain ValidationResult
	for _, list := range []*[]Finding{&v.Errors, &v.Warnings, &v.Info} {
		if *list == nil {
			*list = []Finding{}
		}
	}
	return json.Marshal(struct {
		Status string `json:"status"`
		plain
		ErrorCount   int `json:"error_count"`
		WarningCount int `json:"warning_count"`
	}{
		Status:       v.Status(),
		plain:        plain(v),
		ErrorCount:   len(v.Errors),
		WarningCount: len(v.Warnings),
	})
}
