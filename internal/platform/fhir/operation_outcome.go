package fhir

import "strings"

// OperationOutcome severity levels per FHIR R4 spec.
const (
	IssueSeverityFatal = "fatal"
	IssueSeverityError = "error"
)

// OperationOutcome issue type codes per FHIR R4 spec.
const (
	IssueTypeInvalid    = "invalid"
	IssueTypeProcessing = "processing"
	IssueTypeThrottled  = "throttled"
	IssueTypeTransient  = "transient"
	IssueTypeTimeout    = "timeout"
)

// FieldError names the search parameter that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationOutcome creates an OperationOutcome for a rejected search parameter.
func ValidationOutcome(param, message string) *OperationOutcome {
	return &OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue: []OperationOutcomeIssue{
			{
				Severity:    IssueSeverityError,
				Code:        IssueTypeInvalid,
				Diagnostics: param + ": " + message,
				Expression:  []string{param},
			},
		},
	}
}

// HasErrors returns true if the outcome contains any error or fatal issues.
func (o *OperationOutcome) HasErrors() bool {
	for _, issue := range o.Issue {
		if issue.Severity == IssueSeverityError || issue.Severity == IssueSeverityFatal {
			return true
		}
	}
	return false
}

// Diagnostics joins the diagnostics of every issue that carries one.
func (o *OperationOutcome) Diagnostics() string {
	var parts []string
	for _, issue := range o.Issue {
		if issue.Diagnostics != "" {
			parts = append(parts, issue.Diagnostics)
		}
	}
	return strings.Join(parts, "; ")
}
