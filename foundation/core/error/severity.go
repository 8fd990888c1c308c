// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that callers can tell
//              rejected input apart from failures of arcq itself.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial severity levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks problems in the analyzed program or the request
	SeverityLow Severity = iota
	// SeverityMedium is the default for unclassified errors
	SeverityMedium
	// SeverityHigh marks failures of a dependency such as the history store
	SeverityHigh
	// SeverityCritical marks broken invariants and corrupted data
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should be surfaced to
// operators
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for a code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal, CodeDataCorruption:
		return SeverityCritical
	case CodeStorage, CodeConnectionFailed, CodeServiceUnavailable, CodeTransport:
		return SeverityHigh
	case CodeLexical, CodeSyntax, CodeSemantic,
		CodeInvalidInput, CodeRequiredField, CodeSourceTooLarge, CodeNotFound,
		CodeInvalidConfig, CodeMissingConfig:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
