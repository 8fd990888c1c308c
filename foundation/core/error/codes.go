// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across arcq: front-end analysis
//              outcomes, configuration, run history storage, the language
//              service transport and request validation.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial error codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"
	CodeCanceled     Code = "CANCELED"

	// Front-end analysis
	CodeLexical  Code = "LEXICAL_ERROR"
	CodeSyntax   Code = "SYNTAX_ERROR"
	CodeSemantic Code = "SEMANTIC_ERROR"

	// Run history storage
	CodeStorage          Code = "STORAGE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeDataCorruption   Code = "DATA_CORRUPTION"

	// Language service
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTransport          Code = "TRANSPORT_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Request validation
	CodeRequiredField  Code = "REQUIRED_FIELD"
	CodeSourceTooLarge Code = "SOURCE_TOO_LARGE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout, CodeCanceled,
		CodeLexical, CodeSyntax, CodeSemantic,
		CodeStorage, CodeConnectionFailed, CodeDataCorruption,
		CodeServiceUnavailable, CodeTransport,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeRequiredField, CodeSourceTooLarge:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeSyntax, CodeSemantic:
		return "analysis"
	case CodeStorage, CodeConnectionFailed, CodeDataCorruption:
		return "storage"
	case CodeServiceUnavailable, CodeTransport:
		return "service"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeInvalidInput, CodeRequiredField, CodeSourceTooLarge:
		return "validation"
	default:
		return "generic"
	}
}
