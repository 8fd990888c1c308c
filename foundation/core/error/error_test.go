// File: error_test.go
// Title: Error Module Tests
// Description: Tests error creation, wrapping, codes, severity, chain
//              helpers and serialization.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial tests

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("history store unavailable")

	if err.Error() != "history store unavailable" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
	frames := err.StackTrace()
	if len(frames) == 0 || !strings.Contains(frames[0].Function, "TestNew") {
		t.Errorf("first frame should be the caller, got %+v", frames)
	}
}

func TestNewf(t *testing.T) {
	err := Newf("source is %d bytes, limit %d", 2048, 1024)
	if err.Error() != "source is 2048 bytes, limit 1024" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "record run",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("disk full"),
			message:  "record run",
			wantMsg:  "record run: disk full",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap structured error",
			err:      New("database is locked").WithCode(CodeStorage),
			message:  "record run",
			wantMsg:  "record run: database is locked",
			wantCode: CodeStorage,
		},
		{
			name:     "wrap structured error behind fmt",
			err:      fmt.Errorf("query: %w", New("bad config").WithCode(CodeInvalidConfig)),
			message:  "load",
			wantMsg:  "load: query: bad config",
			wantCode: CodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped cause")
			}
		})
	}
}

func TestWrap_InheritsDetails(t *testing.T) {
	inner := New("not found").WithCode(CodeNotFound).WithDetail("run_id", "abc").WithRequestID("req-1")
	outer := Wrap(inner, "history lookup").WithDetail("operation", "get")

	details := outer.Details()
	if details["run_id"] != "abc" || details["operation"] != "get" {
		t.Errorf("Details() = %v", details)
	}
	if outer.RequestID() != "req-1" {
		t.Errorf("RequestID() = %q", outer.RequestID())
	}
	if outer.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want low", outer.Severity())
	}
	if outer.RootCause() != error(inner) {
		t.Errorf("RootCause() = %v", outer.RootCause())
	}
	if outer.Message() != "history lookup" {
		t.Errorf("Message() = %q", outer.Message())
	}
}

func TestWithCode_Severity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeSourceTooLarge, SeverityLow},
		{CodeStorage, SeverityHigh},
		{CodeTransport, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeTimeout, SeverityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := New("x").WithCode(tt.code).Severity(); got != tt.want {
				t.Errorf("severity = %v, want %v", got, tt.want)
			}
		})
	}

	explicit := New("x").WithSeverity(SeverityCritical).WithCode(CodeSyntax)
	if explicit.Severity() != SeverityCritical {
		t.Error("WithCode overrode an explicit severity")
	}
}

func TestHasCode(t *testing.T) {
	base := New("locked").WithCode(CodeStorage)
	chain := fmt.Errorf("outer: %w", Wrap(base, "middle").WithCode(CodeInternal))

	if !HasCode(chain, CodeStorage) || !HasCode(chain, CodeInternal) {
		t.Error("HasCode should search the whole chain")
	}
	if HasCode(chain, CodeSyntax) || HasCode(nil, CodeStorage) {
		t.Error("HasCode matched a missing code")
	}
	if GetCode(chain) != CodeInternal {
		t.Errorf("GetCode() = %v, want outermost code", GetCode(chain))
	}
	if GetCode(errors.New("plain")) != CodeUnknown || GetSeverity(errors.New("plain")) != SeverityMedium {
		t.Error("plain errors should map to defaults")
	}
	if !errors.Is(chain, New("any").WithCode(CodeStorage)) {
		t.Error("errors.Is should match by code")
	}
	if errors.Is(chain, New("any")) {
		t.Error("an unknown code must not match")
	}
}

func TestCode_Category(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeLexical, "analysis"},
		{CodeSemantic, "analysis"},
		{CodeStorage, "storage"},
		{CodeTransport, "service"},
		{CodeInvalidConfig, "configuration"},
		{CodeSourceTooLarge, "validation"},
		{CodeInternal, "generic"},
	}
	for _, tt := range tests {
		if got := tt.code.Category(); got != tt.want {
			t.Errorf("%s.Category() = %q, want %q", tt.code, got, tt.want)
		}
		if !tt.code.IsValid() {
			t.Errorf("%s.IsValid() = false", tt.code)
		}
	}
	if Code("TCOL_SYNTAX").IsValid() {
		t.Error("unknown code reported valid")
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s     Severity
		want  string
		alert bool
	}{
		{SeverityLow, "low", false},
		{SeverityMedium, "medium", false},
		{SeverityHigh, "high", true},
		{SeverityCritical, "critical", true},
		{Severity(9), "unknown", true},
	}
	for _, tt := range tests {
		if tt.s.String() != tt.want || tt.s.ShouldAlert() != tt.alert {
			t.Errorf("Severity(%d) = %q alert=%v", tt.s, tt.s.String(), tt.s.ShouldAlert())
		}
	}
}

func TestError_StringAndJSON(t *testing.T) {
	err := Wrap(errors.New("EOF"), "read source").
		WithCode(CodeInvalidInput).
		WithOperation("cli.check").
		WithDetail("file", "quest.aq").
		WithDetail("bytes", 0)

	s := err.String()
	for _, want := range []string{"Error: read source", "Code: INVALID_INPUT", "Operation: cli.check", "Details: {bytes=0, file=quest.aq}", "Cause: EOF"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal() error = %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal() error = %v", jerr)
	}
	if decoded["code"] != "INVALID_INPUT" || decoded["operation"] != "cli.check" || decoded["cause"] != "EOF" {
		t.Errorf("json = %s", data)
	}
}
