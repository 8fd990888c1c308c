package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"CLI", CLI},
		{"Chomsky", Chomsky},
		{"Language", Language},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"arcq", CLI},
		{"cli", CLI},
		{"chomsky", Chomsky},
		{"language", Language},
		{"unknown", Platform},
		{"", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComponentVersion(tt.name); got != tt.expected {
				t.Errorf("ComponentVersion(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestGet(t *testing.T) {
	info := Get("chomsky")
	if info.Component != "chomsky" || info.Version != Chomsky || info.Commit != Commit {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && info.GoVersion != "devel" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if s := info.String(); !strings.HasPrefix(s, "chomsky "+Chomsky+" (language ") {
		t.Errorf("String() = %q", s)
	}
}
