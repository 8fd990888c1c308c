// ============================================================================
// ArcaneQuest (arcq) - Language Front-End
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and the service
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	CLI      = "0.1.0"
	Chomsky  = "0.1.0"
	Language = "0.1.0"
)

// Set at build time with -ldflags "-X .../version.Commit=..."
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "arcq", "cli":
		return CLI
	case "chomsky":
		return Chomsky
	case "language":
		return Language
	default:
		return Platform
	}
}

// Info describes the running binary
type Info struct {
	Component string `json:"component" yaml:"component"`
	Version   string `json:"version" yaml:"version"`
	Language  string `json:"language" yaml:"language"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get returns the build information for component
func Get(component string) Info {
	return Info{
		Component: component,
		Version:   ComponentVersion(component),
		Language:  Language,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String renders a one-line version banner
func (i Info) String() string {
	return fmt.Sprintf("%s %s (language %s, commit %s, built %s, %s)",
		i.Component, i.Version, i.Language, i.Commit, i.BuildDate, i.GoVersion)
}
