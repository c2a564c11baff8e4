// Package detector decides whether progress output is shown.
package detector

import (
	"os"

	"golang.org/x/term"
)

// ProgressMode selects whether batch progress is rendered.
type ProgressMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto ProgressMode = iota
	// ModeShow renders progress lines on stderr.
	ModeShow
	// ModeHide suppresses progress output.
	ModeHide
)

// DetectEnvironment shows progress when stderr is a terminal or a CI
// environment variable is set, and hides it when stderr is piped elsewhere.
func DetectEnvironment() ProgressMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if isTTY || isCI {
		return ModeShow
	}
	return ModeHide
}

// ResolveMode applies the --progress flag to auto-detection.
// userFlag should be one of: "auto", "always", "never", or empty.
func ResolveMode(autoDetected ProgressMode, userFlag string) ProgressMode {
	switch userFlag {
	case "always":
		return ModeShow
	case "never":
		return ModeHide
	default:
		return autoDetected
	}
}
