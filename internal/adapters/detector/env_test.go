package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lockaudit/internal/adapters/detector"
)

func TestDetectEnvironment_CI(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
	}{
		{name: "CI=true shows progress", ciValue: "true"},
		{name: "CI=1 shows progress", ciValue: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)
			assert.Equal(t, detector.ModeShow, detector.DetectEnvironment())
		})
	}
}

func TestDetectEnvironment_NotCI(t *testing.T) {
	t.Setenv("CI", "false")

	// Under go test stderr is usually not a terminal, but a developer
	// running with -v in a terminal may see either mode.
	mode := detector.DetectEnvironment()
	assert.Contains(t, []detector.ProgressMode{detector.ModeShow, detector.ModeHide}, mode)
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		auto     detector.ProgressMode
		flag     string
		expected detector.ProgressMode
	}{
		{"always overrides hide", detector.ModeHide, "always", detector.ModeShow},
		{"never overrides show", detector.ModeShow, "never", detector.ModeHide},
		{"auto keeps detection", detector.ModeHide, "auto", detector.ModeHide},
		{"empty keeps detection", detector.ModeShow, "", detector.ModeShow},
		{"unknown keeps detection", detector.ModeShow, "sometimes", detector.ModeShow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveMode(tt.auto, tt.flag))
		})
	}
}
