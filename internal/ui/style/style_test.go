package style_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/lockaudit/internal/ui/style"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity string
		want     lipgloss.Color
	}{
		{"critical", style.Red},
		{"high", style.Orange},
		{"medium", style.Yellow},
		{"low", style.Blue},
		{"none", style.Slate},
		{"bogus", style.Slate},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			assert.Equal(t, tt.want, style.SeverityColor(tt.severity))
		})
	}
}
