package format

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// Tier colours: high, medium and low risk.
var tierColors = map[assessment.Tier]lipgloss.Color{
	assessment.TierCritical:   lipgloss.Color("#ff4b4b"),
	assessment.TierModerate:   lipgloss.Color("#ffa500"),
	assessment.TierAcceptable: lipgloss.Color("#00cc96"),
}

// TierBadge renders the tier label as a bold coloured badge. Colour is
// dropped automatically when the output is not a terminal.
func TierBadge(t assessment.Tier) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if c, ok := tierColors[t]; ok {
		style = style.Foreground(lipgloss.Color("#ffffff")).Background(c)
	}
	return style.Render(t.Label())
}
