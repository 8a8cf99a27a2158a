package output

import (
	"fmt"
	"strings"
)

// StatusBadge returns a styled label for a delivery status string.
func StatusBadge(status string) string {
	switch status {
	case "success":
		return StyleSuccess.Render("✓ sent")
	case "shared":
		return StyleSuccess.Render("✓ shared")
	case "failed":
		return StyleError.Render("✗ failed")
	case "pending":
		return StyleWarning.Render("… pending")
	default:
		return StyleMuted.Render("—")
	}
}

// PhaseBar renders a proportion bar for a phase's share of the night.
// Example: "██████░░░░░░░░░░░░░░ 32%"
func PhaseBar(fraction float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := StyleMuted.Render(fmt.Sprintf("%.0f%%", fraction*100))
	return fmt.Sprintf("%s %s", StyleBold.Render(bar), pct)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
