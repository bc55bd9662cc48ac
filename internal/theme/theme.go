// Package theme provides the Lip Gloss color palette and reusable styles
// for the game client. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Speaker colors.
var (
	ColorPlayer = lipgloss.Color("#3b82f6")
	ColorDM     = lipgloss.Color("#a855f7")
	ColorNPC    = lipgloss.Color("#10b981")
	ColorTool   = lipgloss.Color("#d97706")
	ColorSystem = lipgloss.Color("#9ca3af")
)

// Hit point bar thresholds.
var (
	ColorHPHigh = lipgloss.Color("#22c55e") // >50%
	ColorHPMid  = lipgloss.Color("#d97706") // 25-50%
	ColorHPLow  = lipgloss.Color("#dc2626") // <25%
)

// Attitude colors.
var (
	ColorFriendly = lipgloss.Color("#22c55e")
	ColorNeutral  = lipgloss.Color("#9ca3af")
	ColorHostile  = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#f59e0b")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorDefault = lipgloss.Color("#9ca3af")
)

// RoleColor returns the color for a conversation role.
func RoleColor(role string) lipgloss.Color {
	switch role {
	case "player":
		return ColorPlayer
	case "dm":
		return ColorDM
	case "npc":
		return ColorNPC
	case "tool":
		return ColorTool
	default:
		return ColorSystem
	}
}

// HPColor returns the bar color for a current/max hit point ratio.
func HPColor(pct float64) lipgloss.Color {
	switch {
	case pct < 0.25:
		return ColorHPLow
	case pct <= 0.5:
		return ColorHPMid
	default:
		return ColorHPHigh
	}
}

// AttitudeColor returns the color for an NPC attitude.
func AttitudeColor(attitude string) lipgloss.Color {
	switch strings.ToLower(attitude) {
	case "friendly", "ally":
		return ColorFriendly
	case "hostile":
		return ColorHostile
	default:
		return ColorNeutral
	}
}

// Bar renders a filled/empty bar of the given width for pct in [0,1].
func Bar(pct float64, width int, color lipgloss.Color) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct*float64(width) + 0.5)
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("░", width-filled))
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ColorAccent)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)

// RoleGlyph returns a short marker for a conversation role.
func RoleGlyph(role string) string {
	switch role {
	case "player":
		return ">"
	case "dm":
		return "◆"
	case "npc":
		return "●"
	case "tool":
		return "⚙"
	default:
		return "·"
	}
}
