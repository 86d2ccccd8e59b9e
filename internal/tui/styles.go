package tui

import (
	"lambdaf-dashboard/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorRed    = lipgloss.Color("9")
	colorOrange = lipgloss.Color("214")
	colorGreen  = lipgloss.Color("10")
	colorMuted  = lipgloss.Color("245")
	colorAccent = lipgloss.Color("63")
)

// Styles is bound to one renderer so each SSH session gets its own color
// profile.
type Styles struct {
	Title     lipgloss.Style
	Caption   lipgloss.Style
	Warning   lipgloss.Style
	Notice    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	DeltaUp   lipgloss.Style
	DeltaDown lipgloss.Style
	DeltaFlat lipgloss.Style
	Critical  lipgloss.Style
	Risky     lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Panel     lipgloss.Style
	Bar       lipgloss.Style
}

func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Title:     r.NewStyle().Bold(true).Foreground(colorAccent),
		Caption:   r.NewStyle().Foreground(colorMuted).Italic(true),
		Warning:   r.NewStyle().Foreground(colorOrange),
		Notice:    r.NewStyle().Foreground(colorOrange).Bold(true),
		Label:     r.NewStyle().Foreground(colorMuted),
		Value:     r.NewStyle().Bold(true),
		DeltaUp:   r.NewStyle().Foreground(colorRed),
		DeltaDown: r.NewStyle().Foreground(colorGreen),
		DeltaFlat: r.NewStyle().Foreground(colorMuted),
		Critical:  r.NewStyle().Foreground(colorRed).Bold(true),
		Risky:     r.NewStyle().Foreground(colorOrange).Bold(true),
		Normal:    r.NewStyle().Foreground(colorGreen).Bold(true),
		Muted:     r.NewStyle().Foreground(colorMuted),
		TabActive: r.NewStyle().Bold(true).Underline(true).Padding(0, 1),
		Tab:       r.NewStyle().Foreground(colorMuted).Padding(0, 1),
		Panel:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
		Bar:       r.NewStyle().Foreground(colorAccent),
	}
}

func (s Styles) tier(t domain.Tier) lipgloss.Style {
	switch t {
	case domain.TierCritical:
		return s.Critical
	case domain.TierRisky:
		return s.Risky
	default:
		return s.Normal
	}
}

func (s Styles) delta(color string) lipgloss.Style {
	switch color {
	case "red":
		return s.DeltaUp
	case "green":
		return s.DeltaDown
	default:
		return s.DeltaFlat
	}
}
