// Package render draws readings for the terminal.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/ziwei/internal/model"
)

// Theme holds the styles used to draw a board.
type Theme struct {
	Cell     lipgloss.Style
	LifeCell lipgloss.Style
	Center   lipgloss.Style
	Title    lipgloss.Style
	Major    lipgloss.Style
	Minor    lipgloss.Style
	Label    lipgloss.Style
	Faint    lipgloss.Style
}

// DefaultTheme returns the board styles.
func DefaultTheme() Theme {
	return Theme{
		Cell: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("178")),
		LifeCell: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("160")),
		Center: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("178")).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center),
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Major: lipgloss.NewStyle().Bold(true),
		Minor: lipgloss.NewStyle().Foreground(lipgloss.Color("189")),
		Label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Faint: lipgloss.NewStyle().Faint(true),
	}
}

// brightness colours strong, middling and weak positions differently.
func brightnessStyle(b model.Brightness) lipgloss.Style {
	switch b {
	case model.Temple, model.Prosperous:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	case model.Gain, model.Favorable, model.Level:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
}

var badgeColors = map[string]string{
	model.HuaLu:   "28",
	model.HuaQuan: "25",
	model.HuaKe:   "91",
	model.HuaJi:   "160",
}

// badge renders a transformation tag as its one-character short form.
func badge(tag string) string {
	short := []rune(tag)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color(badgeColors[tag])).
		Render(string(short[len(short)-1]))
}
