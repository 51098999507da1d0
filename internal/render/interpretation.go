package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/rcliao/ziwei/internal/model"
)

// Markdown formats an interpretation as a markdown document.
func Markdown(in *model.Interpretation) string {
	var b strings.Builder
	b.WriteString("## 本命格局與特點\n\n")
	b.WriteString(strings.TrimSpace(in.OverallDestiny))
	b.WriteString("\n")
	for _, p := range in.Palaces {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", p.PalaceName, strings.TrimSpace(p.Summary))
		if len(p.StarsDetail) > 0 {
			b.WriteString("\n")
		}
		for _, s := range p.StarsDetail {
			name := s.Name
			if s.Brightness != "" {
				name += "（" + s.Brightness + "）"
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", name, strings.TrimSpace(s.Influence))
		}
	}
	return b.String()
}

// Interpretation renders an interpretation for the terminal, wrapped at width.
func Interpretation(in *model.Interpretation, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(Markdown(in))
	if err != nil {
		return "", fmt.Errorf("render interpretation: %w", err)
	}
	return out, nil
}
