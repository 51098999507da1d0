package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/ziwei/internal/model"
	"github.com/rcliao/ziwei/internal/ziwei"
)

const (
	cellWidth  = 18 // terminal cells, CJK glyphs count double
	cellHeight = 8
)

// Branch layout of the conventional board: 巳午未申 across the top, 寅丑子亥
// across the bottom, 辰卯 down the left and 酉戌 down the right.
var (
	topRow    = [4]int{5, 6, 7, 8}
	bottomRow = [4]int{2, 1, 0, 11}
	leftCol   = [2]int{4, 3}
	rightCol  = [2]int{9, 10}
)

// Board draws the 12 palaces around a centre block holding the profile and
// the four transformations.
func Board(r *model.Reading, th Theme) string {
	cell := func(branch int) string {
		return palaceCell(r.Chart, r.Chart.Palaces[branch], th)
	}
	row := func(branches [4]int) string {
		cells := make([]string, len(branches))
		for i, b := range branches {
			cells[i] = cell(b)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}

	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, cell(leftCol[0]), cell(leftCol[1])),
		centerBlock(r, th),
		lipgloss.JoinVertical(lipgloss.Left, cell(rightCol[0]), cell(rightCol[1])),
	)
	return lipgloss.JoinVertical(lipgloss.Left, row(topRow), middle, row(bottomRow))
}

func palaceCell(c model.Chart, p model.Palace, th Theme) string {
	var lines []string
	for _, s := range p.MajorStars {
		lines = append(lines, starLabel(s, th.Major))
	}
	var minors []string
	for _, s := range p.MinorStars {
		minors = append(minors, starLabel(s, th.Minor))
	}
	for i := 0; i < len(minors); i += 2 {
		lines = append(lines, strings.Join(minors[i:min(i+2, len(minors))], " "))
	}
	if tags := p.Tags(); len(tags) > 0 {
		badges := make([]string, len(tags))
		for i, t := range tags {
			badges[i] = badge(t)
		}
		lines = append(lines, strings.Join(badges, " "))
	}

	body := cellHeight - 1
	if len(lines) > body {
		lines = lines[:body]
	}
	for len(lines) < body {
		lines = append(lines, "")
	}

	name := p.Name
	if p.BranchIndex == c.BodyBranch {
		name += "(身)"
	}
	left := th.Label.Render(name)
	right := th.Faint.Render(p.Stem + p.Branch)
	gap := cellWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, left+strings.Repeat(" ", gap)+right)

	style := th.Cell
	if p.BranchIndex == c.LifeBranch {
		style = th.LifeCell
	}
	return style.Width(cellWidth).Height(cellHeight).Render(strings.Join(lines, "\n"))
}

func starLabel(s model.Star, base lipgloss.Style) string {
	if s.Brightness == model.NoBrightness {
		return base.Render(s.Name)
	}
	return base.Render(s.Name) + brightnessStyle(s.Brightness).Render(string(s.Brightness))
}

func centerBlock(r *model.Reading, th Theme) string {
	lines := []string{
		th.Faint.Render("紫微斗數命盤"),
		th.Title.Render(r.Profile.Name),
		r.Profile.LunarDateTime,
		fmt.Sprintf("%s  %s", r.Profile.Gender, r.Profile.Bureau),
		"",
	}
	for _, t := range r.Chart.FourTransformations {
		lines = append(lines, badge(t.Tag)+" "+t.String())
	}

	// The centre spans two cells each way, absorbing the borders between them.
	w := 2*cellWidth + 2
	h := 2*cellHeight + 2
	return th.Center.Width(w).Height(h).Render(strings.Join(lines, "\n"))
}

// Text lists the reading palace by palace without box drawing.
func Text(r *model.Reading) string {
	var b strings.Builder
	p := r.Profile
	fmt.Fprintf(&b, "%s %s %s\n%s\n", p.Name, p.Gender, p.Bureau, p.LunarDateTime)
	fmt.Fprintf(&b, "命宮 %s  身宮 %s\n", r.Chart.LifePalace, r.Chart.BodyPalace)
	for _, t := range r.Chart.FourTransformations {
		fmt.Fprintf(&b, "%s %s\n", t.Tag, t)
	}
	b.WriteString("\n")
	// Palaces in role order, 命宮 first.
	for k := range r.Chart.Palaces {
		pal := r.Chart.Palaces[ziwei.Normalize12(r.Chart.LifeBranch-k)]
		majors := "空宮"
		if !pal.Empty() {
			majors = joinLabels(pal.MajorStars)
		}
		fmt.Fprintf(&b, "%s %s%s  %s", pal.Name, pal.Stem, pal.Branch, majors)
		if len(pal.MinorStars) > 0 {
			fmt.Fprintf(&b, " | %s", joinLabels(pal.MinorStars))
		}
		if tags := pal.Tags(); len(tags) > 0 {
			fmt.Fprintf(&b, " | %s", strings.Join(tags, " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func joinLabels(stars []model.Star) string {
	out := make([]string, len(stars))
	for i, s := range stars {
		out[i] = s.Label()
	}
	return strings.Join(out, " ")
}
