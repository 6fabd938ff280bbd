package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/tbd/pkg/export"
	"github.com/dd0wney/tbd/pkg/psi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyles = map[string]lipgloss.Style{
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		"FATAL": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true).Underline(true),
	}
)

func status(s string) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(s)
	}
	return s
}

func renderSummary(r *export.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render("tbd run "+r.RunID), status(r.Status))
	fmt.Fprintf(&b, "%d edges, %d surfaces, %d derated\n", r.Summary.Edges, r.Summary.Surfaces, r.Summary.Derated)
	fmt.Fprintf(&b, "heat loss %.3f W/K", r.Summary.HeatLoss)
	if r.Summary.Unapportioned != 0 {
		fmt.Fprintf(&b, " (%.3f W/K unapportioned)", r.Summary.Unapportioned)
	}

	var types strings.Builder
	types.WriteString(headerStyle.Render(fmt.Sprintf("%-22s %10s", "edge type", "W/K")))
	for _, t := range slices.Sorted(maps.Keys(r.Summary.ByType)) {
		fmt.Fprintf(&types, "\n%-22s %10.3f", t, r.Summary.ByType[t])
	}

	var surfaces strings.Builder
	surfaces.WriteString(headerStyle.Render(fmt.Sprintf("%-24s %8s %7s %7s %8s", "surface", "W/K", "R", "R'", "ratio %")))
	for _, s := range r.Surfaces {
		line := fmt.Sprintf("%-24s %8.3f %7.3f %7.3f %8.1f", s.ID, s.HeatLoss, s.R, s.RevisedR, s.Ratio)
		if !s.Applied {
			line = mutedStyle.Render(line)
		}
		surfaces.WriteString("\n" + line)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(b.String()),
		lipgloss.JoinHorizontal(lipgloss.Top, boxStyle.Render(types.String()), boxStyle.Render(surfaces.String())),
	)
}

func renderLibrary(lib *psi.Library, building string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-36s %6s  %s", "PSI set", "types", "")))
	for _, s := range lib.PSIs() {
		fmt.Fprintf(&b, "\n%-36s %6d  %s", s.ID, len(s.Values), mutedStyle.Render(marker(s.ID, building)))
	}
	var k strings.Builder
	k.WriteString(headerStyle.Render(fmt.Sprintf("%-36s %8s", "KHI", "W/K")))
	for _, p := range lib.KHIs() {
		fmt.Fprintf(&k, "\n%-36s %8.3f", p.ID, p.Value)
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxStyle.Render(b.String()), boxStyle.Render(k.String()))
}

func renderSet(s *psi.Set) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.ID))
	keys := make([]string, 0, len(s.Values))
	for t := range s.Values {
		keys = append(keys, string(t))
	}
	slices.Sort(keys)
	for _, t := range keys {
		fmt.Fprintf(&b, "\n%-22s %8.3f", t, s.Values[psi.Type(t)])
	}
	if missing := s.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, t := range missing {
			names[i] = string(t)
		}
		b.WriteString("\n" + mutedStyle.Render("missing: "+strings.Join(names, ", ")))
	}
	return boxStyle.Render(b.String())
}
