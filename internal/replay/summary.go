package replay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const summaryKeyWidth = 12

// RenderSummary formats s for a terminal. Styling is applied only when
// styled is set.
func RenderSummary(s Summary, styled bool) string {
	title := lipgloss.NewStyle()
	key := lipgloss.NewStyle().Width(summaryKeyWidth).PaddingLeft(2)
	if styled {
		title = title.Bold(true).Foreground(lipgloss.Color("#FFF9C4"))
		key = key.Faint(true)
	}

	row := func(name, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, key.Render(name), value)
	}
	lines := []string{
		title.Render("Replay summary"),
		row("frames", fmt.Sprint(s.Frames)),
		row("samples", fmt.Sprint(s.Samples)),
		row("fixations", fmt.Sprintf("%d (%.1f%%)", s.Fixations, 100*s.FixationRatio())),
		row("rejected", fmt.Sprint(s.Rejected)),
		row("configs", fmt.Sprint(s.Configs)),
	}
	if codes := formatCodes(s.ErrorCodes); codes != "" {
		lines = append(lines, row("errors", codes))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatCodes(codes map[string]int) string {
	if len(codes) == 0 {
		return ""
	}
	names := make([]string, 0, len(codes))
	for name := range codes {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, codes[name]))
	}
	return strings.Join(parts, " ")
}
