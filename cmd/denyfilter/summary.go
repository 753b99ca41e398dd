package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	orchestrators "github.com/ochairo/denyfilter/internal/domain-orchestrators"
	"github.com/ochairo/denyfilter/internal/domain/entities"
)

type summaryStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	box   lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		label: r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#3FB950")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#D29922")),
		fail:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
	}
}

// renderSummary prints a boxed overview of a filter run
func renderSummary(w io.Writer, result *orchestrators.FilterResult) {
	st := newSummaryStyles(w)

	counts := map[entities.Disposition]int{}
	for _, o := range result.Outcomes {
		counts[o.Disposition]++
	}

	lines := []string{
		st.title.Render("denyfilter"),
		st.label.Render("list:       ") + listLine(result.List),
		st.label.Render("references: ") + fmt.Sprintf("%d", len(result.Filtered)),
		st.label.Render("allowed:    ") + fmt.Sprintf("%d", len(result.Filtered)-counts[entities.DeniedFixed]-counts[entities.DeniedUnfixed]),
		st.label.Render("redirected: ") + st.ok.Render(fmt.Sprintf("%d", counts[entities.DeniedFixed])),
	}

	unresolved := fmt.Sprintf("%d", counts[entities.DeniedUnfixed])
	if counts[entities.DeniedUnfixed] > 0 {
		unresolved = st.warn.Render(unresolved)
	}
	lines = append(lines, st.label.Render("unresolved: ")+unresolved)

	for _, o := range result.Outcomes {
		switch o.Disposition {
		case entities.DeniedFixed:
			lines = append(lines, st.ok.Render("  ✓ ")+o.DeniedPath+" → "+o.Substitution.NewPath)
		case entities.DeniedUnfixed:
			lines = append(lines, st.warn.Render("  ! ")+o.DeniedPath)
		}
	}

	if !result.Succeeded {
		lines = append(lines, st.fail.Render("errors were reported"))
	}

	fmt.Fprintln(w, st.box.Render(strings.Join(lines, "\n")))
}

func listLine(list entities.LoadResult) string {
	switch list.Status {
	case entities.ListLoaded:
		return fmt.Sprintf("%s (%d entries)", list.Path, list.List.Entries())
	default:
		return fmt.Sprintf("%s (%s)", list.Path, list.Status)
	}
}
