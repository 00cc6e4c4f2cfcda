package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, headerStyle.Render(h))
	}
	fmt.Fprintln(tw)
	return tw
}

// money formats an amount with two decimals, coloring negatives.
func money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v < -0.005 {
		return warnStyle.Render(s)
	}
	return s
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func done(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render("✓ ")+fmt.Sprintf(format, args...))
}
