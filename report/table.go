// ABOUTME: Human-readable table rendering with lipgloss priority colors
// ABOUTME: Used when stdout is for operators rather than pipelines

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/VirtualScripter/VMCO/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case models.PriorityHigh:
		return highStyle
	case models.PriorityMedium:
		return mediumStyle
	case models.PriorityLow:
		return lowStyle
	case models.PriorityInfo:
		return infoStyle
	}
	return okStyle
}

func writeTable(w io.Writer, recs []*models.Recommendation, failures []failure, full bool) error {
	header := []string{"VM", "TOPOLOGY", "VCPUS", "OPTIMAL", "OPTIMIZED", "PRIORITY"}
	if full {
		header = append(header, "HOST", "CLUSTER", "POWER POLICY")
	}
	header = append(header, "DETAILS")

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		row := []string{
			r.VM,
			fmt.Sprintf("%dx%d", r.Sockets, r.CoresPerSocket),
			fmt.Sprintf("%d", r.VCPUs),
			fmt.Sprintf("%dx%s", r.OptimalSockets, formatCores(r.OptimalCoresPerSocket)),
			yesNo(r.Optimized),
			r.Priority,
		}
		if full {
			row = append(row, r.HostName, r.ClusterName, string(r.PowerPolicy))
		}
		details := r.Details
		if details == "" {
			details = "-"
		}
		row = append(row, details)
		rows = append(rows, row)
	}

	widths := columnWidths(header, rows)

	// Header
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headerStyle.Render(pad(h, widths[i]))
	}
	fmt.Fprintln(w, strings.Join(cells, "  "))

	priorityCol := 5
	for ri, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := pad(cell, widths[i])
			if i == priorityCol {
				padded = priorityStyle(recs[ri].Priority).Render(padded)
			}
			cells[i] = padded
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}

	writeSummary(w, recs)

	for _, f := range failures {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("warning: %s: %s", f.VM, f.Error)))
	}

	return nil
}

// writeSummary prints the optimized/priority tally below the table.
func writeSummary(w io.Writer, recs []*models.Recommendation) {
	optimized := 0
	byPriority := map[string]int{}
	for _, r := range recs {
		if r.Optimized {
			optimized++
		}
		byPriority[r.Priority]++
	}

	fmt.Fprintf(w, "\n%d VMs analyzed, %s optimized", len(recs),
		okStyle.Render(fmt.Sprintf("%d", optimized)))
	for _, p := range []string{models.PriorityHigh, models.PriorityMedium, models.PriorityLow, models.PriorityInfo} {
		if n := byPriority[p]; n > 0 {
			fmt.Fprintf(w, ", %s %s", priorityStyle(p).Render(fmt.Sprintf("%d", n)), p)
		}
	}
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}
