// Package termview renders scheduler data for a terminal.
package termview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/availability"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/layout"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
)

var (
	primary = lipgloss.Color("#7D56F4")
	success = lipgloss.Color("#04B575")
	muted   = lipgloss.Color("#626262")
	warning = lipgloss.Color("#F2A900")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	hintStyle    = lipgloss.NewStyle().Foreground(muted)
	labelStyle   = lipgloss.NewStyle().Width(labelWidth).Foreground(muted)
	disabledText = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	newBadge     = lipgloss.NewStyle().Bold(true).Foreground(warning)
	doneStyle    = lipgloss.NewStyle().Foreground(muted)
	frame        = lipgloss.NewStyle().Padding(1, 2)
)

const (
	labelWidth  = 10
	columnWidth = 18
)

// Timeline renders a week grid, or the agenda table in today mode.
func Timeline(tl scheduling.Timeline) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(tl.Title))
	if tl.Subtitle != "" {
		b.WriteString("  " + hintStyle.Render(tl.Subtitle))
	}
	if tl.ModeLabel != "" {
		b.WriteString("  " + hintStyle.Render("("+tl.ModeLabel+")"))
	}
	b.WriteString("\n\n")

	if len(tl.Agenda) > 0 {
		b.WriteString(Agenda(tl.Agenda))
	} else if tl.Count == 0 {
		b.WriteString(hintStyle.Render("No appointments"))
		b.WriteString("\n\n")
		b.WriteString(Grid(tl.Grid))
	} else {
		b.WriteString(Grid(tl.Grid))
	}
	return frame.Render(b.String())
}

// Grid lays out columns side by side with the time labels on the left.
func Grid(g layout.Grid) string {
	blocks := make([]string, 0, len(g.Columns)+1)

	labels := []string{labelStyle.Render("")}
	for _, l := range g.Labels {
		labels = append(labels, labelStyle.Render(l))
	}
	blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, labels...))

	for _, col := range g.Columns {
		blocks = append(blocks, column(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func column(col layout.Column) string {
	cell := lipgloss.NewStyle().Width(columnWidth).MaxWidth(columnWidth).PaddingRight(1)
	header := cell.Bold(true).Align(lipgloss.Center)
	if col.Today {
		header = header.Foreground(success)
	}

	lines := []string{header.Render(fmt.Sprintf("%s %d", col.Weekday, col.MonthDay))}
	for _, row := range col.Rows {
		lines = append(lines, cell.Render(rowText(row)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// rowText shows the first card of a row and a count of the rest.
func rowText(row layout.Row) string {
	if len(row.Cards) == 0 {
		return hintStyle.Render("·")
	}
	c := row.Cards[0]
	text := c.PatientName
	if c.NewPatient {
		text = newBadge.Render("*") + text
	}
	if c.Done {
		text = doneStyle.Render(text)
	}
	if extra := len(row.Cards) - 1; extra > 0 {
		text += hintStyle.Render(fmt.Sprintf(" +%d", extra))
	}
	return text
}

// Agenda renders one line per appointment, like an event list.
func Agenda(rows []layout.AgendaRow) string {
	timeStyle := lipgloss.NewStyle().Width(22).Foreground(primary)
	statusStyle := lipgloss.NewStyle().Width(12)
	nameStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	for _, r := range rows {
		status := statusStyle.Render(r.StatusText)
		if r.Status == appointment.StatusDone {
			status = statusStyle.Foreground(muted).Render(r.StatusText)
		}
		b.WriteString(timeStyle.Render(r.TimeRange))
		b.WriteString(status)
		b.WriteString(nameStyle.Render(r.PatientName))
		if details := patientDetails(r); details != "" {
			b.WriteString(" " + hintStyle.Render(details))
		}
		if r.NewPatient {
			b.WriteString(" " + newBadge.Render("NEW"))
		}
		if r.Notes != "" {
			b.WriteString("\n" + strings.Repeat(" ", 34) + hintStyle.Render(r.Notes))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func patientDetails(r layout.AgendaRow) string {
	var parts []string
	if r.Age != nil {
		parts = append(parts, fmt.Sprintf("%dy", *r.Age))
	}
	if r.Sex != "" {
		parts = append(parts, r.Sex)
	}
	if r.Phone != "" {
		parts = append(parts, r.Phone)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Slots lists the booking-form choices for one day. Taken times are struck
// through.
func Slots(opts scheduling.SlotOptions) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(opts.Date.Format("Mon Jan 2, 2006")))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Start"))
	b.WriteString(optionLine(opts.StartOptions))
	b.WriteString("\n")
	if len(opts.EndOptions) > 0 {
		b.WriteString(labelStyle.Render("End"))
		b.WriteString(optionLine(opts.EndOptions))
		b.WriteString("\n")
	}
	if len(opts.Blocked) > 0 {
		b.WriteString("\n" + hintStyle.Render("Booked:") + "\n")
		// Blocked intervals end a minute early; show the booked end.
		for _, iv := range opts.Blocked {
			fmt.Fprintf(&b, "  %s - %s\n", iv.Start.Format("3:04 PM"), iv.End.Add(time.Minute).Format("3:04 PM"))
		}
	}
	return frame.Render(b.String())
}

func optionLine(opts []availability.Option) string {
	free := lipgloss.NewStyle().Foreground(success)
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Disabled {
			parts = append(parts, disabledText.Render(o.Label))
			continue
		}
		parts = append(parts, free.Render(o.Label))
	}
	return lipgloss.NewStyle().Width(6 * columnWidth).Render(strings.Join(parts, "  "))
}

// Patients renders search results, one per line.
func Patients(ps []appointment.Patient) string {
	if len(ps) == 0 {
		return hintStyle.Render("No matching patients") + "\n"
	}
	idStyle := lipgloss.NewStyle().Width(8).Foreground(muted)
	nameStyle := lipgloss.NewStyle().Width(28).Bold(true)

	var b strings.Builder
	for _, p := range ps {
		b.WriteString(idStyle.Render(fmt.Sprintf("#%d", p.ID)))
		b.WriteString(nameStyle.Render(p.FullName()))
		b.WriteString(hintStyle.Render(strings.TrimSpace(p.DOB + "  " + p.Phone)))
		if p.IsNew {
			b.WriteString(" " + newBadge.Render("NEW"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
