package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/edvin/cdcadmin/internal/model"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A80")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
)

// Printer writes command output either as styled text or as JSON.
type Printer struct {
	Out  io.Writer
	Err  io.Writer
	JSON bool
}

func (p *Printer) Title(text string) {
	if p.JSON {
		return
	}
	fmt.Fprintln(p.Out, titleStyle.Render(text))
}

func (p *Printer) Success(text string) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.Out, "%s %s\n", successStyle.Render("✓"), text)
}

func (p *Printer) Warn(text string) {
	fmt.Fprintf(p.Err, "%s %s\n", warningStyle.Render("⚠"), text)
}

func (p *Printer) Error(text string) {
	fmt.Fprintf(p.Err, "%s %s\n", errorStyle.Render("✗"), text)
}

// Value prints v as indented JSON in JSON mode, otherwise calls render.
func (p *Printer) Value(v any, render func() string) error {
	if p.JSON {
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprintln(p.Out, render())
	return nil
}

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return mutedStyle.Render("(none)")
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// Box frames text, used for summaries.
func Box(text string) string {
	return boxStyle.Render(text)
}

// Status colours a status word.
func Status(s string) string {
	switch strings.ToLower(s) {
	case "":
		return mutedStyle.Render("-")
	case model.StatusActive, model.StatusSuccess:
		return successStyle.Render(s)
	case model.StatusRunning, model.StatusPending, string(model.TestTesting), model.StatusPaused:
		return warningStyle.Render(s)
	case model.StatusFailed, string(model.TestError):
		return errorStyle.Render(s)
	default:
		return s
	}
}

// PageFooter summarises pagination, e.g. "page 2/3, 25 total".
func PageFooter(page, pages, total int) string {
	return mutedStyle.Render(fmt.Sprintf("page %d/%d, %d total", page, pages, total))
}
