package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"

	"github.com/doeshing/shellsage/internal/domain"
)

const (
	defaultWidth   = 100
	recentCommands = 3
	columnGap      = 1
)

// Renderer lays out one analysis as a column of panels.
type Renderer struct {
	width int
}

// NewRenderer sizes panels to w when it is a terminal, otherwise to a fixed width.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{width: writerWidth(w)}
}

// Render writes the analysis panels in a fixed order. Panels whose content
// is absent are omitted; the manual panel is omitted when no manual page was read.
func (r *Renderer) Render(w io.Writer, parsed domain.ParsedResponse, bundle domain.ContextBundle, risk *domain.RiskAssessment) {
	lg := lipgloss.NewRenderer(w)
	styles := newStyles(lg, r.width)

	var blocks []string
	blocks = append(blocks, styles.header.Render("Error Analysis"))

	if len(parsed.Thoughts) > 0 {
		blocks = append(blocks, styles.panel("Cognitive Process", bulletList(parsed.Thoughts), styles.thoughtBorder))
	}

	if row, ok := r.contextRow(styles, bundle); ok {
		blocks = append(blocks, row)
	}

	if parsed.HasDiagnosis() {
		var sections []string
		if parsed.Cause != nil {
			sections = append(sections, styles.title.Render("Root Cause")+"\n"+r.markdown(w, *parsed.Cause))
		}
		if parsed.Explanation != nil {
			sections = append(sections, styles.title.Render("Technical Explanation")+"\n"+r.markdown(w, *parsed.Explanation))
		}
		blocks = append(blocks, styles.panel("Diagnosis", strings.Join(sections, "\n\n"), styles.diagnosisBorder))
	}

	if parsed.Fix != nil {
		body := styles.command.Render(*parsed.Fix)
		if risk != nil && risk.NeedsWarning() {
			body += "\n\n" + styles.warning.Render(guardrailLine(*risk))
		}
		blocks = append(blocks, styles.panel("Recommended Fix", body, styles.fixBorder))
	}

	if parsed.HasAdditionalInfo() {
		var sections []string
		if parsed.Risk != nil {
			sections = append(sections, styles.title.Render("Potential Risks")+"\n"+r.markdown(w, *parsed.Risk))
		}
		if parsed.Prevention != nil {
			sections = append(sections, styles.title.Render("Prevention Tip")+"\n"+r.markdown(w, *parsed.Prevention))
		}
		blocks = append(blocks, styles.panel("Additional Information", strings.Join(sections, "\n\n"), styles.infoBorder))
	}

	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

// RenderFailure prints the single notice shown when no analysis could be produced.
func RenderFailure(w io.Writer, err error, verbose bool) {
	notice := color.New(color.FgRed, color.Bold)
	if verbose && err != nil {
		notice.Fprintf(w, "Error: Could not get analysis: %v\n", err)
		return
	}
	notice.Fprintln(w, "Error: Could not get analysis")
}

// contextRow lays out the recent commands, related files and manual
// excerpt side by side. Empty panels are dropped; ok is false when none remain.
func (r *Renderer) contextRow(styles panelStyles, bundle domain.ContextBundle) (string, bool) {
	type cell struct {
		title string
		lines []string
	}
	var cells []cell
	if recent := lastN(bundle.History, recentCommands); len(recent) > 0 {
		cells = append(cells, cell{title: "Recent Commands", lines: recent})
	}
	if len(bundle.RelevantFiles) > 0 {
		cells = append(cells, cell{title: "Related Files", lines: bundle.RelevantFiles})
	}
	if bundle.HasManual() {
		cells = append(cells, cell{title: "Manual Reference", lines: []string{strings.TrimSpace(bundle.ManExcerpt)}})
	}
	if len(cells) == 0 {
		return "", false
	}

	colWidth := (r.width - columnGap*(len(cells)-1)) / len(cells)
	inner := uint(colWidth - 4)
	row := make([]string, 0, len(cells)*2-1)
	for i, c := range cells {
		if i > 0 {
			row = append(row, strings.Repeat(" ", columnGap))
		}
		body := strings.Join(c.lines, "\n")
		if c.title != "Manual Reference" {
			lines := make([]string, len(c.lines))
			for j, line := range c.lines {
				lines[j] = truncate.StringWithTail(line, inner, "…")
			}
			body = strings.Join(lines, "\n")
		}
		row = append(row, styles.column(c.title, body, colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...), true
}

func (r *Renderer) markdown(w io.Writer, source string) string {
	style := glamour.WithStandardStyle("notty")
	if isTerminal(w) {
		style = glamour.WithAutoStyle()
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(r.width-10))
	if err != nil {
		return strings.TrimSpace(source)
	}
	out, err := md.Render(source)
	if err != nil {
		return strings.TrimSpace(source)
	}
	return strings.Trim(out, "\n")
}

type panelStyles struct {
	width           int
	header          lipgloss.Style
	title           lipgloss.Style
	box             lipgloss.Style
	command         lipgloss.Style
	warning         lipgloss.Style
	thoughtBorder   lipgloss.Color
	diagnosisBorder lipgloss.Color
	fixBorder       lipgloss.Color
	infoBorder      lipgloss.Color
	columnBorder    lipgloss.Color
}

func newStyles(lg *lipgloss.Renderer, width int) panelStyles {
	return panelStyles{
		width:           width,
		header:          lg.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).MarginBottom(1),
		title:           lg.NewStyle().Bold(true),
		box:             lg.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		command:         lg.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warning:         lg.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		thoughtBorder:   lipgloss.Color("13"),
		diagnosisBorder: lipgloss.Color("12"),
		fixBorder:       lipgloss.Color("10"),
		infoBorder:      lipgloss.Color("11"),
		columnBorder:    lipgloss.Color("8"),
	}
}

func (s panelStyles) panel(title, body string, border lipgloss.Color) string {
	return s.box.
		BorderForeground(border).
		Width(s.width - 2).
		Render(s.title.Render(title) + "\n" + body)
}

func (s panelStyles) column(title, body string, width int) string {
	return s.box.
		BorderForeground(s.columnBorder).
		Width(width - 2).
		Render(s.title.Render(title) + "\n" + body)
}

func guardrailLine(risk domain.RiskAssessment) string {
	line := fmt.Sprintf("Guardrail: %s risk (%s)", strings.ToUpper(string(risk.Level)), risk.Action)
	if len(risk.Reasons) > 0 {
		line += " - " + strings.Join(risk.Reasons, "; ")
	}
	return line
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

func lastN(items []string, n int) []string {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writerWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return defaultWidth
}
