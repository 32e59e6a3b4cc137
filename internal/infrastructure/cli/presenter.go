package cli

import (
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// Presenter implements ports.Presenter on a pair of terminal streams.
// Panels go to out; progress and notices go to errOut.
type Presenter struct {
	out      io.Writer
	errOut   io.Writer
	renderer *Renderer
	spinner  *Spinner
	verbose  bool
}

// NewPresenter builds a presenter. The spinner only runs when errOut is a terminal.
func NewPresenter(out, errOut io.Writer, verbose bool) *Presenter {
	p := &Presenter{
		out:      out,
		errOut:   errOut,
		renderer: NewRenderer(out),
		verbose:  verbose,
	}
	if isTerminal(errOut) {
		p.spinner = NewSpinner(errOut, "Analyzing error...")
	}
	return p
}

// Analyzing announces the reasoning call.
func (p *Presenter) Analyzing() {
	if p.spinner != nil {
		p.spinner.Start()
		return
	}
	color.New(color.FgCyan).Fprintln(p.errOut, "Analyzing error...")
}

// DebugDump prints the bundle as YAML in dim text.
func (p *Presenter) DebugDump(bundle domain.ContextBundle) {
	data, err := yaml.Marshal(bundle)
	if err != nil {
		return
	}
	dim := color.New(color.Faint)
	dim.Fprintln(p.errOut, "--- context bundle ---")
	dim.Fprint(p.errOut, string(data))
}

// Show renders a finished analysis.
func (p *Presenter) Show(analysis domain.Analysis) {
	p.stop()
	if analysis.FromCache {
		color.New(color.Faint).Fprintf(p.errOut, "(cached analysis from %s)\n", analysis.Model)
	}
	p.renderer.Render(p.out, analysis.Parsed, analysis.Bundle, analysis.Risk)
}

// Failure prints the failure notice.
func (p *Presenter) Failure(err error) {
	p.stop()
	RenderFailure(p.errOut, err, p.verbose)
}

func (p *Presenter) stop() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

var _ ports.Presenter = (*Presenter)(nil)
