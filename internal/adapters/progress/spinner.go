package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner on
// stderr, keeping stdout for command output
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer
	animate bool

	stage      string
	stageStart time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter.
// When animate is false the spinner never starts and only Info and Error
// produce output.
func NewSpinnerProgressReporter(out io.Writer, animate bool) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
		animate: animate,
	}
}

// NewProgressSink picks the progress sink for the runtime configuration:
// nothing for JSON output, a static reporter in non-interactive mode and a
// spinner otherwise.
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter(os.Stderr, !cfg.NonInteractive && !cfg.Debug)
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.stage = event.Stage
		r.stageStart = time.Now()
	}

	if !r.animate {
		return
	}
	if event.Spinner {
		r.spinner.Suffix = fmt.Sprintf(" %s", event.Message)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Stage returns the last reported stage and how long it has been running
func (r *SpinnerProgressReporter) Stage() (string, time.Duration) {
	if r.stage == "" {
		return "", 0
	}
	return r.stage, time.Since(r.stageStart).Round(time.Millisecond)
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner if it is running
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
