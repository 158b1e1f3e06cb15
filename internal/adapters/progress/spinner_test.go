package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

func TestSpinnerProgressReporter_Static(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewSpinnerProgressReporter(&buf, false)

	r.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "transacting", Message: "Mining transaction", Spinner: true})
	stage, _ := r.Stage()
	assert.Equal(t, "transacting", stage)
	assert.Empty(t, buf.String(), "static reporter does not animate")

	r.Info("Waiting for ETA")
	r.Error("boom")
	assert.Equal(t, "Waiting for ETA\nboom\n", buf.String())
}

func TestNewProgressSink(t *testing.T) {
	assert.IsType(t, &NopSink{}, NewProgressSink(&config.RuntimeConfig{JSON: true}))

	sink := NewProgressSink(&config.RuntimeConfig{NonInteractive: true})
	reporter, ok := sink.(*SpinnerProgressReporter)
	assert.True(t, ok)
	assert.False(t, reporter.animate)
}
