package journal

import (
	"log/slog"

	"github.com/trebuchet-org/govlock/internal/domain"
)

// LogSink writes committed events as structured log lines.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "Events")}
}

func (s *LogSink) Emit(e domain.Event) {
	meta := e.EmittedAt()
	s.log.Debug(e.ContractEventName(),
		"emitter", meta.Emitter.Hex(),
		"block", meta.Block,
		"timestamp", meta.Timestamp,
		"detail", e.String(),
	)
}

var _ domain.EventSink = (*LogSink)(nil)
