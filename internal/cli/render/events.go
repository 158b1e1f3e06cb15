package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// EventsRenderer renders journaled contract events
type EventsRenderer struct {
	out io.Writer
}

// NewEventsRenderer creates a new events renderer
func NewEventsRenderer(out io.Writer) *EventsRenderer {
	return &EventsRenderer{out: out}
}

// RenderEvents renders events oldest first
func (r *EventsRenderer) RenderEvents(records []*models.EventRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(r.out, "No events found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "BLOCK", "EVENT", "EMITTER", "DETAILS"})
	for _, e := range records {
		t.AppendRow(table.Row{
			e.Seq,
			e.Block,
			sectionHeaderStyle.Sprint(e.Name),
			addressStyle.Sprint(e.Emitter.Hex()[:10] + "…"),
			FirstLine(e.Summary, 80),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
