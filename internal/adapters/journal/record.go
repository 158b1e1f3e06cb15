package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// NewRecord converts an emitted event into its journal form. Seq is assigned
// when the record is stored.
func NewRecord(e domain.Event, now time.Time) (*models.EventRecord, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", e.ContractEventName(), err)
	}
	meta := e.EmittedAt()
	return &models.EventRecord{
		ID:         uuid.NewString(),
		Name:       e.ContractEventName(),
		Emitter:    meta.Emitter,
		Block:      meta.Block,
		Timestamp:  meta.Timestamp,
		Summary:    e.String(),
		Payload:    payload,
		RecordedAt: now.UTC(),
	}, nil
}
