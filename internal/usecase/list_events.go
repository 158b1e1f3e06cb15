package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// ListEvents reads the event journal
type ListEvents struct {
	ws *Workspace
}

// NewListEvents creates a new ListEvents use case
func NewListEvents(ws *Workspace) *ListEvents {
	return &ListEvents{ws: ws}
}

// Run executes the list events use case. An emitter given as a contract name
// or account alias is resolved to its address first.
func (uc *ListEvents) Run(ctx context.Context, filter domain.EventFilter) ([]*models.EventRecord, error) {
	if filter.Emitter != "" && !common.IsHexAddress(filter.Emitter) {
		err := uc.ws.view(ctx, func(d *devnet.Devnet) error {
			address, err := uc.ws.target(d, filter.Emitter)
			if err != nil {
				return err
			}
			filter.Emitter = address.Hex()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return uc.ws.journal.List(ctx, filter)
}
