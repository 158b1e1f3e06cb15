package ethrpc

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govlock/internal/chain"
)

// HeadClock reads block number and timestamp from the latest header.
type HeadClock struct {
	backend Backend
}

func NewHeadClock(backend Backend) *HeadClock {
	return &HeadClock{backend: backend}
}

// Now returns a clock pinned to the current head.
func (c *HeadClock) Now(ctx context.Context) (chain.FixedClock, error) {
	header, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return chain.FixedClock{}, fmt.Errorf("failed to get latest header: %w", err)
	}
	return chain.FixedClock{Block: header.Number.Uint64(), Time: header.Time}, nil
}
