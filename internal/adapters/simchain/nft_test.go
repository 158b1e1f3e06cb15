package simchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain"
)

func TestVotesNFT_Checkpoints(t *testing.T) {
	ctx := context.Background()
	sim, _ := newTestSimulator(t)
	nft := NewVotesNFT(nftAddr, "MyNFT", "MNFT", deployer, sim)
	sim.Register(nft)

	sim.Mine(1)
	_, err := nft.Mint(deployer)
	require.NoError(t, err)
	id, err := nft.Mint(alice)
	require.NoError(t, err)

	sim.Mine(1)
	require.NoError(t, nft.Transfer(alice, deployer, id))

	votes := func(block uint64) int64 {
		v, err := nft.GetVotes(ctx, deployer, block)
		require.NoError(t, err)
		return v.Int64()
	}
	assert.Equal(t, int64(0), votes(0))
	assert.Equal(t, int64(1), votes(1))
	assert.Equal(t, int64(2), votes(2))
	assert.Equal(t, int64(2), votes(100))

	aliceVotes, err := nft.GetVotes(ctx, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), aliceVotes.Int64())

	supply, err := nft.GetTotalSupply(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), supply.Int64())
	supply, err = nft.GetTotalSupply(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), supply.Int64())

	assert.Equal(t, int64(2), nft.BalanceOf(deployer).Int64())
	assert.Equal(t, []uint64{0, 1}, nft.Tokens(deployer))
	assert.ErrorContains(t, nft.Transfer(alice, deployer, id), "incorrect owner")
}

func TestVotesNFT_SafeMintThroughABI(t *testing.T) {
	ctx := context.Background()
	sim, _ := newTestSimulator(t)
	nft := NewVotesNFT(nftAddr, "MyNFT", "MNFT", deployer, sim)
	sim.Register(nft)

	data, err := Pack(nft, "safeMint", alice)
	require.NoError(t, err)

	_, err = sim.Caller(alice).Invoke(ctx, nftAddr, nil, data)
	assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)

	_, err = sim.Caller(deployer).Invoke(ctx, nftAddr, nil, data)
	require.NoError(t, err)

	query, err := Pack(nft, "getPastVotes", alice, big.NewInt(int64(sim.BlockNumber())))
	require.NoError(t, err)
	out, err := sim.Caller(alice).Call(ctx, nftAddr, query)
	require.NoError(t, err)
	values, err := Unpack(nft, "getPastVotes", out)
	require.NoError(t, err)
	assert.Equal(t, int64(1), values[0].(*big.Int).Int64())
}

func TestVotesNFT_Journal(t *testing.T) {
	sim, _ := newTestSimulator(t)
	nft := NewVotesNFT(nftAddr, "MyNFT", "MNFT", deployer, sim)
	sim.Register(nft)

	_, err := nft.Mint(alice)
	require.NoError(t, err)
	snap := sim.Snapshot()
	_, err = nft.Mint(alice)
	require.NoError(t, err)
	sim.RevertToSnapshot(snap)

	assert.Equal(t, int64(1), nft.TotalSupply().Int64())
	assert.Equal(t, int64(1), nft.BalanceOf(alice).Int64())

	restored := RestoreVotesNFT(nftAddr, nft.Export(), sim)
	assert.Equal(t, nft.Export(), restored.Export())
}
