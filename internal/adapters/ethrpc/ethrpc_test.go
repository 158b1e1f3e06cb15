package ethrpc

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// Well-known first dev account key.
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	governorAddr = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
	tokenAddr    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	alice        = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type callArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Input hexutil.Bytes   `json:"input"`
	Data  hexutil.Bytes   `json:"data"`
}

func (a callArgs) payload() []byte {
	if len(a.Input) > 0 {
		return a.Input
	}
	return a.Data
}

// fakeEth serves the eth namespace for the adapters under test.
type fakeEth struct {
	mu       sync.Mutex
	chainID  uint64
	head     uint64
	headTime uint64
	status   uint64
	views    map[common.Address]abi.ABI
	results  map[string][]any
	sent     []*types.Transaction
	calledAt []string
}

func (f *fakeEth) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(f.chainID))
}

func (f *fakeEth) Call(args callArgs, block string) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contract := f.views[*args.To]
	input := args.payload()
	method, err := contract.MethodById(input[:4])
	if err != nil {
		return nil, err
	}
	f.calledAt = append(f.calledAt, method.Name)
	return method.Outputs.Pack(f.results[method.Name]...)
}

func (f *fakeEth) GetBlockByNumber(number string, full bool) (*types.Header, error) {
	return &types.Header{
		Number:     new(big.Int).SetUint64(f.head),
		Time:       f.headTime,
		Difficulty: new(big.Int),
		Extra:      []byte{},
	}, nil
}

func (f *fakeEth) GetTransactionCount(account common.Address, block string) hexutil.Uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return hexutil.Uint64(len(f.sent))
}

func (f *fakeEth) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(1_000_000_000))
}

func (f *fakeEth) EstimateGas(args callArgs, block *string) hexutil.Uint64 {
	return 100_000
}

func (f *fakeEth) SendRawTransaction(raw hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, err
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	return tx.Hash(), nil
}

func (f *fakeEth) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{
		Status:      f.status,
		TxHash:      hash,
		Logs:        []*types.Log{},
		GasUsed:     21_000,
		BlockNumber: new(big.Int).SetUint64(f.head),
	}, nil
}

func newFakeBackend(t *testing.T) (*fakeEth, *ethclient.Client) {
	t.Helper()
	fake := &fakeEth{
		chainID:  31337,
		head:     12,
		headTime: 1_700_000_012,
		status:   types.ReceiptStatusSuccessful,
		views:    map[common.Address]abi.ABI{tokenAddr: votesABI, governorAddr: governorABI},
		results:  map[string][]any{},
	}
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", fake))
	client := ethclient.NewClient(rpc.DialInProc(server))
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return fake, client
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifyChainID(t *testing.T) {
	_, client := newFakeBackend(t)
	ctx := context.Background()

	id, err := verifyChainID(ctx, client, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), id)

	_, err = verifyChainID(ctx, client, 1)
	assert.ErrorContains(t, err, "chain ID mismatch")
}

func TestVotesReader(t *testing.T) {
	fake, client := newFakeBackend(t)
	fake.results["getPastVotes"] = []any{big.NewInt(7)}
	fake.results["getPastTotalSupply"] = []any{big.NewInt(10)}

	reader := NewVotesReader(client, tokenAddr, testLogger())
	votes, err := reader.GetVotes(context.Background(), alice, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), votes.Int64())

	supply, err := reader.GetTotalSupply(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), supply.Int64())
	assert.Equal(t, []string{"getPastVotes", "getPastTotalSupply"}, fake.calledAt)
}

func TestHeadClock(t *testing.T) {
	_, client := newFakeBackend(t)
	clock, err := NewHeadClock(client).Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(12), clock.BlockNumber())
	assert.Equal(t, uint64(1_700_000_012), clock.Timestamp())
}

func TestGovernorClient_Proposal(t *testing.T) {
	fake, client := newFakeBackend(t)
	fake.results["state"] = []any{uint8(models.ProposalSucceeded)}
	fake.results["proposalSnapshot"] = []any{big.NewInt(4)}
	fake.results["proposalDeadline"] = []any{big.NewInt(9)}
	fake.results["proposalVotes"] = []any{big.NewInt(1), big.NewInt(3), big.NewInt(0)}
	fake.results["quorum"] = []any{big.NewInt(2)}

	id := common.HexToHash("0x01")
	p, err := NewGovernorClient(client, governorAddr, testLogger()).Proposal(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalSucceeded, p.State)
	assert.Equal(t, uint64(4), p.Snapshot)
	assert.Equal(t, uint64(9), p.Deadline)
	assert.Equal(t, int64(3), p.For.Int64())
	require.NotNil(t, p.Quorum)
	assert.Equal(t, int64(2), p.Quorum.Int64())
}

func TestTxInvoker(t *testing.T) {
	key, err := ParsePrivateKey(devKey)
	require.NoError(t, err)

	t.Run("mined", func(t *testing.T) {
		fake, client := newFakeBackend(t)
		invoker := NewTxInvoker(client, key, 31337, 5*time.Second, testLogger())

		_, err := invoker.Invoke(context.Background(), governorAddr, big.NewInt(3), []byte{0xde, 0xad})
		require.NoError(t, err)
		require.Len(t, fake.sent, 1)

		tx := fake.sent[0]
		assert.Equal(t, governorAddr, *tx.To())
		assert.Equal(t, int64(3), tx.Value().Int64())
		assert.Equal(t, []byte{0xde, 0xad}, tx.Data())
		sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(31337)), tx)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
		assert.Equal(t, sender, invoker.From())
	})

	t.Run("failed receipt", func(t *testing.T) {
		fake, client := newFakeBackend(t)
		fake.status = types.ReceiptStatusFailed
		invoker := NewTxInvoker(client, key, 31337, 5*time.Second, testLogger())

		_, err := invoker.Invoke(context.Background(), governorAddr, nil, nil)
		assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
	})
}

func TestSession(t *testing.T) {
	fake, client := newFakeBackend(t)
	fake.results["token"] = []any{tokenAddr}
	fake.results["getPastVotes"] = []any{big.NewInt(2)}
	fake.results["getPastTotalSupply"] = []any{big.NewInt(8)}

	target := usecase.RemoteTarget{Governor: governorAddr}
	s, err := newSession(context.Background(), client, 31337, target, time.Second, testLogger())
	require.NoError(t, err)

	power, err := s.VotingPower(context.Background(), alice, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), power.Block, "defaults to the block before the head")
	assert.Equal(t, int64(2), power.Votes.Int64())
	assert.Equal(t, int64(8), power.Supply.Int64())

	_, err = s.CastVote(context.Background(), common.HexToHash("0x01"), models.VoteFor, "")
	assert.ErrorIs(t, err, ErrNoSigner)

	target.PrivateKey = devKey
	signer, err := newSession(context.Background(), client, 31337, target, time.Second, testLogger())
	require.NoError(t, err)
	from, err := signer.CastVote(context.Background(), common.HexToHash("0x01"), models.VoteFor, "ship it")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), from)
	require.Len(t, fake.sent, 1)

	values, err := governorABI.Methods["castVoteWithReason"].Inputs.Unpack(fake.sent[0].Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, uint8(models.VoteFor), values[1])
	assert.Equal(t, "ship it", values[2])
}
