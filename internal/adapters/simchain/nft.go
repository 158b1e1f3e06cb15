package simchain

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

var parsedVotesNFTABI = mustParseABI(votesNFTABI)

// VotesNFT is an ERC-721 where every token carries one vote. Holders are
// self-delegated, so an account's votes equal its balance, recorded as
// per-block checkpoints for historical lookups.
type VotesNFT struct {
	address common.Address
	clock   chain.Clock
	state   models.NFTState
	calls   *dispatcher
}

// NewVotesNFT deploys an empty collection owned by owner.
func NewVotesNFT(address common.Address, name, symbol string, owner common.Address, clock chain.Clock) *VotesNFT {
	n := &VotesNFT{
		address: address,
		clock:   clock,
		state: models.NFTState{
			Name:   name,
			Symbol: symbol,
			Owner:  owner,
		},
	}
	n.init()
	return n
}

// RestoreVotesNFT recreates a collection from a persisted state.
func RestoreVotesNFT(address common.Address, state models.NFTState, clock chain.Clock) *VotesNFT {
	n := &VotesNFT{address: address, clock: clock}
	n.RestoreState(state)
	n.init()
	return n
}

func (n *VotesNFT) init() {
	if n.state.Owners == nil {
		n.state.Owners = make(map[uint64]common.Address)
	}
	if n.state.Votes == nil {
		n.state.Votes = make(map[common.Address][]models.Checkpoint)
	}
	n.calls = &dispatcher{
		abi: parsedVotesNFTABI,
		handlers: map[string]handler{
			"name":        func(context.Context, Msg, []any) ([]any, error) { return []any{n.state.Name}, nil },
			"symbol":      func(context.Context, Msg, []any) ([]any, error) { return []any{n.state.Symbol}, nil },
			"owner":       func(context.Context, Msg, []any) ([]any, error) { return []any{n.state.Owner}, nil },
			"totalSupply": func(context.Context, Msg, []any) ([]any, error) { return []any{n.TotalSupply()}, nil },
			"balanceOf": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{n.BalanceOf(args[0].(common.Address))}, nil
			},
			"ownerOf": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				tokenID, err := uint64Arg(args[0])
				if err != nil {
					return nil, err
				}
				owner, err := n.OwnerOf(tokenID)
				return []any{owner}, err
			},
			"getVotes": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{lookup(n.state.Votes[args[0].(common.Address)], n.clock.BlockNumber())}, nil
			},
			"getPastVotes": func(ctx context.Context, _ Msg, args []any) ([]any, error) {
				block, err := uint64Arg(args[1])
				if err != nil {
					return nil, err
				}
				v, err := n.GetVotes(ctx, args[0].(common.Address), block)
				return []any{v}, err
			},
			"getPastTotalSupply": func(ctx context.Context, _ Msg, args []any) ([]any, error) {
				block, err := uint64Arg(args[0])
				if err != nil {
					return nil, err
				}
				v, err := n.GetTotalSupply(ctx, block)
				return []any{v}, err
			},
			"safeMint": func(_ context.Context, msg Msg, args []any) ([]any, error) {
				if msg.Sender != n.state.Owner {
					return nil, errNotOwner
				}
				_, err := n.Mint(args[0].(common.Address))
				return nil, err
			},
			"transferFrom": func(_ context.Context, msg Msg, args []any) ([]any, error) {
				from, to := args[0].(common.Address), args[1].(common.Address)
				if msg.Sender != from {
					return nil, Revert("ERC721: caller is not token owner")
				}
				tokenID, err := uint64Arg(args[2])
				if err != nil {
					return nil, err
				}
				return nil, n.Transfer(from, to, tokenID)
			},
		},
	}
}

func (n *VotesNFT) Address() common.Address { return n.address }
func (n *VotesNFT) ABI() *abi.ABI           { return parsedVotesNFTABI }
func (n *VotesNFT) Name() string            { return n.state.Name }
func (n *VotesNFT) Symbol() string          { return n.state.Symbol }
func (n *VotesNFT) Owner() common.Address   { return n.state.Owner }

func (n *VotesNFT) Call(ctx context.Context, msg Msg, input []byte) ([]byte, error) {
	return n.calls.dispatch(ctx, msg, input)
}

// Mint creates the next token for to and returns its id.
func (n *VotesNFT) Mint(to common.Address) (uint64, error) {
	if to == (common.Address{}) {
		return 0, Revert("ERC721: mint to the zero address")
	}
	id := n.state.NextTokenID
	n.state.NextTokenID++
	n.state.Owners[id] = to
	n.move(common.Address{}, to)
	return id, nil
}

// Transfer moves a token between accounts together with its vote.
func (n *VotesNFT) Transfer(from, to common.Address, tokenID uint64) error {
	owner, ok := n.state.Owners[tokenID]
	if !ok || owner != from {
		return Revert("ERC721: transfer from incorrect owner")
	}
	if to == (common.Address{}) {
		return Revert("ERC721: transfer to the zero address")
	}
	n.state.Owners[tokenID] = to
	n.move(from, to)
	return nil
}

// move shifts one vote from `from` to `to`; the zero address mints.
func (n *VotesNFT) move(from, to common.Address) {
	block := n.clock.BlockNumber()
	one := big.NewInt(1)
	if from == (common.Address{}) {
		n.state.Supply = push(n.state.Supply, block, new(big.Int).Add(latest(n.state.Supply), one))
	} else {
		n.state.Votes[from] = push(n.state.Votes[from], block, new(big.Int).Sub(latest(n.state.Votes[from]), one))
	}
	n.state.Votes[to] = push(n.state.Votes[to], block, new(big.Int).Add(latest(n.state.Votes[to]), one))
}

// OwnerOf returns the holder of tokenID.
func (n *VotesNFT) OwnerOf(tokenID uint64) (common.Address, error) {
	owner, ok := n.state.Owners[tokenID]
	if !ok {
		return common.Address{}, Revert("ERC721: invalid token ID")
	}
	return owner, nil
}

// BalanceOf returns the number of tokens held by account.
func (n *VotesNFT) BalanceOf(account common.Address) *big.Int {
	count := int64(0)
	for _, owner := range n.state.Owners {
		if owner == account {
			count++
		}
	}
	return big.NewInt(count)
}

// TotalSupply returns the number of minted tokens.
func (n *VotesNFT) TotalSupply() *big.Int {
	return latest(n.state.Supply)
}

// Tokens returns the token ids held by account in ascending order.
func (n *VotesNFT) Tokens(account common.Address) []uint64 {
	var ids []uint64
	for id, owner := range n.state.Owners {
		if owner == account {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GetVotes returns the votes of account at the end of block.
func (n *VotesNFT) GetVotes(_ context.Context, account common.Address, block uint64) (*big.Int, error) {
	return lookup(n.state.Votes[account], block), nil
}

// GetTotalSupply returns the supply at the end of block.
func (n *VotesNFT) GetTotalSupply(_ context.Context, block uint64) (*big.Int, error) {
	return lookup(n.state.Supply, block), nil
}

// Export returns a copy of the persisted state.
func (n *VotesNFT) Export() models.NFTState {
	return cloneNFTState(n.state)
}

// CaptureState implements chain.Journaled.
func (n *VotesNFT) CaptureState() any {
	return cloneNFTState(n.state)
}

// RestoreState implements chain.Journaled.
func (n *VotesNFT) RestoreState(state any) {
	n.state = cloneNFTState(state.(models.NFTState))
}

func push(checkpoints []models.Checkpoint, block uint64, value *big.Int) []models.Checkpoint {
	if last := len(checkpoints) - 1; last >= 0 && checkpoints[last].Block == block {
		checkpoints[last].Value = value
		return checkpoints
	}
	return append(checkpoints, models.Checkpoint{Block: block, Value: value})
}

func latest(checkpoints []models.Checkpoint) *big.Int {
	if len(checkpoints) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(checkpoints[len(checkpoints)-1].Value)
}

// lookup returns the last checkpoint value at or before block.
func lookup(checkpoints []models.Checkpoint, block uint64) *big.Int {
	i := sort.Search(len(checkpoints), func(i int) bool { return checkpoints[i].Block > block })
	if i == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(checkpoints[i-1].Value)
}

func cloneCheckpoints(checkpoints []models.Checkpoint) []models.Checkpoint {
	out := make([]models.Checkpoint, len(checkpoints))
	for i, c := range checkpoints {
		out[i] = models.Checkpoint{Block: c.Block, Value: new(big.Int).Set(c.Value)}
	}
	return out
}

func cloneNFTState(s models.NFTState) models.NFTState {
	c := s
	c.Owners = make(map[uint64]common.Address, len(s.Owners))
	for k, v := range s.Owners {
		c.Owners[k] = v
	}
	c.Votes = make(map[common.Address][]models.Checkpoint, len(s.Votes))
	for k, v := range s.Votes {
		c.Votes[k] = cloneCheckpoints(v)
	}
	c.Supply = cloneCheckpoints(s.Supply)
	return c
}
