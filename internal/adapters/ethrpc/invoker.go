package ethrpc

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
)

// TxInvoker sends each call as a signed legacy transaction and waits for it
// to be mined.
type TxInvoker struct {
	backend Backend
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	timeout time.Duration
	log     *slog.Logger
}

// NewTxInvoker signs with key for chainID. A zero timeout waits until ctx is done.
func NewTxInvoker(backend Backend, key *ecdsa.PrivateKey, chainID uint64, timeout time.Duration, log *slog.Logger) *TxInvoker {
	return &TxInvoker{
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(chainID),
		timeout: timeout,
		log:     log.With("component", "TxInvoker"),
	}
}

// ParsePrivateKey accepts a hex key with or without 0x.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if len(hexKey) >= 2 && hexKey[:2] == "0x" {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// From returns the sending account.
func (t *TxInvoker) From() common.Address { return t.from }

// Invoke implements chain.Callable. It returns no data; a mined transaction
// with status 0 is reported as domain.ErrUnderlyingCallReverted.
func (t *TxInvoker) Invoke(ctx context.Context, target common.Address, value *big.Int, payload []byte) ([]byte, error) {
	value = chain.ValueOrZero(value)

	nonce, err := t.backend.PendingNonceAt(ctx, t.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := t.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	gas, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{From: t.from, To: &target, Value: value, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnderlyingCallReverted, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &target,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     payload,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(t.chainID), t.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	t.log.Debug("transaction sent", "hash", signed.Hash().Hex(), "to", target.Hex(), "nonce", nonce)

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	receipt, err := bind.WaitMined(ctx, t.backend, signed)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("%w: transaction %s failed", domain.ErrUnderlyingCallReverted, signed.Hash().Hex())
	}
	return nil, nil
}

var _ chain.Callable = (*TxInvoker)(nil)
