package watcher

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/phantasma-io/phantasma-go/pkg/encoding/bigint"
	"github.com/phantasma-io/phantasma-go/pkg/encoding/unit"
	"github.com/phantasma-io/phantasma-go/pkg/io"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxSymbolLength limits symbols and chain names in token event data.
const maxSymbolLength = 64

// Match is an event found by the Watcher.
type Match struct {
	Height    uint64
	BlockHash string
	TxHash    string
	Event     result.Event
	// Token is set for token events with decodable data.
	Token *TokenEvent
}

// TokenEvent is the decoded data of a token event.
type TokenEvent struct {
	Symbol string
	// Value is the raw amount in the token's smallest unit.
	Value *big.Int
	// ChainName is the chain the tokens came from or went to.
	ChainName string
	Decimals  int
	// Amount is Value scaled by Decimals.
	Amount decimal.Decimal
}

var tokenEventKinds = map[result.EventKind]bool{
	result.TokenSend:    true,
	result.TokenReceive: true,
	result.TokenStake:   true,
	result.TokenClaim:   true,
	result.TokenMint:    true,
	result.TokenBurn:    true,
}

// DecodeTokenEvent decodes hex-encoded token event data. Decimals and Amount
// are left unset.
func DecodeTokenEvent(data string) (*TokenEvent, error) {
	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, err
	}
	r := io.NewBinReaderFromBuf(raw)
	te := &TokenEvent{}
	te.Symbol = r.ReadString(maxSymbolLength)
	value := r.ReadVarBytes(bigint.MaxBytesLen)
	te.ChainName = r.ReadString(maxSymbolLength)
	if r.Err != nil {
		return nil, r.Err
	}
	if te.Symbol == "" {
		return nil, errors.New("empty token symbol")
	}
	te.Value = bigint.FromBytes(value)
	return te, nil
}

func (w *Watcher) newMatch(ctx context.Context, b *result.Block, tx *result.Transaction, ev result.Event) (Match, error) {
	m := Match{
		Height:    b.Height,
		BlockHash: b.Hash,
		TxHash:    tx.Hash,
		Event:     ev,
	}
	if !tokenEventKinds[ev.Kind] {
		return m, nil
	}
	te, err := DecodeTokenEvent(ev.Data)
	if err != nil {
		w.log.Warn("undecodable token event data", zap.String("tx", tx.Hash), zap.Error(err))
		return m, nil
	}
	te.Decimals, err = w.tokenDecimals(ctx, te.Symbol)
	if err != nil {
		return m, err
	}
	te.Amount = unit.ToDecimal(te.Value, te.Decimals)
	m.Token = te
	return m, nil
}

// tokenDecimals resolves the number of decimals of a token. Retryable RPC
// failures are returned, anything else falls back to zero decimals.
func (w *Watcher) tokenDecimals(ctx context.Context, symbol string) (int, error) {
	if v, ok := w.tokens.Get(symbol); ok {
		return v.(int), nil
	}
	tok, err := w.client.GetToken(ctx, symbol)
	if err != nil {
		if pharpc.KindOf(err).Retryable() {
			return 0, fmt.Errorf("failed to get token %s: %w", symbol, err)
		}
		w.log.Warn("can't resolve token decimals, using 0", zap.String("symbol", symbol), zap.Error(err))
		return 0, nil
	}
	_ = w.tokens.Add(symbol, tok.Decimals)
	return tok.Decimals, nil
}
