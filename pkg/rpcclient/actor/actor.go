/*
Package actor signs transactions and broadcasts them through the RPC client,
verifying that the node accepted exactly the transaction that was signed.
*/
package actor

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/phantasma-io/phantasma-go/pkg/core/transaction"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"go.uber.org/zap"
)

// RPCActor is an interface required from the RPC client to send
// transactions.
type RPCActor interface {
	SendRawTransaction(ctx context.Context, txHex string) (string, error)
}

// Options are optional Actor settings.
type Options struct {
	Logger *zap.Logger
}

// Actor creates, signs and sends transactions for a single signer on a
// single nexus.
type Actor struct {
	client RPCActor
	signer keys.Signer
	nexus  string
	log    *zap.Logger
}

// Result is the outcome of a verified broadcast.
type Result struct {
	// Hash is the hash computed locally before signing, equal to the one
	// reported by the node.
	Hash hash.Hash
	// HashText is the hash as reported by the node.
	HashText string
	// EncodedTx is the hex encoding of the signed transaction that was sent.
	EncodedTx string
	Tx        *transaction.Transaction
}

// New creates an Actor. Use keys.NewFuncSigner to sign with a custom
// function.
func New(client RPCActor, signer keys.Signer, nexus string, opts Options) (*Actor, error) {
	if client == nil {
		return nil, errors.New("nil RPC client")
	}
	if signer == nil {
		return nil, errors.New("nil signer")
	}
	if nexus == "" {
		return nil, errors.New("empty nexus name")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Actor{
		client: client,
		signer: signer,
		nexus:  nexus,
		log:    opts.Logger,
	}, nil
}

// Nexus returns the nexus transactions are made for.
func (a *Actor) Nexus() string {
	return a.nexus
}

// MakeSigned creates a transaction for chain expiring after
// transaction.DefaultValidity and signs it. More signatures can be added
// with Transaction.Sign before sending it with Send.
func (a *Actor) MakeSigned(script []byte, chain string, payload []byte) (*transaction.Transaction, error) {
	tx := transaction.NewPending(a.nexus, chain, script, payload)
	if err := tx.Sign(a.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

// SignAndSend creates, signs and broadcasts a transaction, then checks the
// hash reported by the node against the local one.
func (a *Actor) SignAndSend(ctx context.Context, script []byte, chain string, payload []byte) (*Result, error) {
	tx, err := a.MakeSigned(script, chain, payload)
	if err != nil {
		return nil, err
	}
	return a.Send(ctx, tx)
}

// SignAndSendWithTextPayload is SignAndSend with a UTF-8 payload.
func (a *Actor) SignAndSendWithTextPayload(ctx context.Context, script []byte, chain string, payload string) (*Result, error) {
	return a.SignAndSend(ctx, script, chain, []byte(payload))
}

// Send broadcasts an already signed transaction. A node-reported hash that
// differs from tx.Hash() (or cannot be parsed) is a pharpc.KindHashMismatch
// failure even though the node accepted the call.
func (a *Actor) Send(ctx context.Context, tx *transaction.Transaction) (*Result, error) {
	if !tx.IsSigned() {
		return nil, transaction.ErrNotSigned
	}
	local := tx.Hash()
	encoded := strings.ToUpper(hex.EncodeToString(tx.Bytes()))

	a.log.Debug("sending transaction",
		zap.Stringer("hash", local),
		zap.String("chain", tx.ChainName),
		zap.Int("signatures", len(tx.Signatures)))

	reported, err := a.client.SendRawTransaction(ctx, encoded)
	if err != nil {
		return nil, err
	}
	remote, perr := hash.Parse(reported)
	if perr != nil || remote != local {
		a.log.Warn("node reported a different transaction hash",
			zap.String("reported", reported),
			zap.Stringer("expected", local))
		return nil, pharpc.NewFailure(pharpc.KindHashMismatch, perr,
			"node returned %q, expected %s", reported, local)
	}
	return &Result{
		Hash:      local,
		HashText:  reported,
		EncodedTx: encoded,
		Tx:        tx,
	}, nil
}
