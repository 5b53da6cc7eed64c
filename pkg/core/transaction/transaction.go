package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/io"
)

const (
	// DefaultValidity is the lifetime of transactions built by NewPending.
	DefaultValidity = 20 * time.Minute
	// MaxNameLength caps nexus and chain names on decoding.
	MaxNameLength = 64
	// MaxSignatures caps the number of signature records on decoding.
	MaxSignatures = 255
)

// ErrNotSigned is returned by VerifySignatures for a transaction without
// signature records.
var ErrNotSigned = errors.New("transaction is not signed")

// now is replaced in tests.
var now = time.Now

// Transaction is a Phantasma transaction: an opaque script for a chain of a
// nexus, valid until Expiration, optionally carrying signatures.
type Transaction struct {
	NexusName string
	ChainName string
	Script    []byte
	// Expiration is in unix seconds.
	Expiration uint32
	Payload    []byte

	Signatures []keys.Signature

	// Hash of the unsigned encoding, computed on first use.
	hash   hash.Hash
	hashed bool
}

// New creates a transaction expiring at the given time. A nil payload is
// replaced with an empty one.
func New(nexus, chain string, script []byte, expiration time.Time, payload []byte) *Transaction {
	if payload == nil {
		payload = []byte{}
	}
	if script == nil {
		script = []byte{}
	}
	return &Transaction{
		NexusName:  nexus,
		ChainName:  chain,
		Script:     script,
		Expiration: uint32(expiration.Unix()),
		Payload:    payload,
	}
}

// NewPending creates a transaction expiring DefaultValidity from now. The
// window is not configurable so that signed payloads cannot be replayed
// indefinitely.
func NewPending(nexus, chain string, script []byte, payload []byte) *Transaction {
	return New(nexus, chain, script, now().Add(DefaultValidity), payload)
}

// NewTransactionFromBytes decodes a signed transaction encoding.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	_ = r.ReadB()
	if r.Err == nil {
		return nil, errors.New("additional data after the transaction")
	}
	return tx, nil
}

// ExpirationTime returns Expiration as time.
func (t *Transaction) ExpirationTime() time.Time {
	return time.Unix(int64(t.Expiration), 0)
}

// IsExpired reports whether the transaction is no longer valid at at.
func (t *Transaction) IsExpired(at time.Time) bool {
	return at.Unix() >= int64(t.Expiration)
}

// IsSigned reports whether at least one signature is attached.
func (t *Transaction) IsSigned() bool {
	return len(t.Signatures) > 0
}

// Hash returns the hash of the unsigned encoding. It is computed once and
// never changes when signatures are added.
func (t *Transaction) Hash() hash.Hash {
	if !t.hashed {
		t.hash = hash.Sha256(t.UnsignedBytes())
		t.hashed = true
	}
	return t.hash
}

// Sign appends a signature over the unsigned encoding. It may be called
// several times for multi-signature transactions.
func (t *Transaction) Sign(s keys.Signer) error {
	msg := t.UnsignedBytes()
	// Pin the hash before the transaction grows signatures.
	t.Hash()
	sig, err := s.Sign(msg)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	t.Signatures = append(t.Signatures, sig)
	return nil
}

// VerifySignatures checks that every Ed25519 signature record verifies
// against one of the given public keys.
func (t *Transaction) VerifySignatures(pubs ...[]byte) error {
	if !t.IsSigned() {
		return ErrNotSigned
	}
	msg := t.UnsignedBytes()
	for i := range t.Signatures {
		var ok bool
		for _, pub := range pubs {
			if t.Signatures[i].Verify(msg, pub) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("signature %d (%s) does not verify", i, t.Signatures[i].Kind)
		}
	}
	return nil
}

// UnsignedBytes returns the canonical encoding without signatures.
func (t *Transaction) UnsignedBytes() []byte {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	if buf.Err != nil {
		panic(buf.Err)
	}
	return buf.Bytes()
}

// Bytes returns the signed encoding.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		panic(buf.Err)
	}
	return buf.Bytes()
}

func (t *Transaction) encodeHashableFields(w *io.BinWriter) {
	w.WriteString(t.NexusName)
	w.WriteString(t.ChainName)
	w.WriteVarBytes(t.Script)
	w.WriteU32LE(t.Expiration)
	w.WriteVarBytes(t.Payload)
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.encodeHashableFields(w)
	w.WriteVarUint(uint64(len(t.Signatures)))
	for i := range t.Signatures {
		t.Signatures[i].EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.NexusName = r.ReadString(MaxNameLength)
	t.ChainName = r.ReadString(MaxNameLength)
	t.Script = r.ReadVarBytes()
	t.Expiration = r.ReadU32LE()
	t.Payload = r.ReadVarBytes()
	io.ReadArray(r, &t.Signatures, MaxSignatures)
	t.hashed = false
}
