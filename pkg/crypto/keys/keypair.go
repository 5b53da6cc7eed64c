// Package keys implements Ed25519 key pairs, WIF import/export and the
// signature records attached to Phantasma transactions.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/phantasma-io/phantasma-go/pkg/encoding/address"
)

// SeedLength is the size of the private key seed stored in WIF.
const SeedLength = ed25519.SeedSize

// KeyPair is an Ed25519 key pair with its derived Phantasma address.
type KeyPair struct {
	priv ed25519.PrivateKey
	addr address.Address
}

// NewKeyPair creates a new random key pair.
func NewKeyPair() (*KeyPair, error) {
	seed := make([]byte, SeedLength)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return NewKeyPairFromSeed(seed)
}

// NewKeyPairFromSeed returns a key pair derived from the given 32-byte seed.
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("invalid seed length: expected %d bytes got %d", SeedLength, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	addr, err := address.FromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, addr: addr}, nil
}

// NewKeyPairFromWIF returns a key pair from the given WIF (wallet import
// format) string.
func NewKeyPairFromWIF(wif string) (*KeyPair, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.KeyPair, nil
}

// WIF returns the (wallet import format) of the private key.
func (k *KeyPair) WIF() string {
	w, err := WIFEncode(k.Seed(), WIFVersion, true)
	if err != nil {
		panic(err)
	}
	return w
}

// Seed returns a copy of the 32-byte private key seed.
func (k *KeyPair) Seed() []byte {
	return append([]byte(nil), k.priv.Seed()...)
}

// PublicKey returns a copy of the 32-byte public key.
func (k *KeyPair) PublicKey() []byte {
	return append([]byte(nil), k.priv.Public().(ed25519.PublicKey)...)
}

// Address returns the user address of the key pair.
func (k *KeyPair) Address() address.Address {
	return k.addr
}

// Sign implements the Signer interface with a plain Ed25519 signature over
// msg.
func (k *KeyPair) Sign(msg []byte) (Signature, error) {
	return Signature{Kind: Ed25519, Bytes: ed25519.Sign(k.priv, msg)}, nil
}
