package keys

import (
	"errors"

	"github.com/phantasma-io/phantasma-go/pkg/encoding/address"
)

// Signer produces signature records for a single account.
type Signer interface {
	Sign(msg []byte) (Signature, error)
	Address() address.Address
}

// SignFunc is a caller-supplied signing routine that replaces plain Ed25519,
// for example to reach a hardware key. It receives the message, the private
// key seed and the public key and returns raw Ed25519 signature bytes.
type SignFunc func(msg, priv, pub []byte) ([]byte, error)

// funcSigner is a Signer routing through a SignFunc.
type funcSigner struct {
	kp *KeyPair
	f  SignFunc
}

// NewFuncSigner returns a Signer for kp that signs with f. A nil f falls back
// to kp itself.
func NewFuncSigner(kp *KeyPair, f SignFunc) Signer {
	if f == nil {
		return kp
	}
	return &funcSigner{kp: kp, f: f}
}

func (s *funcSigner) Sign(msg []byte) (Signature, error) {
	sig, err := s.f(msg, s.kp.Seed(), s.kp.PublicKey())
	if err != nil {
		return Signature{}, err
	}
	if len(sig) == 0 {
		return Signature{}, errors.New("custom signer returned an empty signature")
	}
	return Signature{Kind: Ed25519, Bytes: sig}, nil
}

func (s *funcSigner) Address() address.Address {
	return s.kp.Address()
}
