package keys

import (
	"crypto/ed25519"
	"fmt"

	"github.com/phantasma-io/phantasma-go/pkg/io"
)

// MaxSignatureSize caps a decoded signature record.
const MaxSignatureSize = 1024

// SignatureKind identifies the algorithm of a signature record.
type SignatureKind byte

// Signature kinds.
const (
	None SignatureKind = iota
	Ed25519
	ECDSA
)

var signatureKindNames = map[SignatureKind]string{
	None:    "None",
	Ed25519: "Ed25519",
	ECDSA:   "ECDSA",
}

// String returns the name used on the wallet-link wire.
func (k SignatureKind) String() string {
	if s, ok := signatureKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SignatureKind(%d)", byte(k))
}

// ParseSignatureKind is the inverse of SignatureKind.String.
func ParseSignatureKind(s string) (SignatureKind, error) {
	for k, name := range signatureKindNames {
		if name == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown signature kind %q", s)
}

// Signature is a single signature record of a transaction.
type Signature struct {
	Kind  SignatureKind
	Bytes []byte
}

// EncodeBinary implements the io.Serializable interface.
func (s *Signature) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(s.Kind))
	w.WriteVarBytes(s.Bytes)
}

// DecodeBinary implements the io.Serializable interface.
func (s *Signature) DecodeBinary(r *io.BinReader) {
	s.Kind = SignatureKind(r.ReadB())
	s.Bytes = r.ReadVarBytes(MaxSignatureSize)
	if r.Err == nil && s.Kind == None && len(s.Bytes) != 0 {
		r.Err = fmt.Errorf("signature of kind %s carries %d bytes", s.Kind, len(s.Bytes))
	}
}

// Verify checks the signature against msg and an Ed25519 public key. Records
// of other kinds never verify here.
func (s *Signature) Verify(msg []byte, pub []byte) bool {
	if s.Kind != Ed25519 || len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, msg, s.Bytes)
}
