// Package address implements Phantasma addresses: the 34-byte binary form
// and its prefixed base58 text.
package address

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/phantasma-io/phantasma-go/pkg/encoding/base58"
	"github.com/phantasma-io/phantasma-go/pkg/io"
)

const (
	// Length is the size of a binary address.
	Length = 34
	// PublicKeyLength is the size of the public key embedded in a user
	// address.
	PublicKeyLength = 32
	// TextLength is the length accepted by IsValid.
	TextLength = 45
)

// Kind is the first byte of a binary address.
type Kind byte

// Address kinds.
const (
	Invalid Kind = 0
	User    Kind = 1
	System  Kind = 2
	Interop Kind = 3
)

var prefixes = map[Kind]byte{
	User:    'P',
	System:  'S',
	Interop: 'X',
}

// ErrInvalidAddress is returned for text or bytes that do not form an
// address.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a binary Phantasma address.
type Address [Length]byte

// Null is the empty address.
var Null Address

// FromPublicKey builds a user address for an Ed25519 public key.
func FromPublicKey(pub []byte) (Address, error) {
	var a Address
	if len(pub) != PublicKeyLength {
		return a, fmt.Errorf("%w: public key length %d", ErrInvalidAddress, len(pub))
	}
	a[0] = byte(User)
	copy(a[2:], pub)
	return a, nil
}

// FromBytes checks b and copies it into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Length {
		return a, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(b))
	}
	copy(a[:], b)
	if _, ok := prefixes[a.Kind()]; !ok && !a.IsNull() {
		return Null, fmt.Errorf("%w: kind %d", ErrInvalidAddress, b[0])
	}
	return a, nil
}

// FromString decodes the text form of an address.
func FromString(s string) (Address, error) {
	if len(s) < 2 {
		return Null, ErrInvalidAddress
	}
	b, err := base58.Decode(s[1:])
	if err != nil {
		return Null, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	a, err := FromBytes(b)
	if err != nil {
		return Null, err
	}
	if p, ok := prefixes[a.Kind()]; !ok || p != s[0] {
		return Null, fmt.Errorf("%w: prefix %q does not match kind %d", ErrInvalidAddress, s[0], a.Kind())
	}
	return a, nil
}

// IsValid reports whether s looks like a user address: prefix P and a fixed
// length. No decoding is performed.
func IsValid(s string) bool {
	return strings.HasPrefix(s, "P") && len(s) == TextLength
}

// Kind returns the address kind.
func (a Address) Kind() Kind {
	return Kind(a[0])
}

// IsNull reports whether a is the empty address.
func (a Address) IsNull() bool {
	return a == Null
}

// PublicKey returns the embedded public key of a user address.
func (a Address) PublicKey() []byte {
	pub := make([]byte, PublicKeyLength)
	copy(pub, a[2:])
	return pub
}

// BytesBE returns a copy of the binary address.
func (a Address) BytesBE() []byte {
	b := make([]byte, Length)
	copy(b, a[:])
	return b
}

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	if a.IsNull() {
		return "NULL"
	}
	p, ok := prefixes[a.Kind()]
	if !ok {
		p = '?'
	}
	return string(p) + base58.Encode(a[:])
}

// EncodeBinary implements the io.Serializable interface.
func (a *Address) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(a[:])
}

// DecodeBinary implements the io.Serializable interface.
func (a *Address) DecodeBinary(r *io.BinReader) {
	b := r.ReadVarBytes(Length)
	if r.Err != nil {
		return
	}
	addr, err := FromBytes(b)
	if err != nil {
		r.Err = err
		return
	}
	*a = addr
}

// MarshalJSON implements the json.Marshaler interface.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	addr, err := FromString(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
