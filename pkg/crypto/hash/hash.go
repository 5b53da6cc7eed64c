// Package hash contains the hashing primitives used by Phantasma transactions
// and keys, plus the 32-byte Hash type with its textual form.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phantasma-io/phantasma-go/pkg/util"
)

// Size is the length of a Hash in bytes.
const Size = 32

// Hash is a 32-byte SHA-256 digest. Its textual form is the uppercase hex of
// the reversed bytes.
type Hash [Size]byte

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) Hash {
	return sha256.Sum256(data)
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) Hash {
	h := sha256.Sum256(data)
	return sha256.Sum256(h[:])
}

// Checksum returns the checksum for a given piece of data
// using sha256 twice as the hash algorithm.
func Checksum(data []byte) []byte {
	h := DoubleSha256(data)
	return h[:4]
}

// Parse decodes a hash from its textual form. Parsing is case-insensitive
// and an optional 0x prefix is accepted.
func Parse(s string) (Hash, error) {
	var h Hash
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if len(s) != Size*2 {
		return h, fmt.Errorf("expected string size of %d got %d", Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	copy(h[:], util.ArrayReverse(b))
	return h, nil
}

// FromBytes makes a Hash out of raw (non-reversed) digest bytes.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, fmt.Errorf("expected []byte of size %d got %d", Size, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// BytesBE returns a copy of the raw digest bytes.
func (h Hash) BytesBE() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Equals returns true if both hashes are the same.
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// String implements the fmt.Stringer interface.
func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(util.ArrayReverse(h[:])))
}

// MarshalJSON implements the json.Marshaler interface.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p, err := Parse(s)
	if err != nil {
		return err
	}
	*h = p
	return nil
}
