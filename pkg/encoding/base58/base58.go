package base58

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
)

// ErrInvalidChecksum is returned when the trailing four checksum bytes of a
// decoded string do not match its payload.
var ErrInvalidChecksum = errors.New("invalid checksum")

// Encode encodes b into plain base58 without a checksum.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode decodes a plain base58 string.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// CheckDecode implements base58-encoded string decoding with a hash-based
// checksum check.
func CheckDecode(s string) (b []byte, err error) {
	b, err = base58.Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < 5 {
		return nil, errors.New("invalid base-58 check string: missing checksum")
	}

	if !bytes.Equal(hash.Checksum(b[:len(b)-4]), b[len(b)-4:]) {
		return nil, ErrInvalidChecksum
	}

	b = b[:len(b)-4]

	return b, nil
}

// CheckEncode encodes the given byte slice into a base58 string with a
// hash-based checksum appended to it.
func CheckEncode(b []byte) string {
	b = append(b[:len(b):len(b)], hash.Checksum(b)...)

	return base58.Encode(b)
}
