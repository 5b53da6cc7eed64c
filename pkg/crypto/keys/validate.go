package keys

import "strings"

// WIFTextLength is the length of a compressed WIF string.
const WIFTextLength = 52

// IsValidPrivateKey reports whether s looks like a compressed WIF private
// key (prefix L or K, fixed length). No decoding is performed.
func IsValidPrivateKey(s string) bool {
	return (strings.HasPrefix(s, "L") || strings.HasPrefix(s, "K")) && len(s) == WIFTextLength
}
