package wechat

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// VerifySignature reports whether signature equals the lowercase hex SHA-1 of
// the lexicographically sorted concatenation of token, timestamp, and nonce.
// The comparison is not constant-time; only the one-time server-ownership
// handshake may rely on it.
func VerifySignature(token, signature, timestamp, nonce string) bool {
	parts := []string{token, timestamp, nonce}
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:]) == signature
}
