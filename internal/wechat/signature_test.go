package wechat

import (
	"crypto/sha1"
	"encoding/hex"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySignature_KnownVectors(t *testing.T) {
	// sha1("1700000000noncetoken"), sorted concat of the triple.
	require.True(t, VerifySignature("token", "bf37e74fc61ce5974ce58c68e55130b79b2578b9", "1700000000", "nonce"))
	// sha1("7cloverrace"); byte-wise sort puts "7" before the letters.
	require.True(t, VerifySignature("race", "18f4029e5d4a278b23adf2030ee47a8e47ae767f", "7", "clover"))

	require.False(t, VerifySignature("token", "bf37e74fc61ce5974ce58c68e55130b79b2578b9", "1700000001", "nonce"))
	require.False(t, VerifySignature("token", "", "1700000000", "nonce"))
}

func TestVerifySignature_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		token := randomString(rng)
		timestamp := randomString(rng)
		nonce := randomString(rng)

		require.True(t, VerifySignature(token, oracle(token, timestamp, nonce), timestamp, nonce))
		require.False(t, VerifySignature(token, strings.Repeat("0", 40), timestamp, nonce))
	}
}

// oracle recomputes the expected digest independently of the implementation.
func oracle(token, timestamp, nonce string) string {
	parts := []string{token, timestamp, nonce}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func randomString(rng *rand.Rand) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	n := rng.Intn(20) + 1
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rng.Intn(len(charset))]
	}
	return string(b)
}
