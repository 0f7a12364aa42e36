package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TemporaryToken is the single-use credential behind email verification
// and password reset links. Raw goes out in the email, only Digest is
// stored server-side.
type TemporaryToken struct {
	Raw       string
	Digest    string
	ExpiresAt time.Time
}

func NewTemporaryToken(ttl time.Duration) (*TemporaryToken, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	raw := hex.EncodeToString(buf)
	return &TemporaryToken{
		Raw:       raw,
		Digest:    HashToken(raw),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashToken recomputes the one-way digest of a raw token for lookup.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
