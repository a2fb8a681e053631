package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic RNG seed for a date using
// HMAC(salt, YYYY-MM-DD). Every player gets the same secret code for
// the day without the server storing it anywhere.
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, masked positive so callers can treat it as an ID too
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
