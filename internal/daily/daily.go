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

// Seed returns a deterministic board seed for a date using
// HMAC(salt, YYYY-MM-DD). Everyone with the same salt gets the same
// category selection for the day.
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes, clear the sign bit so the seed is stable
	// regardless of how callers treat negatives
	n := binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63)
	return int64(n)
}
