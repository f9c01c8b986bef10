package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SummaryKey generates a cache key for a transcript's clean summary.
// The full text is part of the key so a re-transcribed sermon invalidates
// its cached summary.
func SummaryKey(transcriptID, fullText string) string {
	hash := sha256.Sum256([]byte(transcriptID + "\x00" + fullText))
	return "pulpit:summary:v1:" + hex.EncodeToString(hash[:])
}

// BaselineKey generates a cache key for a computed baseline window. The
// newest history id pins the key: history rows are immutable, so the same
// (channel, window, head) always means the same statistics.
func BaselineKey(channelID string, window int, headID string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", channelID, window, headID)))
	return "pulpit:baseline:v1:" + hex.EncodeToString(hash[:])
}
