package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching analyzer output
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from everything that influences analyzer output
func Key(sentence, binary string, args []string) string {
	h := sha256.New()
	h.Write([]byte(binary))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(args, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(sentence))
	return "modality:v1:" + hex.EncodeToString(h.Sum(nil))
}
