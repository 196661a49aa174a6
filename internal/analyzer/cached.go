package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/modality/internal/cache"
)

// Cached serves repeated sentences from a cache instead of re-running the analyzer
type Cached struct {
	next   Analyzer
	binary string
	args   []string
	cache  cache.Cache
	ttl    time.Duration
	log    *zap.Logger
}

// NewCached wraps an analyzer with a cache. binary and args identify the
// analyzer invocation in cache keys. A ttl of 0 uses the cache default.
func NewCached(next Analyzer, binary string, args []string, c cache.Cache, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{
		next:   next,
		binary: binary,
		args:   args,
		cache:  c,
		ttl:    ttl,
		log:    log.Named("cache"),
	}
}

// Analyze returns cached output when available, otherwise runs the analyzer
// and stores a successful result
func (c *Cached) Analyze(ctx context.Context, sentence string) ([]byte, error) {
	key := cache.Key(sentence, c.binary, c.args)

	if out, ok := c.cache.Get(key); ok {
		c.log.Debug("Cache hit", zap.String("sentence", sentence))
		return out, nil
	}

	out, err := c.next.Analyze(ctx, sentence)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(key, out, c.ttl); err != nil {
		c.log.Warn("Unable to store analyzer output", zap.String("sentence", sentence), zap.Error(err))
	}
	return out, nil
}
