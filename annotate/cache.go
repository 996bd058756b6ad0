package annotate

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/utils"
)

const (
	tagKeyPrefix     = "pos:tag:"
	segmentKeyPrefix = "pos:segment:"
)

// Cache stores annotation results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type annotator interface {
	Tag(ctx context.Context, text string) ([]types.Token, error)
	Segment(ctx context.Context, text string) ([]types.Span, error)
}

// Cached serves repeated texts from a Cache. A failing cache never fails
// the annotation; the inner annotator is used instead.
type Cached struct {
	inner  annotator
	cache  Cache
	logger zerolog.Logger
}

func NewCached(inner annotator, cache Cache) *Cached {
	return &Cached{inner: inner, cache: cache, logger: annotateLogger}
}

func (c *Cached) Tag(ctx context.Context, text string) ([]types.Token, error) {
	key := utils.HashKey(tagKeyPrefix, text)
	var tokens []types.Token
	if c.lookup(ctx, key, &tokens) {
		return tokens, nil
	}

	tokens, err := c.inner.Tag(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, tokens)
	return tokens, nil
}

func (c *Cached) Segment(ctx context.Context, text string) ([]types.Span, error) {
	key := utils.HashKey(segmentKeyPrefix, text)
	var spans []types.Span
	if c.lookup(ctx, key, &spans) {
		return spans, nil
	}

	spans, err := c.inner.Segment(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, spans)
	return spans, nil
}

func (c *Cached) lookup(ctx context.Context, key string, target interface{}) bool {
	buf, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(buf, target); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		return false
	}
	return true
}

func (c *Cached) store(ctx context.Context, key string, value interface{}) {
	buf, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cannot encode cache entry")
		return
	}
	if err := c.cache.Set(ctx, key, buf); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache store failed")
	}
}
