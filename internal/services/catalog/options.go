package catalog

import (
	"context"
	"time"

	"inventory-system/internal/cache"
)

const (
	CategoriesCacheKey = "catalog:categories"
	ItemsCacheKey      = "catalog:items"

	listTTL = 10 * time.Minute
)

// Option configures a catalog service.
type Option func(*options)

type options struct {
	cache cache.Cache
}

// WithCache serves the full category and item listings from c.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

func newOptions(opts []Option) options {
	o := options{cache: cache.Noop{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// invalidate drops both listings. Item views embed their category, so a
// category write stales the item listing too.
func (o options) invalidate(ctx context.Context) {
	o.cache.Delete(ctx, CategoriesCacheKey, ItemsCacheKey)
}
