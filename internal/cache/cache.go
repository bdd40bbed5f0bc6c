// =============================================================================
// Invoice and PO Lookup - Table Cache
// =============================================================================
//
// The cache holds the most recently loaded Table and returns it for as long
// as the source reports the same Key. Concurrent requests that miss share one
// load through a singleflight group, so a burst of requests after a change
// reads the source once.
//
// GUARANTEES:
//   - A stored Table is only ever replaced, never modified
//   - Failed loads are not stored; the next Get retries
//   - Callers for the same key observe the same *Table
//   - If the source cannot report its Key, a stored Table is still served;
//     with nothing stored the failure surfaces as a *loader.LoadError
//
// =============================================================================

package cache

import (
	"context"
	"sync"

	"github.com/ginjaninja78/invoice-po-lookup/internal/loader"
	"github.com/ginjaninja78/invoice-po-lookup/internal/source"
	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// LoadFunc builds a Table from a source, usually by calling
// loader.(*Loader).LoadSource.
type LoadFunc func(ctx context.Context, src source.Source) (*types.Table, error)

// Stats counts cache activity since construction.
type Stats struct {
	Loads  int64
	Hits   int64
	Errors int64
}

// Cache memoizes one Table per source key.
type Cache struct {
	load  LoadFunc
	log   zerolog.Logger
	group singleflight.Group

	mu    sync.RWMutex
	key   string
	table *types.Table
	stats Stats
}

// New creates an empty cache that loads through load.
func New(load LoadFunc, log zerolog.Logger) *Cache {
	return &Cache{
		load: load,
		log:  log.With().Str("component", "cache").Logger(),
	}
}

// Get returns the Table for the current content of src, loading it if the
// stored one is missing or stale.
//
// RETURNS:
//   - The Table.
//   - A *loader.LoadError, or the load error. No Table is returned with an
//     error.
func (c *Cache) Get(ctx context.Context, src source.Source) (*types.Table, error) {
	key, err := src.Key(ctx)
	if err != nil {
		if table := c.stale(); table != nil {
			c.log.Warn().Err(err).Str("source", src.Name()).Msg("source check failed, serving stored table")
			return table, nil
		}
		c.countError()
		return nil, loader.SourceError(src.Name(), err)
	}

	if table := c.lookup(key); table != nil {
		return table, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if table := c.peek(key); table != nil {
			return table, nil
		}

		table, err := c.load(ctx, src)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.key = key
		c.table = table
		c.stats.Loads++
		c.mu.Unlock()

		c.log.Debug().Str("key", key).Int("rows", table.Len()).Msg("cache filled")
		return table, nil
	})
	if err != nil {
		c.countError()
		return nil, err
	}
	if shared {
		c.log.Debug().Str("key", key).Msg("shared in-flight load")
	}
	return v.(*types.Table), nil
}

// Invalidate drops the stored Table. The next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.key = ""
	c.table = nil
	c.mu.Unlock()
}

// Current returns the stored Table without checking the source, or nil.
func (c *Cache) Current() *types.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// lookup returns the stored table for key and counts a hit.
func (c *Cache) lookup(key string) *types.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table != nil && c.key == key {
		c.stats.Hits++
		return c.table
	}
	return nil
}

// stale returns the stored table whatever its key, counting a hit.
func (c *Cache) stale() *types.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table != nil {
		c.stats.Hits++
	}
	return c.table
}

// peek is lookup without counting.
func (c *Cache) peek(key string) *types.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table != nil && c.key == key {
		return c.table
	}
	return nil
}

func (c *Cache) countError() {
	c.mu.Lock()
	c.stats.Errors++
	c.mu.Unlock()
}
