package synccache

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/barbeariaprime/primeapp/internal/localcache"
	"github.com/barbeariaprime/primeapp/internal/remote"
)

// Entity is anything the cache can hold in a list collection.
type Entity interface {
	EntityID() string
}

// Collection keeps the in-memory working set for one remote table consistent
// with the remote store and mirrors every adopted state into the local cache.
// A mutex serializes operations so the most recent successful mutation is
// always authoritative.
type Collection[T Entity] struct {
	table    string
	cacheKey string
	topic    string

	remote  remote.Store
	local   *localcache.Store
	bus     EventBus.Bus
	timeout time.Duration

	// defaults is adopted when both remote and local cache come up empty.
	defaults []T
	// emptyNotAuthoritative makes an empty remote success fall through to
	// the local-cache path instead of being adopted (services quirk).
	emptyNotAuthoritative bool

	mu    sync.Mutex
	items []T
}

// Load fetches the collection from the remote store, falling back to the
// local snapshot (then defaults) on failure. Read-path failures are degraded,
// never fatal.
func (c *Collection[T]) Load(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rows []T
	if err := c.remote.FetchAll(fctx, c.table, &rows); err != nil {
		zap.L().Warn("synccache: remote fetch failed, using local fallback",
			zap.String("collection", c.table), zap.Error(err))
		c.adoptFallback()
		return
	}
	if len(rows) == 0 && c.emptyNotAuthoritative {
		zap.L().Info("synccache: empty remote result treated as not authoritative",
			zap.String("collection", c.table))
		c.adoptFallback()
		return
	}
	if err := validateRows(rows); err != nil {
		zap.L().Warn("synccache: rejecting malformed remote rows",
			zap.String("collection", c.table), zap.Error(err))
		c.adoptFallback()
		return
	}
	c.adopt(rows)
}

// Upsert writes through: remote first, and only on success is the working set
// patched and the local snapshot rewritten. On remote failure nothing changes.
func (c *Collection[T]) Upsert(ctx context.Context, item T) error {
	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.remote.Upsert(fctx, c.table, &item); err != nil {
		zap.L().Error("synccache: remote upsert failed",
			zap.String("collection", c.table), zap.String("id", item.EntityID()), zap.Error(err))
		return errors.Wrapf(ErrRemoteMutation, "save to %s: %v", c.table, err)
	}

	c.mu.Lock()
	replaced := false
	for i, existing := range c.items {
		if existing.EntityID() == item.EntityID() {
			c.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, item)
	}
	c.persistLocalLocked()
	c.mu.Unlock()

	c.publish()
	return nil
}

// Delete removes by identity, remote first. A missing in-memory entry after a
// successful remote delete is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.remote.Delete(fctx, c.table, map[string]interface{}{"id": id}); err != nil {
		zap.L().Error("synccache: remote delete failed",
			zap.String("collection", c.table), zap.String("id", id), zap.Error(err))
		return errors.Wrapf(ErrRemoteMutation, "delete from %s: %v", c.table, err)
	}

	c.mu.Lock()
	for i, existing := range c.items {
		if existing.EntityID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.persistLocalLocked()
	c.mu.Unlock()

	c.publish()
	return nil
}

// Items returns a copy of the working set.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the entry with the given identity.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// RewriteSnapshot persists the current working set to the local cache.
func (c *Collection[T]) RewriteSnapshot() {
	c.mu.Lock()
	c.persistLocalLocked()
	c.mu.Unlock()
}

func (c *Collection[T]) adopt(rows []T) {
	c.mu.Lock()
	c.items = rows
	c.persistLocalLocked()
	c.mu.Unlock()
	c.publish()
}

// adoptFallback reads the local snapshot; absent that, the built-in defaults
// (services) or an empty working set (everything else). A nil local store
// means the cache runs memory-only and the snapshot path is skipped.
func (c *Collection[T]) adoptFallback() {
	var (
		value string
		found bool
	)
	if c.local != nil {
		var err error
		value, found, err = c.local.Get(c.cacheKey)
		if err != nil {
			zap.L().Warn("synccache: local cache read failed",
				zap.String("collection", c.table), zap.Error(err))
			found = false
		}
	}
	if found {
		var rows []T
		if derr := decodeSnapshot(value, &rows); derr == nil {
			if verr := validateRows(rows); verr == nil {
				c.mu.Lock()
				c.items = rows
				c.mu.Unlock()
				c.publish()
				return
			}
		}
		zap.L().Warn("synccache: discarding malformed local snapshot",
			zap.String("collection", c.table))
	}
	if len(c.defaults) > 0 {
		defaults := make([]T, len(c.defaults))
		copy(defaults, c.defaults)
		c.mu.Lock()
		c.items = defaults
		c.persistLocalLocked()
		c.mu.Unlock()
		c.publish()
		return
	}
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.publish()
}

// persistLocalLocked writes the full working set to the local cache under the
// collection's namespace key. Full replace, never a partial patch.
func (c *Collection[T]) persistLocalLocked() {
	if c.local == nil {
		return
	}
	items := c.items
	if items == nil {
		items = []T{}
	}
	value, err := encodeSnapshot(items)
	if err != nil {
		zap.L().Warn("synccache: snapshot encode failed", zap.String("collection", c.table), zap.Error(err))
		return
	}
	if err := c.local.Set(c.cacheKey, value); err != nil {
		zap.L().Warn("synccache: snapshot write failed", zap.String("collection", c.table), zap.Error(err))
	}
}

func (c *Collection[T]) publish() {
	c.bus.Publish(c.topic, c.Items())
}
