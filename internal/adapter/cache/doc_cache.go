package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// DocCache memoizes DocumentModels per source unit. Durable storage is
// delegated to a port.CacheStore; the cache only decides whether a stored
// entry is still valid for the unit at hand.
//
// The one-slot memory shortcut is not synchronized. Use one DocCache per
// goroutine or disable the slot with WithMemorySlot(false).
type DocCache struct {
	store  port.CacheStore
	marker string
	now    func() time.Time
	logger *log.Logger

	useSlot bool
	last    *domain.DocumentModel
	lastMod time.Time
}

type Option func(*DocCache)

func WithMemorySlot(enabled bool) Option {
	return func(c *DocCache) { c.useSlot = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(c *DocCache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *DocCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewDocCache creates a cache over store. Entries written under a different
// marker are ignored. A nil store keeps only the memory slot.
func NewDocCache(store port.CacheStore, marker string, opts ...Option) *DocCache {
	if store == nil {
		store = port.StoreFuncs{}
	}
	c := &DocCache{
		store:   store,
		marker:  marker,
		now:     time.Now,
		logger:  log.Default().WithPrefix("doc-cache"),
		useSlot: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DocCache) Marker() string {
	return c.marker
}

func cacheKey(identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(hash[:16])
}

// Get returns the cached model for unit. A stored entry is accepted only if
// its marker matches and the unit was last modified strictly before the
// entry was written.
func (c *DocCache) Get(unit domain.SourceUnit) (*domain.DocumentModel, bool) {
	if c.useSlot && c.last != nil && c.last.Identity == unit.Identity && c.lastMod.Equal(unit.ModTime) {
		c.logger.Debug("memory hit", "unit", unit.Identity)
		return c.last.WithProvenance(domain.ProvenanceMemory), true
	}

	key := cacheKey(unit.Identity)
	data, err := c.store.Read(key)
	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			c.logger.Warn("cache read failed", "unit", unit.Identity, "error", err)
		}
		return nil, false
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("discarding unreadable cache entry", "unit", unit.Identity, "error", err)
		return nil, false
	}
	switch {
	case entry.Model == nil || entry.Hash != key:
		return nil, false
	case entry.Marker != c.marker:
		c.logger.Debug("stale marker", "unit", unit.Identity, "marker", entry.Marker)
		return nil, false
	case !unit.ModTime.Before(time.Unix(0, entry.WrittenAt)):
		c.logger.Debug("unit modified since cached", "unit", unit.Identity)
		return nil, false
	}

	if entry.Model.Index == nil {
		entry.Model.Index = map[string]int{}
	}
	if entry.Model.Declarations == nil {
		entry.Model.Declarations = []domain.Declaration{}
	}
	c.remember(unit, entry.Model)
	c.logger.Debug("disk hit", "unit", unit.Identity)
	return entry.Model.WithProvenance(domain.ProvenanceDisk), true
}

// Put stores model for unit. Models carrying errors are not cached.
func (c *DocCache) Put(unit domain.SourceUnit, model *domain.DocumentModel) {
	if model == nil || len(model.Errors) > 0 {
		return
	}
	stored := model.WithProvenance(domain.ProvenanceFresh)
	c.remember(unit, stored)

	key := cacheKey(unit.Identity)
	data, err := json.Marshal(domain.CacheEntry{
		Hash:      key,
		Model:     stored,
		WrittenAt: c.now().UnixNano(),
		Marker:    c.marker,
	})
	if err != nil {
		c.logger.Warn("failed to encode cache entry", "unit", unit.Identity, "error", err)
		return
	}
	if err := c.store.Write(key, data); err != nil {
		c.logger.Warn("cache write failed", "unit", unit.Identity, "error", err)
	}
}

// Forget clears the memory slot.
func (c *DocCache) Forget() {
	c.last = nil
	c.lastMod = time.Time{}
}

func (c *DocCache) remember(unit domain.SourceUnit, model *domain.DocumentModel) {
	if !c.useSlot {
		return
	}
	c.last = model
	c.lastMod = unit.ModTime
}
