// internal/cache/cache.go
package cache

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft-backend/internal/models"
)

const defaultShardCount = 16

// RenderCache holds the last-read block list per subsection so repeated public
// reads skip the database. It is a disposable, derived view: every block
// mutation removes the affected entry and the next read repopulates it.
type RenderCache interface {
	Get(subsectionID uuid.UUID) ([]models.Block, bool)
	Set(subsectionID uuid.UUID, blocks []models.Block)
	Invalidate(subsectionID uuid.UUID)
	InvalidateAll()
}

type shard struct {
	mu    sync.RWMutex
	items map[uuid.UUID][]models.Block
}

// BlockCache is a sharded in-memory RenderCache. Entries never expire on
// their own; invalidation is explicit on every mutation, so a TTL would only
// hide a missed invalidation instead of fixing it.
type BlockCache struct {
	shards     []*shard
	shardCount int
}

func NewBlockCache(shardCount int) *BlockCache {
	if shardCount < 1 {
		shardCount = defaultShardCount
	}
	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{items: make(map[uuid.UUID][]models.Block)}
	}
	return &BlockCache{shards: shards, shardCount: shardCount}
}

func (c *BlockCache) getShard(key uuid.UUID) *shard {
	hash := fnv.New32a()
	hash.Write(key[:])
	return c.shards[hash.Sum32()%uint32(c.shardCount)]
}

func (c *BlockCache) Get(subsectionID uuid.UUID) ([]models.Block, bool) {
	s := c.getShard(subsectionID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks, exists := s.items[subsectionID]
	return blocks, exists
}

func (c *BlockCache) Set(subsectionID uuid.UUID, blocks []models.Block) {
	// Copy so later mutations of the caller's slice cannot leak into the cache.
	stored := make([]models.Block, len(blocks))
	copy(stored, blocks)

	s := c.getShard(subsectionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[subsectionID] = stored
}

func (c *BlockCache) Invalidate(subsectionID uuid.UUID) {
	s := c.getShard(subsectionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, subsectionID)
}

func (c *BlockCache) InvalidateAll() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.items = make(map[uuid.UUID][]models.Block)
		s.mu.Unlock()
	}
}

// Len reports the total number of cached subsections.
func (c *BlockCache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.items)
		s.mu.RUnlock()
	}
	return total
}

// NoopCache satisfies RenderCache without storing anything; used in tests
// that must observe every database read.
type NoopCache struct{}

func (NoopCache) Get(uuid.UUID) ([]models.Block, bool)  { return nil, false }
func (NoopCache) Set(uuid.UUID, []models.Block)         {}
func (NoopCache) Invalidate(uuid.UUID)                  {}
func (NoopCache) InvalidateAll()                        {}

var (
	_ RenderCache = (*BlockCache)(nil)
	_ RenderCache = NoopCache{}
)
