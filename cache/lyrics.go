package cache

import (
	"container/list"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"lyrics-resolver-go/logcolors"
	"lyrics-resolver-go/utils"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "lyrics"

// DefaultCapacity is the number of resolved results kept when no explicit
// capacity is configured.
const DefaultCapacity = 50

// LyricsCache is a bounded least-recently-used cache of resolved lyrics,
// keyed by track id (or "title|artist" when no id exists). Values are
// JSON-encoded results. Entries are only evicted under capacity pressure;
// there is no time-based expiry.
//
// When constructed with NewPersistent, successful writes go through to a
// BoltDB file so the cache survives restarts.
type LyricsCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	db       *bolt.DB
	compress bool

	hits   uint64
	misses uint64
}

type lruEntry struct {
	key   string
	value string
}

// New creates an in-memory cache with the given capacity.
func New(capacity int) *LyricsCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LyricsCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// NewPersistent creates a cache backed by a BoltDB file. Existing entries
// are loaded back into memory at startup (up to capacity). Values on disk
// are optionally gzip-compressed.
func NewPersistent(capacity int, dbPath string, compress bool) (*LyricsCache, error) {
	c := New(capacity)
	c.compress = compress

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %v", err)
	}

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %v", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %v", err)
	}

	c.db = db
	if err := c.loadFromDisk(); err != nil {
		log.Warnf("%s Failed to preload cache from disk: %v", logcolors.LogCacheInit, err)
	}

	log.Infof("%s Persistent cache initialized at %s (capacity: %d, compression: %v)",
		logcolors.LogCacheInit, dbPath, capacity, compress)
	return c, nil
}

// loadFromDisk fills the LRU with whatever the database holds, stopping at
// capacity. Recency order across restarts is not preserved.
func (c *LyricsCache) loadFromDisk() error {
	count := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if count >= c.capacity {
				return nil
			}
			value := string(v)
			if c.compress {
				decompressed, err := utils.DecompressString(value)
				if err != nil {
					log.Warnf("%s Failed to decompress entry for key %s: %v", logcolors.LogCache, string(k), err)
					return nil
				}
				value = decompressed
			}
			c.insert(string(k), value)
			count++
			return nil
		})
	})
	if err != nil {
		return err
	}
	log.Infof("%s Loaded %d entries from disk", logcolors.LogCacheInit, count)
	return nil
}

// Get returns the cached value for key and refreshes its recency.
func (c *LyricsCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

// Contains reports whether key is cached without touching recency or
// hit/miss counters.
func (c *LyricsCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Set stores value under key, evicting the least-recently-used entry when
// the cache is over capacity.
func (c *LyricsCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry).value = value
		c.order.MoveToFront(el)
		c.persist(key, value)
		return
	}

	c.insert(key, value)
	c.persist(key, value)

	for len(c.entries) > c.capacity {
		c.evictOldest()
	}
}

// insert adds a fresh entry at the front. Caller holds the lock.
func (c *LyricsCache) insert(key, value string) {
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, value: value})
}

// evictOldest drops the back of the recency list. Caller holds the lock.
func (c *LyricsCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*lruEntry)
	c.order.Remove(el)
	delete(c.entries, entry.key)
	log.Debugf("%s Evicted key: %s", logcolors.LogCacheEvict, entry.key)

	if c.db != nil {
		err := c.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			if b == nil {
				return nil
			}
			return b.Delete([]byte(entry.key))
		})
		if err != nil {
			log.Warnf("%s Failed to delete evicted key from disk: %v", logcolors.LogCache, err)
		}
	}
}

// persist writes the entry through to disk. Caller holds the lock.
func (c *LyricsCache) persist(key, value string) {
	if c.db == nil {
		return
	}

	finalValue := value
	if c.compress {
		compressed, err := utils.CompressString(value)
		if err != nil {
			log.Errorf("%s Error compressing cache value for key %s: %v", logcolors.LogCache, key, err)
			return
		}
		finalValue = compressed
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put([]byte(key), []byte(finalValue))
	})
	if err != nil {
		log.Errorf("%s Error persisting cache value for key %s: %v", logcolors.LogCache, key, err)
	}
}

// Delete removes a key from cache
func (c *LyricsCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return
	}
	c.order.Remove(el)
	delete(c.entries, key)

	if c.db != nil {
		err := c.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			if b == nil {
				return nil
			}
			return b.Delete([]byte(key))
		})
		if err != nil {
			log.Warnf("%s Failed to delete key from disk: %v", logcolors.LogCache, err)
		}
	}
}

// Len returns the number of cached entries.
func (c *LyricsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Range iterates over all cache entries in most-recently-used order.
func (c *LyricsCache) Range(fn func(key, value string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*lruEntry)
		if !fn(entry.key, entry.value) {
			return
		}
	}
}

// Stats returns hit/miss counters and the approximate in-memory size.
func (c *LyricsCache) Stats() (hits, misses uint64, numKeys, sizeKB int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	size := 0
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*lruEntry)
		size += len(entry.key) + len(entry.value)
	}
	return c.hits, c.misses, len(c.entries), size / 1024
}

// Close closes the database connection
func (c *LyricsCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
