package scanner

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

const DefaultCacheCapacity = 500

type CacheEntry struct {
	ScanCode    string    `json:"scan_code"`
	Name        string    `json:"name"`
	CheckInTime time.Time `json:"check_in_time"`
	Offline     bool      `json:"offline,omitempty"`
}

// CheckInCache remembers codes this client has already processed so an
// obviously repeated scan never costs a network round trip. It is advisory
// only; the server ledger stays authoritative. Capacity is bounded with
// oldest-first eviction.
type CheckInCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	byCode   map[string]CacheEntry
}

func NewCheckInCache(capacity int) *CheckInCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CheckInCache{
		capacity: capacity,
		byCode:   make(map[string]CacheEntry),
	}
}

func (c *CheckInCache) Lookup(scanCode string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.byCode[scanCode]
	return entry, ok
}

// Add records an entry, keeping the first one for a code: the original
// check-in time is the one that matters.
func (c *CheckInCache) Add(entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byCode[entry.ScanCode]; ok {
		return
	}
	c.order = append(c.order, entry.ScanCode)
	c.byCode[entry.ScanCode] = entry

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.byCode, oldest)
	}
}

func (c *CheckInCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Entries returns a copy, oldest first.
func (c *CheckInCache) Entries() []CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CacheEntry, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

// Save persists the cache as JSON so a restarted console keeps its local
// duplicate history (the browser client used localStorage for this).
func (c *CheckInCache) Save(path string) error {
	data, err := json.MarshalIndent(c.Entries(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadCheckInCache reads a saved cache; a missing file yields an empty one.
// When the file holds more entries than capacity, the newest are kept.
func LoadCheckInCache(path string, capacity int) (*CheckInCache, error) {
	cache := NewCheckInCache(capacity)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []CacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if len(entries) > cache.capacity {
		entries = entries[len(entries)-cache.capacity:]
	}
	for _, entry := range entries {
		cache.Add(entry)
	}
	return cache, nil
}
