package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/brewlab/hop-finder/internal/hops"
	"github.com/brewlab/hop-finder/internal/models"
)

// Snapshot is one immutable, normalized view of the hop catalog. The engine
// in the hops package never holds state; callers hand it a Snapshot's
// profiles per query.
type Snapshot struct {
	Profiles []models.HopProfile
}

// Get looks up a profile by its uniqueId ("Name (Source)"). Catalogs are
// small (a few hundred varieties), a linear scan is fine.
func (s *Snapshot) Get(uniqueID string) (models.HopProfile, bool) {
	for _, h := range s.Profiles {
		if h.UniqueID() == uniqueID {
			return h, true
		}
	}
	return models.HopProfile{}, false
}

// Decode reads a raw catalog JSON array (the hops.json contract) and
// normalizes it into a Snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var raw []hops.RawHopRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &Snapshot{Profiles: hops.NormalizeCatalog(raw)}, nil
}

// LoadFile reads and normalizes a catalog file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Decode(data)
}

// Cache holds the current Snapshot and swaps it atomically on reload.
// Catalog lifetime lives here so the engine can stay pure; concurrent
// readers always see a complete snapshot.
type Cache struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewCache(snap *Snapshot) *Cache {
	return &Cache{snap: snap}
}

// Current returns the active snapshot. Never nil once the cache has been
// constructed with one.
func (c *Cache) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Replace swaps in a new snapshot.
func (c *Cache) Replace(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}
