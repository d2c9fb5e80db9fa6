package trafficrule

import (
	"math"
	"sync"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

const (
	DEFAULT_CACHE_SIZE = 64
	cellsPerDegree     = 100.0 // 0.01 degree cells
)

type cellKey struct {
	lat int32
	lon int32
}

func newCellKey(c geo.Coordinate) cellKey {
	return cellKey{
		lat: int32(math.Round(c.GetLat() * cellsPerDegree)),
		lon: int32(math.Round(c.GetLon() * cellsPerDegree)),
	}
}

// CachedLookup. memoizing RegionRules. the last matched country region is reused
// as long as the query point is still inside it, other positions go through an lru keyed by 0.01 degree cell.
// fallback regions are never kept as last match.
type CachedLookup struct {
	rules *RegionRules
	cache *lru.Cache[cellKey, int]

	mu   sync.Mutex
	last *Region
}

func NewCachedLookup(rules *RegionRules, size int) (*CachedLookup, error) {
	if size <= 0 {
		size = DEFAULT_CACHE_SIZE
	}
	cache, err := lru.New[cellKey, int](size)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "trafficrule: create lru cache")
	}
	return &CachedLookup{rules: rules, cache: cache}, nil
}

func (cl *CachedLookup) Lookup(c geo.Coordinate) *Region {
	cl.mu.Lock()
	last := cl.last
	cl.mu.Unlock()
	if last != nil && last.Contains(c) {
		return last
	}

	key := newCellKey(c)
	if idx, ok := cl.cache.Get(key); ok {
		r := cl.rules.regionAt(idx)
		cl.remember(r)
		return r
	}

	r, idx := cl.rules.Lookup(c)
	cl.cache.Add(key, idx)
	cl.remember(r)
	return r
}

func (cl *CachedLookup) remember(r *Region) {
	if r == nil || r.fallback {
		return
	}
	cl.mu.Lock()
	cl.last = r
	cl.mu.Unlock()
}

func (cl *CachedLookup) GetMaxSpeed(c geo.Coordinate, roadClass string) (float64, bool) {
	r := cl.Lookup(c)
	if r == nil {
		return 0, false
	}
	return r.MaxSpeed(roadClass)
}

// Purge. drops every memoized lookup
func (cl *CachedLookup) Purge() {
	cl.cache.Purge()
	cl.mu.Lock()
	cl.last = nil
	cl.mu.Unlock()
}

func (cl *CachedLookup) Len() int {
	return cl.cache.Len()
}
