package trafficrule

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Rules. legal speed collaborator used by the speed based metrics
type Rules interface {
	// GetMaxSpeed. legal maximum in km/h for roadClass (osm highway value) at c. ok=false if no limit is known
	GetMaxSpeed(c geo.Coordinate, roadClass string) (float64, bool)
}

// Region. country polygon + legal maximum speed per road class. a limit of 0 means no general limit
type Region struct {
	country string
	polygon orb.Polygon
	bound   orb.Bound
	limits  map[pkg.OsmHighwayType]float64

	// fallback regions match everything not matched by a country region
	fallback bool
}

func NewRegion(country string, polygon orb.Polygon, limits map[pkg.OsmHighwayType]float64) *Region {
	return &Region{
		country: country,
		polygon: polygon,
		bound:   polygon.Bound(),
		limits:  limits,
	}
}

// NewFallbackRegion. catch-all region, only consulted after every country region
func NewFallbackRegion(name string, limits map[pkg.OsmHighwayType]float64) *Region {
	r := NewRegion(name, box(-180, -90, 180, 90), limits)
	r.fallback = true
	return r
}

func (r *Region) IsFallback() bool {
	return r.fallback
}

func (r *Region) GetCountry() string {
	return r.country
}

func (r *Region) GetBound() orb.Bound {
	return r.bound
}

// Contains. bound pre-check first, polygon test only for points inside the bound
func (r *Region) Contains(c geo.Coordinate) bool {
	p := orb.Point{c.GetLon(), c.GetLat()}
	if !r.bound.Contains(p) {
		return false
	}
	return planar.PolygonContains(r.polygon, p)
}

func (r *Region) MaxSpeed(roadClass string) (float64, bool) {
	limit, ok := r.limits[pkg.GetHighwayType(roadClass)]
	if !ok || limit <= 0 {
		return 0, false
	}
	return limit, true
}

// RegionRules. first region (in list order) containing the position decides the limits
type RegionRules struct {
	regions []*Region
}

func NewRegionRules(regions ...*Region) *RegionRules {
	return &RegionRules{regions: regions}
}

func (rr *RegionRules) Lookup(c geo.Coordinate) (*Region, int) {
	fallback := -1
	for i, r := range rr.regions {
		if r.fallback {
			if fallback < 0 {
				fallback = i
			}
			continue
		}
		if r.Contains(c) {
			return r, i
		}
	}
	if fallback >= 0 && rr.regions[fallback].Contains(c) {
		return rr.regions[fallback], fallback
	}
	return nil, -1
}

func (rr *RegionRules) GetMaxSpeed(c geo.Coordinate, roadClass string) (float64, bool) {
	r, _ := rr.Lookup(c)
	if r == nil {
		return 0, false
	}
	return r.MaxSpeed(roadClass)
}

func (rr *RegionRules) regionAt(i int) *Region {
	if i < 0 || i >= len(rr.regions) {
		return nil
	}
	return rr.regions[i]
}

func box(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}}
}

// DefaultRegions. coarse country boxes, good enough to pick the national speed limits.
func DefaultRegions() []*Region {
	germany := NewRegion("DE", box(5.87, 47.27, 15.04, 55.06), map[pkg.OsmHighwayType]float64{
		pkg.MOTORWAY:       0,
		pkg.MOTORWAY_LINK:  0,
		pkg.MOTORROAD:      100,
		pkg.TRUNK:          100,
		pkg.TRUNK_LINK:     100,
		pkg.PRIMARY:        100,
		pkg.PRIMARY_LINK:   100,
		pkg.SECONDARY:      100,
		pkg.SECONDARY_LINK: 100,
		pkg.TERTIARY:       100,
		pkg.TERTIARY_LINK:  100,
		pkg.UNCLASSIFIED:   100,
		pkg.RESIDENTIAL:    50,
		pkg.SERVICE:        50,
		pkg.ROAD:           50,
		pkg.LIVING_STREET:  7,
	})

	// PP No. 79/2013 & Permenhub No. 111/2015
	indonesia := NewRegion("ID", box(95.0, -11.0, 141.0, 6.1), map[pkg.OsmHighwayType]float64{
		pkg.MOTORWAY:       100,
		pkg.MOTORWAY_LINK:  60,
		pkg.MOTORROAD:      80,
		pkg.TRUNK:          80,
		pkg.TRUNK_LINK:     60,
		pkg.PRIMARY:        80,
		pkg.PRIMARY_LINK:   50,
		pkg.SECONDARY:      60,
		pkg.SECONDARY_LINK: 50,
		pkg.TERTIARY:       50,
		pkg.TERTIARY_LINK:  40,
		pkg.UNCLASSIFIED:   50,
		pkg.RESIDENTIAL:    30,
		pkg.SERVICE:        30,
		pkg.ROAD:           30,
		pkg.LIVING_STREET:  20,
	})

	world := NewFallbackRegion("WORLD", map[pkg.OsmHighwayType]float64{})

	return []*Region{germany, indonesia, world}
}
