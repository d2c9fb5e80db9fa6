package spatialindex

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/tidwall/rtree"
)

// Rtree. point index of map nodes
type Rtree struct {
	tr *rtree.RTreeG[int64]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[int64]
	return &Rtree{
		tr: &tr,
	}
}

func (rt *Rtree) Insert(nodeID int64, lat, lon float64) {
	rt.tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, nodeID)
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius search for all node ids inside the bounding box of radius (in km) around the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []int64 {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]int64, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data int64) bool {
			results = append(results, data)
			return true
		})
	return results
}

// Scan. visit every indexed node id
func (rt *Rtree) Scan(iter func(nodeID int64) bool) {
	rt.tr.Scan(func(min, max [2]float64, data int64) bool {
		return iter(data)
	})
}
