package geo

import (
	"math"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

// Point. point on a local tangent plane, in meter
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// ToPlane. equirectangular projection of c around origin. only valid for short distances (a few km)
func ToPlane(origin, c Coordinate) Point {
	x := util.DegreeToRadians(c.Lon-origin.Lon) * math.Cos(util.DegreeToRadians((c.Lat+origin.Lat)/2)) * earthRadiusKM * 1000
	y := util.DegreeToRadians(c.Lat-origin.Lat) * earthRadiusKM * 1000
	return NewPoint(x, y)
}

/*
SegmentFraction. position of the orthogonal projection of p onto segment a-b, as a fraction in [0,1] of the
segment length measured from a.
*/
func SegmentFraction(a, b, p Coordinate) float64 {
	pb := ToPlane(a, b)
	pp := ToPlane(a, p)
	segLen2 := pb.Dot(pb)
	if segLen2 == 0 {
		return 0
	}
	return util.ClampG(pp.Dot(pb)/segLen2, 0, 1)
}
