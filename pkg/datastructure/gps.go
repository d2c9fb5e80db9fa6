package datastructure

import "time"

type GPSPoint struct {
	lon      float64
	lat      float64
	time     time.Time
	speed    float64 // 0 before the first speed update
	course   float64 // degree, 0 = north
	altitude float64
}

func NewGPSPoint(lat, lon float64, t time.Time, speed float64) *GPSPoint {
	return &GPSPoint{
		lon:   lon,
		lat:   lat,
		time:  t,
		speed: speed,
	}
}

func NewGPSPointFull(lat, lon float64, t time.Time, speed, course, altitude float64) *GPSPoint {
	return &GPSPoint{
		lon:      lon,
		lat:      lat,
		time:     t,
		speed:    speed,
		course:   course,
		altitude: altitude,
	}
}

func (gp *GPSPoint) Lon() float64 {
	return gp.lon
}

func (gp *GPSPoint) Lat() float64 {
	return gp.lat
}

func (gp *GPSPoint) Time() time.Time {
	return gp.time
}

func (gp *GPSPoint) Speed() float64 {
	return gp.speed
}

func (gp *GPSPoint) Course() float64 {
	return gp.course
}

func (gp *GPSPoint) Altitude() float64 {
	return gp.altitude
}
