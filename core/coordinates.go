package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geographic represents a position in geographic coordinates
type Geographic struct {
	Lat float64 // Latitude in degrees [-90, 90], positive = north
	Lon float64 // Longitude in degrees [-180, 180), positive = east
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// GreatCircleAngle returns the central angle in radians between two points,
// using the spherical law of cosines. The cosine is clamped to [-1, 1] so
// rounding never pushes it outside acos's domain.
func GreatCircleAngle(a, b Geographic) float64 {
	lat1 := DegreesToRadians(a.Lat)
	lat2 := DegreesToRadians(b.Lat)
	dLon := math.Abs(DegreesToRadians(a.Lon) - DegreesToRadians(b.Lon))

	cosAngle := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Acos(math.Max(math.Min(cosAngle, 1.0), -1.0))
}

// GreatCircleDistance returns the surface distance in meters on a sphere of the given radius
func GreatCircleDistance(a, b Geographic, radius float64) float64 {
	return radius * GreatCircleAngle(a, b)
}

// GeographicToCartesian converts geographic coordinates to a point on a sphere.
// Origin at planet center, Y points to the north pole, X to 0° longitude.
func GeographicToCartesian(g Geographic, radius float64) mgl64.Vec3 {
	lat := DegreesToRadians(g.Lat)
	lon := DegreesToRadians(g.Lon)
	cosLat := math.Cos(lat)

	return mgl64.Vec3{
		radius * cosLat * math.Cos(lon),
		radius * math.Sin(lat),
		radius * cosLat * math.Sin(lon),
	}
}

// NormalizeLongitude wraps a longitude into [-180, 180)
func NormalizeLongitude(lon float64) float64 {
	for lon >= 180.0 {
		lon -= 360.0
	}
	for lon < -180.0 {
		lon += 360.0
	}
	return lon
}

// Position returns the cell's geographic coordinates
func (c *Cell) Position() Geographic {
	return Geographic{Lat: c.Latitude, Lon: c.Longitude}
}
