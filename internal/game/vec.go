package game

import (
	"math"
	"time"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Lerp interpolates from a to b, t is not clamped.
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Anchor is where notes of one track appear and where they should be hit.
type Anchor struct {
	Spawn, Hit Vec3
}

// ToDistance converts a time span to the absolute distance a note travels
// in it at speed.
func ToDistance(d time.Duration, speed float64) float64 {
	return math.Abs(d.Seconds()) * speed
}

// ToDuration is the time a note needs to travel distance at speed.
func ToDuration(distance, speed float64) time.Duration {
	if speed <= 0 {
		return 0
	}
	return time.Duration(math.Round(distance / speed * float64(time.Second)))
}
