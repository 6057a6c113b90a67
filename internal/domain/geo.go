package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a WGS-84 coordinate pair in [latitude, longitude] order, matching
// the wire format of the street dataset artifact.
type Point [2]float64

// Lat returns the latitude component.
func (p Point) Lat() float64 { return p[0] }

// Lon returns the longitude component.
func (p Point) Lon() float64 { return p[1] }

// RoundPoint rounds both coordinates to 5 decimal places (~1 meter).
// The precision trade keeps the artifact small enough to ship to a browser.
func RoundPoint(p Point) Point {
	return Point{roundCoord(p[0]), roundCoord(p[1])}
}

func roundCoord(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// BoundingBox is a geographic rectangle. South < North and West < East for
// any box this system works with (no antimeridian handling needed for NYC).
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat() >= b.South && p.Lat() <= b.North &&
		p.Lon() >= b.West && p.Lon() <= b.East
}

// Pad expands the box on every side by ratio of the corresponding dimension,
// e.g. 0.3 grows a viewport by 30% in each direction. Used so segments just
// outside the visible area are materialized before the user pans to them.
func (b BoundingBox) Pad(ratio float64) BoundingBox {
	latPad := (b.North - b.South) * ratio
	lonPad := (b.East - b.West) * ratio
	return BoundingBox{
		South: b.South - latPad,
		West:  b.West - lonPad,
		North: b.North + latPad,
		East:  b.East + lonPad,
	}
}

// ParseBoundingBox parses a "south,west,north,east" string.
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bounding box %q: want 4 comma-separated values", s)
	}
	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bounding box %q: %w", s, err)
		}
		vals[i] = v
	}
	box := BoundingBox{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}
	if box.South >= box.North || box.West >= box.East {
		return BoundingBox{}, fmt.Errorf("bounding box %q: south/west must be less than north/east", s)
	}
	return box, nil
}
