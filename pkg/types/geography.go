package types

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// GeoShape constrains which geometry kinds a GEOGRAPHY field accepts.
type GeoShape uint8

const (
	ShapeAny GeoShape = iota
	ShapePoint
	ShapeLineString
	ShapePolygon
)

func (s GeoShape) String() string {
	switch s {
	case ShapeAny:
		return "ANY"
	case ShapePoint:
		return "POINT"
	case ShapeLineString:
		return "LINESTRING"
	case ShapePolygon:
		return "POLYGON"
	}
	return "GEOSHAPE(?)"
}

// Geography wraps a geometry value. On disk it is stored as WKB in the
// record's variable-length tail.
type Geography struct {
	geom orb.Geometry
}

// NewGeography wraps an orb geometry.
func NewGeography(g orb.Geometry) Geography {
	return Geography{geom: g}
}

// Geometry returns the wrapped geometry.
func (g Geography) Geometry() orb.Geometry {
	return g.geom
}

// Shape reports the geometry kind. Geometries outside the point /
// linestring / polygon trio report ShapeAny and only satisfy
// unconstrained fields.
func (g Geography) Shape() GeoShape {
	switch g.geom.(type) {
	case orb.Point:
		return ShapePoint
	case orb.LineString:
		return ShapeLineString
	case orb.Polygon:
		return ShapePolygon
	}
	return ShapeAny
}

// AsWKB serializes the geometry as little-endian WKB.
func (g Geography) AsWKB() ([]byte, error) {
	return wkb.Marshal(g.geom)
}
