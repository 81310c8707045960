// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package geom implements the FlatGeobuf geometry codec: conversion
// between the flat, parallel-array on-disk Geometry representation
// (package flat) and an in-memory, recursive Geometry tree suitable
// for application code and for adapting to third-party geometry
// libraries such as github.com/paulmach/orb.
package geom

import (
	"math"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/spatialgo/flatgeobuf/flat"
)

// Geometry is an in-memory FlatGeobuf geometry. Single-node types
// (Point, MultiPoint, LineString, MultiLineString, Polygon) store their
// coordinates directly in XY/Z/M, with Ends marking ring/line
// boundaries where more than one ring or line shares a single flat
// array. Collection types (MultiPolygon, GeometryCollection, and the
// curve/surface types that aggregate children) instead populate Parts.
type Geometry struct {
	Type GeometryType
	XY   []float64
	Z    []float64
	M    []float64
	Ends []uint32
	Parts []Geometry
}

// GeometryType mirrors flat.GeometryType so callers of this package
// are not required to import package flat directly.
type GeometryType = flat.GeometryType

const (
	TypeUnknown            = flat.GeometryTypeUnknown
	TypePoint              = flat.GeometryTypePoint
	TypeMultiPoint         = flat.GeometryTypeMultiPoint
	TypeLineString         = flat.GeometryTypeLineString
	TypeMultiLineString    = flat.GeometryTypeMultiLineString
	TypePolygon            = flat.GeometryTypePolygon
	TypeMultiPolygon       = flat.GeometryTypeMultiPolygon
	TypeGeometryCollection = flat.GeometryTypeGeometryCollection
	TypeCircularString     = flat.GeometryTypeCircularString
	TypeCompoundCurve      = flat.GeometryTypeCompoundCurve
	TypeCurvePolygon       = flat.GeometryTypeCurvePolygon
	TypeMultiCurve         = flat.GeometryTypeMultiCurve
	TypeMultiSurface       = flat.GeometryTypeMultiSurface
	TypePolyhedralSurface  = flat.GeometryTypePolyhedralSurface
	TypeTIN                = flat.GeometryTypeTIN
	TypeTriangle           = flat.GeometryTypeTriangle
)

// DecodeErrorKind classifies a failure to decode a flat.Geometry into
// a Geometry.
type DecodeErrorKind int

const (
	// WrongDimensionalityArray means the Z or M array's length does
	// not match the XY array's point count.
	WrongDimensionalityArray DecodeErrorKind = iota
	// OffsetOutOfRange means an Ends value is smaller than the one
	// before it or exceeds the XY point count.
	OffsetOutOfRange
	// UnsupportedType means the GeometryType is not one this package
	// knows how to decode.
	UnsupportedType
	// SizeOverflow means a vector length would overflow int when
	// doubled or otherwise combined during decoding.
	SizeOverflow
)

func (k DecodeErrorKind) String() string {
	switch k {
	case WrongDimensionalityArray:
		return "wrong dimensionality array"
	case OffsetOutOfRange:
		return "offset out of range"
	case UnsupportedType:
		return "unsupported type"
	case SizeOverflow:
		return "size overflow"
	default:
		return "unknown decode error"
	}
}

// DecodeError reports why Decode failed.
type DecodeError struct {
	Kind DecodeErrorKind
	Msg  string
}

func (e *DecodeError) Error() string {
	return "geom: " + e.Kind.String() + ": " + e.Msg
}

func decErr(kind DecodeErrorKind, msg string) error {
	return &DecodeError{Kind: kind, Msg: msg}
}

// FeatureMaxBufferSize caps the coordinate count a single feature's
// geometry may carry, mirroring the wire format's own defensive limit
// on feature size.
const FeatureMaxBufferSize = 2 * 1024 * 1024 * 1024

// Decode converts a flat.Geometry table, as read from a FlatGeobuf
// Feature, into a Geometry tree. geometryType is the dataset's header
// geometry type; when it is not TypeUnknown, it takes precedence over
// the node's own type tag, except for parts of a GeometryCollection,
// where each part's own tag always applies. hasZ/hasM declare whether
// the z/m arrays are required to be present at every level.
func Decode(g *flat.Geometry, geometryType GeometryType, hasZ, hasM bool) (*Geometry, error) {
	if g == nil {
		return nil, decErr(UnsupportedType, "nil geometry")
	}
	return decode(g, geometryType, hasZ, hasM)
}

func decode(g *flat.Geometry, geometryType GeometryType, hasZ, hasM bool) (*Geometry, error) {
	n := g.XyLength()
	if n%2 != 0 {
		return nil, decErr(WrongDimensionalityArray, "xy array has odd length")
	}
	numPoints := n / 2
	if numPoints > math.MaxInt32 {
		return nil, decErr(SizeOverflow, "too many points")
	}
	if numPoints > FeatureMaxBufferSize/2 {
		return nil, decErr(SizeOverflow, "coordinate count exceeds feature maximum")
	}

	zLen, mLen := g.ZLength(), g.MLength()
	if hasZ && zLen != numPoints {
		return nil, decErr(WrongDimensionalityArray, "z array length does not match xy point count")
	}
	if hasM && mLen != numPoints {
		return nil, decErr(WrongDimensionalityArray, "m array length does not match xy point count")
	}

	effectiveType := geometryType
	if effectiveType == TypeUnknown {
		effectiveType = g.Type()
	}

	out := &Geometry{Type: effectiveType}
	if n > 0 {
		out.XY = make([]float64, n)
		for i := 0; i < n; i++ {
			out.XY[i] = g.Xy(i)
		}
	}
	if zLen > 0 {
		out.Z = make([]float64, zLen)
		for i := 0; i < zLen; i++ {
			out.Z[i] = g.Z(i)
		}
	}
	if mLen > 0 {
		out.M = make([]float64, mLen)
		for i := 0; i < mLen; i++ {
			out.M[i] = g.M(i)
		}
	}

	endsLen := g.EndsLength()
	if endsLen > 0 {
		out.Ends = make([]uint32, endsLen)
		var prev uint32
		for i := 0; i < endsLen; i++ {
			e := g.Ends(i)
			if e < prev || int(e) > numPoints {
				return nil, decErr(OffsetOutOfRange, "ends value out of range or not increasing")
			}
			out.Ends[i] = e
			prev = e
		}
	}

	partsLen := g.PartsLength()
	if partsLen > 0 {
		// MultiPolygon parts are always polygons regardless of their
		// own tag; GeometryCollection honors each part's own tag.
		partType := TypeUnknown
		if out.Type == TypeMultiPolygon {
			partType = TypePolygon
		}
		out.Parts = make([]Geometry, 0, partsLen)
		for i := 0; i < partsLen; i++ {
			var child flat.Geometry
			if !g.Parts(&child, i) {
				return nil, decErr(OffsetOutOfRange, "failed to locate part")
			}
			decoded, err := decode(&child, partType, hasZ, hasM)
			if err != nil {
				return nil, err
			}
			out.Parts = append(out.Parts, *decoded)
		}
	}

	switch out.Type {
	case TypeUnknown, TypePoint, TypeMultiPoint, TypeLineString, TypeMultiLineString,
		TypePolygon, TypeMultiPolygon, TypeGeometryCollection, TypeCircularString,
		TypeCompoundCurve, TypeCurvePolygon, TypeMultiCurve, TypeMultiSurface,
		TypePolyhedralSurface, TypeTIN, TypeTriangle:
		// Known type.
	default:
		return nil, decErr(UnsupportedType, out.Type.String())
	}

	return out, nil
}

// Encode serializes the Geometry tree as a flat.Geometry table within
// builder, returning the table's offset. A Polygon with a single ring
// is written without an ends vector.
func (g *Geometry) Encode(b *flatbuffers.Builder) flatbuffers.UOffsetT {
	partOffsets := make([]flatbuffers.UOffsetT, len(g.Parts))
	for i := range g.Parts {
		partOffsets[i] = g.Parts[i].Encode(b)
	}

	var endsOff, xyOff, zOff, mOff, partsOff flatbuffers.UOffsetT
	if len(g.Ends) > 0 && !(g.Type == TypePolygon && len(g.Ends) == 1) {
		flat.GeometryStartEndsVector(b, len(g.Ends))
		for i := len(g.Ends) - 1; i >= 0; i-- {
			b.PrependUint32(g.Ends[i])
		}
		endsOff = b.EndVector(len(g.Ends))
	}
	if len(g.XY) > 0 {
		flat.GeometryStartXyVector(b, len(g.XY))
		for i := len(g.XY) - 1; i >= 0; i-- {
			b.PrependFloat64(g.XY[i])
		}
		xyOff = b.EndVector(len(g.XY))
	}
	if len(g.Z) > 0 {
		flat.GeometryStartZVector(b, len(g.Z))
		for i := len(g.Z) - 1; i >= 0; i-- {
			b.PrependFloat64(g.Z[i])
		}
		zOff = b.EndVector(len(g.Z))
	}
	if len(g.M) > 0 {
		flat.GeometryStartMVector(b, len(g.M))
		for i := len(g.M) - 1; i >= 0; i-- {
			b.PrependFloat64(g.M[i])
		}
		mOff = b.EndVector(len(g.M))
	}
	if len(partOffsets) > 0 {
		flat.GeometryStartPartsVector(b, len(partOffsets))
		for i := len(partOffsets) - 1; i >= 0; i-- {
			b.PrependUOffsetT(partOffsets[i])
		}
		partsOff = b.EndVector(len(partOffsets))
	}

	flat.GeometryStart(b)
	if endsOff != 0 {
		flat.GeometryAddEnds(b, endsOff)
	}
	if xyOff != 0 {
		flat.GeometryAddXy(b, xyOff)
	}
	if zOff != 0 {
		flat.GeometryAddZ(b, zOff)
	}
	if mOff != 0 {
		flat.GeometryAddM(b, mOff)
	}
	if partsOff != 0 {
		flat.GeometryAddParts(b, partsOff)
	}
	flat.GeometryAddType(b, g.Type)
	return flat.GeometryEnd(b)
}

// Bounds returns the minimum bounding rectangle of the geometry as
// (xMin, yMin, xMax, yMax). Returns a degenerate, inverted box if the
// geometry has no coordinates.
func (g *Geometry) Bounds() (xMin, yMin, xMax, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	g.expandBounds(&xMin, &yMin, &xMax, &yMax)
	return
}

func (g *Geometry) expandBounds(xMin, yMin, xMax, yMax *float64) {
	for i := 0; i < len(g.XY); i += 2 {
		x, y := g.XY[i], g.XY[i+1]
		if x < *xMin {
			*xMin = x
		}
		if x > *xMax {
			*xMax = x
		}
		if y < *yMin {
			*yMin = y
		}
		if y > *yMax {
			*yMax = y
		}
	}
	for i := range g.Parts {
		g.Parts[i].expandBounds(xMin, yMin, xMax, yMax)
	}
}
