// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package geomorb adapts the FlatGeobuf geometry tree (package geom) to
// and from github.com/paulmach/orb, for applications that already build
// their geometry logic on orb.
package geomorb

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/spatialgo/flatgeobuf/geom"
)

// ToOrb converts a decoded geom.Geometry into an orb.Geometry.
func ToOrb(g *geom.Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	switch g.Type {
	case geom.TypePoint:
		return pointFromXY(g), nil
	case geom.TypeMultiPoint:
		return multiPointFromXY(g), nil
	case geom.TypeLineString:
		return lineStringFromXY(g), nil
	case geom.TypeMultiLineString:
		return multiLineStringFromXYEnds(g), nil
	case geom.TypePolygon:
		return polygonFromXYEnds(g), nil
	case geom.TypeMultiPolygon:
		return multiPolygonFromParts(g)
	case geom.TypeGeometryCollection:
		return collectionFromParts(g)
	default:
		return nil, fmt.Errorf("geomorb: unsupported geometry type %v", g.Type)
	}
}

// FromOrb converts an orb.Geometry into a geom.Geometry tree ready for
// geom.Geometry.Encode.
func FromOrb(g orb.Geometry) (*geom.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	switch v := g.(type) {
	case orb.Point:
		return &geom.Geometry{Type: geom.TypePoint, XY: []float64{v[0], v[1]}}, nil

	case orb.MultiPoint:
		xy := make([]float64, 0, len(v)*2)
		for _, p := range v {
			xy = append(xy, p[0], p[1])
		}
		return &geom.Geometry{Type: geom.TypeMultiPoint, XY: xy}, nil

	case orb.LineString:
		return &geom.Geometry{Type: geom.TypeLineString, XY: lineStringToXY(v)}, nil

	case orb.MultiLineString:
		xy, ends := multiLineStringToXYEnds(v)
		return &geom.Geometry{Type: geom.TypeMultiLineString, XY: xy, Ends: ends}, nil

	case orb.Ring:
		return &geom.Geometry{Type: geom.TypePolygon, XY: ringToXY(v), Ends: []uint32{uint32(len(v))}}, nil

	case orb.Polygon:
		xy, ends := polygonToXYEnds(v)
		return &geom.Geometry{Type: geom.TypePolygon, XY: xy, Ends: ends}, nil

	case orb.MultiPolygon:
		parts := make([]geom.Geometry, 0, len(v))
		for _, poly := range v {
			xy, ends := polygonToXYEnds(poly)
			parts = append(parts, geom.Geometry{Type: geom.TypePolygon, XY: xy, Ends: ends})
		}
		return &geom.Geometry{Type: geom.TypeMultiPolygon, Parts: parts}, nil

	case orb.Collection:
		parts := make([]geom.Geometry, 0, len(v))
		for _, child := range v {
			cg, err := FromOrb(child)
			if err != nil {
				return nil, err
			}
			if cg != nil {
				parts = append(parts, *cg)
			}
		}
		return &geom.Geometry{Type: geom.TypeGeometryCollection, Parts: parts}, nil

	case orb.Bound:
		poly := boundToPolygon(v)
		xy, ends := polygonToXYEnds(poly)
		return &geom.Geometry{Type: geom.TypePolygon, XY: xy, Ends: ends}, nil

	default:
		return nil, fmt.Errorf("geomorb: unsupported orb.Geometry %T", g)
	}
}

func lineStringToXY(ls orb.LineString) []float64 {
	xy := make([]float64, 0, len(ls)*2)
	for _, p := range ls {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func ringToXY(r orb.Ring) []float64 {
	xy := make([]float64, 0, len(r)*2)
	for _, p := range r {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func multiLineStringToXYEnds(mls orb.MultiLineString) ([]float64, []uint32) {
	total := 0
	for _, ls := range mls {
		total += len(ls)
	}
	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, len(mls))
	var cumulative uint32
	for _, ls := range mls {
		for _, p := range ls {
			xy = append(xy, p[0], p[1])
		}
		cumulative += uint32(len(ls))
		ends = append(ends, cumulative)
	}
	return xy, ends
}

func polygonToXYEnds(poly orb.Polygon) ([]float64, []uint32) {
	total := 0
	for _, ring := range poly {
		total += len(ring)
	}
	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, len(poly))
	var cumulative uint32
	for _, ring := range poly {
		for _, p := range ring {
			xy = append(xy, p[0], p[1])
		}
		cumulative += uint32(len(ring))
		ends = append(ends, cumulative)
	}
	return xy, ends
}

func boundToPolygon(b orb.Bound) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{b.Min[0], b.Min[1]},
			{b.Max[0], b.Min[1]},
			{b.Max[0], b.Max[1]},
			{b.Min[0], b.Max[1]},
			{b.Min[0], b.Min[1]},
		},
	}
}

func pointFromXY(g *geom.Geometry) orb.Point {
	if len(g.XY) < 2 {
		return orb.Point{}
	}
	return orb.Point{g.XY[0], g.XY[1]}
}

func multiPointFromXY(g *geom.Geometry) orb.MultiPoint {
	n := len(g.XY)
	mp := make(orb.MultiPoint, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		mp = append(mp, orb.Point{g.XY[i], g.XY[i+1]})
	}
	return mp
}

func lineStringFromXY(g *geom.Geometry) orb.LineString {
	n := len(g.XY)
	ls := make(orb.LineString, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		ls = append(ls, orb.Point{g.XY[i], g.XY[i+1]})
	}
	return ls
}

func multiLineStringFromXYEnds(g *geom.Geometry) orb.MultiLineString {
	if len(g.Ends) == 0 {
		if len(g.XY) >= 2 {
			return orb.MultiLineString{lineStringFromXY(g)}
		}
		return orb.MultiLineString{}
	}
	mls := make(orb.MultiLineString, 0, len(g.Ends))
	var start uint32
	for _, end := range g.Ends {
		ls := make(orb.LineString, 0, end-start)
		for j := start; j < end; j++ {
			idx := int(j) * 2
			if idx+1 < len(g.XY) {
				ls = append(ls, orb.Point{g.XY[idx], g.XY[idx+1]})
			}
		}
		mls = append(mls, ls)
		start = end
	}
	return mls
}

func polygonFromXYEnds(g *geom.Geometry) orb.Polygon {
	if len(g.XY) < 2 {
		return orb.Polygon{}
	}
	if len(g.Ends) == 0 {
		ring := make(orb.Ring, 0, len(g.XY)/2)
		for i := 0; i+1 < len(g.XY); i += 2 {
			ring = append(ring, orb.Point{g.XY[i], g.XY[i+1]})
		}
		return orb.Polygon{ring}
	}
	poly := make(orb.Polygon, 0, len(g.Ends))
	var start uint32
	for _, end := range g.Ends {
		ring := make(orb.Ring, 0, end-start)
		for j := start; j < end; j++ {
			idx := int(j) * 2
			if idx+1 < len(g.XY) {
				ring = append(ring, orb.Point{g.XY[idx], g.XY[idx+1]})
			}
		}
		poly = append(poly, ring)
		start = end
	}
	return poly
}

func multiPolygonFromParts(g *geom.Geometry) (orb.MultiPolygon, error) {
	if len(g.Parts) == 0 {
		poly := polygonFromXYEnds(g)
		if len(poly) > 0 {
			return orb.MultiPolygon{poly}, nil
		}
		return orb.MultiPolygon{}, nil
	}
	mp := make(orb.MultiPolygon, 0, len(g.Parts))
	for i := range g.Parts {
		mp = append(mp, polygonFromXYEnds(&g.Parts[i]))
	}
	return mp, nil
}

func collectionFromParts(g *geom.Geometry) (orb.Collection, error) {
	coll := make(orb.Collection, 0, len(g.Parts))
	for i := range g.Parts {
		child, err := ToOrb(&g.Parts[i])
		if err != nil {
			return nil, err
		}
		if child != nil {
			coll = append(coll, child)
		}
	}
	return coll, nil
}
