// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialgo/flatgeobuf/flat"
)

func roundTrip(t *testing.T, g *Geometry, geometryType GeometryType, hasZ, hasM bool) *Geometry {
	t.Helper()
	b := flatbuffers.NewBuilder(256)
	off := g.Encode(b)
	b.Finish(off)

	node := flat.GetRootAsGeometry(b.FinishedBytes(), 0)
	out, err := Decode(node, geometryType, hasZ, hasM)
	require.NoError(t, err)
	return out
}

func TestEncodeDecode_Point(t *testing.T) {
	g := &Geometry{Type: TypePoint, XY: []float64{1, 2}}
	out := roundTrip(t, g, TypeUnknown, false, false)
	assert.Equal(t, TypePoint, out.Type)
	assert.Equal(t, []float64{1, 2}, out.XY)
}

func TestEncodeDecode_LineString(t *testing.T) {
	g := &Geometry{Type: TypeLineString, XY: []float64{0, 0, 1, 1, 2, 2}}
	out := roundTrip(t, g, TypeUnknown, false, false)
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2}, out.XY)
	assert.Empty(t, out.Ends)
}

func TestEncodeDecode_PolygonWithHole(t *testing.T) {
	g := &Geometry{
		Type: TypePolygon,
		XY:   []float64{0, 0, 10, 0, 10, 10, 0, 10, 0, 0, 2, 2, 8, 2, 8, 8, 2, 8, 2, 2},
		Ends: []uint32{5, 10},
	}
	out := roundTrip(t, g, TypeUnknown, false, false)
	assert.Equal(t, []uint32{5, 10}, out.Ends)
}

func TestEncodeDecode_MultiPolygonForcesPartType(t *testing.T) {
	poly := Geometry{Type: TypePolygon, XY: []float64{0, 0, 1, 0, 1, 1, 0, 1}}
	g := &Geometry{Type: TypeMultiPolygon, Parts: []Geometry{poly, poly}}
	out := roundTrip(t, g, TypeUnknown, false, false)
	require.Len(t, out.Parts, 2)
	assert.Equal(t, TypePolygon, out.Parts[0].Type)
}

func TestEncodeDecode_GeometryCollectionHonorsPartTags(t *testing.T) {
	pt := Geometry{Type: TypePoint, XY: []float64{1, 1}}
	ls := Geometry{Type: TypeLineString, XY: []float64{0, 0, 1, 1}}
	g := &Geometry{Type: TypeGeometryCollection, Parts: []Geometry{pt, ls}}
	out := roundTrip(t, g, TypeUnknown, false, false)
	require.Len(t, out.Parts, 2)
	assert.Equal(t, TypePoint, out.Parts[0].Type)
	assert.Equal(t, TypeLineString, out.Parts[1].Type)
}

func TestDecode_WrongDimensionalityArray(t *testing.T) {
	g := &Geometry{Type: TypePoint, XY: []float64{1, 2}}
	b := flatbuffers.NewBuilder(256)
	off := g.Encode(b)
	b.Finish(off)
	node := flat.GetRootAsGeometry(b.FinishedBytes(), 0)

	_, err := Decode(node, TypeUnknown, true, false)
	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, WrongDimensionalityArray, decErr.Kind)
}

func TestDecode_NilGeometry(t *testing.T) {
	_, err := Decode(nil, TypeUnknown, false, false)
	require.Error(t, err)
}

func TestGeometry_Bounds(t *testing.T) {
	g := &Geometry{Type: TypeLineString, XY: []float64{-1, 5, 3, -2, 0, 10}}
	xMin, yMin, xMax, yMax := g.Bounds()
	assert.Equal(t, -1.0, xMin)
	assert.Equal(t, -2.0, yMin)
	assert.Equal(t, 3.0, xMax)
	assert.Equal(t, 10.0, yMax)
}

func TestDecodeErrorKind_String(t *testing.T) {
	testCases := []struct {
		kind     DecodeErrorKind
		expected string
	}{
		{WrongDimensionalityArray, "wrong dimensionality array"},
		{OffsetOutOfRange, "offset out of range"},
		{UnsupportedType, "unsupported type"},
		{SizeOverflow, "size overflow"},
		{DecodeErrorKind(99), "unknown decode error"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.kind.String())
	}
}
