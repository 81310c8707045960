// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package geomorb

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialgo/flatgeobuf/geom"
)

func TestFromOrb_Point(t *testing.T) {
	g, err := FromOrb(orb.Point{1, 2})
	require.NoError(t, err)
	assert.Equal(t, geom.TypePoint, g.Type)
	assert.Equal(t, []float64{1, 2}, g.XY)
}

func TestFromOrb_Polygon(t *testing.T) {
	poly := orb.Polygon{
		orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		orb.Ring{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},
	}
	g, err := FromOrb(poly)
	require.NoError(t, err)
	assert.Equal(t, geom.TypePolygon, g.Type)
	assert.Equal(t, []uint32{5, 10}, g.Ends)
}

func TestToOrb_RoundTripMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		{orb.Ring{{5, 5}, {6, 5}, {6, 6}, {5, 6}, {5, 5}}},
	}
	g, err := FromOrb(mp)
	require.NoError(t, err)

	out, err := ToOrb(g)
	require.NoError(t, err)
	assert.Equal(t, mp, out)
}

func TestToOrb_Collection(t *testing.T) {
	g := &geom.Geometry{
		Type: geom.TypeGeometryCollection,
		Parts: []geom.Geometry{
			{Type: geom.TypePoint, XY: []float64{1, 1}},
			{Type: geom.TypeLineString, XY: []float64{0, 0, 1, 1}},
		},
	}
	out, err := ToOrb(g)
	require.NoError(t, err)
	coll, ok := out.(orb.Collection)
	require.True(t, ok)
	require.Len(t, coll, 2)
	assert.Equal(t, orb.Point{1, 1}, coll[0])
}

func TestToOrb_Nil(t *testing.T) {
	out, err := ToOrb(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestFromOrb_UnsupportedType(t *testing.T) {
	_, err := FromOrb(unsupportedGeometry{})
	assert.Error(t, err)
}

type unsupportedGeometry struct{}

func (unsupportedGeometry) GeoJSONType() string         { return "Unsupported" }
func (unsupportedGeometry) Dimensions() int             { return 0 }
func (unsupportedGeometry) Bound() orb.Bound            { return orb.Bound{} }
