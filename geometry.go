// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import (
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"

	"github.com/spatialgo/flatgeobuf/geom"
	"github.com/spatialgo/flatgeobuf/geomorb"
)

// DecodeGeometry decodes f's geometry into an in-memory tree, using
// hdr to resolve the dataset's dominant geometry type and
// dimensionality flags.
func (f *Feature) DecodeGeometry(hdr *Header) (g *geom.Geometry, err error) {
	err = safeFlatBuffersInteraction(func() error {
		var node Geometry
		if f.Geometry(&node) == nil {
			return nil
		}
		g, err = geom.Decode(&node, hdr.GeometryType(), hdr.HasZ(), hdr.HasM())
		return err
	})
	return g, err
}

// EncodeGeometry serializes g as this feature's geometry table,
// within the same builder used to build the rest of the feature.
func EncodeGeometry(b *flatbuffers.Builder, g *geom.Geometry) flatbuffers.UOffsetT {
	if g == nil {
		return 0
	}
	return g.Encode(b)
}

// OrbGeometry decodes f's geometry and converts it to an
// orb.Geometry, for callers already standardized on orb.
func (f *Feature) OrbGeometry(hdr *Header) (orb.Geometry, error) {
	g, err := f.DecodeGeometry(hdr)
	if err != nil {
		return nil, err
	}
	return geomorb.ToOrb(g)
}

// GeometryFromOrb converts an orb.Geometry into the in-memory tree
// accepted by EncodeGeometry.
func GeometryFromOrb(g orb.Geometry) (*geom.Geometry, error) {
	return geomorb.FromOrb(g)
}
