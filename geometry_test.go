// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf_test

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	fgb "github.com/spatialgo/flatgeobuf"
)

func TestFeature_DecodeGeometry(t *testing.T) {
	data := buildTestFile(t, [][2]float64{{3, 4}})
	fr := fgb.NewFileReader(bytes.NewReader(data))
	hdr, err := fr.Header()
	require.NoError(t, err)

	features, err := fr.DataRem()
	require.NoError(t, err)
	require.Len(t, features, 1)

	g, err := features[0].DecodeGeometry(hdr)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, g.XY)

	og, err := features[0].OrbGeometry(hdr)
	require.NoError(t, err)
	require.Equal(t, orb.Point{3, 4}, og)
}
