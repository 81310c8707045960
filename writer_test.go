// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf_test

import (
	"bytes"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"

	fgb "github.com/spatialgo/flatgeobuf"
	"github.com/spatialgo/flatgeobuf/flat"
	"github.com/spatialgo/flatgeobuf/packedrtree"
)

// newMultiPolygonFeature builds a single-part MultiPolygon feature
// whose coordinates live entirely in Parts, not in the geometry node's
// own Xy array, the way real MultiPolygon features are encoded.
func newMultiPolygonFeature(t *testing.T, xy []float64) *fgb.Feature {
	t.Helper()
	b := flatbuffers.NewBuilder(256)

	flat.GeometryStartXyVector(b, len(xy))
	for i := len(xy) - 1; i >= 0; i-- {
		b.PrependFloat64(xy[i])
	}
	partXY := b.EndVector(len(xy))

	flat.GeometryStart(b)
	flat.GeometryAddXy(b, partXY)
	partOff := flat.GeometryEnd(b)

	flat.GeometryStartPartsVector(b, 1)
	b.PrependUOffsetT(partOff)
	partsVec := b.EndVector(1)

	flat.GeometryStart(b)
	flat.GeometryAddParts(b, partsVec)
	flat.GeometryAddType(b, flat.GeometryTypeMultiPolygon)
	geomOff := flat.GeometryEnd(b)

	flat.FeatureStart(b)
	flat.FeatureAddGeometry(b, geomOff)
	featOff := flat.FeatureEnd(b)

	flat.FinishSizePrefixedFeatureBuffer(b, featOff)
	return flat.GetSizePrefixedRootAsFeature(b.FinishedBytes(), 0)
}

func TestWriter_NoIndex_SequentialCopy(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint, fgb.WithSpatialIndex(false))
	require.NoError(t, err)

	pts := [][2]float64{{0, 0}, {5, 5}, {1, 1}}
	for _, p := range pts {
		_, err = w.CreateFeature(newPointFeature(t, p[0], p[1]))
		require.NoError(t, err)
	}
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)
	require.Equal(t, uint16(0), hdr.IndexNodeSize())

	features, err := fr.DataRem()
	require.NoError(t, err)
	require.Len(t, features, 3)

	g, err := features[0].DecodeGeometry(hdr)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, g.XY)
}

func TestWriter_WithIndex_RandomCopyAndSearch(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint)
	require.NoError(t, err)

	pts := [][2]float64{{0, 0}, {100, 100}, {50, 50}, {10, 10}}
	for _, p := range pts {
		_, err = w.CreateFeature(newPointFeature(t, p[0], p[1]))
		require.NoError(t, err)
	}
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)
	require.Greater(t, hdr.IndexNodeSize(), uint16(0))

	results, err := fr.IndexSearch(packedrtree.Box{XMin: -1, YMin: -1, XMax: 20, YMax: 20})
	require.NoError(t, err)
	require.Len(t, results, 2)

	rem, err := fr.DataRem()
	require.NoError(t, err)
	require.Len(t, rem, 4)
}

func TestWriter_EmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint)
	require.NoError(t, err)
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)
	require.Equal(t, uint64(0), hdr.FeaturesCount())

	rem, err := fr.DataRem()
	require.NoError(t, err)
	require.Empty(t, rem)
}

func TestWriter_AddColumnAfterFeatureFails(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint)
	require.NoError(t, err)
	_, err = w.CreateFeature(newPointFeature(t, 0, 0))
	require.NoError(t, err)
	err = w.AddColumn(fgb.ColumnSpec{Name: "late", Type: fgb.ColumnTypeInt})
	require.Error(t, err)
}

func TestWriter_HeaderEnvelopeAndDimensionality(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint)
	require.NoError(t, err)

	pts := [][2]float64{{1, 2}, {5, -3}}
	for _, p := range pts {
		_, err = w.CreateFeature(newPointFeature(t, p[0], p[1]))
		require.NoError(t, err)
	}
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)

	require.Equal(t, 4, hdr.EnvelopeLength())
	require.Equal(t, 1.0, hdr.Envelope(0))
	require.Equal(t, -3.0, hdr.Envelope(1))
	require.Equal(t, 5.0, hdr.Envelope(2))
	require.Equal(t, 2.0, hdr.Envelope(3))
	require.False(t, hdr.HasZ())
	require.False(t, hdr.HasM())
}

func TestWriter_MultiPolygonBoundsIncludeParts(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypeMultiPolygon)
	require.NoError(t, err)

	ring := []float64{10, 10, 20, 10, 20, 20, 10, 20}
	_, err = w.CreateFeature(newMultiPolygonFeature(t, ring))
	require.NoError(t, err)
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)

	require.Equal(t, 10.0, hdr.Envelope(0))
	require.Equal(t, 10.0, hdr.Envelope(1))
	require.Equal(t, 20.0, hdr.Envelope(2))
	require.Equal(t, 20.0, hdr.Envelope(3))

	results, err := fr.IndexSearch(packedrtree.Box{XMin: 0, YMin: 0, XMax: 30, YMax: 30})
	require.NoError(t, err)
	require.Len(t, results, 1)

	miss, err := fr.IndexSearch(packedrtree.Box{XMin: 100, YMin: 100, XMax: 200, YMax: 200})
	require.NoError(t, err)
	require.Empty(t, miss)
}

func TestWriter_CopyRandomBatchesAcrossManyFeatures(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint)
	require.NoError(t, err)

	const count = 500
	for i := 0; i < count; i++ {
		x := float64(count - i)
		y := float64(i)
		_, err = w.CreateFeature(newPointFeature(t, x, y))
		require.NoError(t, err)
	}
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)
	require.Equal(t, uint64(count), hdr.FeaturesCount())

	rem, err := fr.DataRem()
	require.NoError(t, err)
	require.Len(t, rem, count)

	results, err := fr.IndexSearch(packedrtree.Box{XMin: 0, YMin: 0, XMax: float64(count), YMax: float64(count)})
	require.NoError(t, err)
	require.Len(t, results, count)
}

func TestFileReader_GetFeature(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint)
	require.NoError(t, err)

	pts := [][2]float64{{0, 0}, {1, 1}, {2, 2}}
	for _, p := range pts {
		_, err = w.CreateFeature(newPointFeature(t, p[0], p[1]))
		require.NoError(t, err)
	}
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	hdr, err := fr.Header()
	require.NoError(t, err)

	f, err := fr.GetFeature(0)
	require.NoError(t, err)
	g, err := f.DecodeGeometry(hdr)
	require.NoError(t, err)
	require.Len(t, g.XY, 2)

	_, err = fr.GetFeature(len(pts))
	require.ErrorIs(t, err, fgb.ErrNotFound)

	count, err := fr.GetFeatureCount()
	require.NoError(t, err)
	require.Equal(t, uint64(len(pts)), count)
}

func TestFileReader_GetFeature_NoIndexReturnsNotFound(t *testing.T) {
	var buf bytes.Buffer
	w, err := fgb.NewWriter(&buf, fgb.GeometryTypePoint, fgb.WithSpatialIndex(false))
	require.NoError(t, err)
	_, err = w.CreateFeature(newPointFeature(t, 0, 0))
	require.NoError(t, err)
	_, err = w.Close()
	require.NoError(t, err)

	fr := fgb.NewFileReader(bytes.NewReader(buf.Bytes()))
	_, err = fr.Header()
	require.NoError(t, err)

	_, err = fr.GetFeature(0)
	require.ErrorIs(t, err, fgb.ErrNotFound)
}
