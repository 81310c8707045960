// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import (
	"io"
	"math"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/spatialgo/flatgeobuf/packedrtree"
)

const (
	errHeaderAlreadyCalled = "header already written"
	errHeaderNotCalled     = "header not yet written"
	errHeaderNodeSizeZero  = "header declares no spatial index (index node size is zero)"
	errIndexNotWritten     = "header declares a spatial index, which has not yet been written"
	errWritePastIndex      = "index already written or skipped"
)

// FileWriter writes a FlatGeobuf file to an underlying stream one
// section at a time: magic and header, then an optional packed
// Hilbert R-Tree index, then the feature data stream.
//
// FileWriter is a low-level, single-pass API: the caller is
// responsible for sorting features and pre-computing the index ahead
// of time. Writer wraps FileWriter with a two-pass pipeline; see
// Writer.
type FileWriter struct {
	stateful
	w            io.Writer
	numFeatures  int
	nodeSize     uint16
	featureIndex int
}

// NewFileWriter returns a FileWriter which emits a FlatGeobuf file to
// w.
func NewFileWriter(w io.Writer) *FileWriter {
	if w == nil {
		textPanic("nil writer")
	}
	return &FileWriter{w: w}
}

// Header writes the FlatGeobuf magic number and header table. It must
// be called exactly once, before Index or Data.
func (w *FileWriter) Header(h *Header) (n int, err error) {
	if h == nil {
		textPanic("nil header")
	}

	var numFeatures uint64
	err = safeFlatBuffersInteraction(func() error {
		numFeatures = h.FeaturesCount()
		return nil
	})
	if err != nil {
		return 0, wrapErr("failed to get header feature count", err)
	}
	if numFeatures > math.MaxInt {
		return 0, textErr("header feature count overflows int")
	}

	var nodeSize uint16
	err = safeFlatBuffersInteraction(func() error {
		nodeSize = h.IndexNodeSize()
		return nil
	})
	if err != nil {
		return 0, wrapErr("failed to get header index node size", err)
	}
	if nodeSize == 1 {
		return 0, textErr("index node size may not be 1")
	}

	if err = w.toState(uninitialized, beforeMagic); err == errUnexpectedState {
		return 0, textErr(errHeaderAlreadyCalled)
	} else if err != nil {
		return 0, err
	}

	m, err := w.w.Write(magic[:])
	n += m
	if err != nil {
		return n, w.toErr(wrapErr("failed to write magic number", err))
	}

	if err = w.toState(beforeMagic, beforeHeader); err != nil {
		return n, err
	}

	m, err = writeSizePrefixedTable(w.w, h.Table())
	n += m
	if err != nil {
		return n, w.toErr(wrapErr("failed to write header", err))
	}

	w.numFeatures = int(numFeatures)
	w.nodeSize = nodeSize

	err = w.toState(beforeHeader, afterHeader)
	return n, err
}

// Index writes a pre-built spatial index. index's NumRefs and
// NodeSize must match the feature count and index node size declared
// in the header.
func (w *FileWriter) Index(index *packedrtree.PackedRTree) (n int, err error) {
	if err = w.canWriteIndex(); err != nil {
		return 0, err
	}
	return w.index(index)
}

func (w *FileWriter) index(index *packedrtree.PackedRTree) (n int, err error) {
	w.state = beforeIndex

	if w.numFeatures != index.NumRefs() {
		w.state = afterHeader
		return 0, fmtErr("feature count mismatch (header=%d, index=%d)", w.numFeatures, index.NumRefs())
	} else if w.nodeSize != index.NodeSize() {
		w.state = afterHeader
		return 0, fmtErr("node size mismatch (header=%d, index=%d)", w.nodeSize, index.NodeSize())
	}

	n, err = index.Marshal(w.w)
	if err != nil {
		return n, w.toErr(err)
	}

	err = w.toState(beforeIndex, afterIndex)
	return n, err
}

// IndexData builds a spatial index from data and writes the index
// followed by every feature in the order given in data. Only the index
// entries are Hilbert-sorted; each one records the offset at which its
// feature is written.
func (w *FileWriter) IndexData(data []Feature) (n int, err error) {
	dataPtr := make([]*Feature, len(data))
	for i := range data {
		dataPtr[i] = &data[i]
	}
	return w.IndexDataPtr(dataPtr)
}

// IndexDataPtr is IndexData for a slice of Feature pointers.
func (w *FileWriter) IndexDataPtr(data []*Feature) (n int, err error) {
	if err = w.canWriteIndex(); err != nil {
		return 0, err
	}

	refs := make([]packedrtree.Ref, len(data))
	bounds := packedrtree.EmptyBox
	var i int
	err = safeFlatBuffersInteraction(func() error {
		var offset int64
		for i = range data {
			refs[i].Offset = offset
			size, err := tableSize(data[i].Table())
			if err != nil {
				return wrapErr("feature %d", err, i)
			}
			if err = featureBounds(&refs[i].Box, data[i]); err != nil {
				return wrapErr("feature %d", err, i)
			}
			bounds.Expand(&refs[i].Box)
			offset += int64(flatbuffers.SizeUint32) + int64(size)
		}
		return nil
	})
	if err != nil {
		return 0, wrapErr("failed to index feature %d", err, i)
	}
	packedrtree.HilbertSort(refs, bounds)
	index, err := packedrtree.New(refs, w.nodeSize)
	if err != nil {
		return 0, err
	}

	if n, err = w.index(index); err != nil {
		return n, err
	}

	for i = range data {
		var o int
		o, err = w.Data(data[i])
		n += o
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Data writes a single feature. If the header declares an index node
// size, Index or IndexData(Ptr) must be called first.
func (w *FileWriter) Data(f *Feature) (n int, err error) {
	if f == nil {
		textPanic("nil feature")
	}
	if err = w.canWriteData(); err != nil {
		return 0, err
	}

	w.state = inData

	if n, err = writeSizePrefixedTable(w.w, f.Table()); err != nil {
		err = wrapErr("failed to write feature %d", err, w.featureIndex)
		if n > 0 {
			_ = w.toErr(err)
		}
		return n, err
	}
	w.featureIndex++

	if w.featureIndex == w.numFeatures && w.numFeatures > 0 {
		err = w.toState(inData, eof)
	}
	return n, err
}

// Close marks the FileWriter closed. If the underlying writer is also
// an io.Closer, it is closed too.
func (w *FileWriter) Close() error {
	if err := w.close(w.w); err != nil {
		return err
	} else if w.featureIndex < w.numFeatures {
		return fmtErr("truncated file: only wrote %d of %d header-indicated features", w.featureIndex, w.numFeatures)
	}
	return nil
}

func (w *FileWriter) canWriteIndex() error {
	if w.err != nil {
		return w.err
	}
	switch w.state {
	case uninitialized:
		return textErr(errHeaderNotCalled)
	case afterHeader:
		if w.nodeSize == 0 {
			return textErr(errHeaderNodeSizeZero)
		}
	case afterIndex, inData, eof:
		return textErr(errWritePastIndex)
	default:
		fmtPanic("logic error: unexpected state 0x%x looking to write index", w.state)
	}
	return nil
}

func (w *FileWriter) canWriteData() error {
	if w.err != nil {
		return w.err
	}
	switch w.state {
	case uninitialized:
		return textErr(errHeaderNotCalled)
	case afterHeader:
		if w.nodeSize > 0 {
			return textErr(errIndexNotWritten)
		}
	case afterIndex, inData:
		// ok
	case eof:
		return fmtErr("all %d features indicated in header already written", w.numFeatures)
	default:
		fmtPanic("logic error: unexpected state 0x%x looking to write data", w.state)
	}
	return nil
}

func featureBounds(b *packedrtree.Box, f *Feature) error {
	*b = packedrtree.EmptyBox
	return safeFlatBuffersInteraction(func() error {
		var g Geometry
		if f.Geometry(&g) != nil {
			expandGeometryBounds(b, &g)
		}
		return nil
	})
}

// expandGeometryBounds scans a geometry's own Xy array and, for the
// multi-part types (MultiPolygon, GeometryCollection, and the other
// types that carry their coordinates in Parts rather than Xy),
// recurses into each part.
func expandGeometryBounds(b *packedrtree.Box, g *Geometry) {
	n := g.XyLength()
	for i := 0; i < n; i += 2 {
		b.ExpandXY(g.Xy(i+0), g.Xy(i+1))
	}
	parts := g.PartsLength()
	for i := 0; i < parts; i++ {
		var part Geometry
		if g.Parts(&part, i) {
			expandGeometryBounds(b, &part)
		}
	}
}

// featureDimensionality reports whether a feature's geometry, or any of
// its parts, carries Z or M coordinates.
func featureDimensionality(f *Feature) (hasZ, hasM bool, err error) {
	err = safeFlatBuffersInteraction(func() error {
		var g Geometry
		if f.Geometry(&g) != nil {
			hasZ, hasM = geometryDimensionality(&g)
		}
		return nil
	})
	return
}

func geometryDimensionality(g *Geometry) (hasZ, hasM bool) {
	hasZ = g.ZLength() > 0
	hasM = g.MLength() > 0
	if hasZ && hasM {
		return
	}
	for i := 0; i < g.PartsLength(); i++ {
		var part Geometry
		if g.Parts(&part, i) {
			pz, pm := geometryDimensionality(&part)
			hasZ = hasZ || pz
			hasM = hasM || pm
			if hasZ && hasM {
				return
			}
		}
	}
	return
}
