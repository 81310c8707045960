// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import (
	"io"
	"sort"

	"github.com/spatialgo/flatgeobuf/flat"
	"github.com/spatialgo/flatgeobuf/internal/spill"
	"github.com/spatialgo/flatgeobuf/packedrtree"
	flatbuffers "github.com/google/flatbuffers/go"
)

// maxCopyBatchBytes bounds the read-back buffer used by copyRandom when
// coalescing random reads from the spill file into sequential runs.
const maxCopyBatchBytes = 100 * 1024 * 1024

// ColumnSpec declares one property column of a dataset written by
// Writer. Columns must be declared, via AddColumn, before the first
// call to CreateFeature.
type ColumnSpec struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Writer implements the two-pass FlatGeobuf write pipeline: features
// are buffered to a temporary spill file as they arrive, so that their
// combined spatial extent and Hilbert order can be computed before the
// header, index, and data sections are emitted, in that order, to the
// destination writer.
//
// Writer is not safe for concurrent use.
type Writer struct {
	cfg      config
	dst      io.Writer
	geomType GeometryType
	columns  []ColumnSpec

	spill          *spill.File
	refs           []packedrtree.Ref
	featureSizes   map[int64]int
	maxFeatureSize int
	bounds         packedrtree.Box
	numFeatures    int
	hasZ           bool
	hasM           bool
	closed         bool
}

// NewWriter returns a Writer which buffers features and then emits a
// complete FlatGeobuf file, of the given dominant geometry type, to
// dst when Close is called.
func NewWriter(dst io.Writer, geomType GeometryType, opts ...Option) (*Writer, error) {
	if dst == nil {
		textPanic("nil writer")
	}
	cfg := newConfig(opts...)
	sf, err := spill.New(cfg.tempDir)
	if err != nil {
		return nil, wrapErr("failed to create spill file", err)
	}
	return &Writer{
		cfg:      cfg,
		dst:      dst,
		geomType: geomType,
		spill:    sf,
		bounds:   packedrtree.EmptyBox,
	}, nil
}

// AddColumn declares a property column. It must be called before the
// first call to CreateFeature.
func (w *Writer) AddColumn(spec ColumnSpec) error {
	if w.numFeatures > 0 {
		return textErr("cannot add column after a feature has been buffered")
	}
	w.columns = append(w.columns, spec)
	return nil
}

// CreateFeature buffers a feature to the writer's spill file, tracking
// its bounding box and Hilbert order for the eventual index.
func (w *Writer) CreateFeature(f *Feature) (n int, err error) {
	if f == nil {
		textPanic("nil feature")
	}
	if w.closed {
		return 0, ErrClosed
	}

	offset, err := w.spill.Size()
	if err != nil {
		return 0, wrapErr("failed to get spill file size", err)
	}

	var ref packedrtree.Ref
	ref.Offset = offset
	if err = featureBounds(&ref.Box, f); err != nil {
		return 0, wrapErr("failed to compute feature bounds", err)
	}
	hasZ, hasM, err := featureDimensionality(f)
	if err != nil {
		return 0, wrapErr("failed to inspect feature dimensionality", err)
	}

	n, err = writeSizePrefixedTable(w.spill, f.Table())
	if err != nil {
		return n, wrapErr("failed to buffer feature", err)
	}

	w.bounds.Expand(&ref.Box)
	w.hasZ = w.hasZ || hasZ
	w.hasM = w.hasM || hasM
	w.refs = append(w.refs, ref)
	w.numFeatures++

	if n > w.maxFeatureSize {
		w.maxFeatureSize = n
	}
	if w.featureSizes == nil {
		w.featureSizes = make(map[int64]int, 1)
	}
	w.featureSizes[offset] = n

	return n, nil
}

// Close builds the spatial index (unless disabled via
// WithSpatialIndex(false)) and writes the complete FlatGeobuf file,
// header first, to the destination writer, then releases the spill
// file. Close must be called exactly once.
func (w *Writer) Close() (n int, err error) {
	if w.closed {
		return 0, ErrClosed
	}
	w.closed = true
	defer w.spill.Close()

	var nodeSize uint16
	if w.cfg.spatialIndex && w.numFeatures > 0 {
		nodeSize = w.cfg.nodeSize
	}

	hdrBuf, err := w.buildHeader(uint64(w.numFeatures), nodeSize)
	if err != nil {
		return 0, err
	}
	hdr := flat.GetSizePrefixedRootAsHeader(hdrBuf, 0)

	fw := NewFileWriter(w.dst)
	n, err = fw.Header(hdr)
	if err != nil {
		return n, err
	}

	if w.numFeatures == 0 {
		fw.state = eof
		return n, fw.Close()
	}

	if nodeSize > 0 {
		sortedRefs := make([]packedrtree.Ref, len(w.refs))
		copy(sortedRefs, w.refs)
		packedrtree.HilbertSort(sortedRefs, w.bounds)

		// The index records each feature's offset in the data section,
		// which holds the features in sorted order; sortedRefs keeps
		// the spill file offsets that copyRandom reads from.
		indexRefs := make([]packedrtree.Ref, len(sortedRefs))
		var dataOffset int64
		for i, ref := range sortedRefs {
			indexRefs[i] = packedrtree.Ref{Box: ref.Box, Offset: dataOffset}
			dataOffset += int64(w.featureSizes[ref.Offset])
		}

		var index *packedrtree.PackedRTree
		index, err = packedrtree.New(indexRefs, nodeSize)
		if err != nil {
			return n, err
		}

		var m int
		m, err = fw.Index(index)
		n += m
		if err != nil {
			return n, err
		}

		m, err = w.copyRandom(sortedRefs)
		n += m
		if err != nil {
			return n, err
		}
	} else {
		var m int
		m, err = w.copySequential()
		n += m
		if err != nil {
			return n, err
		}
	}

	// The feature bytes were copied directly to the destination
	// writer rather than through FileWriter.Data, so its bookkeeping
	// is brought up to date here before Close checks it.
	fw.featureIndex = w.numFeatures
	fw.state = eof
	return n, fw.Close()
}

// copySequential streams the spill file to the destination writer in
// its original buffering order. Used when no spatial index is built,
// so the on-disk feature order does not need to change.
func (w *Writer) copySequential() (int, error) {
	if _, err := w.spill.Seek(0, io.SeekStart); err != nil {
		return 0, wrapErr("failed to rewind spill file", err)
	}
	written, err := io.Copy(w.dst, w.spill)
	return int(written), err
}

// copyRandom reads each feature out of the spill file at its
// originally buffered offset, in the order given by refs (normally
// Hilbert order), and writes it to the destination writer. Used when a
// spatial index reorders the features.
//
// Features are accumulated into a bounded buffer in target (refs)
// order, then the batch is read back from the spill file in ascending
// source-offset order — turning what would otherwise be one random
// read per feature into mostly-sequential ones — and flushed to the
// destination with a single write, which still lands the bytes at
// their correct target-order position in the buffer.
func (w *Writer) copyRandom(refs []packedrtree.Ref) (int, error) {
	tempSize, err := w.spill.Size()
	if err != nil {
		return 0, wrapErr("failed to get spill file size", err)
	}

	bufCap := w.maxFeatureSize
	if c := maxCopyBatchBytes; int64(c) < tempSize {
		if c > bufCap {
			bufCap = c
		}
	} else if int(tempSize) > bufCap {
		bufCap = int(tempSize)
	}
	if bufCap <= 0 {
		return 0, nil
	}
	buf := make([]byte, bufCap)

	type batchItem struct {
		offset      int64
		size        int
		offsetInBuf int
	}
	var batch []batchItem
	var offsetInBuf int
	var n int

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		sort.Slice(batch, func(i, j int) bool { return batch[i].offset < batch[j].offset })
		for _, item := range batch {
			if _, err := w.spill.ReadAt(buf[item.offsetInBuf:item.offsetInBuf+item.size], item.offset); err != nil {
				return wrapErr("failed to read feature at offset %d", err, item.offset)
			}
		}
		m, werr := w.dst.Write(buf[:offsetInBuf])
		n += m
		if werr != nil {
			return wrapErr("failed to write feature batch", werr)
		}
		batch = batch[:0]
		offsetInBuf = 0
		return nil
	}

	for _, ref := range refs {
		size := w.featureSizes[ref.Offset]

		if size > len(buf) {
			// A single feature larger than the batch buffer: flush
			// whatever is pending, then copy it directly.
			if err := flush(); err != nil {
				return n, err
			}
			single := make([]byte, size)
			if _, err := w.spill.ReadAt(single, ref.Offset); err != nil {
				return n, wrapErr("failed to read feature at offset %d", err, ref.Offset)
			}
			m, werr := w.dst.Write(single)
			n += m
			if werr != nil {
				return n, wrapErr("failed to write feature", werr)
			}
			continue
		}

		if offsetInBuf+size > len(buf) {
			if err := flush(); err != nil {
				return n, err
			}
		}
		batch = append(batch, batchItem{offset: ref.Offset, size: size, offsetInBuf: offsetInBuf})
		offsetInBuf += size
	}
	if err := flush(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *Writer) buildHeader(numFeatures uint64, nodeSize uint16) ([]byte, error) {
	b := flatbuffers.NewBuilder(1024)

	colOffsets := make([]flatbuffers.UOffsetT, len(w.columns))
	for i, c := range w.columns {
		nameOff := b.CreateString(c.Name)
		flat.ColumnStart(b)
		flat.ColumnAddName(b, nameOff)
		flat.ColumnAddType(b, c.Type)
		flat.ColumnAddNullable(b, c.Nullable)
		colOffsets[i] = flat.ColumnEnd(b)
	}
	var columnsVec flatbuffers.UOffsetT
	if len(colOffsets) > 0 {
		flat.HeaderStartColumnsVector(b, len(colOffsets))
		for i := len(colOffsets) - 1; i >= 0; i-- {
			b.PrependUOffsetT(colOffsets[i])
		}
		columnsVec = b.EndVector(len(colOffsets))
	}

	var titleOff, descOff flatbuffers.UOffsetT
	if w.cfg.title != "" {
		titleOff = b.CreateString(w.cfg.title)
	}
	if w.cfg.description != "" {
		descOff = b.CreateString(w.cfg.description)
	}

	var envelopeVec flatbuffers.UOffsetT
	if numFeatures > 0 && w.bounds != packedrtree.EmptyBox {
		flat.HeaderStartEnvelopeVector(b, 4)
		b.PrependFloat64(w.bounds.YMax)
		b.PrependFloat64(w.bounds.XMax)
		b.PrependFloat64(w.bounds.YMin)
		b.PrependFloat64(w.bounds.XMin)
		envelopeVec = b.EndVector(4)
	}

	flat.HeaderStart(b)
	flat.HeaderAddGeometryType(b, w.geomType)
	if columnsVec != 0 {
		flat.HeaderAddColumns(b, columnsVec)
	}
	if envelopeVec != 0 {
		flat.HeaderAddEnvelope(b, envelopeVec)
	}
	flat.HeaderAddHasZ(b, w.hasZ)
	flat.HeaderAddHasM(b, w.hasM)
	flat.HeaderAddFeaturesCount(b, numFeatures)
	flat.HeaderAddIndexNodeSize(b, nodeSize)
	if titleOff != 0 {
		flat.HeaderAddTitle(b, titleOff)
	}
	if descOff != 0 {
		flat.HeaderAddDescription(b, descOff)
	}
	hdrOff := flat.HeaderEnd(b)
	b.FinishSizePrefixed(hdrOff)
	return b.FinishedBytes(), nil
}
