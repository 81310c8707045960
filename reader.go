// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import (
	"io"
	"math"

	"github.com/spatialgo/flatgeobuf/flat"
	"github.com/spatialgo/flatgeobuf/packedrtree"
	flatbuffers "github.com/google/flatbuffers/go"
)

// FileReader provides random access to a FlatGeobuf file: its header,
// its optional spatial index, and its feature stream.
//
// FileReader advances through a file's sections lazily and in order.
// Header must be called before Index, and Index (or an implicit skip
// of it) before Data or DataRem. If the underlying reader is also an
// io.Seeker, IndexSearch and Rewind become available, enabling
// streaming index searches without materializing the whole tree.
type FileReader struct {
	stateful
	r  io.Reader
	rs io.Seeker

	hdr         *Header
	numFeatures int
	nodeSize    uint16

	afterHeaderOffset int64
	dataStartOffset   int64

	index        *packedrtree.PackedRTree
	featureIndex int
}

// NewFileReader returns a FileReader which reads a FlatGeobuf file
// from r. If r also implements io.Seeker, IndexSearch and Rewind are
// enabled.
func NewFileReader(r io.Reader) *FileReader {
	if r == nil {
		textPanic("nil reader")
	}
	fr := &FileReader{r: r}
	if rs, ok := r.(io.Seeker); ok {
		fr.rs = rs
	}
	return fr
}

// Header reads, caches, and returns the file's header. Safe to call
// more than once; subsequent calls return the cached Header.
func (fr *FileReader) Header() (*Header, error) {
	if fr.err != nil {
		return nil, fr.err
	}
	if fr.hdr != nil {
		return fr.hdr, nil
	}
	if fr.state != uninitialized {
		fr.sanityCheckState()
		return nil, errUnexpectedState
	}

	version, err := Magic(fr.r)
	if err != nil {
		return nil, fr.toErr(wrapErr("failed to read magic number", err))
	}
	if version.Major < MinSpecMajorVersion || version.Major > MaxSpecMajorVersion {
		return nil, fr.toErr(fmtErr("unsupported spec major version %d", version.Major))
	}

	szBuf := make([]byte, flatbuffers.SizeUint32)
	if _, err = io.ReadFull(fr.r, szBuf); err != nil {
		return nil, fr.toErr(wrapErr("failed to read header size prefix", err))
	}
	size := flatbuffers.GetUint32(szBuf)
	if size > headerMaxLen {
		return nil, fr.toErr(fmtErr("header size %d exceeds maximum %d", size, headerMaxLen))
	}

	buf := make([]byte, int(flatbuffers.SizeUint32)+int(size))
	copy(buf, szBuf)
	if _, err = io.ReadFull(fr.r, buf[flatbuffers.SizeUint32:]); err != nil {
		return nil, fr.toErr(wrapErr("failed to read header table", err))
	}

	hdr := flat.GetSizePrefixedRootAsHeader(buf, 0)

	var numFeatures uint64
	var nodeSize uint16
	err = safeFlatBuffersInteraction(func() error {
		numFeatures = hdr.FeaturesCount()
		nodeSize = hdr.IndexNodeSize()
		return nil
	})
	if err != nil {
		return nil, fr.toErr(wrapErr("failed to parse header", err))
	}
	if numFeatures > math.MaxInt {
		return nil, fr.toErr(textErr("header feature count overflows int"))
	}

	fr.hdr = hdr
	fr.numFeatures = int(numFeatures)
	fr.nodeSize = nodeSize
	if fr.rs != nil {
		if off, err := fr.rs.Seek(0, io.SeekCurrent); err == nil {
			fr.afterHeaderOffset = off
		}
	}
	fr.state = afterHeader
	return hdr, nil
}

// Index reads and returns the file's spatial index, or nil if the
// header declares no index. Safe to call more than once while the
// reader is still positioned at the index section; returns an error
// if called after the index section has already been passed over by
// Data, DataRem, or IndexSearch.
func (fr *FileReader) Index() (*packedrtree.PackedRTree, error) {
	if fr.err != nil {
		return nil, fr.err
	}
	if fr.state == uninitialized {
		if _, err := fr.Header(); err != nil {
			return nil, err
		}
	}
	if fr.index != nil {
		return fr.index, nil
	}

	switch fr.state {
	case afterHeader:
		if fr.nodeSize == 0 {
			fr.dataStartOffset = fr.afterHeaderOffset
			fr.state = afterIndex
			return nil, nil
		}
		idx, err := packedrtree.Unmarshal(fr.r, fr.numFeatures, fr.nodeSize)
		if err != nil {
			return nil, fr.toErr(wrapErr("failed to read index", err))
		}
		fr.index = idx
		if fr.rs != nil {
			if off, err := fr.rs.Seek(0, io.SeekCurrent); err == nil {
				fr.dataStartOffset = off
			}
		}
		fr.state = afterIndex
		return idx, nil
	case afterIndex, inData, eof:
		return nil, textErr("index section already consumed")
	default:
		fmtPanic("logic error: unexpected state 0x%x reading index", fr.state)
		return nil, nil
	}
}

func (fr *FileReader) advanceToData() error {
	if fr.err != nil {
		return fr.err
	}
	if fr.state == uninitialized {
		if _, err := fr.Header(); err != nil {
			return err
		}
	}
	if fr.state == afterHeader {
		if _, err := fr.Index(); err != nil {
			return err
		}
	}
	if fr.state == afterIndex {
		fr.state = inData
	}
	return nil
}

// DataRem reads and returns every remaining feature in the file.
func (fr *FileReader) DataRem() ([]Feature, error) {
	if err := fr.advanceToData(); err != nil {
		return nil, err
	}
	features := make([]Feature, 0)
	for {
		if fr.state == eof {
			return features, nil
		}
		f, err := fr.readFeature()
		if err == io.EOF {
			fr.state = eof
			return features, nil
		} else if err != nil {
			return features, fr.toErr(err)
		}
		features = append(features, *f)
		fr.featureIndex++
		if fr.numFeatures > 0 && fr.featureIndex == fr.numFeatures {
			fr.state = eof
		}
	}
}

// Data reads up to len(data) features into data, returning the number
// read. A short read with a nil error indicates the data stream is
// exhausted.
func (fr *FileReader) Data(data []Feature) (n int, err error) {
	if err = fr.advanceToData(); err != nil {
		return 0, err
	}
	for n < len(data) {
		if fr.state == eof {
			return n, nil
		}
		var f *Feature
		f, err = fr.readFeature()
		if err == io.EOF {
			fr.state = eof
			return n, nil
		} else if err != nil {
			return n, fr.toErr(err)
		}
		data[n] = *f
		n++
		fr.featureIndex++
		if fr.numFeatures > 0 && fr.featureIndex == fr.numFeatures {
			fr.state = eof
		}
	}
	return n, nil
}

func (fr *FileReader) readFeature() (*Feature, error) {
	szBuf := make([]byte, flatbuffers.SizeUint32)
	if _, err := io.ReadFull(fr.r, szBuf); err != nil {
		return nil, err
	}
	size := flatbuffers.GetUint32(szBuf)
	buf := make([]byte, int(flatbuffers.SizeUint32)+int(size))
	copy(buf, szBuf)
	if _, err := io.ReadFull(fr.r, buf[flatbuffers.SizeUint32:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return flat.GetSizePrefixedRootAsFeature(buf, 0), nil
}

// IndexSearch streams the index section directly off the underlying
// seekable reader, without materializing it, and returns the features
// whose bounding boxes intersect b.
//
// IndexSearch requires the reader passed to NewFileReader to also
// implement io.Seeker, and must be called before Index, Data, or
// DataRem consume the index and data sections. Call Rewind to reuse
// the same FileReader for another IndexSearch.
func (fr *FileReader) IndexSearch(b packedrtree.Box) ([]Feature, error) {
	if fr.rs == nil {
		return nil, textErr("underlying reader does not support seeking, required for IndexSearch")
	}
	if fr.err != nil {
		return nil, fr.err
	}
	if fr.state == uninitialized {
		if _, err := fr.Header(); err != nil {
			return nil, err
		}
	}
	if fr.state != afterHeader {
		return nil, textErr("index section already consumed; call Rewind first")
	}
	if fr.nodeSize == 0 {
		fr.dataStartOffset = fr.afterHeaderOffset
		fr.state = afterIndex
		return nil, nil
	}

	results, err := packedrtree.Seek(fr.rs, fr.numFeatures, fr.nodeSize, b)
	if err != nil {
		return nil, fr.toErr(wrapErr("failed to search index", err))
	}
	off, err := fr.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fr.toErr(wrapErr("failed to get offset after index search", err))
	}
	fr.dataStartOffset = off
	fr.state = afterIndex

	features := make([]Feature, 0, len(results))
	for _, res := range results {
		if _, err = fr.rs.Seek(fr.dataStartOffset+res.Offset, io.SeekStart); err != nil {
			return nil, fr.toErr(fmtErr("failed to seek to feature at offset %d: %w", res.Offset, err))
		}
		f, ferr := fr.readFeature()
		if ferr != nil {
			return nil, fr.toErr(fmtErr("failed to read feature at offset %d: %w", res.Offset, ferr))
		}
		features = append(features, *f)
	}

	// Leave the cursor at the start of the data section, so the
	// FileReader remains usable for DataRem/Data afterward.
	if _, err = fr.rs.Seek(fr.dataStartOffset, io.SeekStart); err != nil {
		return nil, fr.toErr(wrapErr("failed to reposition after index search", err))
	}
	return features, nil
}

// GetFeature returns the feature at position fid in the file's
// Hilbert-sorted order, seeking directly to its leaf index entry and
// then to the feature itself, without reading any of the features
// before it.
//
// GetFeature requires the reader passed to NewFileReader to also
// implement io.Seeker and the file to declare a spatial index (node
// size > 0); per the format, random access is unavailable without an
// index. Both that case and fid >= features_count yield ErrNotFound.
func (fr *FileReader) GetFeature(fid int) (*Feature, error) {
	if fr.err != nil {
		return nil, fr.err
	}
	if fr.rs == nil {
		return nil, ErrNotFound
	}
	if fr.state == uninitialized {
		if _, err := fr.Header(); err != nil {
			return nil, err
		}
	}
	if fr.nodeSize == 0 || fid < 0 || fid >= fr.numFeatures {
		return nil, ErrNotFound
	}

	defer func() {
		_, _ = fr.rs.Seek(fr.afterHeaderOffset, io.SeekStart)
	}()

	if _, err := fr.rs.Seek(fr.afterHeaderOffset, io.SeekStart); err != nil {
		return nil, fr.toErr(wrapErr("failed to seek to index", err))
	}
	offset, err := packedrtree.LeafOffset(fr.rs, fr.numFeatures, fr.nodeSize, fid)
	if err != nil {
		return nil, fr.toErr(wrapErr("failed to locate feature %d in index", err, fid))
	}
	dataStart, err := fr.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fr.toErr(wrapErr("failed to get data section start", err))
	}
	if _, err = fr.rs.Seek(dataStart+offset, io.SeekStart); err != nil {
		return nil, fr.toErr(fmtErr("failed to seek to feature at offset %d: %w", offset, err))
	}

	f, err := fr.readFeature()
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fr.toErr(err)
	}
	return f, nil
}

// GetFeatureCount returns the total number of features in the file, as
// declared by the header. There is no predicate-filtered count in this
// package; callers that need the size of a spatial subset should count
// the results of IndexSearch instead.
func (fr *FileReader) GetFeatureCount() (uint64, error) {
	hdr, err := fr.Header()
	if err != nil {
		return 0, err
	}
	var count uint64
	err = safeFlatBuffersInteraction(func() error {
		count = hdr.FeaturesCount()
		return nil
	})
	if err != nil {
		return 0, wrapErr("failed to read feature count", err)
	}
	return count, nil
}

// Rewind returns the reader to the position immediately following the
// header, so that IndexSearch can be called again. Requires the
// underlying reader to implement io.Seeker.
func (fr *FileReader) Rewind() error {
	if fr.rs == nil {
		return textErr("underlying reader does not support seeking, required for Rewind")
	}
	if fr.err != nil {
		return fr.err
	}
	if fr.state == uninitialized {
		return textErr("cannot rewind before header is read")
	}
	if _, err := fr.rs.Seek(fr.afterHeaderOffset, io.SeekStart); err != nil {
		return fr.toErr(wrapErr("failed to rewind", err))
	}
	fr.state = afterHeader
	fr.index = nil
	fr.featureIndex = 0
	return nil
}

// Close marks the FileReader closed. If the underlying reader is also
// an io.Closer, it is closed too.
func (fr *FileReader) Close() error {
	return fr.close(fr.r)
}
