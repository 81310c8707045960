// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import (
	"io"

	"github.com/dhconnelly/rtreego"

	"github.com/spatialgo/flatgeobuf/packedrtree"
)

// Editable wraps a read-only FlatGeobuf file with an in-memory pending
// change set: feature updates, deletes, inserts, and column additions
// or removals. The underlying file's packed Hilbert R-tree is static
// and is never rewritten in place; pending inserts and updates are
// instead tracked in a dynamic rtreego.Rtree until Sync rewrites the
// whole dataset to a new destination.
//
// Editable is not safe for concurrent use.
type Editable struct {
	src *FileReader
	hdr *Header

	columns    []ColumnSpec
	dropped    map[string]bool
	deleted    map[int]bool
	updated    map[int]*Feature
	pending    *rtreego.Rtree
	pendingSeq []pendingEdit
}

type pendingEdit struct {
	feature *Feature
	rect    rtreego.Rect
}

func (p pendingEdit) Bounds() rtreego.Rect {
	return p.rect
}

// NewEditable reads src's header and wraps it for editing. src must
// support seeking, since Sync needs to re-read the original feature
// stream.
func NewEditable(src io.ReadSeeker) (*Editable, error) {
	fr := NewFileReader(src)
	hdr, err := fr.Header()
	if err != nil {
		return nil, err
	}
	columns := make([]ColumnSpec, 0, hdr.ColumnsLength())
	for i := 0; i < hdr.ColumnsLength(); i++ {
		var c Column
		if hdr.Columns(&c, i) {
			columns = append(columns, ColumnSpec{Name: string(c.Name()), Type: c.Type()})
		}
	}
	return &Editable{
		src:     fr,
		hdr:     hdr,
		columns: columns,
		dropped: make(map[string]bool),
		deleted: make(map[int]bool),
		updated: make(map[int]*Feature),
		pending: rtreego.NewTree(2, 25, 50),
	}, nil
}

// Update replaces the feature at the given original feature-stream
// index with f.
func (e *Editable) Update(index int, f *Feature) error {
	if f == nil {
		textPanic("nil feature")
	}
	if index < 0 {
		return textErr("negative feature index")
	}
	e.updated[index] = f
	_, err := e.insertPending(f)
	return err
}

// Delete marks the feature at the given original feature-stream index
// as removed.
func (e *Editable) Delete(index int) error {
	if index < 0 {
		return textErr("negative feature index")
	}
	e.deleted[index] = true
	delete(e.updated, index)
	return nil
}

// Insert adds a brand new feature, appended after the file's existing
// features on Sync.
func (e *Editable) Insert(f *Feature) error {
	if f == nil {
		textPanic("nil feature")
	}
	edit, err := e.insertPending(f)
	if err != nil {
		return err
	}
	e.pendingSeq = append(e.pendingSeq, edit)
	return nil
}

func (e *Editable) insertPending(f *Feature) (pendingEdit, error) {
	var b packedrtree.Box
	if err := featureBounds(&b, f); err != nil {
		return pendingEdit{}, wrapErr("failed to compute feature bounds", err)
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{b.XMin, b.YMin},
		[]float64{maxf(b.XMax-b.XMin, 1e-9), maxf(b.YMax-b.YMin, 1e-9)},
	)
	if err != nil {
		return pendingEdit{}, wrapErr("failed to build pending-edit bounds", err)
	}
	edit := pendingEdit{feature: f, rect: rect}
	e.pending.Insert(edit)
	return edit, nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// AddField declares a new property column, populated as empty/absent
// for every existing feature until updated.
func (e *Editable) AddField(spec ColumnSpec) error {
	for _, c := range e.columns {
		if c.Name == spec.Name && !e.dropped[c.Name] {
			return fmtErr("column %q already exists", spec.Name)
		}
	}
	e.columns = append(e.columns, spec)
	delete(e.dropped, spec.Name)
	return nil
}

// DropField removes a property column by name. Existing features'
// serialized bytes are left untouched; the column is simply omitted
// from the header written by Sync.
func (e *Editable) DropField(name string) error {
	found := false
	for _, c := range e.columns {
		if c.Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmtErr("no such column %q", name)
	}
	e.dropped[name] = true
	return nil
}

// PendingSearch returns pending inserts/updates whose bounds
// intersect b, without touching the underlying static index. Combine
// with FileReader.IndexSearch on the original Editable.src for a full
// search across committed and pending features.
func (e *Editable) PendingSearch(b packedrtree.Box) []*Feature {
	rect, err := rtreego.NewRect(
		rtreego.Point{b.XMin, b.YMin},
		[]float64{maxf(b.XMax-b.XMin, 1e-9), maxf(b.YMax-b.YMin, 1e-9)},
	)
	if err != nil {
		return nil
	}
	hits := e.pending.SearchIntersect(rect)
	out := make([]*Feature, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(pendingEdit).feature)
	}
	return out
}

// Sync rewrites the whole dataset, with every pending edit applied, to
// dst. Existing features are read from the original source, skipping
// deleted indexes and substituting updated ones; pending inserts are
// appended afterward. Sync does not mutate the source Editable was
// constructed from.
func (e *Editable) Sync(dst io.Writer, opts ...Option) (n int, err error) {
	if err = e.src.Rewind(); err != nil {
		return 0, wrapErr("failed to rewind source", err)
	}

	w, err := NewWriter(dst, e.hdr.GeometryType(), opts...)
	if err != nil {
		return 0, err
	}
	for _, c := range e.columns {
		if e.dropped[c.Name] {
			continue
		}
		if err = w.AddColumn(c); err != nil {
			return 0, err
		}
	}

	existing, err := e.src.DataRem()
	if err != nil {
		return 0, wrapErr("failed to read existing features", err)
	}
	for i := range existing {
		if e.deleted[i] {
			continue
		}
		f := &existing[i]
		if u, ok := e.updated[i]; ok {
			f = u
		}
		var m int
		m, err = w.CreateFeature(f)
		n += m
		if err != nil {
			return n, err
		}
	}
	for _, edit := range e.pendingSeq {
		var m int
		m, err = w.CreateFeature(edit.feature)
		n += m
		if err != nil {
			return n, err
		}
	}

	m, err := w.Close()
	n += m
	return n, err
}
