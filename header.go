// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a content hash of the header's encoded
// FlatBuffers table. It is cheap enough to call on every read and
// lets a cache of parsed header metadata (column list, geometry type,
// dimensionality) detect, without re-parsing the whole buffer, whether
// the header it was built from has changed.
func (h *Header) Fingerprint() uint64 {
	t := h.Table()
	return xxhash.Sum64(t.Bytes)
}

// ColumnSpecs returns the header's column declarations as ColumnSpecs.
func (h *Header) ColumnSpecs() []ColumnSpec {
	specs := make([]ColumnSpec, 0, h.ColumnsLength())
	for i := 0; i < h.ColumnsLength(); i++ {
		var c Column
		if h.Columns(&c, i) {
			specs = append(specs, ColumnSpec{
				Name:     string(c.Name()),
				Type:     c.Type(),
				Nullable: c.Nullable(),
			})
		}
	}
	return specs
}
