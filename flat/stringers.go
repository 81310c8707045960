// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flat

import (
	"fmt"
	"strings"
)

// String returns a compact, non-exhaustive summary of the Column.
func (rcv *Column) String() string {
	return fmt.Sprintf("Column{Name:%q,Type:%s,Nullable:%t}", rcv.Name(), rcv.Type(), rcv.Nullable())
}

// String returns a compact, non-exhaustive summary of the Crs.
func (rcv *Crs) String() string {
	org := string(rcv.Org())
	if org == "" {
		return fmt.Sprintf("Crs{WKT:%d bytes}", len(rcv.Wkt()))
	}
	return fmt.Sprintf("Crs{%s:%d}", org, rcv.Code())
}

// String returns a compact, non-exhaustive summary of the Header.
func (rcv *Header) String() string {
	var cols strings.Builder
	n := rcv.ColumnsLength()
	for i := 0; i < n; i++ {
		if i > 0 {
			cols.WriteByte(',')
		}
		var c Column
		if rcv.Columns(&c, i) {
			cols.WriteString(string(c.Name()))
		}
	}
	return fmt.Sprintf("Header{Name:%q,Type:%s,Columns:[%s],FeaturesCount:%d,IndexNodeSize:%d}",
		rcv.Name(), rcv.GeometryType(), cols.String(), rcv.FeaturesCount(), rcv.IndexNodeSize())
}
