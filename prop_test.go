// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fgb "github.com/spatialgo/flatgeobuf"
)

func TestPropReaderWriter_MultiByteRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		write func(w *fgb.PropWriter) (int, error)
		read  func(r *fgb.PropReader) (interface{}, error)
		want  interface{}
	}{
		{
			"Short",
			func(w *fgb.PropWriter) (int, error) { return w.WriteShort(-0x1234) },
			func(r *fgb.PropReader) (interface{}, error) { return r.ReadShort() },
			int16(-0x1234),
		},
		{
			"UShort",
			func(w *fgb.PropWriter) (int, error) { return w.WriteUShort(0xBEEF) },
			func(r *fgb.PropReader) (interface{}, error) { return r.ReadUShort() },
			uint16(0xBEEF),
		},
		{
			"Int",
			func(w *fgb.PropWriter) (int, error) { return w.WriteInt(-0x12345678) },
			func(r *fgb.PropReader) (interface{}, error) { return r.ReadInt() },
			int32(-0x12345678),
		},
		{
			"UInt",
			func(w *fgb.PropWriter) (int, error) { return w.WriteUInt(0xDEADBEEF) },
			func(r *fgb.PropReader) (interface{}, error) { return r.ReadUInt() },
			uint32(0xDEADBEEF),
		},
		{
			"Long",
			func(w *fgb.PropWriter) (int, error) { return w.WriteLong(-0x123456789ABCDEF0) },
			func(r *fgb.PropReader) (interface{}, error) { return r.ReadLong() },
			int64(-0x123456789ABCDEF0),
		},
		{
			"ULong",
			func(w *fgb.PropWriter) (int, error) { return w.WriteULong(0xDEADBEEFCAFEBABE) },
			func(r *fgb.PropReader) (interface{}, error) { return r.ReadULong() },
			uint64(0xDEADBEEFCAFEBABE),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := fgb.NewPropWriter(&buf)
			_, err := tc.write(w)
			require.NoError(t, err)

			r := fgb.NewPropReader(&buf)
			got, err := tc.read(r)
			require.NoError(t, err)

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPropReader_HighOrderBytesSurvive(t *testing.T) {
	// Regression test: a naive shift-then-widen implementation zeroes
	// any byte shifted by 8 or more bits before it is widened, which
	// would make the high bytes of every multi-byte value disappear.
	var buf bytes.Buffer
	w := fgb.NewPropWriter(&buf)
	_, err := w.WriteUInt(0xFF000000)
	require.NoError(t, err)

	r := fgb.NewPropReader(&buf)
	got, err := r.ReadUInt()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF000000), got)
}

func TestPropReaderWriter_String(t *testing.T) {
	var buf bytes.Buffer
	w := fgb.NewPropWriter(&buf)
	_, err := w.WriteString("hello, fgb")
	require.NoError(t, err)

	r := fgb.NewPropReader(&buf)
	got, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello, fgb", got)
}
