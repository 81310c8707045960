// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build armbe || arm64be || mips || mips64 || mips64p32 || ppc || ppc64 || sparc || sparc64 || s390 || s390x
// +build armbe arm64be mips mips64 mips64p32 ppc ppc64 sparc sparc64 s390 s390x

package packedrtree

import "io"

func fixLittleEndianOctets(b []byte) {
	for i := 0; i < len(b); i += 8 {
		b[i+0], b[i+7] = b[i+7], b[i+0]
		b[i+1], b[i+6] = b[i+6], b[i+1]
		b[i+2], b[i+5] = b[i+5], b[i+2]
		b[i+3], b[i+4] = b[i+4], b[i+3]
	}
}

func writeLittleEndianOctets(w io.Writer, p []byte) (int, error) {
	swapped := make([]byte, len(p))
	copy(swapped, p)
	fixLittleEndianOctets(swapped)
	return w.Write(swapped)
}
