// Package littleendian reads little-endian scalars out of byte slices,
// for the parts of the FlatGeobuf property codec that are not
// themselves FlatBuffers tables.
package littleendian

// Uint32 decodes the first four bytes of b as a little-endian uint32.
func Uint32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler: see golang.org/issue/14808
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Uint64 decodes the first eight bytes of b as a little-endian uint64.
func Uint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
