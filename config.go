// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

// defaultNodeSize is the index node size used when WithNodeSize is not
// given and a spatial index is requested.
const defaultNodeSize = 16

// config collects the options governing how a Writer buffers, indexes,
// and finally emits a FlatGeobuf file.
type config struct {
	spatialIndex  bool
	nodeSize      uint16
	tempDir       string
	verifyBuffers bool
	title         string
	description   string
}

func newConfig(opts ...Option) config {
	c := config{
		spatialIndex: true,
		nodeSize:     defaultNodeSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures a Writer.
type Option func(*config)

// WithSpatialIndex controls whether Writer builds a packed Hilbert
// R-Tree index section. It is enabled by default.
func WithSpatialIndex(enabled bool) Option {
	return func(c *config) {
		c.spatialIndex = enabled
	}
}

// WithNodeSize sets the R-Tree node size used when building the
// spatial index. Ignored if WithSpatialIndex(false) is also given.
// A size of 0 produces a file with no index section; a size of 1 makes
// Writer.Close return an error.
func WithNodeSize(size uint16) Option {
	return func(c *config) {
		c.nodeSize = size
	}
}

// WithTempDir sets the directory in which the Writer's first-pass
// scratch file is created. The default, empty string, uses the
// operating system's default temporary directory.
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// WithVerifyBuffers records a flag for bounds-checking FlatBuffers
// offsets. The flag is stored in the configuration but nothing reads
// it: neither Writer nor FileReader verifies FlatBuffers offsets,
// whatever its value. It is false by default.
func WithVerifyBuffers(enabled bool) Option {
	return func(c *config) {
		c.verifyBuffers = enabled
	}
}

// WithTitle sets the dataset title recorded in the file header.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithDescription sets the dataset description recorded in the file
// header.
func WithDescription(description string) Option {
	return func(c *config) {
		c.description = description
	}
}
