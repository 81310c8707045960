// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flat

// SchemaVersion is the FlatGeobuf FlatBuffers schema major version that
// package flat's tables are hand-maintained against.
const SchemaVersion = 3
