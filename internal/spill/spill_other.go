// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package spill

// unlinkEager is a no-op on platforms, such as Windows, where an open
// file cannot be removed from its directory while still in use. The
// file is instead removed normally in File.Close.
func unlinkEager(*File) {}
