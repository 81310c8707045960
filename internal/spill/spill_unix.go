// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package spill

import "golang.org/x/sys/unix"

// unlinkEager removes the spill file's directory entry immediately
// after creation. The open file descriptor keeps the underlying inode
// alive until Close, so the file is usable exactly as before, but it
// can never be left behind on disk by a crash or an os.Exit.
func unlinkEager(sf *File) {
	if unix.Unlink(sf.path) == nil {
		sf.path = ""
	}
}
