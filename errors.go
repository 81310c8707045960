package flatgeobuf

import (
	"errors"
	"fmt"
)

const packageName = "flatgeobuf: "

func textErr(text string) error {
	return errors.New(packageName + text)
}

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func textPanic(text string) {
	panic(packageName + text)
}

func fmtPanic(format string, a ...interface{}) {
	panic(fmt.Sprintf(packageName+format, a...))
}

// ErrClosed is returned by Reader and Writer methods called after Close.
var ErrClosed = textErr("use of closed reader or writer")

// ErrNotFound is returned by FileReader.GetFeature when the requested
// feature id does not exist in the file, and also when the file has no
// spatial index or the underlying reader cannot seek.
var ErrNotFound = textErr("feature not found")

// errUnexpectedState indicates an operation was attempted while the
// Reader or Writer was in a state which does not allow it, for example
// calling Data before Header.
var errUnexpectedState = textErr("operation not valid in current state")
