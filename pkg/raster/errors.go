package raster

import "fmt"

// ReadError reports a failure loading a raster from disk.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading raster %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failure writing a raster to disk.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing raster %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
