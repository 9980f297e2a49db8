// Package xyzrgbn writes voxel point clouds as ASCII XYZRGBN: one point
// per line with position, 0..255 color channels and a normal vector.
// Voxels have no meaningful surface normal, so the normal is always zero;
// the columns are kept so common point-cloud tools accept the file.
package xyzrgbn

import (
	"bufio"
	"fmt"
	"io"

	"github.com/voxelio/voxelio/voxel"
)

type Writer struct {
	stream *bufio.Writer
}

func NewWriter(stream io.Writer) *Writer {
	return &Writer{stream: bufio.NewWriter(stream)}
}

// Write appends the given voxels, one line each.
func (w *Writer) Write(voxels []voxel.Voxel32) error {
	for _, v := range voxels {
		err := w.writeVoxel(v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush writes out any buffered lines.
func (w *Writer) Flush() error {
	return w.stream.Flush()
}

func (w *Writer) writeVoxel(v voxel.Voxel32) error {
	_, err := fmt.Fprintf(w.stream, "%d %d %d %d %d %d 0 0 0\n",
		v.Pos[0], v.Pos[1], v.Pos[2], v.Red(), v.Green(), v.Blue())
	if err != nil {
		return fmt.Errorf(`could not write voxel %v: %w`, v.Pos, err)
	}
	return nil
}
