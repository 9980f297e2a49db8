// Package ply writes voxel point clouds as binary big-endian PLY.
//
// The header has a fixed length: the variable-length vertex count is
// written as a filler on Init and patched in on Flush. With the header
// bytes stripped, the payload is a plain stream of big-endian
// x, y, z, argb records.
package ply

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/muesli/reflow/truncate"

	"github.com/voxelio/voxelio/voxel"
)

// ErrDoubleInit is returned when Init is called on an initialized writer.
// The header has been written once already; the call is a no-op otherwise.
var ErrDoubleInit = errors.New("ply: writer is already initialized")

// countFiller reserves room for the vertex count. Flush overwrites it with
// the decimal count followed by "\r\ncomment ", which at 20 digits for a
// full uint64 exactly fills the filler and its line break.
const countFiller = "....;....;....;....;....;...\r\n"

// maxCommentLen keeps the header length independent of the user comment.
const maxCommentLen = 60

type Writer struct {
	stream      io.WriteSeeker
	comment     string
	initialized bool
	voxelCount  uint64
	countOffset int64
}

// NewWriter creates a PLY writer. The comment is embedded in the header,
// truncated to a fixed width so the header size stays constant.
func NewWriter(stream io.WriteSeeker, comment string) *Writer {
	return &Writer{stream: stream, comment: comment}
}

// Init writes the header. Calling Write on an uninitialized writer does
// this implicitly.
func (w *Writer) Init() error {
	if w.initialized {
		return ErrDoubleInit
	}
	w.initialized = true

	comment := truncate.StringWithTail(w.comment, maxCommentLen, "...")
	if err := w.writeString("ply\r\n"); err != nil {
		return err
	}
	if err := w.writeString("format binary_big_endian 1.0\r\n"); err != nil {
		return err
	}
	if err := w.writeString(fmt.Sprintf("comment %-*s\r\n", maxCommentLen, comment)); err != nil {
		return err
	}
	if err := w.writeString("element vertex "); err != nil {
		return err
	}
	offset, err := w.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	w.countOffset = offset // filled in by Flush
	if err = w.writeString(countFiller); err != nil {
		return err
	}
	for _, property := range []string{"int x", "int y", "int z", "uchar alpha", "uchar red", "uchar green", "uchar blue"} {
		if err = w.writeString("property " + property + "\r\n"); err != nil {
			return err
		}
	}
	return w.writeString("end_header\r\n")
}

// Write appends the given voxels to the stream, initializing first if
// needed.
func (w *Writer) Write(voxels []voxel.Voxel32) error {
	if !w.initialized {
		if err := w.Init(); err != nil {
			return err
		}
	}
	for _, v := range voxels {
		if err := w.writeVoxel(v); err != nil {
			return err
		}
	}
	return nil
}

// Flush patches the vertex count into the header and seeks back to the end
// of the stream. The writer stays usable for more Writes.
func (w *Writer) Flush() error {
	if !w.initialized {
		if err := w.Init(); err != nil {
			return err
		}
	}
	end, err := w.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err = w.stream.Seek(w.countOffset, io.SeekStart); err != nil {
		return err
	}
	// the remainder of the filler becomes a comment
	if err = w.writeString(fmt.Sprintf("%d\r\ncomment ", w.voxelCount)); err != nil {
		return err
	}
	_, err = w.stream.Seek(end, io.SeekStart)
	return err
}

func (w *Writer) writeVoxel(v voxel.Voxel32) error {
	w.voxelCount++
	record := struct {
		Pos  [3]int32
		ARGB uint32
	}{Pos: v.Pos, ARGB: v.ARGB}
	if err := binary.Write(w.stream, binary.BigEndian, &record); err != nil {
		return fmt.Errorf(`could not write voxel %v: %w`, v.Pos, err)
	}
	return nil
}

func (w *Writer) writeString(s string) error {
	_, err := io.WriteString(w.stream, s)
	return err
}
