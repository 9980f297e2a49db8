package processing

import (
	"github.com/voxelio/voxelio/voxel"
)

type Source interface {
	ReadVoxels(chan<- voxel.Voxel32)
}

type Target interface {
	WriteVoxels(<-chan voxel.Voxel32)
}

// BufferedWriter is the page-oriented write surface the format writers
// expose; NewWriterTarget adapts it to a channel-driven Target.
type BufferedWriter interface {
	Write([]voxel.Voxel32) error
	Flush() error
}
