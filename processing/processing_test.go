package processing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelio/voxelio/voxel"
)

type sliceSource struct {
	voxels []voxel.Voxel32
}

func (s sliceSource) ReadVoxels(voxels chan<- voxel.Voxel32) {
	for _, v := range s.voxels {
		voxels <- v
	}
	close(voxels)
}

type sliceTarget struct {
	mu     sync.Mutex
	voxels []voxel.Voxel32
}

func (t *sliceTarget) WriteVoxels(voxels <-chan voxel.Voxel32) {
	for v := range voxels {
		t.mu.Lock()
		t.voxels = append(t.voxels, v)
		t.mu.Unlock()
	}
}

func TestConvert_sourceOrder(t *testing.T) {
	voxels := []voxel.Voxel32{
		{Pos: [3]int32{5, 5, 5}, ARGB: 1},
		{Pos: [3]int32{0, 0, 0}, ARGB: 2},
		{Pos: [3]int32{2, 1, 0}, ARGB: 3},
	}
	target := &sliceTarget{}
	Convert(sliceSource{voxels: voxels}, map[string]Target{"out": target}, OrderSource)
	require.Equal(t, voxels, target.voxels)
}

func TestConvert_mortonOrder(t *testing.T) {
	voxels := []voxel.Voxel32{
		{Pos: [3]int32{5, 5, 5}, ARGB: 1},
		{Pos: [3]int32{4, 4, 4}, ARGB: 2},
		{Pos: [3]int32{4, 5, 4}, ARGB: 3},
		{Pos: [3]int32{4, 4, 5}, ARGB: 4},
	}
	target := &sliceTarget{}
	Convert(sliceSource{voxels: voxels}, map[string]Target{"out": target}, OrderMorton)

	// keys relative to min corner (4,4,4): (1,1,1)=0b111, (0,0,0)=0,
	// (0,1,0)=0b010, (0,0,1)=0b001
	want := []voxel.Voxel32{
		{Pos: [3]int32{4, 4, 4}, ARGB: 2},
		{Pos: [3]int32{4, 4, 5}, ARGB: 4},
		{Pos: [3]int32{4, 5, 4}, ARGB: 3},
		{Pos: [3]int32{5, 5, 5}, ARGB: 1},
	}
	require.Equal(t, want, target.voxels)
}

func TestConvert_mortonOrderDropsDuplicatePositions(t *testing.T) {
	voxels := []voxel.Voxel32{
		{Pos: [3]int32{1, 1, 1}, ARGB: 1},
		{Pos: [3]int32{1, 1, 1}, ARGB: 2},
		{Pos: [3]int32{0, 0, 0}, ARGB: 3},
	}
	target := &sliceTarget{}
	Convert(sliceSource{voxels: voxels}, map[string]Target{"out": target}, OrderMorton)

	want := []voxel.Voxel32{
		{Pos: [3]int32{0, 0, 0}, ARGB: 3},
		{Pos: [3]int32{1, 1, 1}, ARGB: 1}, // first occurrence wins
	}
	require.Equal(t, want, target.voxels)
}

func TestConvert_broadcastsToAllTargets(t *testing.T) {
	voxels := []voxel.Voxel32{
		{Pos: [3]int32{0, 0, 0}, ARGB: 1},
		{Pos: [3]int32{1, 0, 0}, ARGB: 2},
	}
	a, b := &sliceTarget{}, &sliceTarget{}
	Convert(sliceSource{voxels: voxels}, map[string]Target{"a": a, "b": b}, OrderSource)
	require.Equal(t, voxels, a.voxels)
	require.Equal(t, voxels, b.voxels)
}

func TestConvert_emptySource(t *testing.T) {
	target := &sliceTarget{}
	Convert(sliceSource{}, map[string]Target{"out": target}, OrderMorton)
	require.Empty(t, target.voxels)
}

type recordingWriter struct {
	pages   [][]voxel.Voxel32
	flushed int
}

func (w *recordingWriter) Write(voxels []voxel.Voxel32) error {
	page := make([]voxel.Voxel32, len(voxels))
	copy(page, voxels)
	w.pages = append(w.pages, page)
	return nil
}

func (w *recordingWriter) Flush() error {
	w.flushed++
	return nil
}

func TestNewWriterTarget_pages(t *testing.T) {
	w := &recordingWriter{}
	target := NewWriterTarget(w, 2)

	voxels := make(chan voxel.Voxel32)
	go func() {
		for i := int32(0); i < 5; i++ {
			voxels <- voxel.Voxel32{Pos: [3]int32{i, 0, 0}}
		}
		close(voxels)
	}()
	target.WriteVoxels(voxels)

	require.Len(t, w.pages, 3)
	require.Len(t, w.pages[0], 2)
	require.Len(t, w.pages[1], 2)
	require.Len(t, w.pages[2], 1)
	require.Equal(t, 1, w.flushed)
}
