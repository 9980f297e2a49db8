// Package octindex is a sparse voxel occupancy octree. Cells on every
// level are keyed by the Morton code of their coordinates, so iterating
// the keys of one level in numeric order walks that level in Z-order.
//
// Octants within a parent cell, by key suffix:
//
//	0b000 -x -y -z    0b100 +x -y -z
//	0b001 -x -y +z    0b101 +x -y +z
//	0b010 -x +y -z    0b110 +x +y -z
//	0b011 -x +y +z    0b111 +x +y +z
package octindex

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/voxelio/voxelio/mathhelp"
	"github.com/voxelio/voxelio/morton"
	"github.com/voxelio/voxelio/voxel"
)

type Level = uint

const (
	xAx = 0b100
	yAx = 0b010
	zAx = 0b001
)

type OctIndex struct {
	deepestLevel Level
	// Number of cells (in one direction) on the deepest level (= 2 ^ deepestLevel)
	deepestSize uint
	cells       map[Level]map[morton.Z]struct{}
}

// New creates an index whose deepest level has 2^deepestLevel cells per
// axis. deepestLevel is capped by the per-axis Morton key budget and
// panics above it.
func New(deepestLevel Level) *OctIndex {
	if deepestLevel > voxel.KeyBits {
		panic(fmt.Errorf(`cannot make an octree index %v levels deep, max is %v`, deepestLevel, voxel.KeyBits))
	}
	return &OctIndex{
		deepestLevel: deepestLevel,
		deepestSize:  mathhelp.Pow2(deepestLevel),
		cells:        make(map[Level]map[morton.Z]struct{}, deepestLevel+1),
	}
}

func (ix *OctIndex) DeepestLevel() Level {
	return ix.deepestLevel
}

// InsertCoord marks the cell containing the given deepest-level coord as
// occupied on every level. Coords outside the grid panic.
func (ix *OctIndex) InsertCoord(x, y, z uint32) {
	if uint(x) >= ix.deepestSize || uint(y) >= ix.deepestSize || uint(z) >= ix.deepestSize {
		panic(fmt.Errorf("trying to insert a coord (%v, %v, %v) outside the grid (0, %v)^3", x, y, z, ix.deepestSize))
	}
	for l := Level(0); l <= ix.deepestLevel; l++ {
		shift := ix.deepestLevel - l
		key := morton.Interleave3(x>>shift, y>>shift, z>>shift)
		if ix.cells[l] == nil {
			ix.cells[l] = make(map[morton.Z]struct{})
		}
		ix.cells[l][key] = struct{}{}
	}
}

// InsertVoxel inserts a voxel by its position relative to the given
// origin (normally the Min corner of the model bounds).
func (ix *OctIndex) InsertVoxel(v voxel.Voxel32, origin [3]int32) {
	x, y, z := morton.Deinterleave3(voxel.MustZKey(v, origin))
	ix.InsertCoord(x, y, z)
}

// CellCount returns the number of occupied cells on a level.
func (ix *OctIndex) CellCount(l Level) int {
	return len(ix.cells[l])
}

// Levels returns the levels that have occupied cells, shallowest first.
func (ix *OctIndex) Levels() []Level {
	levels := maps.Keys(ix.cells)
	slices.Sort(levels)
	return levels
}

// ZOrderedCells returns the occupied cells of a level in Z-order.
func (ix *OctIndex) ZOrderedCells(l Level) []morton.Z {
	keys := maps.Keys(ix.cells[l])
	slices.Sort(keys)
	return keys
}

// Children returns the occupied child cells of a parent cell, in Z-order.
func (ix *OctIndex) Children(l Level, parent morton.Z) []morton.Z {
	if l >= ix.deepestLevel {
		return nil
	}
	children := make([]morton.Z, 0, 8)
	for _, key := range childKeys(parent) {
		if _, exists := ix.cells[l+1][key]; exists {
			children = append(children, key)
		}
	}
	return children
}

// childKeys derives the Morton keys of all 8 octants of a parent cell.
func childKeys(parent morton.Z) [8]morton.Z {
	parentX, parentY, parentZ := morton.Deinterleave3(parent)
	keys := [8]morton.Z{}
	for i := 0; i < 8; i++ {
		x := parentX*2 + uint32(mathhelp.Bool2int(i&xAx != 0))
		y := parentY*2 + uint32(mathhelp.Bool2int(i&yAx != 0))
		z := parentZ*2 + uint32(mathhelp.Bool2int(i&zAx != 0))
		keys[i] = morton.Interleave3(x, y, z)
	}
	return keys
}

// Summary renders a per-level occupancy report. For humans.
func (ix *OctIndex) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "octree occupancy, %d levels, %d cells per axis on the deepest:\n",
		ix.deepestLevel+1, ix.deepestSize)
	for _, l := range ix.Levels() {
		cellsPerAxis := mathhelp.Pow2(l)
		total := cellsPerAxis * cellsPerAxis * cellsPerAxis
		occupied := ix.CellCount(l)
		fmt.Fprintf(&sb, "  level %2d: %10d of %d^3 cells occupied (%.2f%%)\n",
			l, occupied, cellsPerAxis, 100*float64(occupied)/float64(total))
	}
	if ix.CellCount(0) > 0 {
		fmt.Fprintf(&sb, "  root octants occupied: %d of 8\n", len(ix.Children(0, 0)))
	}
	return sb.String()
}
