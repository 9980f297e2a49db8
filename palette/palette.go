// Package palette builds color palettes from voxel streams. Colors keep
// their first-appearance order, which makes palette indexes stable across
// runs over the same input.
package palette

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/voxelio/voxelio/voxel"
)

type Palette struct {
	counts *orderedmap.OrderedMap[uint32, uint]
	index  map[uint32]int
}

func New() *Palette {
	return &Palette{
		counts: orderedmap.New[uint32, uint](),
		index:  make(map[uint32]int),
	}
}

// Add records one occurrence of the given 0xAARRGGBB color and returns its
// palette index (its insertion rank).
func (p *Palette) Add(argb uint32) (index int) {
	if i, seen := p.index[argb]; seen {
		count, _ := p.counts.Get(argb)
		p.counts.Set(argb, count+1)
		return i
	}
	i := p.counts.Len()
	p.index[argb] = i
	p.counts.Set(argb, 1)
	return i
}

func (p *Palette) AddVoxel(v voxel.Voxel32) int {
	return p.Add(v.ARGB)
}

func (p *Palette) Len() int {
	return p.counts.Len()
}

// Colors returns the palette in first-appearance order.
func (p *Palette) Colors() []uint32 {
	colors := make([]uint32, 0, p.counts.Len())
	for pair := p.counts.Oldest(); pair != nil; pair = pair.Next() {
		colors = append(colors, pair.Key)
	}
	return colors
}

// MostCommon returns the most frequent color. When several colors are tied
// the last added one wins. numWinners tells how many were tied.
func (p *Palette) MostCommon() (argb uint32, count uint, numWinners uint) {
	first := true
	for pair := p.counts.Newest(); pair != nil; pair = pair.Prev() {
		if first || pair.Value > count {
			argb = pair.Key
			count = pair.Value
			numWinners = 1
			first = false
			continue
		}
		if pair.Value == count {
			numWinners++
		}
	}
	return argb, count, numWinners
}
