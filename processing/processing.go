// Package processing takes care of the logistics around reading voxels
// from a Source and writing them to Targets, optionally reordering the
// stream into Morton order on the way. Not the bit math itself.
package processing

import (
	"log"
	"sync"

	sortedmap "github.com/tobshub/go-sortedmap"

	"github.com/voxelio/voxelio/morton"
	"github.com/voxelio/voxelio/voxel"
)

// Order selects the voxel order in which the targets are written.
type Order int

const (
	// OrderSource streams voxels through in source order.
	OrderSource Order = iota
	// OrderMorton buffers the whole stream and emits it sorted by the
	// Morton key of each voxel relative to the model's minimum corner.
	OrderMorton
)

// Convert reads all voxels from the source and writes them to every
// target. Each target is driven by its own goroutine; Convert returns
// when all of them have finished.
func Convert(source Source, targets map[string]Target, order Order) {
	voxelsIn := make(chan voxel.Voxel32)
	voxelsOut := make(chan voxel.Voxel32)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		writeVoxelsToTargets(voxelsOut, targets)
	}()
	go reorderVoxels(voxelsIn, voxelsOut, order)
	go readVoxelsFromSource(source, voxelsIn)

	wg.Wait()
}

func readVoxelsFromSource(source Source, voxels chan<- voxel.Voxel32) {
	source.ReadVoxels(voxels)
}

// reorderVoxels passes the stream through (OrderSource) or buffers and
// re-emits it in Morton order (OrderMorton). Voxels sharing a position
// keep only the first occurrence in Morton order.
func reorderVoxels(voxelsIn <-chan voxel.Voxel32, voxelsOut chan<- voxel.Voxel32, order Order) {
	defer close(voxelsOut)

	if order == OrderSource {
		for v := range voxelsIn {
			voxelsOut <- v
		}
		return
	}

	var buffered []voxel.Voxel32
	for v := range voxelsIn {
		buffered = append(buffered, v)
	}
	bounds, ok := voxel.BoundsOf(buffered)
	if !ok {
		return
	}
	if !bounds.Fits21Bits() {
		log.Fatalf("model spans more than %d bits per axis, cannot order by Morton key: %v", voxel.KeyBits, bounds)
	}

	zm := sortedmap.New[morton.Z, voxel.Voxel32](len(buffered), func(i, j voxel.Voxel32) bool {
		return voxel.MustZKey(i, bounds.Min) < voxel.MustZKey(j, bounds.Min)
	})
	var duplicates uint64
	for _, v := range buffered {
		if !zm.Insert(voxel.MustZKey(v, bounds.Min), v) {
			duplicates++
		}
	}
	if duplicates > 0 {
		log.Printf("    dropped %d voxels sharing a position with an earlier one", duplicates)
	}

	byZ := zm.Map()
	for _, z := range zm.Keys() {
		voxelsOut <- byZ[z]
	}
}

// writeVoxelsToTargets broadcasts the incoming voxels to every target,
// one goroutine and channel per target.
func writeVoxelsToTargets(voxels <-chan voxel.Voxel32, targets map[string]Target) {
	targetChannels := make(map[string]chan voxel.Voxel32, len(targets))
	wg := sync.WaitGroup{}

	for name, target := range targets {
		targetChannel := make(chan voxel.Voxel32)
		targetChannels[name] = targetChannel
		wg.Add(1)
		go func(target Target, targetChannel <-chan voxel.Voxel32) {
			defer wg.Done()
			target.WriteVoxels(targetChannel)
		}(target, targetChannel)
	}

	var count uint64
	for v := range voxels {
		count++
		for _, targetChannel := range targetChannels {
			targetChannel <- v
		}
	}

	// close the channels, the targets will do their last writing
	for _, targetChannel := range targetChannels {
		close(targetChannel)
	}
	wg.Wait()

	log.Printf("    total voxels written: %d", count)
}

// writerTarget pages voxels from a channel into a BufferedWriter.
type writerTarget struct {
	writer   BufferedWriter
	pagesize int
}

// NewWriterTarget adapts a format writer to a Target, writing at most
// pagesize voxels at a time.
func NewWriterTarget(writer BufferedWriter, pagesize int) Target {
	if pagesize < 1 {
		pagesize = 1
	}
	return &writerTarget{writer: writer, pagesize: pagesize}
}

func (t *writerTarget) WriteVoxels(voxels <-chan voxel.Voxel32) {
	page := make([]voxel.Voxel32, 0, t.pagesize)
	flush := func() {
		if err := t.writer.Write(page); err != nil {
			log.Fatalf("error writing voxels: %v", err)
		}
		page = page[:0]
	}
	for v := range voxels {
		page = append(page, v)
		if len(page) == t.pagesize {
			flush()
		}
	}
	flush()
	if err := t.writer.Flush(); err != nil {
		log.Fatalf("error flushing voxels: %v", err)
	}
}
