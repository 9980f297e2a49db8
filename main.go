package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/carlmjohnson/versioninfo"

	"github.com/voxelio/voxelio/format/ply"
	"github.com/voxelio/voxelio/format/xyzrgbn"
	"github.com/voxelio/voxelio/mathhelp"
	"github.com/voxelio/voxelio/metadata"
	"github.com/voxelio/voxelio/octindex"
	"github.com/voxelio/voxelio/palette"
	"github.com/voxelio/voxelio/processing"
	"github.com/voxelio/voxelio/processing/vxdb"
	"github.com/voxelio/voxelio/voxel"

	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"
)

const SOURCE string = `sourceDb`
const TARGET string = `target`
const FORMAT string = `format`
const OVERWRITE string = `overwrite`
const ORDER string = `order`
const METADATA string = `metadata`
const PAGESIZE string = `pagesize`
const STATS string = `stats`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "voxelio"
	app.Usage = "A Golang voxel point-cloud converter (Morton/Z-order aware)"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     SOURCE,
			Aliases:  []string{"s"},
			Usage:    "Source voxel database (sqlite)",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
		},
		&cli.StringFlag{
			Name:     TARGET,
			Aliases:  []string{"t"},
			Usage:    "Target file",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(TARGET)},
		},
		&cli.StringFlag{
			Name:     FORMAT,
			Aliases:  []string{"f"},
			Usage:    `Target format: ply, xyzrgbn or vxdb`,
			Value:    "ply",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(FORMAT)},
		},
		&cli.BoolFlag{
			Name:     OVERWRITE,
			Aliases:  []string{"o"},
			Usage:    "Overwrite the target file if it exists",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(OVERWRITE)},
		},
		&cli.StringFlag{
			Name:     ORDER,
			Usage:    `Voxel order in the target: morton (Z-order) or source`,
			Value:    "morton",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(ORDER)},
		},
		&cli.StringFlag{
			Name:     METADATA,
			Aliases:  []string{"m"},
			Usage:    "Model metadata sidecar (JSON), embedded in formats that support it",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(METADATA)},
		},
		&cli.IntFlag{
			Name:     PAGESIZE,
			Aliases:  []string{"p"},
			Usage:    "Page size, how many voxels are written per transaction cq buffered write",
			Value:    1000,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(PAGESIZE)},
		},
		&cli.BoolFlag{
			Name:     STATS,
			Usage:    "Print model stats (octree occupancy, palette) after converting",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(STATS)},
		},
	}

	app.Action = func(c *cli.Context) error {
		var meta metadata.Metadata
		if c.String(METADATA) != "" {
			var err error
			meta, err = metadata.Load(c.String(METADATA))
			if err != nil {
				return err
			}
		}

		order, err := parseOrder(c.String(ORDER))
		if err != nil {
			return err
		}

		_, err = os.Stat(c.String(SOURCE))
		if os.IsNotExist(err) {
			log.Fatalf("error opening source voxel database: %s", err)
		}

		source := vxdb.SourceDatabase{}
		if err := source.Init(c.String(SOURCE)); err != nil {
			return err
		}
		defer source.Close()

		targetPath := c.String(TARGET)
		if c.Bool(OVERWRITE) {
			err := os.Remove(targetPath)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Fatalf("could not remove target file: %s", err)
			}
		} else if _, err := os.Stat(targetPath); err == nil {
			log.Fatalf("target file %s exists, use --%s to replace it", targetPath, OVERWRITE)
		}

		target, closeTarget := initTarget(c.String(FORMAT), targetPath, &meta, c.Int(PAGESIZE))
		defer closeTarget()

		log.Println("=== start converting ===")
		processing.Convert(source, map[string]processing.Target{c.String(FORMAT): target}, order)
		log.Println("=== done converting ===")

		if c.Bool(STATS) {
			printStats(source)
		}
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func parseOrder(order string) (processing.Order, error) {
	switch order {
	case "morton":
		return processing.OrderMorton, nil
	case "source":
		return processing.OrderSource, nil
	}
	return 0, fmt.Errorf(`unknown order %q, want "morton" or "source"`, order)
}

func initTarget(format, targetPath string, meta *metadata.Metadata, pagesize int) (processing.Target, func()) {
	switch format {
	case "ply":
		file := createTargetFile(targetPath)
		return processing.NewWriterTarget(ply.NewWriter(file, meta.Summary()), pagesize),
			func() { file.Close() }
	case "xyzrgbn":
		file := createTargetFile(targetPath)
		return processing.NewWriterTarget(xyzrgbn.NewWriter(file), pagesize),
			func() { file.Close() }
	case "vxdb":
		target := vxdb.TargetDatabase{}
		if err := target.Init(targetPath, pagesize); err != nil {
			log.Fatalf("error initializing the target voxel database: %s", err)
		}
		if err := target.CreateTable(); err != nil {
			log.Fatalf("error initializing the target voxel database: %s", err)
		}
		return target, target.Close
	}
	log.Fatalf(`unknown format %q, want "ply", "xyzrgbn" or "vxdb"`, format)
	return nil, nil
}

func createTargetFile(targetPath string) *os.File {
	file, err := os.Create(targetPath)
	if err != nil {
		log.Fatalf("could not create target file: %s", err)
	}
	return file
}

func printStats(source vxdb.SourceDatabase) {
	bounds, ok, err := source.Bounds()
	if err != nil {
		log.Fatalf("error querying the model bounds: %s", err)
	}
	voxels := source.ReadAll()
	log.Printf("  total voxels: %d", len(voxels))
	if !ok {
		return
	}
	log.Printf("  bounds: %v to %v", bounds.Min, bounds.Max)

	colors := palette.New()
	for _, v := range voxels {
		colors.AddVoxel(v)
	}
	argb, count, numWinners := colors.MostCommon()
	log.Printf("  distinct colors: %d", colors.Len())
	log.Printf("  most common color: #%08X (%d voxels, %d tied)", argb, count, numWinners)

	if !bounds.Fits21Bits() {
		log.Printf("  model too large for an octree index, skipping occupancy stats")
		return
	}
	ix := octindex.New(deepestLevelFor(bounds))
	for _, v := range voxels {
		ix.InsertVoxel(v, bounds.Min)
	}
	log.Print(ix.Summary())
}

// deepestLevelFor picks the shallowest octree that still gives every voxel
// inside the bounds its own deepest-level cell.
func deepestLevelFor(bounds voxel.Bounds) octindex.Level {
	var maxSpan uint64
	for ax := 0; ax < 3; ax++ {
		maxSpan = max(maxSpan, uint64(int64(bounds.Max[ax])-int64(bounds.Min[ax])))
	}
	if maxSpan == 0 {
		return 0
	}
	return octindex.Level(mathhelp.Log2Floor(maxSpan) + 1)
}
