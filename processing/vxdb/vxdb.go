// Package vxdb reads and writes voxel databases: a single sqlite file with
// a voxels table holding one row per voxel.
package vxdb

import (
	"database/sql"
	"fmt"
	"log"

	// registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/voxelio/voxelio/voxel"
)

const driver = "sqlite3"

const createTableSQL = `CREATE TABLE IF NOT EXISTS voxels (
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	z INTEGER NOT NULL,
	argb INTEGER NOT NULL
);`

const selectSQL = `SELECT x, y, z, argb FROM voxels ORDER BY rowid;`
const insertSQL = `INSERT INTO voxels (x, y, z, argb) VALUES (?, ?, ?, ?);`
const countSQL = `SELECT count(*) FROM voxels;`
const boundsSQL = `SELECT min(x), max(x), min(y), max(y), min(z), max(z) FROM voxels;`

type SourceDatabase struct {
	handle *sql.DB
}

func (source *SourceDatabase) Init(file string) error {
	handle, err := openDatabase(file)
	if err != nil {
		return err
	}
	source.handle = handle
	return nil
}

func (source *SourceDatabase) Close() {
	_ = source.handle.Close()
}

// ReadVoxels streams all voxels in row order and closes the channel when
// done.
func (source SourceDatabase) ReadVoxels(voxels chan<- voxel.Voxel32) {
	rows, err := source.handle.Query(selectSQL)
	if err != nil {
		log.Fatalf("error reading voxels: %s", err)
	}
	defer rows.Close()

	for rows.Next() {
		var x, y, z int32
		var argb int64
		if err = rows.Scan(&x, &y, &z, &argb); err != nil {
			log.Fatalf("error reading voxel row: %s", err)
		}
		voxels <- voxel.Voxel32{Pos: [3]int32{x, y, z}, ARGB: uint32(argb)}
	}
	if err = rows.Err(); err != nil {
		log.Fatal(err)
	}
	close(voxels)
}

// ReadAll is a convenience around ReadVoxels for callers that want the
// whole model in memory, e.g. to compute stats.
func (source SourceDatabase) ReadAll() []voxel.Voxel32 {
	count, err := source.Count()
	if err != nil {
		log.Fatalf("error counting voxels: %s", err)
	}
	all := make([]voxel.Voxel32, 0, count)
	voxels := make(chan voxel.Voxel32)
	go source.ReadVoxels(voxels)
	for v := range voxels {
		all = append(all, v)
	}
	return all
}

func (source SourceDatabase) Count() (int64, error) {
	var count int64
	err := source.handle.QueryRow(countSQL).Scan(&count)
	return count, err
}

// Bounds queries the bounding box of all voxels without loading them.
// ok is false for an empty database.
func (source SourceDatabase) Bounds() (bounds voxel.Bounds, ok bool, err error) {
	var mins, maxes [3]sql.NullInt64
	err = source.handle.QueryRow(boundsSQL).Scan(
		&mins[0], &maxes[0], &mins[1], &maxes[1], &mins[2], &maxes[2])
	if err != nil {
		return bounds, false, err
	}
	if !mins[0].Valid {
		return bounds, false, nil
	}
	for ax := 0; ax < 3; ax++ {
		bounds.Min[ax] = int32(mins[ax].Int64)
		bounds.Max[ax] = int32(maxes[ax].Int64)
	}
	return bounds, true, nil
}

type TargetDatabase struct {
	handle   *sql.DB
	pagesize int
}

func (target *TargetDatabase) Init(file string, pagesize int) error {
	handle, err := openDatabase(file)
	if err != nil {
		return err
	}
	if pagesize < 1 {
		pagesize = 1
	}
	target.handle = handle
	target.pagesize = pagesize
	return nil
}

func (target *TargetDatabase) Close() {
	_ = target.handle.Close()
}

func (target TargetDatabase) CreateTable() error {
	_, err := target.handle.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf(`could not create voxels table: %w`, err)
	}
	return nil
}

// WriteVoxels inserts all voxels from the channel, one transaction per
// pagesize voxels.
func (target TargetDatabase) WriteVoxels(voxels <-chan voxel.Voxel32) {
	page := make([]voxel.Voxel32, 0, target.pagesize)
	for v := range voxels {
		page = append(page, v)
		if len(page) == target.pagesize {
			target.writePage(page)
			page = page[:0]
		}
	}
	if len(page) > 0 {
		target.writePage(page)
	}
}

func (target TargetDatabase) writePage(page []voxel.Voxel32) {
	tx, err := target.handle.Begin()
	if err != nil {
		log.Fatalf("could not start a transaction: %s", err)
	}
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		log.Fatalf("could not prepare a statement: %s", err)
	}
	for _, v := range page {
		if _, err = stmt.Exec(v.Pos[0], v.Pos[1], v.Pos[2], int64(v.ARGB)); err != nil {
			log.Fatalf("could not insert voxel %v: %s", v.Pos, err)
		}
	}
	stmt.Close()
	if err = tx.Commit(); err != nil {
		log.Fatalf("could not commit a page of %d voxels: %s", len(page), err)
	}
}

func openDatabase(file string) (*sql.DB, error) {
	handle, err := sql.Open(driver, file)
	if err != nil {
		return nil, fmt.Errorf(`error opening voxel database: %w`, err)
	}
	return handle, nil
}
