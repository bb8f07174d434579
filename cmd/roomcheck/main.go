// Command roomcheck loads the room manifest and every room it lists through
// the game's loader and reports anything that would fail at runtime.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/milk9111/bloodroom/levels"
	"github.com/milk9111/bloodroom/prefabs"
	"github.com/milk9111/bloodroom/room"
	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

func main() {
	dir := flag.String("dir", "", "levels directory on disk (default: embedded levels)")
	verbose := flag.Bool("v", false, "print every room checked")
	flag.Parse()

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatal(err)
	}
	tiles, err := prefabs.Load(prefabs.TilesFile)
	if err != nil {
		log.Fatal(err)
	}

	fsys := levels.Embedded()
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	report, err := check(context.Background(), fsys, tiles, spec)
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		for _, id := range report.Checked {
			fmt.Printf("ok   room %d\n", id)
		}
		for _, k := range tile.Kinds() {
			fmt.Printf("%-6s %d\n", k, report.Tiles[k])
		}
		fmt.Printf("arena headroom: %d slots\n", report.MinFree)
	}
	for _, p := range report.Problems {
		fmt.Println("FAIL", p)
	}
	if len(report.Problems) > 0 {
		os.Exit(1)
	}
	fmt.Printf("%d rooms ok\n", len(report.Checked))
}

type Report struct {
	Checked  []room.ID
	Problems []string
	// Tiles counts cells per kind over every loaded room.
	Tiles map[tile.Kind]int
	// MinFree is the fewest arena slots left after any room loaded.
	MinFree int
}

// check loads every room of the manifest into a scratch arena. Setup errors
// (catalog, manifest) are returned; per-room problems are collected.
func check(ctx context.Context, fsys fs.FS, tiles []byte, spec *prefabs.GameSpec) (*Report, error) {
	textures := sprite.NewTextures()
	catalog, err := tile.LoadCatalog(tiles, textures)
	if err != nil {
		return nil, err
	}
	graph, err := room.LoadGraph(fsys, spec.Room.Manifest)
	if err != nil {
		return nil, err
	}

	arena := sprite.NewArena(spec.Arena.Capacity)
	loader := room.NewLoader(room.LoaderConfig{
		FS:          fsys,
		FilePattern: spec.Room.FilePattern,
		Dimensions:  room.Dimensions{Width: spec.Room.Width, Height: spec.Room.Height, Cell: spec.Room.Cell},
		Catalog:     catalog,
		Arena:       arena,
	})

	report := &Report{Tiles: make(map[tile.Kind]int), MinFree: arena.Cap()}
	if !graph.Has(room.ID(spec.Room.Start)) {
		report.Problems = append(report.Problems, fmt.Sprintf("start room %d is not in %s", spec.Room.Start, spec.Room.Manifest))
	}

	for _, id := range graph.Rooms() {
		st, err := loader.Load(ctx, id)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("room %d: %v", id, err))
			continue
		}
		report.Checked = append(report.Checked, id)
		report.MinFree = min(report.MinFree, arena.Free())
		for _, k := range st.Grid.Cells {
			report.Tiles[k]++
		}

		for _, dir := range []room.Direction{room.DirLeft, room.DirRight, room.DirUp, room.DirDown} {
			next, ok := graph.Neighbor(id, dir)
			if !ok {
				continue
			}
			if !graph.Has(next) {
				report.Problems = append(report.Problems, fmt.Sprintf("room %d: %s exit to unlisted room %d", id, dir, next))
				continue
			}
			if back, ok := graph.Neighbor(next, dir.Opposite()); !ok || back != id {
				report.Problems = append(report.Problems, fmt.Sprintf("room %d: %s exit to room %d has no way back", id, dir, next))
			}
		}
	}
	return report, nil
}
