package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
)

// Object group names in arena TMX files.
const (
	GroupPlayerMap = "PlayerMap"
	GroupItemSpawn = "ItemSpawn"
	GroupEnemyLane = "EnemyLane"
)

// LoadArena parses a TMX file into an ArenaLayout. It takes an fs.FS so
// callers can pass embed.FS or os.DirFS.
func LoadArena(fsys fs.FS, tmxPath string) (*ArenaLayout, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	arena := &ArenaLayout{
		MapWidth:  levelMap.Width * levelMap.TileWidth,
		MapHeight: levelMap.Height * levelMap.TileHeight,
		Maps:      make(map[int]*PlayerMap),
	}

	mapFor := func(index int) *PlayerMap {
		m, ok := arena.Maps[index]
		if !ok {
			m = &PlayerMap{Index: index}
			arena.Maps[index] = m
		}
		return m
	}

	lanes := map[int]map[int]gamemath.Vec2{}
	for _, og := range levelMap.ObjectGroups {
		for _, o := range og.Objects {
			index := o.Properties.GetInt("playerIndex")
			switch og.Name {
			case GroupPlayerMap:
				mapFor(index).Bounds = Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
			case GroupItemSpawn:
				m := mapFor(index)
				m.SpawnPoints = append(m.SpawnPoints, gamemath.Vec2{X: o.X, Y: o.Y})
			case GroupEnemyLane:
				if lanes[index] == nil {
					lanes[index] = map[int]gamemath.Vec2{}
				}
				lanes[index][o.Properties.GetInt("lane")] = gamemath.Vec2{X: o.X, Y: o.Y}
			}
		}
	}

	for index, byLane := range lanes {
		m := mapFor(index)
		order := make([]int, 0, len(byLane))
		for lane := range byLane {
			order = append(order, lane)
		}
		sort.Ints(order)
		for _, lane := range order {
			m.LaneAnchors = append(m.LaneAnchors, byLane[lane])
		}
	}

	for _, m := range arena.Maps {
		// Sort spawns left-to-right for consistent entry sides
		sort.Slice(m.SpawnPoints, func(i, j int) bool {
			return m.SpawnPoints[i].X < m.SpawnPoints[j].X
		})
		if len(m.SpawnPoints) == 0 {
			return nil, fmt.Errorf("load TMX %s: player map %d has no item spawn points", tmxPath, m.Index)
		}
	}
	if len(arena.Maps) == 0 {
		return nil, fmt.Errorf("load TMX %s: no player maps", tmxPath)
	}
	return arena, nil
}

// LoadAllArenas discovers all .tmx files in dir within fsys and returns them
// keyed by stem name plus a sorted list of names.
func LoadAllArenas(fsys fs.FS, dir string) (map[string]*ArenaLayout, []string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	arenas := make(map[string]*ArenaLayout, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		arena, err := LoadArena(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".tmx")
		arenas[stem] = arena
		names = append(names, stem)
	}
	sort.Strings(names)
	return arenas, names, nil
}
