package assets

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/leveldata"
)

var (
	//go:embed all:levels
	assetFS embed.FS
)

const levelsDir = "levels"

// LevelFS exposes the embedded levels for tools that want to walk them.
func LevelFS() fs.FS { return assetFS }

// LoadArena loads an embedded arena by file name ("arena.tmx" or "arena").
func LoadArena(name string) (*leveldata.ArenaLayout, error) {
	if !strings.HasSuffix(name, ".tmx") {
		name += ".tmx"
	}
	return leveldata.LoadArena(assetFS, path.Join(levelsDir, name))
}

// ArenaNames lists the embedded arenas, sorted.
func ArenaNames() ([]string, error) {
	_, names, err := leveldata.LoadAllArenas(assetFS, levelsDir)
	return names, err
}
