package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chainshot/internal/game"
)

// Pack is a hand-authored level set loaded from YAML. Entries override
// the generated curve; anything an entry leaves unset keeps the
// generator's value for that level number, so a pack can be as sparse
// as a list of waypoint layouts. Runs longer than the pack wrap around
// while difficulty keeps ramping.
type Pack struct {
	Name   string       `yaml:"name"`
	Levels []levelEntry `yaml:"levels"`

	gen *Generator
}

// levelEntry holds one pack level. Pointer fields distinguish "absent"
// from a deliberate zero (a level with no initial orbs is legal).
type levelEntry struct {
	Pattern            string      `yaml:"pattern"`
	Waypoints          []game.Vec2 `yaml:"waypoints"`
	ChainSpeed         float64     `yaml:"chainSpeed"`
	SpawnInterval      float64     `yaml:"spawnInterval"`
	ProjectileSpeed    float64     `yaml:"projectileSpeed"`
	GapCloseFactor     float64     `yaml:"gapCloseFactor"`
	InitialOrbs        *int        `yaml:"initialOrbs"`
	InitialChainOffset float64     `yaml:"initialChainOffset"`
	MaxOrbs            int         `yaml:"maxOrbs"`
	Colors             []string    `yaml:"colors"`
	PowerupChance      *float64    `yaml:"powerupChance"`
	RainbowChance      *float64    `yaml:"rainbowChance"`
}

var colorNames = map[string]game.OrbColor{
	"red":    game.ColorRed,
	"blue":   game.ColorBlue,
	"green":  game.ColorGreen,
	"yellow": game.ColorYellow,
	"purple": game.ColorPurple,
}

// LoadPack reads and parses a YAML level pack.
func LoadPack(path string, board *Generator) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level pack: %w", err)
	}
	return ParsePack(data, board)
}

// ParsePack parses level pack bytes. board supplies the generated
// defaults each entry merges over; nil means the default board.
func ParsePack(data []byte, board *Generator) (*Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("level pack: %w", err)
	}
	if len(pack.Levels) == 0 {
		return nil, fmt.Errorf("level pack %q has no levels", pack.Name)
	}
	if board == nil {
		board = NewGenerator(0, 0)
	}
	pack.gen = board

	// Surface bad entries at load time rather than mid-run.
	for i := range pack.Levels {
		if _, err := pack.level(i + 1); err != nil {
			return nil, fmt.Errorf("level pack %q entry %d: %w", pack.Name, i+1, err)
		}
	}
	return &pack, nil
}

// Source adapts the pack to the engine's level source signature.
func (p *Pack) Source() game.LevelSource {
	return p.level
}

// level merges entry ((n-1) mod len) over the generated curve for n.
func (p *Pack) level(n int) (game.LevelParams, error) {
	params, err := p.gen.Generate(n)
	if err != nil {
		return game.LevelParams{}, err
	}
	entry := p.Levels[(n-1)%len(p.Levels)]

	if len(entry.Waypoints) > 0 {
		params.Waypoints = append([]game.Vec2(nil), entry.Waypoints...)
		params.Pattern = "custom"
	}
	if entry.Pattern != "" {
		params.Pattern = entry.Pattern
		if len(entry.Waypoints) == 0 {
			params.Waypoints = Waypoints(entry.Pattern, p.gen.width, p.gen.height, segmentsFor(n))
		}
	}
	if entry.ChainSpeed > 0 {
		params.ChainSpeed = entry.ChainSpeed
	}
	if entry.SpawnInterval > 0 {
		params.SpawnInterval = entry.SpawnInterval
	}
	if entry.ProjectileSpeed > 0 {
		params.ProjectileSpeed = entry.ProjectileSpeed
	}
	if entry.GapCloseFactor > 0 {
		params.GapCloseFactor = entry.GapCloseFactor
	}
	if entry.InitialOrbs != nil {
		params.InitialOrbs = *entry.InitialOrbs
	}
	if entry.InitialChainOffset > 0 {
		params.InitialChainOffset = entry.InitialChainOffset
	}
	if entry.MaxOrbs > 0 {
		params.MaxOrbs = entry.MaxOrbs
	}
	if len(entry.Colors) > 0 {
		colors := make([]game.OrbColor, 0, len(entry.Colors))
		for _, name := range entry.Colors {
			c, ok := colorNames[name]
			if !ok {
				return game.LevelParams{}, fmt.Errorf("unknown color %q", name)
			}
			colors = append(colors, c)
		}
		params.Colors = colors
	}
	if entry.PowerupChance != nil {
		params.PowerupChance = *entry.PowerupChance
	}
	if entry.RainbowChance != nil {
		params.RainbowChance = *entry.RainbowChance
	}

	if err := params.Validate(); err != nil {
		return game.LevelParams{}, err
	}
	return params, nil
}
