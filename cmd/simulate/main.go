// =============================================================================
// CHAINSHOT - HEADLESS SIMULATOR
// =============================================================================
// This standalone tool runs the simulation core without the API server,
// spectator hub, or wall clock:
// - Drives the engine tick by tick at a fixed rate
// - Seeded runs reproduce the exact same tick and event sequence
// - Optional built-in autoplayer exercises firing, collision, and matching
// - Dumps the event stream to JSONL and the final board to PNG
//
// Useful for tuning the difficulty curve, replaying reported runs, and
// soak-testing level packs before they reach the server.
//
// USAGE:
//   go run ./cmd/simulate -seed 42 -seconds 120 -events run.jsonl
//   go run ./cmd/simulate -pack levels.yaml -level 5 -frame final.png
// =============================================================================
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"chainshot/internal/config"
	"chainshot/internal/game"
	"chainshot/internal/level"
	"chainshot/internal/render"

	"github.com/joho/godotenv"
)

var (
	seed      = flag.Int64("seed", 1, "RNG seed (0 seeds from the wall clock)")
	ticks     = flag.Int("ticks", 0, "number of ticks to run (overrides -seconds)")
	seconds   = flag.Float64("seconds", 60, "simulated seconds to run")
	tps       = flag.Int("tps", 60, "simulation ticks per second")
	startAt   = flag.Int("level", 1, "difficulty level to start from")
	packPath  = flag.String("pack", "", "YAML level pack (default: generated curve)")
	eventPath = flag.String("events", "", "write the event stream to this JSONL file")
	framePath = flag.String("frame", "", "write the final board to this PNG file")
	autoplay  = flag.Bool("autoplay", true, "fire at matching orbs automatically")
	fireEvery = flag.Float64("fire-every", 0.5, "autoplay: simulated seconds between shots")
	progress  = flag.Float64("progress", 10, "simulated seconds between progress lines (0 disables)")
)

func main() {
	flag.Parse()

	// Board geometry and resource limits come from the same config as
	// the server, so a simulated run matches a served one.
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file, relying on the process environment")
		}
	}
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	boardCfg := appConfig.Board
	simCfg := appConfig.Simulation

	if *tps <= 0 {
		log.Fatalf("❌ -tps must be positive, got %d", *tps)
	}
	totalTicks := *ticks
	if totalTicks <= 0 {
		totalTicks = int(*seconds * float64(*tps))
	}
	if totalTicks <= 0 {
		log.Fatalf("❌ Nothing to run: -ticks %d, -seconds %.1f", *ticks, *seconds)
	}

	log.Println("🎯 ================================")
	log.Println("🎯  CHAINSHOT - HEADLESS SIMULATOR")
	log.Println("🎯 ================================")
	log.Printf("🎲 Seed: %d, %d ticks @ %d TPS (%.1fs simulated)",
		*seed, totalTicks, *tps, float64(totalTicks)/float64(*tps))

	source, err := buildSource(boardCfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	engine, err := game.NewEngine(game.EngineConfig{
		TickRate:           *tps,
		BoardWidth:         float64(boardCfg.Width),
		BoardHeight:        float64(boardCfg.Height),
		CullMargin:         boardCfg.CullMargin,
		ShooterOffsetY:     boardCfg.ShooterOffsetY,
		GridCellSize:       float64(appConfig.Spatial.GridCellSize),
		DangerThreshold:    simCfg.DangerThreshold,
		MinSpeedMultiplier: simCfg.MinSpeedMultiplier,
		ComboWindow:        simCfg.ComboWindow,
		MaxComboMultiplier: simCfg.MaxComboMultiplier,
		StartingLives:      simCfg.StartingLives,
		BonusLifeEvery:     simCfg.BonusLifeEvery,
		RNGSeed:            *seed,
		Limits: game.Limits{
			MaxChainOrbs:     appConfig.Limits.MaxChainOrbs,
			MaxEventsPerTick: appConfig.Limits.MaxEventsPerTick,
			MaxSubSteps:      appConfig.Limits.MaxSubSteps,
		},
	}, source)
	if err != nil {
		log.Fatalf("❌ Engine init failed: %v", err)
	}

	if *eventPath != "" {
		if err := engine.StartEventLog(*eventPath); err != nil {
			log.Fatalf("❌ Event log %s: %v", *eventPath, err)
		}
		log.Printf("📝 Events recorded to %s", *eventPath)
	}

	start := time.Now()
	ranTicks, failed := run(engine, totalTicks)
	elapsed := time.Since(start)

	engine.StopEventLog()

	stats := engine.Stats()
	simSeconds := float64(ranTicks) / float64(*tps)
	log.Println("🏁 ================================")
	if failed {
		log.Printf("🏁 Run ended: out of lives after %.1fs simulated", simSeconds)
	} else {
		log.Printf("🏁 Run ended: tick budget spent (%.1fs simulated)", simSeconds)
	}
	log.Printf("   Level:    %v (state %v)", stats["level"], stats["state"])
	log.Printf("   Score:    %v (max combo x%v)", stats["score"], stats["maxCombo"])
	log.Printf("   Lives:    %v", stats["lives"])
	log.Printf("   Shots:    %v fired, %v orbs cleared, %v powerups", stats["shotsFired"], stats["orbsCleared"], stats["powerupsUsed"])
	log.Printf("   Wall:     %v for %d ticks (%.0fx realtime)",
		elapsed.Round(time.Millisecond), ranTicks, simSeconds/elapsed.Seconds())

	if *framePath != "" {
		if err := writeFrame(engine, boardCfg, *framePath); err != nil {
			log.Fatalf("❌ Frame %s: %v", *framePath, err)
		}
		log.Printf("🖼️ Final frame: %s", *framePath)
	}
}

// buildSource assembles the level source: the generated curve, merged
// with a YAML pack when one is given, shifted so the run begins at the
// requested difficulty.
func buildSource(boardCfg config.BoardConfig) (game.LevelSource, error) {
	gen := level.NewGenerator(float64(boardCfg.Width), float64(boardCfg.Height))
	var source game.LevelSource = gen.Generate

	if *packPath != "" {
		pack, err := level.LoadPack(*packPath, gen)
		if err != nil {
			return nil, fmt.Errorf("level pack %s: %w", *packPath, err)
		}
		source = pack.Source()
		log.Printf("📦 Level pack: %s (%d levels)", pack.Name, len(pack.Levels))
	}

	if *startAt > 1 {
		offset := *startAt - 1
		base := source
		source = func(n int) (game.LevelParams, error) {
			return base(n + offset)
		}
		log.Printf("⏩ Starting at difficulty level %d", *startAt)
	} else if *startAt < 1 {
		return nil, fmt.Errorf("-level must be at least 1, got %d", *startAt)
	}
	return source, nil
}

// run drives the engine for up to totalTicks fixed steps, playing shots
// when autoplay is on. It stops early when the run fails and reports
// whether it did.
func run(engine *game.Engine, totalTicks int) (ranTicks int, failed bool) {
	dt := 1.0 / float64(*tps)
	progressTicks := 0
	if *progress > 0 {
		progressTicks = int(*progress * float64(*tps))
	}
	fireTicks := int(*fireEvery * float64(*tps))
	if fireTicks < 1 {
		fireTicks = 1
	}
	sinceShot := fireTicks // first shot as soon as the chain is up

	for tick := 1; tick <= totalTicks; tick++ {
		events := engine.Update(dt)
		for i := range events {
			if events[i].Type == game.EventTypeLevelFailed {
				return tick, true
			}
		}

		if *autoplay {
			sinceShot++
			if sinceShot >= fireTicks && playShot(engine) {
				sinceShot = 0
			}
		}

		if progressTicks > 0 && tick%progressTicks == 0 {
			snap := engine.GetSnapshot()
			log.Printf("⏱️ t=%.0fs level=%d score=%d lives=%d orbs=%d danger=%.0f%%",
				float64(tick)/float64(*tps), snap.Level, snap.Score,
				snap.Lives, snap.OrbCount, snap.DangerRatio*100)
		}
	}
	return totalTicks, false
}

// playShot aims at the first chain orb matching the loaded color (any
// orb when none matches) and fires. Returns false when there is
// nothing to shoot at yet.
func playShot(engine *game.Engine) bool {
	snap := engine.GetSnapshot()
	if snap == nil || len(snap.Orbs) == 0 || snap.HasProjectile {
		return false
	}

	target := snap.Orbs[0].Position
	for i := range snap.Orbs {
		o := &snap.Orbs[i]
		if !o.Powerup && o.Color == snap.Shooter.Current {
			target = o.Position
			break
		}
	}

	engine.AimAt(target.X, target.Y, "autoplay")
	return engine.Fire("autoplay")
}

// writeFrame renders the last snapshot to a PNG on disk.
func writeFrame(engine *game.Engine, boardCfg config.BoardConfig, path string) error {
	snap := engine.GetSnapshot()
	renderer := render.NewBoardRenderer(render.Config{
		Width:  boardCfg.Width,
		Height: boardCfg.Height,
	})
	png, err := renderer.RenderPNG(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0644)
}
