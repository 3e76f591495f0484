package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"chainshot/internal/api"
	"chainshot/internal/config"
	"chainshot/internal/game"
	"chainshot/internal/input"
	"chainshot/internal/level"
	"chainshot/internal/render"

	"github.com/joho/godotenv"
)

func main() {
	// .env may sit next to the binary or one level up in the repo root.
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file, relying on the process environment")
		}
	} else {
		log.Println("✅ Environment loaded from ../.env")
	}

	log.Println("🎯 ================================")
	log.Println("🎯  CHAINSHOT - SIMULATION CORE")
	log.Println("🎯 ================================")

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	boardCfg := appConfig.Board
	simCfg := appConfig.Simulation
	serverCfg := appConfig.Server

	log.Printf("🎮 Config: %d TPS, %dx%d board, port %d",
		simCfg.TickRate, boardCfg.Width, boardCfg.Height, serverCfg.Port)
	if simCfg.RNGSeed != 0 {
		log.Printf("🎲 Fixed RNG seed: %d", simCfg.RNGSeed)
	}

	// Level source: the generated difficulty curve, optionally merged
	// with a YAML pack
	gen := level.NewGenerator(float64(boardCfg.Width), float64(boardCfg.Height))
	var source game.LevelSource = gen.Generate
	if packPath := os.Getenv("LEVEL_PACK"); packPath != "" {
		pack, err := level.LoadPack(packPath, gen)
		if err != nil {
			log.Fatalf("❌ Level pack %s: %v", packPath, err)
		}
		source = pack.Source()
		log.Printf("📦 Level pack: %s (%d levels)", pack.Name, len(pack.Levels))
	}

	engine, err := game.NewEngine(game.EngineConfig{
		TickRate:           simCfg.TickRate,
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
		RNGSeed:            simCfg.RNGSeed,
		Limits: game.Limits{
			MaxChainOrbs:     appConfig.Limits.MaxChainOrbs,
			MaxEventsPerTick: appConfig.Limits.MaxEventsPerTick,
			MaxSubSteps:      appConfig.Limits.MaxSubSteps,
		},
	}, source)
	if err != nil {
		log.Fatalf("❌ Engine init failed: %v", err)
	}
	limits := engine.GetLimits()
	log.Printf("🛡️ Resource limits: %d orbs, %d sub-steps, %d events/tick",
		limits.MaxChainOrbs, limits.MaxSubSteps, limits.MaxEventsPerTick)

	if err := engine.StartEventLog(envOr("EVENT_LOG_PATH", "events.jsonl")); err != nil {
		log.Printf("⚠️ Event log unavailable: %v", err)
	} else {
		log.Printf("📝 Events recorded to %s", envOr("EVENT_LOG_PATH", "events.jsonl"))
	}

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug listener failed: %v", err)
		}
	}

	// Input pipeline: commands from HTTP and WebSocket funnel through
	// one queue so ordering is preserved
	dispatcher := input.NewDispatcher(engine)
	queue := input.NewCommandQueue(dispatcher, input.DefaultQueueConfig())
	queue.Start()

	// Frame renderer for the PNG endpoint
	var renderer api.FrameRenderer
	if os.Getenv("DISABLE_FRAME_RENDERER") != "true" {
		renderer = render.NewBoardRenderer(render.Config{
			Width:  boardCfg.Width,
			Height: boardCfg.Height,
		})
	}

	server := api.NewServer(engine, queue, renderer)
	server.SetBroadcastInterval(time.Duration(serverCfg.SnapshotInterval) * time.Millisecond)

	engine.Start()
	log.Println("✅ Simulation engine running")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		log.Printf("🌐 REST on http://localhost%s/api, spectators on ws://localhost%s/ws", addr, addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("API server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("✅ Ready - Ctrl+C stops everything")
	<-quit

	// Stop order: refuse new input first, finish buffered commands, then
	// flush the event log before the engine goes away.
	log.Println("🛑 Signal received, stopping")
	server.Stop()
	queue.Stop()
	engine.StopEventLog()
	engine.Stop()
	log.Println("👋 Clean exit")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
