package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/db"
	"github.com/udisondev/skirmish/internal/game/geo"
	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

const ConfigPath = "config/skirmish.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config first to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("SKIRMISH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	sessionID := uuid.New()
	slog.Info("skirmish starting",
		"session", sessionID,
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick", cfg.TickInterval)

	var deaths deathStore
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		deaths = database.Deaths()
	}

	engine := geo.NewEngine()
	obstacles, err := cfg.BuildObstacles()
	if err != nil {
		return fmt.Errorf("building obstacles: %w", err)
	}
	if err := engine.Load(cfg.Arena.Bound(), obstacles); err != nil {
		return fmt.Errorf("loading geometry: %w", err)
	}
	if !engine.IsLoaded() {
		slog.Warn("no arena or obstacles configured, navigation is unconstrained")
	}

	recorder := newDeathRecorder(sessionID, deaths, deathQueueSize)
	shots := newHitscan(cfg.Projectile, engine)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	mgr := ai.NewManager(ai.Collaborators{
		Players:     staticPlayers(cfg.Players),
		Caster:      engine,
		Animator:    newLogAnimator(),
		Presenter:   newLogPresenter(),
		Projectiles: shots,
		Events:      recorder,
	}, ai.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))))
	shots.bind(mgr)

	if err := spawnGroups(mgr, cfg, engine); err != nil {
		return err
	}
	slog.Info("agents spawned",
		"hostile", mgr.Registry().Count(model.FactionHostile),
		"friendly", mgr.Registry().Count(model.FactionFriendly),
		"obstacles", engine.Obstacles(),
		"seed", seed)

	runCtx := ctx
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		slog.Info("starting death recorder", "persist", deaths != nil)
		if err := recorder.Run(gctx); err != nil {
			return fmt.Errorf("death recorder: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := mgr.Run(gctx, cfg.TickInterval); err != nil && !isShutdown(err) {
			return fmt.Errorf("AI tick loop: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	for _, f := range model.Factions {
		removed := mgr.DespawnAll(f)
		slog.Info("final faction state",
			"faction", f,
			"survivors", removed,
			"deaths", recorder.Deaths(f))
	}

	if deaths != nil {
		// The run context is done; use a short fresh one for the summary.
		sumCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		counts, err := deaths.CountByFaction(sumCtx, sessionID)
		if err != nil {
			return fmt.Errorf("reading death summary: %w", err)
		}
		slog.Info("persisted deaths", "session", sessionID, "counts", counts)

		rows, err := deaths.ListBySession(sumCtx, sessionID)
		if err != nil {
			return fmt.Errorf("reading death log: %w", err)
		}
		if len(rows) > 0 {
			first := rows[0]
			slog.Info("first death",
				"agentID", first.AgentID,
				"faction", first.Faction,
				"archetype", first.Archetype,
				"at", first.DiedAt)
		}
	}

	slog.Info("skirmish finished",
		"ticks", mgr.Ticks(),
		"simulated", mgr.Elapsed(),
		"dropped_events", recorder.Dropped())
	return nil
}

// placement rejects spawn points inside geometry. Satisfied by *geo.Engine.
type placement interface {
	Blocked(p model.Vec3) bool
}

// spawnGroups spawns every configured group, skipping positions inside
// obstacles or outside the arena.
func spawnGroups(mgr *ai.Manager, cfg config.Simulation, geom placement) error {
	for i, g := range cfg.Spawns {
		tunables := cfg.Archetypes[g.Archetype].Tunables
		for _, pos := range g.Positions() {
			if geom.Blocked(pos) {
				slog.Warn("spawn position blocked, skipping",
					"group", i,
					"archetype", g.Archetype,
					"pos", pos)
				continue
			}
			if _, err := mgr.Spawn(pos, g.Faction, g.Archetype, tunables); err != nil {
				return fmt.Errorf("spawn group %d: %w", i, err)
			}
		}
	}
	return nil
}

func staticPlayers(players []config.Player) host.StaticPlayers {
	out := make(host.StaticPlayers, 0, len(players))
	for _, p := range players {
		out = append(out, model.PlayerView{ID: p.ID, Position: p.Position})
	}
	return out
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
