// Package main runs batches of seeded encounters and prints a balance
// summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/config"
	"github.com/cory-johannsen/legend/internal/content"
	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/session"
	"github.com/cory-johannsen/legend/internal/gameserver"
	"github.com/cory-johannsen/legend/internal/observability"
	"github.com/cory-johannsen/legend/internal/scripting"
	"github.com/cory-johannsen/legend/internal/simulate"
	"github.com/cory-johannsen/legend/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	monsters := flag.String("monsters", "chicken", "comma separated monster list, id[:tier]")
	potions := flag.String("potions", "small_hp_potion:5,small_mp_potion:5", "starting bag, item[:quantity]")
	class := flag.String("class", "warrior", "character class: warrior, mage or taoist")
	level := flag.Int("level", 1, "character level")
	trials := flag.Int("trials", 0, "number of encounters (0 = config)")
	workers := flag.Int("workers", 0, "concurrent workers (0 = config)")
	seed := flag.Uint64("seed", 0, "base seed (0 = config)")
	persist := flag.Bool("persist", false, "save every encounter report to the database")
	follow := flag.Bool("follow", false, "print the first trial's combat log as it streams")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "simulate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, err := content.Load(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("monsters", len(reg.Monsters())),
		zap.Duration("elapsed", time.Since(start)),
	)

	var opts []combat.Option
	if cfg.Content.ScriptsDir != "" {
		mgr := scripting.NewManager(logger.Named("lua"), cfg.Content.InstructionLimit)
		defer mgr.Close()
		if err := mgr.Load(cfg.Content.ScriptsDir); err != nil {
			logger.Fatal("loading skill scripts", zap.String("dir", cfg.Content.ScriptsDir), zap.Error(err))
		}
		if missing := mgr.Missing(simulate.ScriptHooks(reg, *class)); len(missing) > 0 {
			logger.Warn("skill scripts missing hooks", zap.Strings("hooks", missing))
		}
		opts = append(opts, combat.WithScripts(mgr))
	}
	engine := combat.NewEngine(cfg.Combat, reg.Tiers, reg.Resolver(logger), logger, opts...)

	var store gameserver.ReportStore
	if *persist || cfg.Simulate.Persist {
		pool, err := postgres.Open(ctx, cfg.Database, logger.Named("postgres"))
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		store = pool.Reports()
	}

	hub := session.NewHub()
	handler := gameserver.NewEncounterHandler(engine, reg, session.NewLocks(), hub, store, cfg.Rates, logger)
	runner := simulate.NewRunner(handler, reg, func(src dice.Source) dice.Source {
		return observability.DiceSource(cfg.Logging, src, logger)
	}, logger)

	specs, err := simulate.ParseMonsters(*monsters)
	if err != nil {
		logger.Fatal("parsing monsters", zap.Error(err))
	}
	bag, err := simulate.ParseStacks(*potions)
	if err != nil {
		logger.Fatal("parsing potions", zap.Error(err))
	}
	plan := simulate.Plan{
		Class:    *class,
		Level:    *level,
		Monsters: specs,
		Potions:  bag,
		Trials:   orDefault(*trials, cfg.Simulate.Trials),
		Workers:  orDefault(*workers, cfg.Simulate.Workers),
		Seed:     cfg.Simulate.Seed,
	}
	if *seed != 0 {
		plan.Seed = *seed
	}

	var followed chan struct{}
	if *follow {
		feed, err := hub.Subscribe(simulate.PlayerID(0), 64)
		if err != nil {
			logger.Fatal("subscribing to combat feed", zap.Error(err))
		}
		followed = make(chan struct{})
		go func() {
			defer close(followed)
			for line := range feed.Lines() {
				fmt.Fprintln(os.Stdout, line)
			}
		}()
	}

	sum, err := runner.Run(ctx, plan)
	if followed != nil {
		_ = hub.Unsubscribe(simulate.PlayerID(0))
		<-followed
	}
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	printSummary(plan, sum, time.Since(start))
}

func orDefault(flagValue, cfgValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfgValue
}

func printSummary(plan simulate.Plan, sum simulate.Summary, elapsed time.Duration) {
	fmt.Fprintf(os.Stdout, "%s lv%d vs %d monster(s), %d trials, seed %d [%s]\n",
		plan.Class, plan.Level, len(plan.Monsters), sum.Trials, plan.Seed, elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stdout, "  win rate   %.1f%% (%d wins, %d deaths)\n", sum.WinRate()*100, sum.Wins, sum.Deaths)
	fmt.Fprintf(os.Stdout, "  avg rounds %.2f\n", sum.AvgRounds())
	fmt.Fprintf(os.Stdout, "  exp %d  gold %d  level-ups %d\n", sum.Exp, sum.Gold, sum.LevelUps)
	for _, id := range sum.DropIDs() {
		fmt.Fprintf(os.Stdout, "  drop %-20s x%d\n", id, sum.Drops[id])
	}
}
