// Package main provides the storybattle binary: an interactive text
// adventure that plays a story from a content directory and fights its
// encounters with the battle engine.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/config"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/content"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/session"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/observability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/scripting"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	contentRoot := flag.String("content", "", "content directory; overrides content.root")
	storyID := flag.String("story", "", "story id to play; overrides content.story")
	seed := flag.Int64("seed", 0, "seed for a replayable adventure; 0 = crypto randomness")
	auto := flag.Bool("auto", false, "let the hero play itself")
	maxSteps := flag.Int("max-steps", 1000, "auto mode gives up after this many steps")
	history := flag.Int("history", 0, "print the last N recorded battles of the story and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentRoot != "" {
		cfg.Content.Root = *contentRoot
	}
	if *storyID != "" {
		cfg.Content.Story = *storyID
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Load content
	loadStart := time.Now()
	lib, err := content.LoadDirectory(cfg.Content.Root, logger)
	if err != nil {
		logger.Fatal("loading content", zap.String("root", cfg.Content.Root), zap.Error(err))
	}
	if cfg.Content.Story == "" {
		stories := lib.Stories()
		if len(stories) == 0 {
			logger.Fatal("content has no stories", zap.String("root", cfg.Content.Root))
		}
		cfg.Content.Story = stories[0].ID
	}
	logger.Info("content ready",
		zap.String("story", cfg.Content.Story),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	var src dice.Source = dice.NewCryptoSource()
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
		logger.Info("seeded adventure", zap.Int64("seed", *seed))
	}

	opts := session.Options{
		Source: src,
		Rules: combat.Rules{
			CritChance:     cfg.Battle.CritChance,
			CritMultiplier: cfg.Battle.CritMultiplier,
			FleeThreshold:  cfg.Battle.FleeThreshold,
			MaxRounds:      cfg.Battle.MaxRounds,
		},
		Auto:   *auto,
		Logger: logger,
	}

	// Enemy tactic scripts
	if zones := lib.TacticZones(); len(zones) > 0 {
		mgr := scripting.NewManager(dice.NewLoggedRoller(src, logger), logger)
		defer mgr.Close()
		if err := lib.LoadScripts(mgr, cfg.Battle.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading tactic scripts", zap.Error(err))
		}
		opts.Scripts = mgr
		logger.Info("tactic scripts loaded", zap.Strings("zones", zones))
	}

	// Battle history
	var repo *postgres.BattleRepository
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ready(ctx, 5*time.Second); err != nil {
			logger.Fatal("checking battle history", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		repo = postgres.NewBattleRepository(pool.DB())
		opts.History = repo
	}

	if *history > 0 {
		if repo == nil {
			logger.Fatal("battle history needs database.enabled")
		}
		if err := printHistory(ctx, os.Stdout, repo, cfg.Content.Story, *history); err != nil {
			logger.Fatal("reading battle history", zap.Error(err))
		}
		return
	}

	adv, err := session.New(lib, cfg.Content.Story, opts)
	if err != nil {
		logger.Fatal("creating adventure", zap.Error(err))
	}
	logger.Info("adventure ready", zap.Duration("elapsed", time.Since(start)))

	if *auto {
		err = runAuto(ctx, os.Stdout, adv, *maxSteps)
	} else {
		err = runInteractive(ctx, os.Stdin, os.Stdout, adv)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("adventure failed", zap.Error(err))
	}
}

// runInteractive reads commands from in until the adventure ends, in is
// exhausted or ctx is cancelled.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, adv *session.Adventure) error {
	text, err := adv.Start(ctx)
	fmt.Fprintln(out, text)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for !adv.Done() {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := adv.Handle(ctx, scanner.Text())
		if text != "" {
			fmt.Fprintln(out, text)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

// runAuto steps the adventure until it ends.
func runAuto(ctx context.Context, out io.Writer, adv *session.Adventure, maxSteps int) error {
	text, err := adv.Start(ctx)
	fmt.Fprintln(out, text)
	if err != nil {
		return err
	}
	for i := 0; !adv.Done(); i++ {
		if i >= maxSteps {
			return fmt.Errorf("adventure did not end within %d steps", maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := adv.Step(ctx)
		if text != "" {
			fmt.Fprintln(out, text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// printHistory writes the last n battles of storyID and the outcome totals.
func printHistory(ctx context.Context, out io.Writer, repo *postgres.BattleRepository, storyID string, n int) error {
	recs, err := repo.ListByStory(ctx, storyID, n)
	if err != nil {
		return err
	}
	counts, err := repo.OutcomeCounts(ctx, storyID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Battles of %s:\n", storyID)
	for _, r := range recs {
		fmt.Fprintf(out, "  %s  %-10s %-8s %2d rounds  %d exp  %d gold  %s\n",
			r.CreatedAt.Format(time.RFC3339), r.SceneID, r.Outcome, r.Rounds, r.Exp, r.Gold, r.ID)
	}
	for _, o := range []combat.Outcome{combat.Victory, combat.Defeat, combat.Fled} {
		fmt.Fprintf(out, "%s: %d  ", o, counts[o.String()])
	}
	fmt.Fprintln(out)
	return nil
}
