package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-blueprint/internal/config"
	"github.com/napolitain/solver-blueprint/internal/loader"
	"github.com/napolitain/solver-blueprint/internal/logging"
	"github.com/napolitain/solver-blueprint/internal/models"
	"github.com/napolitain/solver-blueprint/internal/scoring"
	"github.com/napolitain/solver-blueprint/internal/solver/schedule"
	"github.com/napolitain/solver-blueprint/internal/store"
)

var (
	inputFile    string
	configFile   string
	mode         string
	horizon      int
	workers      int
	dbPath       string
	quiet        bool
	showSchedule bool
	memoize      bool
	runsLimit    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blueprints",
		Short: "Blueprint Build Schedule Optimizer",
		Long: `A branch-and-bound solver that finds, for each blueprint, the build
schedule producing the most terminal units within a fixed number of minutes.`,
		Run: runSolver,
	}

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to blueprint file (.txt or .json); built-in examples when empty")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "both", "Scoring mode: quality, product or both")
	rootCmd.Flags().IntVar(&horizon, "horizon", 0, "Override the horizon in minutes (0 uses the mode default)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent searches (0 uses the config, then GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite file caching results and run history")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.Flags().BoolVarP(&showSchedule, "schedule", "s", false, "Print one optimal schedule per blueprint")
	rootCmd.Flags().BoolVar(&memoize, "memo", false, "Enable the transposition cache")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recently scored batches",
		Run:   runHistory,
	}
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(runsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSolver(cmd *cobra.Command, args []string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	cfg := loadConfig()
	logger := newLogger(cfg)

	modes, err := selectModes(mode)
	if err != nil {
		color.Red("Invalid mode: %v", err)
		os.Exit(1)
	}
	if err := checkHorizon(horizon); err != nil {
		color.Red("Invalid horizon: %v", err)
		os.Exit(1)
	}

	if !quiet {
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Println("│  Blueprint Build          │")
		titleColor.Println("│  Schedule Optimizer       │")
		titleColor.Println("╰───────────────────────────╯")
		fmt.Println()
	}

	var blueprints []*models.Blueprint
	if inputFile != "" {
		blueprints, err = loader.LoadBlueprints(inputFile)
		if err != nil {
			color.Red("Error loading blueprints: %v", err)
			os.Exit(1)
		}
	} else {
		blueprints = loader.LoadExamples()
	}

	if !quiet {
		source := inputFile
		if source == "" {
			source = "built-in examples"
		}
		infoColor.Printf("📦 Loaded %d blueprints from %s\n\n", len(blueprints), source)
	}

	repo, closeDB := openStore(cfg)
	defer closeDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := schedule.Options{
		DisableCaps:  cfg.Solver.DisableCaps,
		DisablePrune: cfg.Solver.DisablePrune,
		Memoize:      cfg.Solver.Memoize || memoize,
		Logger:       logger,
	}
	evaluator := &scoring.Evaluator{
		Workers: cfg.Solver.Workers,
		Options: opts,
		Logger:  logger,
	}
	if workers > 0 {
		evaluator.Workers = workers
	}
	if repo != nil {
		evaluator.Cache = repo
	}

	for _, m := range modes {
		h, batch := plan(cfg, m, blueprints)

		if !quiet {
			infoColor.Printf("🔄 Scoring %d blueprints by %s over %d minutes...\n", len(batch), m, h)
		}

		start := time.Now()
		results, err := evaluator.Evaluate(ctx, batch, h)
		if err != nil {
			color.Red("Error evaluating blueprints: %v", err)
			os.Exit(1)
		}
		elapsed := time.Since(start)
		score := scoring.Score(m, results, cfg.Solver.ProductCount)

		if quiet {
			fmt.Printf("%s:%d\n", m, score)
			continue
		}

		printResults(batch, results)
		if showSchedule {
			for i, res := range results {
				printSchedule(batch[i], res)
			}
		}

		successColor.Printf("\n✓ %s score: %d\n", formatModeName(m), score)
		fmt.Printf("⏱️  Solved in %s\n\n", elapsed.Round(time.Millisecond))

		if repo != nil {
			id, err := repo.SaveRun(ctx, string(m), h, len(batch), score, elapsed)
			if err != nil {
				color.Yellow("Warning: could not record run: %v", err)
			} else {
				infoColor.Printf("💾 Recorded run %s\n\n", id)
			}
		}
	}
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	repo, closeDB := openStore(cfg)
	defer closeDB()
	if repo == nil {
		color.Red("Run history needs a database: pass --db or enable database in the config")
		os.Exit(1)
	}

	runs, err := repo.RecentRuns(context.Background(), runsLimit)
	if err != nil {
		color.Red("Error listing runs: %v", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		color.Yellow("No runs recorded yet")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Run", "When", "Mode", "Horizon", "Blueprints", "Score", "Duration"}),
	)
	for _, r := range runs {
		row := []string{
			r.ID,
			r.CreatedAt.Format(time.DateTime),
			formatModeName(scoring.Mode(r.Mode)),
			strconv.Itoa(r.Horizon),
			strconv.Itoa(r.Blueprints),
			strconv.Itoa(r.Score),
			formatDuration(r.DurationNS),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	if dbPath != "" {
		cfg.Database.Enabled = true
		cfg.Database.Type = "sqlite"
		cfg.Database.Path = dbPath
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	if quiet {
		cfg.Logging.Level = "warn"
	}
	logger, err := logging.New(cfg.Logging, nil)
	if err != nil {
		color.Red("Invalid logging config: %v", err)
		os.Exit(1)
	}
	return logger
}

// openStore returns nil when no database is configured
func openStore(cfg *config.Config) (*store.Repository, func()) {
	if !cfg.Database.Enabled {
		return nil, func() {}
	}

	db, err := store.NewConnection(cfg.Database)
	if err != nil {
		color.Red("Error opening database: %v", err)
		os.Exit(1)
	}
	return store.NewRepository(db), func() { _ = store.Close(db) }
}

func selectModes(name string) ([]scoring.Mode, error) {
	if name == "both" {
		return []scoring.Mode{scoring.ModeQuality, scoring.ModeProduct}, nil
	}
	m, err := scoring.ParseMode(name)
	if err != nil {
		return nil, err
	}
	return []scoring.Mode{m}, nil
}

// checkHorizon applies the configuration bound to the --horizon override (0 keeps the default)
func checkHorizon(h int) error {
	if h < 0 || h > config.MaxHorizon {
		return fmt.Errorf("%d is outside 0..%d", h, config.MaxHorizon)
	}
	return nil
}

// plan picks the horizon and the blueprints scored in mode m
func plan(cfg *config.Config, m scoring.Mode, bps []*models.Blueprint) (int, []*models.Blueprint) {
	if m == scoring.ModeProduct {
		h := cfg.Solver.ProductHorizon
		if horizon > 0 {
			h = horizon
		}
		return h, loader.FirstN(bps, cfg.Solver.ProductCount)
	}

	h := cfg.Solver.QualityHorizon
	if horizon > 0 {
		h = horizon
	}
	return h, bps
}

func printResults(bps []*models.Blueprint, results []models.Result) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Blueprint", "Primary", "Secondary", "Tertiary", "Terminal", "Yield", "Quality", "Nodes", "Time"}),
	)

	for i, res := range results {
		bp := bps[i]
		nodes := strconv.Itoa(res.Stats.Nodes)
		if res.Cached {
			nodes = "cached"
		}
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(bp.ID),
			formatCosts(bp.PrimaryProducer),
			formatCosts(bp.SecondaryProducer),
			formatCosts(bp.TertiaryProducer),
			formatCosts(bp.TerminalProducer),
			strconv.Itoa(res.Yield),
			strconv.Itoa(res.Quality()),
			nodes,
			formatDuration(res.DurationNS),
		}
		_ = table.Append(row)
	}

	_ = table.Render()
}

func printSchedule(bp *models.Blueprint, res models.Result) {
	infoColor := color.New(color.FgYellow)

	infoColor.Printf("\n📋 Blueprint %d: %d terminal in %d minutes\n", bp.ID, res.Yield, res.Horizon)
	if len(res.Schedule) == 0 {
		fmt.Println("   (nothing worth building)")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Minute", "Build", "Costs"}),
	)
	for i, step := range res.Schedule {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(step.Minute),
			formatProducerName(string(step.Producer)),
			formatCosts(bp.Cost(step.Producer)),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func formatDuration(ns int64) string {
	d := time.Duration(ns)
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(100 * time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}

func formatCosts(costs models.Costs) string {
	var parts []string
	for _, rt := range models.AllResourceTypes() {
		if n := costs.Get(rt); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, rt))
		}
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, " + ")
}

func formatModeName(m scoring.Mode) string {
	return formatProducerName(string(m))
}

func formatProducerName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
