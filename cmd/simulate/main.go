// Package main runs a deterministic economy simulation against
// in-memory stores: a handful of scripted players work, buy, maintain,
// fight and swap over simulated days, then a summary report is printed.
// Used to sanity-check balance changes to the game tables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"wealth-arena/internal/config"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/economy"
	"wealth-arena/internal/leaderboard"
	"wealth-arena/internal/storage/memory"
)

// simClock is a manually advanced clock driving the controller.
type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time { return c.now }

func (c *simClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// report is the final JSON summary.
type report struct {
	Days        int                   `json:"days"`
	Seed        int64                 `json:"seed"`
	Commands    int                   `json:"commands"`
	Rejected    map[string]int        `json:"rejected"`
	Leaderboard []leaderboard.Entry   `json:"leaderboard"`
	Pool        *domain.LiquidityPool `json:"pool"`
	WAR         []*domain.WARRecord   `json:"war"`
}

func main() {
	days := flag.Int("days", 14, "Simulated days to run")
	players := flag.Int("players", 4, "Number of scripted players")
	seed := flag.Int64("seed", 1, "RNG seed (same seed, same run)")
	configPath := flag.String("config", "", "Game table YAML (built-in defaults when empty)")
	startingCredits := flag.Int64("starting-credits", 200, "Starting credits per player")
	outputJSON := flag.Bool("json", false, "Output the report as JSON")

	flag.Parse()

	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	tables, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *players < 2 {
		logger.Fatal("--players must be at least 2")
	}

	clock := &simClock{now: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
	rng := rand.New(rand.NewSource(*seed))

	accounts := memory.NewAccountStore()
	pools := memory.NewPoolStore()
	warHistory := memory.NewWARHistoryStore()
	eventLog := memory.NewEventLogStore()

	ctx := context.Background()

	const poolID = "main"
	err = pools.Insert(ctx, &domain.LiquidityPool{
		PoolID:         poolID,
		ReserveCredits: tables.Pool.ReserveCredits,
		ReserveWealth:  tables.Pool.ReserveWealth,
		FeeBps:         tables.Pool.FeeBps,
		MaxTradeSize:   tables.Pool.MaxTradeSize,
	})
	if err != nil {
		logger.Fatalf("Failed to seed pool: %v", err)
	}

	ids := make([]string, *players)
	for i := range ids {
		ids[i] = fmt.Sprintf("player-%d", i+1)
		account := domain.NewAccount(ids[i], ids[i], *startingCredits, clock.Now().UnixMilli())
		if err := accounts.Insert(ctx, account); err != nil {
			logger.Fatalf("Failed to create %s: %v", ids[i], err)
		}
	}

	controller := economy.NewController(economy.Options{
		Accounts:   accounts,
		Pools:      pools,
		WARHistory: warHistory,
		EventLog:   eventLog,
		Tables:     tables,
		PoolID:     poolID,
		Rng:        rng,
		Clock:      clock.Now,
		Logger:     logger,
	})

	sim := &simulation{
		controller: controller,
		tables:     tables,
		clock:      clock,
		rng:        rng,
		ids:        ids,
		rejected:   make(map[string]int),
		logger:     logger,
	}

	for day := 0; day < *days; day++ {
		if err := sim.runDay(ctx, day); err != nil {
			logger.Fatalf("Simulation failed on day %d: %v", day, err)
		}
	}

	out, err := sim.buildReport(ctx, *days, *seed)
	if err != nil {
		logger.Fatalf("Failed to build report: %v", err)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}
	printReport(out)
}

// simulation drives the scripted players.
type simulation struct {
	controller *economy.Controller
	tables     *domain.Tables
	clock      *simClock
	rng        *rand.Rand
	ids        []string
	commands   int
	rejected   map[string]int
	logger     *log.Logger
}

// apply runs one command and tallies the outcome. Infrastructure
// errors abort the run; domain rejections are just counted.
func (s *simulation) apply(ctx context.Context, cmd domain.Command) error {
	result, _, err := s.controller.Apply(ctx, cmd)
	if err != nil {
		return fmt.Errorf("apply %s for %s: %w", cmd.Type, cmd.AccountID, err)
	}
	s.commands++
	if !result.Success {
		s.rejected[string(result.Reason)]++
	}
	return nil
}

// runDay plays one day: three work rounds spaced past the cooldown,
// opportunistic purchases and maintenance, one attack round and the
// occasional swap.
func (s *simulation) runDay(ctx context.Context, day int) error {
	for round := 0; round < 3; round++ {
		for _, id := range s.ids {
			if err := s.apply(ctx, domain.Command{Type: domain.CmdWork, AccountID: id}); err != nil {
				return err
			}
		}
		s.clock.Advance(time.Duration(s.tables.Work.CooldownMs) * time.Millisecond)

		for _, id := range s.ids {
			if err := s.spend(ctx, id); err != nil {
				return err
			}
		}
	}

	// One attack per player per day, round-robin targets.
	for i, id := range s.ids {
		target := s.ids[(i+1+day)%len(s.ids)]
		if target == id {
			continue
		}
		err := s.apply(ctx, domain.Command{
			Type:       domain.CmdAttack,
			AccountID:  id,
			TargetID:   target,
			AttackType: domain.AttackStandard,
		})
		if err != nil {
			return err
		}
	}

	// Occasional swap keeps the pool moving.
	if day%3 == 2 {
		id := s.ids[s.rng.Intn(len(s.ids))]
		err := s.apply(ctx, domain.Command{
			Type:           domain.CmdSwap,
			AccountID:      id,
			Direction:      domain.SwapCreditsToWealth,
			Amount:         25,
			MaxSlippagePct: 5,
		})
		if err != nil {
			return err
		}
	}

	s.clock.Advance(6 * time.Hour)
	return nil
}

// spend buys the cheapest unowned basic asset when affordable and runs
// routine maintenance on a random owned enhanced asset.
func (s *simulation) spend(ctx context.Context, id string) error {
	// Cheap deterministic policy: always try the first catalog basic
	// asset, then the first enhanced one. Rejections are expected and
	// tallied, not fatal.
	if len(s.tables.BasicAssets) > 0 {
		asset := s.tables.BasicAssets[s.rng.Intn(len(s.tables.BasicAssets))]
		err := s.apply(ctx, domain.Command{Type: domain.CmdBuyAsset, AccountID: id, AssetID: asset.ID})
		if err != nil {
			return err
		}
	}
	if len(s.tables.Catalog) > 0 {
		enhanced := s.tables.Catalog[s.rng.Intn(len(s.tables.Catalog))]
		err := s.apply(ctx, domain.Command{Type: domain.CmdBuyEnhanced, AccountID: id, AssetID: enhanced.ID})
		if err != nil {
			return err
		}
		err = s.apply(ctx, domain.Command{
			Type:      domain.CmdMaintain,
			AccountID: id,
			AssetID:   enhanced.ID,
			Action:    domain.MaintenanceRoutine,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// buildReport assembles the final summary.
func (s *simulation) buildReport(ctx context.Context, days int, seed int64) (*report, error) {
	snapshots, err := s.controller.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := s.controller.PoolState(ctx)
	if err != nil {
		return nil, err
	}

	war := make([]*domain.WARRecord, 0, len(s.ids))
	for _, id := range s.ids {
		record, err := s.controller.WARReport(ctx, id)
		if err != nil {
			return nil, err
		}
		war = append(war, record)
	}

	return &report{
		Days:        days,
		Seed:        seed,
		Commands:    s.commands,
		Rejected:    s.rejected,
		Leaderboard: leaderboard.Rank(snapshots),
		Pool:        pool,
		WAR:         war,
	}, nil
}

func printReport(r *report) {
	fmt.Printf("Simulated %d days, %d commands applied\n", r.Days, r.Commands)
	fmt.Println()
	fmt.Println("Leaderboard:")
	for _, entry := range r.Leaderboard {
		snap := entry.Snapshot
		fmt.Printf("  %2d. %-12s wealth=%-8d assets=%-3d battles=%-3d sessions=%d\n",
			entry.Rank, snap.Name, snap.Wealth, snap.AssetCount, snap.BattlesWon, snap.WorkSessions)
	}
	fmt.Println()
	fmt.Printf("Pool: %.0f credits / %.0f wealth (fee %d bps)\n",
		r.Pool.ReserveCredits, r.Pool.ReserveWealth, r.Pool.FeeBps)
	fmt.Println()
	fmt.Println("Rejections:")
	for reason, count := range r.Rejected {
		fmt.Printf("  %-24s %d\n", reason, count)
	}
}
