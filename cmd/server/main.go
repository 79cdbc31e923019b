// Package main runs the game server: the economy controller behind a
// JSON HTTP API, a websocket event feed and Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"wealth-arena/internal/config"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/economy"
	"wealth-arena/internal/events"
	"wealth-arena/internal/leaderboard"
	"wealth-arena/internal/observability"
	"wealth-arena/internal/storage"
	chstore "wealth-arena/internal/storage/clickhouse"
	"wealth-arena/internal/storage/memory"
	"wealth-arena/internal/storage/migrations"
	pgstore "wealth-arena/internal/storage/postgres"
)

// Server holds the wired components behind the HTTP surface.
type Server struct {
	controller      *economy.Controller
	accounts        storage.AccountStore
	eventLog        storage.EventLogStore
	hub             *events.Hub
	startingCredits int64
	logger          *log.Logger
	started         time.Time
	clock           func() time.Time
}

// allStores holds all storage implementations.
type allStores struct {
	accountStore    storage.AccountStore
	poolStore       storage.PoolStore
	warHistoryStore storage.WARHistoryStore
	eventLogStore   storage.EventLogStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, analytic stores)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	configPath := flag.String("config", "", "Game table YAML (built-in defaults when empty)")
	poolID := flag.String("pool-id", "main", "Liquidity pool id")
	startingCredits := flag.Int64("starting-credits", 100, "Credits granted to a new account")
	seed := flag.Int64("seed", 0, "Combat RNG seed (0 = time-based)")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	tables, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	if err := seedPool(ctx, stores.poolStore, *poolID, tables.Pool); err != nil {
		logger.Fatalf("Failed to seed liquidity pool: %v", err)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	controller := economy.NewController(economy.Options{
		Accounts:   stores.accountStore,
		Pools:      stores.poolStore,
		WARHistory: stores.warHistoryStore,
		EventLog:   stores.eventLogStore,
		Tables:     tables,
		PoolID:     *poolID,
		Rng:        rand.New(rand.NewSource(rngSeed)),
		Logger:     log.New(os.Stdout, "[economy] ", log.LstdFlags),
	})

	hub := events.NewHub(log.New(os.Stdout, "[events] ", log.LstdFlags))
	defer hub.Close()

	server := &Server{
		controller:      controller,
		accounts:        stores.accountStore,
		eventLog:        stores.eventLogStore,
		hub:             hub,
		startingCredits: *startingCredits,
		logger:          logger,
		started:         time.Now(),
		clock:           time.Now,
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			accountStore:    memory.NewAccountStore(),
			poolStore:       memory.NewPoolStore(),
			warHistoryStore: memory.NewWARHistoryStore(),
			eventLogStore:   memory.NewEventLogStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	stores := &allStores{
		accountStore:    pgstore.NewAccountStore(pool),
		poolStore:       pgstore.NewPoolStore(pool),
		warHistoryStore: pgstore.NewWARHistoryStore(pool),
		eventLogStore:   pgstore.NewEventLogStore(pool),
	}

	// ClickHouse takes over the append-only analytic stores when given.
	if clickhouseDSN != "" {
		chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.warHistoryStore = chstore.NewWARHistoryStore(chConn)
		stores.eventLogStore = chstore.NewEventLogStore(chConn)
		cleanup := func() {
			chConn.Close()
			pool.Close()
		}
		return stores, cleanup, nil
	}

	return stores, func() { pool.Close() }, nil
}

// seedPool inserts the liquidity pool on first boot.
func seedPool(ctx context.Context, pools storage.PoolStore, poolID string, cfg domain.PoolConfig) error {
	_, err := pools.Get(ctx, poolID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return pools.Insert(ctx, &domain.LiquidityPool{
		PoolID:         poolID,
		ReserveCredits: cfg.ReserveCredits,
		ReserveWealth:  cfg.ReserveWealth,
		FeeBps:         cfg.FeeBps,
		MaxTradeSize:   cfg.MaxTradeSize,
	})
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	mux.HandleFunc("GET /status", s.handleStatus)

	mux.HandleFunc("POST /accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("GET /accounts/{id}/events", s.handleAccountEvents)
	mux.HandleFunc("GET /accounts/{id}/war", s.handleWAR)

	mux.HandleFunc("POST /commands", s.handleCommand)
	mux.HandleFunc("GET /quote", s.handleQuote)
	mux.HandleFunc("GET /pool", s.handlePool)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)

	return mux
}

// createAccountRequest is the JSON body of POST /accounts.
type createAccountRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Name == "" {
		req.Name = req.ID
	}

	account := domain.NewAccount(req.ID, req.Name, s.startingCredits, s.clock().UnixMilli())
	if err := s.accounts.Insert(r.Context(), account); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			writeError(w, http.StatusConflict, "account already exists")
			return
		}
		s.internalError(w, "create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		s.internalError(w, "get account", err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleAccountEvents(w http.ResponseWriter, r *http.Request) {
	if s.eventLog == nil {
		writeJSON(w, http.StatusOK, []*domain.Event{})
		return
	}
	eventList, err := s.eventLog.GetByAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		s.internalError(w, "get events", err)
		return
	}
	if eventList == nil {
		eventList = []*domain.Event{}
	}
	writeJSON(w, http.StatusOK, eventList)
}

func (s *Server) handleWAR(w http.ResponseWriter, r *http.Request) {
	record, err := s.controller.WARReport(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		s.internalError(w, "war report", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// commandRequest is the JSON body of POST /commands.
type commandRequest struct {
	Type      string `json:"type"`
	AccountID string `json:"accountId"`

	AssetID string `json:"assetId,omitempty"`
	Qty     int    `json:"qty,omitempty"`
	Action  string `json:"action,omitempty"`

	TargetID   string `json:"targetId,omitempty"`
	AttackType string `json:"attackType,omitempty"`
	ShieldTier string `json:"shieldTier,omitempty"`

	Direction       string  `json:"direction,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	MaxSlippagePct  float64 `json:"maxSlippagePct,omitempty"`
	QuotedAmountOut float64 `json:"quotedAmountOut,omitempty"`
}

// commandResponse pairs the result with any emitted events.
type commandResponse struct {
	Result domain.Result  `json:"result"`
	Events []domain.Event `json:"events,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" || req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "type and accountId are required")
		return
	}

	cmd := domain.Command{
		Type:            domain.CommandType(req.Type),
		AccountID:       req.AccountID,
		AssetID:         req.AssetID,
		Qty:             req.Qty,
		Action:          domain.MaintenanceAction(req.Action),
		TargetID:        req.TargetID,
		AttackType:      domain.AttackType(req.AttackType),
		ShieldTier:      req.ShieldTier,
		Direction:       domain.SwapDirection(req.Direction),
		Amount:          req.Amount,
		MaxSlippagePct:  req.MaxSlippagePct,
		QuotedAmountOut: req.QuotedAmountOut,
	}

	start := time.Now()
	result, emitted, err := s.controller.Apply(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, economy.ErrUnknownCommand) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, economy.ErrRetriesExhausted) {
			observability.RecordVersionConflict()
			writeError(w, http.StatusConflict, "concurrent update, retry the command")
			return
		}
		s.internalError(w, "apply command", err)
		return
	}

	outcome := "success"
	if !result.Success {
		outcome = "rejected"
		observability.RecordFailure(string(result.Reason))
	}
	observability.RecordCommand(req.Type, outcome, time.Since(start).Seconds())
	s.recordDomainMetrics(r.Context(), cmd, result)

	if len(emitted) > 0 {
		s.hub.Publish(emitted...)
	}

	writeJSON(w, http.StatusOK, commandResponse{Result: result, Events: emitted})
}

// recordDomainMetrics pushes combat and swap counters.
func (s *Server) recordDomainMetrics(ctx context.Context, cmd domain.Command, result domain.Result) {
	if !result.Success {
		return
	}
	switch cmd.Type {
	case domain.CmdAttack:
		observability.RecordAttack(string(cmd.AttackType), result.Amounts["won"] == 1, result.Amounts["loot"])
	case domain.CmdSwap:
		if pool, err := s.controller.PoolState(ctx); err == nil {
			observability.RecordSwap(string(cmd.Direction), float64(result.Amounts["amountIn"]),
				pool.ReserveCredits, pool.ReserveWealth)
		}
	}
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	direction := domain.SwapDirection(r.URL.Query().Get("direction"))
	if direction != domain.SwapCreditsToWealth && direction != domain.SwapWealthToCredits {
		writeError(w, http.StatusBadRequest, "direction must be credits_to_wealth or wealth_to_credits")
		return
	}
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	quote, err := s.controller.Quote(r.Context(), direction, amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.controller.PoolState(r.Context())
	if err != nil {
		s.internalError(w, "pool state", err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = parsed
	}

	snapshots, err := s.controller.Snapshots(r.Context())
	if err != nil {
		s.internalError(w, "leaderboard snapshots", err)
		return
	}
	entries := leaderboard.Rank(snapshots)
	if n > 0 {
		entries = leaderboard.TopN(entries, n)
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Subscribers int    `json:"subscribers"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Subscribers: s.hub.SubscriberCount(),
	})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
