package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// AccountStore implements storage.AccountStore backed by Postgres.
//
// Scalar balances and counters live in typed columns so they can be
// queried directly; nested holdings and battle state are serialized
// to JSONB, since the engine always reads and writes whole accounts.
type AccountStore struct {
	pool *Pool
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// holdings groups the nested account state stored as a single JSONB
// document.
type holdings struct {
	Assets          []domain.Asset                    `json:"assets"`
	Enhanced        []string                          `json:"enhanced"`
	Active          []string                          `json:"active"`
	Conditions      map[string]*domain.AssetCondition `json:"conditions"`
	AbilityLastUsed map[string]int64                  `json:"abilityLastUsed"`
}

const accountColumns = `account_id, name, credits, wealth,
	work_streak, last_work_at, work_session_count, work_lockout_until,
	xp, work_sessions, battles_won,
	quick_service_charges, rapid_processing_until, effect_multiplier,
	holdings, battle, last_active, version`

// Insert stores a new account. Returns storage.ErrDuplicateKey if an
// account with the same ID already exists.
func (s *AccountStore) Insert(ctx context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("%w: account id is required", storage.ErrInvalidInput)
	}

	holdingsJSON, battleJSON, err := marshalAccountState(a)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = s.pool.Exec(ctx, query,
		a.ID, a.Name, a.Credits, a.Wealth,
		a.WorkStreak, a.LastWorkAt, a.WorkSessionCount, a.WorkLockoutUntil,
		a.XP, a.WorkSessions, a.BattlesWon,
		a.QuickServiceCharges, a.RapidProcessingUntil, a.EffectMultiplier,
		holdingsJSON, battleJSON, a.LastActive, a.Version)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: account %s", storage.ErrDuplicateKey, a.ID)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Get retrieves an account by ID. Returns storage.ErrNotFound if the
// account does not exist.
func (s *AccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: account id is required", storage.ErrInvalidInput)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	a, err := scanAccount(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: account %s", storage.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Update replaces an account's state, guarded by its version.
// The stored row must still carry a.Version; on success the stored
// version becomes a.Version+1. Returns storage.ErrVersionConflict if
// the row has moved on, storage.ErrNotFound if no such account.
func (s *AccountStore) Update(ctx context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("%w: account id is required", storage.ErrInvalidInput)
	}

	holdingsJSON, battleJSON, err := marshalAccountState(a)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, updateAccountQuery,
		a.ID, a.Version,
		a.Name, a.Credits, a.Wealth,
		a.WorkStreak, a.LastWorkAt, a.WorkSessionCount, a.WorkLockoutUntil,
		a.XP, a.WorkSessions, a.BattlesWon,
		a.QuickServiceCharges, a.RapidProcessingUntil, a.EffectMultiplier,
		holdingsJSON, battleJSON, a.LastActive)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.classifyMiss(ctx, a.ID)
	}
	return nil
}

const updateAccountQuery = `
	UPDATE accounts SET
		name = $3, credits = $4, wealth = $5,
		work_streak = $6, last_work_at = $7, work_session_count = $8, work_lockout_until = $9,
		xp = $10, work_sessions = $11, battles_won = $12,
		quick_service_charges = $13, rapid_processing_until = $14, effect_multiplier = $15,
		holdings = $16, battle = $17, last_active = $18,
		version = version + 1
	WHERE account_id = $1 AND version = $2`

// UpdatePair commits two accounts in a single transaction. Either both
// version guards hold and both rows advance, or neither does.
func (s *AccountStore) UpdatePair(ctx context.Context, first, second *domain.Account) error {
	if first == nil || second == nil || first.ID == "" || second.ID == "" {
		return fmt.Errorf("%w: both account ids are required", storage.ErrInvalidInput)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range []*domain.Account{first, second} {
		holdingsJSON, battleJSON, err := marshalAccountState(a)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, updateAccountQuery,
			a.ID, a.Version,
			a.Name, a.Credits, a.Wealth,
			a.WorkStreak, a.LastWorkAt, a.WorkSessionCount, a.WorkLockoutUntil,
			a.XP, a.WorkSessions, a.BattlesWon,
			a.QuickServiceCharges, a.RapidProcessingUntil, a.EffectMultiplier,
			holdingsJSON, battleJSON, a.LastActive)
		if err != nil {
			return fmt.Errorf("update account %s: %w", a.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return s.classifyMiss(ctx, a.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// List returns all accounts ordered by ID.
func (s *AccountStore) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// classifyMiss distinguishes a version conflict from a missing row
// after an UPDATE touched nothing.
func (s *AccountStore) classifyMiss(ctx context.Context, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check account existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: account %s", storage.ErrNotFound, id)
	}
	return fmt.Errorf("%w: account %s", storage.ErrVersionConflict, id)
}

func marshalAccountState(a *domain.Account) ([]byte, []byte, error) {
	holdingsJSON, err := json.Marshal(holdings{
		Assets:          a.Assets,
		Enhanced:        a.Enhanced,
		Active:          a.Active,
		Conditions:      a.Conditions,
		AbilityLastUsed: a.AbilityLastUsed,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal holdings: %w", err)
	}
	battleJSON, err := json.Marshal(a.Battle)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal battle state: %w", err)
	}
	return holdingsJSON, battleJSON, nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a            domain.Account
		holdingsJSON []byte
		battleJSON   []byte
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Credits, &a.Wealth,
		&a.WorkStreak, &a.LastWorkAt, &a.WorkSessionCount, &a.WorkLockoutUntil,
		&a.XP, &a.WorkSessions, &a.BattlesWon,
		&a.QuickServiceCharges, &a.RapidProcessingUntil, &a.EffectMultiplier,
		&holdingsJSON, &battleJSON, &a.LastActive, &a.Version)
	if err != nil {
		return nil, err
	}

	var h holdings
	if err := json.Unmarshal(holdingsJSON, &h); err != nil {
		return nil, fmt.Errorf("unmarshal holdings: %w", err)
	}
	a.Assets = h.Assets
	a.Enhanced = h.Enhanced
	a.Active = h.Active
	a.Conditions = h.Conditions
	a.AbilityLastUsed = h.AbilityLastUsed
	if a.Conditions == nil {
		a.Conditions = make(map[string]*domain.AssetCondition)
	}
	if a.AbilityLastUsed == nil {
		a.AbilityLastUsed = make(map[string]int64)
	}

	if err := json.Unmarshal(battleJSON, &a.Battle); err != nil {
		return nil, fmt.Errorf("unmarshal battle state: %w", err)
	}
	if a.Battle.LastAttackAt == nil {
		a.Battle.LastAttackAt = make(map[domain.AttackType]int64)
	}
	if a.Battle.Hits == nil {
		a.Battle.Hits = make(map[string]*domain.ConsecutiveHits)
	}

	return &a, nil
}
