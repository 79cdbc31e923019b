package economy

import (
	"context"
	"errors"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
	"wealth-arena/internal/war"
	"wealth-arena/internal/yield"
)

// WARReport recomputes the wealth-asset ratio from current state,
// appends a history sample and returns the record. Rank comes from the
// leaderboard, not from here.
func (c *Controller) WARReport(ctx context.Context, accountID string) (*domain.WARRecord, error) {
	account, err := c.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	history, err := c.warHistory.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	samples := make([]domain.WARSample, len(history))
	for i, s := range history {
		samples[i] = *s
	}

	portfolio := yield.PortfolioValue(account, c.catalog)
	record := war.Compute(accountID, account.Wealth, portfolio, samples)

	sample := &domain.WARSample{
		AccountID:  accountID,
		Ratio:      record.Ratio,
		RecordedAt: c.clock().UnixMilli(),
	}
	if err := c.warHistory.Append(ctx, []*domain.WARSample{sample}); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, err
	}

	return &record, nil
}

// Snapshots lists every account's leaderboard view.
func (c *Controller) Snapshots(ctx context.Context) ([]domain.Snapshot, error) {
	accounts, err := c.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	snaps := make([]domain.Snapshot, len(accounts))
	for i, a := range accounts {
		snaps[i] = a.Snapshot()
	}
	return snaps, nil
}
