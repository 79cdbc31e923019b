package economy

import (
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/idhash"
	"wealth-arena/internal/yield"
)

// reduceBuyAsset purchases a basic productive asset from the offer
// table.
func (c *Controller) reduceBuyAsset(a *domain.Account, assetID string, nowMs int64) (domain.Result, []domain.Event) {
	offer := c.tables.BasicAssetByID(assetID)
	if offer == nil {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("unknown asset %q", assetID)), nil
	}
	if a.OwnsAsset(assetID) {
		return domain.Failure(domain.FailAlreadyOwned, "asset already owned"), nil
	}
	if !debit(a, domain.CurrencyCredits, offer.AcquisitionCost) {
		return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
	}

	a.Assets = append(a.Assets, *offer)

	return domain.Successful(fmt.Sprintf("purchased %s", offer.Name), map[string]int64{"cost": offer.AcquisitionCost}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventAssetPurchased), a.ID, assetID, nowMs),
			Type:      domain.EventAssetPurchased,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": offer.AcquisitionCost},
			Detail:    assetID,
		}}
}

// reduceBuyEnhanced purchases an enhanced asset from the catalog,
// initializes its condition tracking and auto-assigns it to an empty
// active slot.
func (c *Controller) reduceBuyEnhanced(a *domain.Account, catalogID string, nowMs int64) (domain.Result, []domain.Event) {
	entry, ok := c.catalog[catalogID]
	if !ok {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("unknown catalog entry %q", catalogID)), nil
	}
	if a.OwnsEnhanced(catalogID) {
		return domain.Failure(domain.FailAlreadyOwned, "already owned"), nil
	}
	for _, prereq := range entry.Prerequisites {
		if !a.OwnsEnhanced(prereq) {
			return domain.Failure(domain.FailPrerequisiteNotMet, fmt.Sprintf("requires %s", prereq)), nil
		}
	}
	if !debit(a, entry.CostCurrency, entry.Cost) {
		return domain.Failure(domain.FailInsufficientFunds, fmt.Sprintf("insufficient %s", entry.CostCurrency)), nil
	}

	a.Enhanced = append(a.Enhanced, catalogID)
	if a.Conditions == nil {
		a.Conditions = make(map[string]*domain.AssetCondition)
	}
	a.Conditions[catalogID] = &domain.AssetCondition{
		AssetID:       catalogID,
		Condition:     100,
		LastCheckedAt: nowMs,
	}
	if len(a.Active) < domain.MaxActiveEnhanced {
		a.Active = append(a.Active, catalogID)
	}

	return domain.Successful(fmt.Sprintf("purchased %s", entry.Name), map[string]int64{"cost": entry.Cost}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventEnhancedPurchased), a.ID, catalogID, nowMs),
			Type:      domain.EventEnhancedPurchased,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": entry.Cost},
			Detail:    catalogID,
		}}
}

// reduceBuyOutlets adds outlets to an owned basic asset at the
// geometric price.
func (c *Controller) reduceBuyOutlets(a *domain.Account, assetID string, qty int, nowMs int64) (domain.Result, []domain.Event) {
	if qty <= 0 {
		return domain.Failure(domain.FailInvalidCommand, "quantity must be positive"), nil
	}
	asset := a.AssetByID(assetID)
	if asset == nil {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("asset %q not owned", assetID)), nil
	}

	cost := yield.OutletCost(asset.AcquisitionCost, c.tables.Milestones.OutletGrowth, asset.Outlets, qty)
	if !debit(a, domain.CurrencyCredits, cost) {
		return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
	}
	asset.Outlets += qty

	return domain.Successful(fmt.Sprintf("added %d outlets to %s", qty, asset.Name), map[string]int64{"cost": cost, "outlets": int64(asset.Outlets)}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventOutletsPurchased), a.ID, assetID, nowMs),
			Type:      domain.EventOutletsPurchased,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": cost, "qty": int64(qty)},
			Detail:    assetID,
		}}
}
