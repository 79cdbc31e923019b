package domain

// EventType discriminates domain events emitted by the controller.
type EventType string

// Event types.
const (
	EventWorked               EventType = "worked"
	EventAssetPurchased       EventType = "asset_purchased"
	EventEnhancedPurchased    EventType = "enhanced_purchased"
	EventOutletsPurchased     EventType = "outlets_purchased"
	EventMaintenancePerformed EventType = "maintenance_performed"
	EventAttackResolved       EventType = "attack_resolved"
	EventRaidTriggered        EventType = "raid_triggered"
	EventShieldActivated      EventType = "shield_activated"
	EventTributePaid          EventType = "tribute_paid"
	EventSwapExecuted         EventType = "swap_executed"
	EventSabotageRepaired     EventType = "sabotage_repaired"
	EventAbilityActivated     EventType = "ability_activated"
	EventStreakAdvanced       EventType = "streak_advanced"
)

// Event is an immutable fact produced by a committed command. Engines
// and reducers return events; a thin adapter (the websocket hub, the
// analytic log stores) turns them into notifications and records.
// Calculation never dispatches side effects directly.
type Event struct {
	EventID   string    `json:"eventId"`
	Type      EventType `json:"type"`
	AccountID string    `json:"accountId"`
	TargetID  string    `json:"targetId,omitempty"`
	At        int64     `json:"at"` // unix ms

	// Numeric payload, keyed per event type (e.g. "reward", "theft",
	// "cost", "amountOut").
	Amounts map[string]int64 `json:"amounts,omitempty"`
	Detail  string           `json:"detail,omitempty"`
}
