package domain

// WarningLevel summarizes an asset's condition band.
type WarningLevel string

// Warning levels, worst to best.
const (
	WarningBroken   WarningLevel = "broken"
	WarningCritical WarningLevel = "critical"
	WarningCaution  WarningLevel = "caution"
	WarningGood     WarningLevel = "good"
)

// MaintenanceAction identifies one of the four maintenance actions.
type MaintenanceAction string

// Maintenance actions.
const (
	MaintenanceRoutine   MaintenanceAction = "routine"
	MaintenanceMajor     MaintenanceAction = "major"
	MaintenanceUpgrade   MaintenanceAction = "upgrade"
	MaintenanceEmergency MaintenanceAction = "emergency"
)

// MaintenanceRecord is one entry of the append-only maintenance log.
type MaintenanceRecord struct {
	RecordID    string
	AssetID     string
	Action      MaintenanceAction
	Cost        int64
	Restored    float64
	PerformedAt int64 // unix ms
}

// AssetCondition tracks wear state for one owned enhanced asset.
type AssetCondition struct {
	AssetID        string
	Condition      float64 // 0..100, clamped
	LastMaintained int64   // unix ms, 0 = never
	LastCheckedAt  int64   // unix ms of the last degradation tick
	// SlowdownUntil marks the end of the degradation-slowdown window
	// granted by the last maintenance action.
	SlowdownUntil int64
	OfflineUntil  int64 // unix ms; > now means the asset is offline
	// UpgradeBonus accumulates permanent efficiency from upgrade
	// maintenance. Monotonically non-decreasing.
	UpgradeBonus float64
	History      []MaintenanceRecord
}

// Clone returns a deep copy.
func (c *AssetCondition) Clone() *AssetCondition {
	cp := *c
	cp.History = append([]MaintenanceRecord(nil), c.History...)
	return &cp
}

// Online reports whether the asset is online at the given time.
func (c *AssetCondition) Online(nowMs int64) bool {
	return nowMs >= c.OfflineUntil
}
