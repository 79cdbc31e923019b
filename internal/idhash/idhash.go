// Package idhash derives deterministic record identifiers. The same
// logical fact always hashes to the same id, which keeps the
// append-only history and event logs idempotent under replay.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// MaintenanceRecordID identifies one maintenance log entry.
// Formula: SHA256(account_id|asset_id|action|performed_at), base58.
func MaintenanceRecordID(accountID, assetID, action string, performedAt int64) string {
	return digest(fmt.Sprintf("%s|%s|%s|%d", accountID, assetID, action, performedAt))
}

// EventID identifies one domain event.
// Formula: SHA256(type|account_id|target_id|at), base58.
func EventID(eventType, accountID, targetID string, at int64) string {
	return digest(fmt.Sprintf("%s|%s|%s|%d", eventType, accountID, targetID, at))
}

// RaidID identifies one triggered raid.
// Formula: SHA256(attacker_id|defender_id|triggered_at), base58.
func RaidID(attackerID, defenderID string, triggeredAt int64) string {
	return digest(fmt.Sprintf("%s|%s|%d", attackerID, defenderID, triggeredAt))
}

func digest(data string) string {
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
