package domain

// CommandType discriminates commands applied by the economy controller.
type CommandType string

// Command types.
const (
	CmdWork            CommandType = "work"
	CmdBuyAsset        CommandType = "buy_asset"
	CmdBuyEnhanced     CommandType = "buy_enhanced"
	CmdBuyOutlets      CommandType = "buy_outlets"
	CmdMaintain        CommandType = "maintain"
	CmdAttack          CommandType = "attack"
	CmdShield          CommandType = "shield"
	CmdTribute         CommandType = "tribute"
	CmdSwap            CommandType = "swap"
	CmdRepairSabotage  CommandType = "repair_sabotage"
	CmdActivateAbility CommandType = "activate_ability"
)

// Command is a single player action. Exactly the fields relevant to
// Type are set; the controller validates the rest.
type Command struct {
	Type      CommandType
	AccountID string

	// Purchases.
	AssetID string // catalog or asset id
	Qty     int    // outlet quantity

	// Maintenance.
	Action MaintenanceAction

	// Combat.
	TargetID   string
	AttackType AttackType
	ShieldTier string

	// Swap.
	Direction       SwapDirection
	Amount          float64
	MaxSlippagePct  float64
	QuotedAmountOut float64
}

// FailureReason is the typed rejection cause carried in a Result.
// A failed command commits no state change.
type FailureReason string

// Failure reasons.
const (
	FailNone               FailureReason = ""
	FailInsufficientFunds  FailureReason = "insufficient_funds"
	FailCooldownActive     FailureReason = "cooldown_active"
	FailWorkLockout        FailureReason = "work_lockout"
	FailOutOfWealthRange   FailureReason = "out_of_wealth_range"
	FailShielded           FailureReason = "shielded"
	FailDefenseImmune      FailureReason = "defense_immune"
	FailBelowMinimumWealth FailureReason = "below_minimum_wealth"
	FailAlreadyOwned       FailureReason = "already_owned"
	FailPrerequisiteNotMet FailureReason = "prerequisite_not_met"
	FailPoolPaused         FailureReason = "pool_paused"
	FailTradeTooLarge      FailureReason = "trade_too_large"
	FailSlippageExceeded   FailureReason = "slippage_exceeded"
	FailAlreadyProtected   FailureReason = "already_protected"
	FailTributeProtected   FailureReason = "tribute_protected"
	FailInvalidCommand     FailureReason = "invalid_command"
	FailUnknownAccount     FailureReason = "unknown_account"
	FailNotRepairable      FailureReason = "not_repairable"
)

// Result is the discriminated outcome of one command.
type Result struct {
	Success bool             `json:"success"`
	Reason  FailureReason    `json:"reason,omitempty"`
	Amounts map[string]int64 `json:"amounts,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Failure builds a failed result.
func Failure(reason FailureReason, message string) Result {
	return Result{Success: false, Reason: reason, Message: message}
}

// Successful builds a success result with optional amounts.
func Successful(message string, amounts map[string]int64) Result {
	return Result{Success: true, Amounts: amounts, Message: message}
}
