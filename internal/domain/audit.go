package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryCatalog  = "catalog"
	AuditCategoryCurrency = "currency"
	AuditCategoryXP       = "xp"
	AuditCategoryFaucet   = "faucet"
	AuditCategoryBalance  = "balance"
)

// Audit actions
const (
	// Catalog actions
	AuditActionTierCreate    = "tier_create"
	AuditActionTierUpdate    = "tier_update"
	AuditActionTierDelete    = "tier_delete"
	AuditActionLevelCreate   = "level_create"
	AuditActionLevelUpdate   = "level_update"
	AuditActionLevelDelete   = "level_delete"
	AuditActionCatalogImport = "catalog_import"

	// Currency actions
	AuditActionCurrencyCreate = "currency_create"
	AuditActionCurrencyUpdate = "currency_update"
	AuditActionCurrencyDelete = "currency_delete"

	// XP actions
	AuditActionXPAdd   = "xp_add"
	AuditActionXPSet   = "xp_set"
	AuditActionXPReset = "xp_reset"

	// Faucet / balance actions
	AuditActionFaucetClaim   = "faucet_claim"
	AuditActionLevelUpBonus  = "level_up_bonus"
	AuditActionBalanceCredit = "balance_credit"
)
