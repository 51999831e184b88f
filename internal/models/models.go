package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Player represents a user in the system
type Player struct {
	ID          int            `db:"id" json:"id"`
	PhoneNumber string         `db:"phone_number" json:"phone_number"`
	DisplayName string         `db:"display_name" json:"display_name"`
	PinHash     sql.NullString `db:"pin_hash" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	IsBlocked   bool           `db:"is_blocked" json:"is_blocked"`
	LastActive  sql.NullTime   `db:"last_active" json:"last_active,omitempty"`
}

// Account is one side of the double-entry ledger
type Account struct {
	ID            int             `db:"id" json:"id"`
	AccountType   string          `db:"account_type" json:"account_type"`
	OwnerPlayerID sql.NullInt64   `db:"owner_player_id" json:"owner_player_id,omitempty"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// AccountTransaction records a single transfer between two accounts
type AccountTransaction struct {
	ID              int             `db:"id" json:"id"`
	DebitAccountID  int             `db:"debit_account_id" json:"debit_account_id"`
	CreditAccountID int             `db:"credit_account_id" json:"credit_account_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	ReferenceType   string          `db:"reference_type" json:"reference_type"`
	ReferenceID     sql.NullInt64   `db:"reference_id" json:"reference_id,omitempty"`
	Description     string          `db:"description" json:"description,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// DropBatch is one charged drop of N balls at a fixed wager
type DropBatch struct {
	ID        int64           `db:"id" json:"id"`
	PlayerID  int             `db:"player_id" json:"player_id"`
	BallCount int             `db:"ball_count" json:"ball_count"`
	Wager     decimal.Decimal `db:"wager" json:"wager"`
	Cost      decimal.Decimal `db:"cost" json:"cost"`
	Payout    decimal.Decimal `db:"payout" json:"payout"`
	Cancelled int             `db:"cancelled" json:"cancelled"`
	Status    string          `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	SettledAt sql.NullTime    `db:"settled_at" json:"settled_at,omitempty"`
}

// BallLanding records where a single ball ended up
type BallLanding struct {
	ID          int64           `db:"id" json:"id"`
	DropBatchID int64           `db:"drop_batch_id" json:"drop_batch_id"`
	BallID      int             `db:"ball_id" json:"ball_id"`
	Outcome     string          `db:"outcome" json:"outcome"`
	SlotIndex   int             `db:"slot_index" json:"slot_index"`
	Multiplier  decimal.Decimal `db:"multiplier" json:"multiplier"`
	Payout      decimal.Decimal `db:"payout" json:"payout"`
	Tier        string          `db:"tier" json:"tier"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// RuntimeConfig is an admin-editable setting override
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAccount represents an operator allowed to use the admin API
type AdminAccount struct {
	Phone       string         `db:"phone" json:"phone"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is an admin audit log entry
type AdminAudit struct {
	ID         int             `db:"id" json:"id"`
	AdminPhone string          `db:"admin_phone" json:"admin_phone"`
	IP         string          `db:"ip" json:"ip"`
	Route      string          `db:"route" json:"route"`
	Action     string          `db:"action" json:"action"`
	Details    json.RawMessage `db:"details" json:"details"`
	Success    bool            `db:"success" json:"success"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
