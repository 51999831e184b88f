package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Wallet moves a player's credit between their wallet account and the house.
type Wallet struct {
	db *sqlx.DB
}

// NewWallet returns a Wallet backed by the ledger tables.
func NewWallet(db *sqlx.DB) *Wallet {
	return &Wallet{db: db}
}

// Balance returns the player's wallet balance, creating the account if needed.
func (w *Wallet) Balance(ctx context.Context, playerID int) (decimal.Decimal, error) {
	acc, err := GetOrCreateAccount(w.db, AccountPlayerWallet, &playerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load wallet for player %d: %w", playerID, err)
	}
	return acc.Balance, nil
}

// Stake charges a drop: player wallet -> house.
func (w *Wallet) Stake(ctx context.Context, playerID int, amount decimal.Decimal, ref int64) error {
	return w.move(ctx, playerID, amount, true, RefStake, ref, "plinko drop")
}

// Payout credits settled winnings: house -> player wallet.
func (w *Wallet) Payout(ctx context.Context, playerID int, amount decimal.Decimal, ref int64) error {
	return w.move(ctx, playerID, amount, false, RefPayout, ref, "plinko payout")
}

// Refund returns the stake of cancelled balls: house -> player wallet.
func (w *Wallet) Refund(ctx context.Context, playerID int, amount decimal.Decimal, ref int64) error {
	return w.move(ctx, playerID, amount, false, RefRefund, ref, "plinko cancelled balls")
}

// Fund grants starting credit to a new player.
func (w *Wallet) Fund(ctx context.Context, playerID int, amount decimal.Decimal) error {
	return w.move(ctx, playerID, amount, false, RefFunding, 0, "starting credit")
}

func (w *Wallet) move(ctx context.Context, playerID int, amount decimal.Decimal, fromPlayer bool, refType string, ref int64, desc string) error {
	if w == nil || w.db == nil {
		return fmt.Errorf("wallet has no database")
	}
	player, err := GetOrCreateAccount(w.db, AccountPlayerWallet, &playerID)
	if err != nil {
		return fmt.Errorf("player account: %w", err)
	}
	house, err := GetOrCreateAccount(w.db, AccountHouse, nil)
	if err != nil {
		return fmt.Errorf("house account: %w", err)
	}

	debit, credit := house.ID, player.ID
	if fromPlayer {
		debit, credit = player.ID, house.ID
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	refID := sql.NullInt64{Int64: ref, Valid: ref > 0}
	if err := Transfer(tx, debit, credit, amount, refType, refID, desc); err != nil {
		return err
	}
	return tx.Commit()
}
