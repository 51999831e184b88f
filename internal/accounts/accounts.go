package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/models"
	"github.com/shopspring/decimal"
)

// account types constants
const (
	AccountPlayerWallet = "player_wallet"
	AccountHouse        = "house"
)

// reference types written to account_transactions
const (
	RefStake   = "stake"
	RefPayout  = "payout"
	RefRefund  = "refund"
	RefFunding = "funding"
)

// AmountPlaces is the ledger precision in decimal places.
const AmountPlaces = 4

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

const accountColumns = `id, account_type, owner_player_id, balance, created_at, updated_at`

// GetOrCreateAccount returns an account for the given owner and type, creating it if missing
func GetOrCreateAccount(db sqlx.Ext, accountType string, ownerPlayerID *int) (*models.Account, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var a models.Account
	if ownerPlayerID == nil {
		// system account
		if err := sqlx.Get(db, &a, `SELECT `+accountColumns+` FROM accounts WHERE account_type=$1 AND owner_player_id IS NULL`, accountType); err == nil {
			return &a, nil
		}
		if _, err := db.Exec(`INSERT INTO accounts (account_type, balance, created_at, updated_at) VALUES ($1, 0, NOW(), NOW()) ON CONFLICT DO NOTHING`, accountType); err != nil {
			return nil, err
		}
		if err := sqlx.Get(db, &a, `SELECT `+accountColumns+` FROM accounts WHERE account_type=$1 AND owner_player_id IS NULL`, accountType); err != nil {
			return nil, err
		}
		return &a, nil
	}

	if err := sqlx.Get(db, &a, `SELECT `+accountColumns+` FROM accounts WHERE account_type=$1 AND owner_player_id=$2`, accountType, *ownerPlayerID); err == nil {
		return &a, nil
	}
	if _, err := db.Exec(`INSERT INTO accounts (account_type, owner_player_id, balance, created_at, updated_at) VALUES ($1, $2, 0, NOW(), NOW()) ON CONFLICT DO NOTHING`, accountType, *ownerPlayerID); err != nil {
		return nil, err
	}
	if err := sqlx.Get(db, &a, `SELECT `+accountColumns+` FROM accounts WHERE account_type=$1 AND owner_player_id=$2`, accountType, *ownerPlayerID); err != nil {
		return nil, err
	}
	return &a, nil
}

// Transfer performs a single debit/credit between accounts within an existing tx.
// It selects both accounts FOR UPDATE, checks balances, updates balances and inserts an account_transactions row.
func Transfer(tx *sqlx.Tx, debitAccountID, creditAccountID int, amount decimal.Decimal, referenceType string, referenceID sql.NullInt64, description string) error {
	amount = amount.Round(AmountPlaces)
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}

	// Lock both accounts
	var accounts []models.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id IN ($1,$2) FOR UPDATE`
	if err := tx.Select(&accounts, query, debitAccountID, creditAccountID); err != nil {
		return err
	}

	var debitAcc *models.Account
	var creditAcc *models.Account
	for i := range accounts {
		if accounts[i].ID == debitAccountID {
			debitAcc = &accounts[i]
		}
		if accounts[i].ID == creditAccountID {
			creditAcc = &accounts[i]
		}
	}
	if debitAcc == nil || creditAcc == nil {
		return fmt.Errorf("account not found for transfer")
	}

	if err := checkDebit(debitAcc, amount); err != nil {
		return err
	}

	newDebitBalance := debitAcc.Balance.Sub(amount)
	newCreditBalance := creditAcc.Balance.Add(amount)

	if _, err := tx.Exec(`UPDATE accounts SET balance=$1, updated_at=NOW() WHERE id=$2`, newDebitBalance, debitAcc.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE accounts SET balance=$1, updated_at=NOW() WHERE id=$2`, newCreditBalance, creditAcc.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT INTO account_transactions (debit_account_id, credit_account_id, amount, reference_type, reference_id, description, created_at) VALUES ($1,$2,$3,$4,$5,$6,NOW())`, debitAccountID, creditAccountID, amount, referenceType, referenceID, description); err != nil {
		return err
	}

	log.Printf("[ACCT] Transfer completed: debit_acc=%d credit_acc=%d amount=%s ref_type=%s ref_id=%v desc=%s", debitAccountID, creditAccountID, amount.StringFixed(AmountPlaces), referenceType, referenceID, description)
	return nil
}

// checkDebit refuses to overdraw a player wallet. The house may go negative.
func checkDebit(acc *models.Account, amount decimal.Decimal) error {
	if acc.AccountType == AccountPlayerWallet && acc.Balance.LessThan(amount) {
		return fmt.Errorf("account %d: %w", acc.ID, ErrInsufficientFunds)
	}
	return nil
}
