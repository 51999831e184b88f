package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/playmatatu/plinko/internal/models"
	"github.com/shopspring/decimal"
)

func TestCheckDebitPlayerWallet(t *testing.T) {
	acc := &models.Account{ID: 7, AccountType: AccountPlayerWallet, Balance: decimal.RequireFromString("4.9999")}

	if err := checkDebit(acc, decimal.RequireFromString("4.9999")); err != nil {
		t.Errorf("exact balance should be spendable: %v", err)
	}
	err := checkDebit(acc, decimal.NewFromInt(5))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("got %v, want %v", err, ErrInsufficientFunds)
	}
}

func TestCheckDebitHouseMayGoNegative(t *testing.T) {
	acc := &models.Account{ID: 1, AccountType: AccountHouse, Balance: decimal.Zero}
	if err := checkDebit(acc, decimal.NewFromInt(1000)); err != nil {
		t.Errorf("house debit rejected: %v", err)
	}
}

func TestTransferRejectsNonPositiveAmount(t *testing.T) {
	for _, amt := range []string{"0", "-3", "0.00001"} {
		err := Transfer(nil, 1, 2, decimal.RequireFromString(amt), RefStake, sql.NullInt64{}, "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %s: got %v, want %v", amt, err, ErrInvalidAmount)
		}
	}
}

func TestWalletWithoutDatabase(t *testing.T) {
	var w *Wallet
	if err := w.Stake(context.Background(), 1, decimal.NewFromInt(1), 0); err == nil {
		t.Error("expected error from a wallet without a database")
	}
}
