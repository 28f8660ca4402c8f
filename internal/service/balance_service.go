package service

import (
	"context"
	"errors"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/repository"

	"github.com/shopspring/decimal"
)

// BalanceService handles player currency balances
type BalanceService struct {
	store BalanceStore
	audit *AuditService
}

func NewBalanceService(store BalanceStore, audit *AuditService) *BalanceService {
	return &BalanceService{store: store, audit: audit}
}

// Balances returns every balance a player holds
func (s *BalanceService) Balances(ctx context.Context, playerID int64) ([]domain.Balance, error) {
	return s.store.List(ctx, playerID)
}

// Credit adds amount to the player's balance and records a ledger entry
func (s *BalanceService) Credit(ctx context.Context, playerID int64, currencyID string, amount decimal.Decimal, txType string, meta map[string]interface{}) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if currencyID == "" {
		return decimal.Zero, ErrCurrencyRequired
	}

	balance, err := s.store.Credit(ctx, &domain.Transaction{
		PlayerID:   playerID,
		CurrencyID: currencyID,
		Type:       txType,
		Amount:     amount,
		Meta:       meta,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return decimal.Zero, ErrCurrencyNotFound
		}
		return decimal.Zero, err
	}

	s.audit.Log(ctx, playerID, domain.AuditActionBalanceCredit, domain.AuditCategoryBalance, map[string]interface{}{
		"currency_id": currencyID,
		"amount":      amount.String(),
		"type":        txType,
	})
	return balance, nil
}
