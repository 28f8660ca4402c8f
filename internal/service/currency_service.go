package service

import (
	"context"
	"errors"
	"strings"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/repository"

	"github.com/google/uuid"
)

// CurrencyService manages the currencies rewards are paid in
type CurrencyService struct {
	store CurrencyStore
	audit *AuditService
}

func NewCurrencyService(store CurrencyStore, audit *AuditService) *CurrencyService {
	return &CurrencyService{store: store, audit: audit}
}

func (s *CurrencyService) List(ctx context.Context) ([]domain.Currency, error) {
	return s.store.List(ctx)
}

func (s *CurrencyService) Get(ctx context.Context, id string) (*domain.Currency, error) {
	c, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCurrencyNotFound
	}
	return c, err
}

func normalizeCurrency(c *domain.Currency) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	if c.Code == "" {
		return invalid("code", "required")
	}
	if c.Name == "" {
		c.Name = c.Code
	}
	return nil
}

// Create assigns a new uuid to c
func (s *CurrencyService) Create(ctx context.Context, actorID int64, c *domain.Currency) error {
	if err := normalizeCurrency(c); err != nil {
		return err
	}
	c.ID = uuid.NewString()
	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateCurrency
		}
		return err
	}
	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionCurrencyCreate, domain.AuditCategoryCurrency, 0, map[string]interface{}{
		"currency_id": c.ID, "code": c.Code,
	})
	return nil
}

// Upsert creates or updates by code, keeping an existing id. Used for seeding.
func (s *CurrencyService) Upsert(ctx context.Context, actorID int64, c *domain.Currency) error {
	if err := normalizeCurrency(c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.store.Upsert(ctx, c); err != nil {
		return err
	}
	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionCurrencyUpdate, domain.AuditCategoryCurrency, 0, map[string]interface{}{
		"currency_id": c.ID, "code": c.Code,
	})
	return nil
}

func (s *CurrencyService) Update(ctx context.Context, actorID int64, c *domain.Currency) error {
	if err := normalizeCurrency(c); err != nil {
		return err
	}
	if err := s.store.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrCurrencyNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrDuplicateCurrency
		}
		return err
	}
	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionCurrencyUpdate, domain.AuditCategoryCurrency, 0, map[string]interface{}{
		"currency_id": c.ID, "code": c.Code,
	})
	return nil
}

func (s *CurrencyService) Delete(ctx context.Context, actorID int64, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCurrencyNotFound
		}
		return err
	}
	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionCurrencyDelete, domain.AuditCategoryCurrency, 0, map[string]interface{}{
		"currency_id": id,
	})
	return nil
}
