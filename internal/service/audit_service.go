package service

import (
	"context"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/repository"
)

// AuditService handles audit logging
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service. A nil store disables logging.
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	log := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogAdminAction records a change made by an admin to targetUserID (0 for catalog-wide changes)
func (s *AuditService) LogAdminAction(ctx context.Context, adminID int64, action, category string, targetUserID int64, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["admin_id"] = adminID
	if targetUserID != 0 {
		details["target_user_id"] = targetUserID
	}

	userID := targetUserID
	if userID == 0 {
		userID = adminID
	}
	s.Log(ctx, userID, action, category, details)
}

// List returns recent entries matching f
func (s *AuditService) List(ctx context.Context, f repository.AuditFilter) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []*domain.AuditLog{}, nil
	}
	return s.repo.List(ctx, f)
}
