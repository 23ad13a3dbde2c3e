package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"finances/internal/logger"
	"finances/internal/models"
	"finances/internal/repository"
	"finances/internal/uuid"
)

type auditService struct {
	store *repository.Store
	log   *zap.SugaredLogger
}

// NewAuditService creates an AuditServicer writing to the audit_logs table.
func NewAuditService(store *repository.Store) AuditServicer {
	return &auditService{store: store, log: logger.Named("audit")}
}

// Log stores one audit entry. A failed write is logged and dropped: the
// mutation it describes has already been committed.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		IPAddress:    ipAddress,
		Changes:      s.encodeChanges(action, changes),
	}
	if uuid.IsValid(resourceID) {
		entry.ResourceID = &resourceID
	}

	if err := s.store.Audit.Create(ctx, entry); err != nil {
		s.log.Errorw("failed to store audit entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
		return
	}
	s.log.Debugw(action, "user_id", userID, "resource_type", resourceType, "resource_id", resourceID)
}

// encodeChanges renders changes as JSON. Decimal values keep their exact
// string form.
func (s *auditService) encodeChanges(action string, changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		s.log.Warnw("unencodable audit changes", "action", action, "error", err)
		return "{}"
	}
	return string(data)
}
