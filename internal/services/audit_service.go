package services

import (
	"context"

	"github.com/gearbook/gearbook-api/internal/models"
	"gorm.io/gorm"
)

// AuditService records workflow steps. The multi-step workflows are not
// transactional across collaborators, so each completed step leaves a trace
// a reconciliation pass could work from.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry. A nil database disables auditing.
func (s *AuditService) Log(ctx context.Context, ownerID uint, action, entity string, entityID uint, details string) error {
	if s.db == nil {
		return nil
	}
	logEntry := &models.AuditLog{
		OwnerID:  ownerID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	return s.db.WithContext(ctx).Create(logEntry).Error
}

// List retrieves audit logs, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset).Find(&logs)
	return logs, total, result.Error
}
