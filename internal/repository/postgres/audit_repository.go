package postgres

import (
	"context"
	"fmt"

	"github.com/caredesk/hospital-api/internal/domain"
	"github.com/caredesk/hospital-api/pkg/metrics"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db      *gorm.DB
	metrics *metrics.Collector
}

func NewAuditRepository(db *gorm.DB, m *metrics.Collector) *AuditRepository {
	return &AuditRepository{db: db, metrics: m}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("inserting audit log: %w", err)
	}
	if r.metrics != nil {
		r.metrics.AuditEntriesTotal.Inc()
	}
	return nil
}
