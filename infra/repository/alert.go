package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository returns a gorm backed alert repository.
func NewAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, a *alert.Alert) error {
	m := Alert{
		ID:        a.ID,
		Recipient: a.Recipient,
		Message:   a.Message,
		Sent:      a.Sent,
		SentAt:    a.SentAt,
		CreatedAt: a.CreatedAt,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *alertRepository) ListByRecipient(ctx context.Context, recipient string, page dto.Page) ([]*alert.Alert, error) {
	page = page.Normalize()
	return r.list(r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset))
}

func (r *alertRepository) ListPending(ctx context.Context, limit int) ([]*alert.Alert, error) {
	return r.list(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("sent = ?", false).
		Order("created_at ASC").
		Limit(limit))
}

func (r *alertRepository) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Model(&Alert{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"sent": true, "sent_at": time.Now().UTC()}).Error
	})
}

func (r *alertRepository) list(q *gorm.DB) ([]*alert.Alert, error) {
	var rows []Alert
	if err := WrapError(func() error {
		return q.Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	out := make([]*alert.Alert, 0, len(rows))
	for _, m := range rows {
		out = append(out, &alert.Alert{
			ID:        m.ID,
			Recipient: m.Recipient,
			Message:   m.Message,
			Sent:      m.Sent,
			SentAt:    m.SentAt,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
