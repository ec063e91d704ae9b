package mysql

import (
	"context"

	"gorm.io/gorm"

	"separation-engine/internal/domain/notification"
)

// NotificationRepository persists delivered notifications, one row per recipient.
type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ notification.Sink = (*NotificationRepository)(nil)

// Deliver stores the notification. It only accepts addressed notifications.
func (r *NotificationRepository) Deliver(ctx context.Context, n notification.Notification) error {
	return r.db.WithContext(ctx).Create(&n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []notification.Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
