package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification model.Notification) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO notifications (user_id, kind, title, body)
		VALUES (?, ?, ?, ?)
	`, notification.UserID, notification.Kind, notification.Title, notification.Body).Error
}
