package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationJobApproved  NotificationKind = "JOB_APPROVED"
	NotificationTierPromoted NotificationKind = "TIER_PROMOTED"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      NotificationKind
	Title     string
	Body      string
	CreatedAt time.Time
}
