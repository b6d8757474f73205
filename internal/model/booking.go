package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPendingPayment      BookingStatus = "pending_payment"
	BookingStatusConfirmed           BookingStatus = "confirmed"
	BookingStatusInProgress          BookingStatus = "in_progress"
	BookingStatusPendingVerification BookingStatus = "completed_pending_verification"
	BookingStatusCompleted           BookingStatus = "completed"
	BookingStatusCancelled           BookingStatus = "cancelled"
)

func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusReleased   PayoutStatus = "released"
	PayoutStatusFailed     PayoutStatus = "failed"
)

type Booking struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	ContractorID     *uuid.UUID
	AddressID        uuid.UUID
	Status           BookingStatus
	ScheduledDate    time.Time
	GrassLength      GrassLength
	ClippingsRemoval bool
	TotalPrice       decimal.Decimal
	PaymentIntentRef string
	PayoutStatus     PayoutStatus
	PayoutRef        *string
	Disputed         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
