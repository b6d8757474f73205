package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is unique per (contractor_id, booking_id); the constraint lives in
// the database and duplicate inserts surface as a conflict.
type Review struct {
	ID                 uuid.UUID
	ContractorID       uuid.UUID
	BookingID          uuid.UUID
	UserID             uuid.UUID
	Rating             int
	Comment            *string
	ContractorResponse *string
	CreatedAt          time.Time
}

type Dispute struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	Reason    string
	CreatedAt time.Time
}
