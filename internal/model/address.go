package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Slope string

const (
	SlopeFlat  Slope = "flat"
	SlopeMild  Slope = "mild"
	SlopeSteep Slope = "steep"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type Address struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	SquareMeters       *decimal.Decimal
	Slope              Slope
	TierCount          int
	VerificationStatus VerificationStatus
}
