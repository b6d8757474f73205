package model

import (
	"time"

	"github.com/google/uuid"
)

type Tier string

const (
	TierProbation Tier = "probation"
	TierStandard  Tier = "standard"
	TierPremium   Tier = "premium"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Contractor struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Tier               Tier
	PaymentAccountRef  *string
	OnboardingComplete bool
	PayoutsEnabled     bool
	AverageRating      float64
	TotalRatingsCount  int
	IsActive           bool
	ApprovalStatus     ApprovalStatus
	Email              string
}

// ContractorStats is the per-contractor aggregate the tier evaluator reads:
// completed bookings, disputes among them, and the review aggregate.
type ContractorStats struct {
	CompletedJobs int64
	Disputes      int64
	ReviewCount   int64
	AverageRating float64
}

type TierPromotion struct {
	ID           uuid.UUID
	ContractorID uuid.UUID
	FromTier     Tier
	ToTier       Tier
	CreatedAt    time.Time
}
