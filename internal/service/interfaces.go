package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/mowops-settlement/internal/model"
	"github.com/nurpe/mowops-settlement/internal/notify"
)

type PricingStore interface {
	LoadSettings(ctx context.Context) ([]model.PricingSetting, error)
}

type AddressStore interface {
	GetAddress(ctx context.Context, id uuid.UUID) (*model.Address, error)
}

type BookingStore interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error)
	ClaimPayout(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPayoutReleased(ctx context.Context, id uuid.UUID, payoutRef string) error
	MarkPayoutFailed(ctx context.Context, id uuid.UUID) error
	CreateReview(ctx context.Context, review model.Review) (*model.Review, error)
}

type ContractorStore interface {
	GetContractor(ctx context.Context, id uuid.UUID) (*model.Contractor, error)
	GetContractorByUserID(ctx context.Context, userID uuid.UUID) (*model.Contractor, error)
	GetContractorByAccountRef(ctx context.Context, accountRef string) (*model.Contractor, error)
	SetPaymentAccount(ctx context.Context, id uuid.UUID, accountRef string) error
	UpdateAccountFlags(ctx context.Context, accountRef string, onboardingComplete, payoutsEnabled bool) error
	ListPromotable(ctx context.Context) ([]model.Contractor, error)
	Stats(ctx context.Context, id uuid.UUID) (*model.ContractorStats, error)
	PlatformCompletedCount(ctx context.Context) (int64, error)
	Promote(ctx context.Context, id uuid.UUID, from, to model.Tier) (bool, error)
	RecordPromotion(ctx context.Context, contractorID uuid.UUID, from, to model.Tier) error
	ListPromotions(ctx context.Context) ([]model.TierPromotion, error)
}

// AccountStatus mirrors the flags the payment provider reports for a
// connected account.
type AccountStatus struct {
	OnboardingComplete bool
	PayoutsEnabled     bool
}

type PayoutRequest struct {
	AccountRef     string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
	BookingID      uuid.UUID
}

type PaymentAccountProvider interface {
	CreateAccount(ctx context.Context, email string) (string, error)
	AccountStatus(ctx context.Context, accountRef string) (AccountStatus, error)
	OnboardingLink(ctx context.Context, accountRef string) (string, error)
	ReleasePayout(ctx context.Context, req PayoutRequest) (string, error)
}

type NotificationSender interface {
	Notify(ctx context.Context, msg notify.Message)
}

type ReceiptGenerator interface {
	Generate(booking model.Booking) ([]byte, error)
}

type PromotionExporter interface {
	Generate(promotions []model.TierPromotion) ([]byte, error)
}
