package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
	"github.com/nurpe/mowops-settlement/internal/notify"
	"github.com/nurpe/mowops-settlement/internal/repository"
)

type fakePricingStore struct {
	settings []model.PricingSetting
	err      error
}

func (f *fakePricingStore) LoadSettings(ctx context.Context) ([]model.PricingSetting, error) {
	return f.settings, f.err
}

type fakeAddressStore struct {
	addresses map[uuid.UUID]*model.Address
}

func (f *fakeAddressStore) GetAddress(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	address, ok := f.addresses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *address
	return &copied, nil
}

type fakeBookingStore struct {
	bookings    map[uuid.UUID]*model.Booking
	reviews     map[string]model.Review
	transitions []string
}

func newFakeBookingStore(bookings ...*model.Booking) *fakeBookingStore {
	store := &fakeBookingStore{
		bookings: make(map[uuid.UUID]*model.Booking),
		reviews:  make(map[string]model.Review),
	}
	for _, booking := range bookings {
		store.bookings[booking.ID] = booking
	}
	return store
}

func (f *fakeBookingStore) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error) {
	booking, ok := f.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	f.transitions = append(f.transitions, fmt.Sprintf("%s->%s", from, to))
	return true, nil
}

func (f *fakeBookingStore) ClaimPayout(ctx context.Context, id uuid.UUID) (bool, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return false, nil
	}
	if booking.PayoutStatus != model.PayoutStatusPending && booking.PayoutStatus != model.PayoutStatusFailed {
		return false, nil
	}
	booking.PayoutStatus = model.PayoutStatusProcessing
	return true, nil
}

func (f *fakeBookingStore) MarkPayoutReleased(ctx context.Context, id uuid.UUID, payoutRef string) error {
	booking := f.bookings[id]
	booking.PayoutStatus = model.PayoutStatusReleased
	booking.PayoutRef = &payoutRef
	return nil
}

func (f *fakeBookingStore) MarkPayoutFailed(ctx context.Context, id uuid.UUID) error {
	f.bookings[id].PayoutStatus = model.PayoutStatusFailed
	return nil
}

func (f *fakeBookingStore) CreateReview(ctx context.Context, review model.Review) (*model.Review, error) {
	key := review.ContractorID.String() + "/" + review.BookingID.String()
	if _, exists := f.reviews[key]; exists {
		return nil, repository.ErrDuplicateReview
	}
	review.ID = uuid.New()
	f.reviews[key] = review
	return &review, nil
}

type fakeContractorStore struct {
	contractors       map[uuid.UUID]*model.Contractor
	stats             map[uuid.UUID]*model.ContractorStats
	platformCompleted int64
	promotions        []model.TierPromotion
}

func newFakeContractorStore(contractors ...*model.Contractor) *fakeContractorStore {
	store := &fakeContractorStore{
		contractors: make(map[uuid.UUID]*model.Contractor),
		stats:       make(map[uuid.UUID]*model.ContractorStats),
	}
	for _, contractor := range contractors {
		store.contractors[contractor.ID] = contractor
	}
	return store
}

func (f *fakeContractorStore) GetContractor(ctx context.Context, id uuid.UUID) (*model.Contractor, error) {
	contractor, ok := f.contractors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *contractor
	return &copied, nil
}

func (f *fakeContractorStore) GetContractorByUserID(ctx context.Context, userID uuid.UUID) (*model.Contractor, error) {
	for _, contractor := range f.contractors {
		if contractor.UserID == userID {
			copied := *contractor
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContractorStore) GetContractorByAccountRef(ctx context.Context, accountRef string) (*model.Contractor, error) {
	for _, contractor := range f.contractors {
		if contractor.PaymentAccountRef != nil && *contractor.PaymentAccountRef == accountRef {
			copied := *contractor
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContractorStore) SetPaymentAccount(ctx context.Context, id uuid.UUID, accountRef string) error {
	f.contractors[id].PaymentAccountRef = &accountRef
	return nil
}

func (f *fakeContractorStore) UpdateAccountFlags(ctx context.Context, accountRef string, onboardingComplete, payoutsEnabled bool) error {
	for _, contractor := range f.contractors {
		if contractor.PaymentAccountRef != nil && *contractor.PaymentAccountRef == accountRef {
			contractor.OnboardingComplete = onboardingComplete
			contractor.PayoutsEnabled = payoutsEnabled
		}
	}
	return nil
}

func (f *fakeContractorStore) ListPromotable(ctx context.Context) ([]model.Contractor, error) {
	var result []model.Contractor
	for _, contractor := range f.contractors {
		if contractor.IsActive &&
			contractor.ApprovalStatus == model.ApprovalApproved &&
			contractor.Tier != model.TierPremium {
			result = append(result, *contractor)
		}
	}
	return result, nil
}

func (f *fakeContractorStore) Stats(ctx context.Context, id uuid.UUID) (*model.ContractorStats, error) {
	stats, ok := f.stats[id]
	if !ok {
		return &model.ContractorStats{}, nil
	}
	copied := *stats
	return &copied, nil
}

func (f *fakeContractorStore) PlatformCompletedCount(ctx context.Context) (int64, error) {
	return f.platformCompleted, nil
}

func (f *fakeContractorStore) Promote(ctx context.Context, id uuid.UUID, from, to model.Tier) (bool, error) {
	contractor, ok := f.contractors[id]
	if !ok || contractor.Tier != from {
		return false, nil
	}
	contractor.Tier = to
	return true, nil
}

func (f *fakeContractorStore) RecordPromotion(ctx context.Context, contractorID uuid.UUID, from, to model.Tier) error {
	f.promotions = append(f.promotions, model.TierPromotion{
		ID:           uuid.New(),
		ContractorID: contractorID,
		FromTier:     from,
		ToTier:       to,
	})
	return nil
}

func (f *fakeContractorStore) ListPromotions(ctx context.Context) ([]model.TierPromotion, error) {
	return f.promotions, nil
}

type fakeProvider struct {
	createdAccounts []string
	transfers       map[string]string
	releaseErr      error
	accountStatus   AccountStatus
	statusErr       error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{transfers: make(map[string]string)}
}

func (f *fakeProvider) CreateAccount(ctx context.Context, email string) (string, error) {
	ref := fmt.Sprintf("acct_%d", len(f.createdAccounts)+1)
	f.createdAccounts = append(f.createdAccounts, ref)
	return ref, nil
}

func (f *fakeProvider) AccountStatus(ctx context.Context, accountRef string) (AccountStatus, error) {
	if f.statusErr != nil {
		return AccountStatus{}, f.statusErr
	}
	return f.accountStatus, nil
}

func (f *fakeProvider) OnboardingLink(ctx context.Context, accountRef string) (string, error) {
	return "https://onboarding.example/" + accountRef, nil
}

func (f *fakeProvider) ReleasePayout(ctx context.Context, req PayoutRequest) (string, error) {
	if f.releaseErr != nil {
		return "", f.releaseErr
	}
	if ref, ok := f.transfers[req.IdempotencyKey]; ok {
		return ref, nil
	}
	ref := fmt.Sprintf("tr_%d", len(f.transfers)+1)
	f.transfers[req.IdempotencyKey] = ref
	return ref, nil
}

type fakeNotifier struct {
	messages []notify.Message
}

func (f *fakeNotifier) Notify(ctx context.Context, msg notify.Message) {
	f.messages = append(f.messages, msg)
}

type fakeReceiptGenerator struct{}

func (fakeReceiptGenerator) Generate(booking model.Booking) ([]byte, error) {
	return []byte("%PDF-receipt"), nil
}

type fakePromotionExporter struct{}

func (fakePromotionExporter) Generate(promotions []model.TierPromotion) ([]byte, error) {
	return []byte("xlsx"), nil
}
