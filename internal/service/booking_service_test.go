package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type bookingFixture struct {
	bookings    *fakeBookingStore
	contractors *fakeContractorStore
	provider    *fakeProvider
	notifier    *fakeNotifier
	svc         *BookingService
	booking     *model.Booking
	customer    model.Principal
	contractor  *model.Contractor
}

func newBookingFixture() *bookingFixture {
	accountRef := "acct_live"
	contractor := &model.Contractor{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Tier:              model.TierStandard,
		PaymentAccountRef: &accountRef,
		PayoutsEnabled:    true,
		IsActive:          true,
		ApprovalStatus:    model.ApprovalApproved,
		Email:             "pro@example.com",
	}
	customer := model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	booking := &model.Booking{
		ID:           uuid.New(),
		UserID:       customer.UserID,
		ContractorID: &contractor.ID,
		Status:       model.BookingStatusPendingVerification,
		TotalPrice:   decimal.RequireFromString("138.60"),
		PayoutStatus: model.PayoutStatusPending,
	}

	bookings := newFakeBookingStore(booking)
	contractors := newFakeContractorStore(contractor)
	provider := newFakeProvider()
	notifier := &fakeNotifier{}

	payouts := NewPayoutService(bookings, contractors, provider, "usd", zerolog.Nop())
	svc := NewBookingService(bookings, contractors, payouts, notifier, fakeReceiptGenerator{}, zerolog.Nop())

	return &bookingFixture{
		bookings:    bookings,
		contractors: contractors,
		provider:    provider,
		notifier:    notifier,
		svc:         svc,
		booking:     booking,
		customer:    customer,
		contractor:  contractor,
	}
}

func intPtr(v int) *int { return &v }

func TestApproveCompletesBookingAndReleasesPayout(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Rating:    intPtr(5),
		Principal: f.customer,
	})
	require.NoError(t, err)

	stored, err := f.bookings.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, stored.Status)
	assert.Equal(t, model.PayoutStatusReleased, stored.PayoutStatus)
	assert.Len(t, f.provider.transfers, 1)
	assert.Len(t, f.bookings.reviews, 1)

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, f.contractor.UserID, f.notifier.messages[0].UserID)
	assert.Equal(t, model.NotificationJobApproved, f.notifier.messages[0].Kind)
}

func TestApproveWithoutRatingSkipsReview(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Principal: f.customer,
	})
	require.NoError(t, err)
	assert.Empty(t, f.bookings.reviews)
}

func TestApproveByWrongUser(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Principal: model.Principal{UserID: uuid.New(), Role: model.RoleCustomer},
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	stored, getErr := f.bookings.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.BookingStatusPendingVerification, stored.Status)
}

func TestApproveWrongStatus(t *testing.T) {
	f := newBookingFixture()
	f.booking.Status = model.BookingStatusInProgress

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Principal: f.customer,
	})
	assert.ErrorIs(t, err, ErrConflict)

	stored, getErr := f.bookings.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.BookingStatusInProgress, stored.Status, "status must be left unchanged")
	assert.Empty(t, f.provider.transfers)
}

func TestApproveInvalidRating(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Rating:    intPtr(6),
		Principal: f.customer,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApproveUnknownBooking(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: uuid.New(),
		Principal: f.customer,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveReplayWithDuplicateReview(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Rating:    intPtr(4),
		Principal: f.customer,
	})
	require.NoError(t, err)

	// Replay: reset only the status so the transition precondition holds
	// again; the review row and payout survive from the first pass.
	f.booking.Status = model.BookingStatusPendingVerification

	err = f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Rating:    intPtr(4),
		Principal: f.customer,
	})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	stored, getErr := f.bookings.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.BookingStatusCompleted, stored.Status,
		"duplicate review must not abort the completion")
	assert.Len(t, f.bookings.reviews, 1)
	assert.Len(t, f.provider.transfers, 1)
}

func TestApprovePayoutFailureStillCompletes(t *testing.T) {
	f := newBookingFixture()
	f.provider.releaseErr = errors.New("stripe is down")

	err := f.svc.Approve(context.Background(), ApproveInput{
		BookingID: f.booking.ID,
		Principal: f.customer,
	})
	require.NoError(t, err)

	stored, getErr := f.bookings.GetBooking(context.Background(), f.booking.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.BookingStatusCompleted, stored.Status)
	assert.Equal(t, model.PayoutStatusFailed, stored.PayoutStatus,
		"payout stays retryable for the out-of-band sweep")
}

func TestContractorStartAndFinish(t *testing.T) {
	f := newBookingFixture()
	f.booking.Status = model.BookingStatusConfirmed
	pro := model.Principal{UserID: f.contractor.UserID, Role: model.RoleContractor}

	err := f.svc.Start(context.Background(), TransitionInput{BookingID: f.booking.ID, Principal: pro})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusInProgress, f.booking.Status)

	err = f.svc.Finish(context.Background(), TransitionInput{BookingID: f.booking.ID, Principal: pro})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPendingVerification, f.booking.Status)
}

func TestStartByUnassignedContractor(t *testing.T) {
	f := newBookingFixture()
	f.booking.Status = model.BookingStatusConfirmed

	other := &model.Contractor{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Tier:           model.TierProbation,
		IsActive:       true,
		ApprovalStatus: model.ApprovalApproved,
	}
	f.contractors.contractors[other.ID] = other

	err := f.svc.Start(context.Background(), TransitionInput{
		BookingID: f.booking.ID,
		Principal: model.Principal{UserID: other.UserID, Role: model.RoleContractor},
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCancelFromNonTerminalState(t *testing.T) {
	f := newBookingFixture()
	f.booking.Status = model.BookingStatusConfirmed

	err := f.svc.Cancel(context.Background(), TransitionInput{
		BookingID: f.booking.ID,
		Principal: f.customer,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, f.booking.Status)
}

func TestCancelTerminalBooking(t *testing.T) {
	f := newBookingFixture()
	f.booking.Status = model.BookingStatusCompleted

	err := f.svc.Cancel(context.Background(), TransitionInput{
		BookingID: f.booking.ID,
		Principal: f.customer,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReceiptRequiresCompletedBooking(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.Receipt(context.Background(), f.booking.ID, f.customer)
	assert.ErrorIs(t, err, ErrConflict)

	f.booking.Status = model.BookingStatusCompleted
	result, err := f.svc.Receipt(context.Background(), f.booking.ID, f.customer)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Content)
	assert.Contains(t, result.FileName, f.booking.ID.String())
}

func TestReceiptHiddenFromStrangers(t *testing.T) {
	f := newBookingFixture()
	f.booking.Status = model.BookingStatusCompleted

	_, err := f.svc.Receipt(context.Background(), f.booking.ID,
		model.Principal{UserID: uuid.New(), Role: model.RoleCustomer})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
