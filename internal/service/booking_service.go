package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
	"github.com/nurpe/mowops-settlement/internal/notify"
	"github.com/nurpe/mowops-settlement/internal/repository"
)

// BookingService owns the booking lifecycle. Every transition is a
// conditional update keyed on the expected current status; a transition that
// finds the booking elsewhere reports a conflict.
type BookingService struct {
	bookings    BookingStore
	contractors ContractorStore
	payouts     *PayoutService
	notifier    NotificationSender
	receipts    ReceiptGenerator
	log         zerolog.Logger
}

func NewBookingService(
	bookings BookingStore,
	contractors ContractorStore,
	payouts *PayoutService,
	notifier NotificationSender,
	receipts ReceiptGenerator,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:    bookings,
		contractors: contractors,
		payouts:     payouts,
		notifier:    notifier,
		receipts:    receipts,
		log:         log,
	}
}

type ApproveInput struct {
	BookingID uuid.UUID
	Rating    *int
	Comment   *string
	Principal model.Principal
}

// Approve is the customer's terminal confirmation: release the payout, move
// the booking to completed, store the optional review, notify the
// contractor. A payout failure is logged and does not block completion; the
// booking keeps a retryable payout_status for the out-of-band sweep.
func (s *BookingService) Approve(ctx context.Context, input ApproveInput) error {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, input.BookingID)
	if err != nil {
		return err
	}
	if booking.UserID != input.Principal.UserID {
		return ErrPermissionDenied
	}
	if booking.Status != model.BookingStatusPendingVerification {
		return fmt.Errorf("%w: booking is %s, expected %s",
			ErrConflict, booking.Status, model.BookingStatusPendingVerification)
	}

	if _, err := s.payouts.Release(ctx, booking); err != nil {
		s.log.Warn().
			Err(err).
			Str("booking_id", booking.ID.String()).
			Msg("payout release failed, completing booking anyway")
	}

	moved, err := s.bookings.TransitionStatus(ctx, booking.ID,
		model.BookingStatusPendingVerification, model.BookingStatusCompleted)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: booking left %s concurrently",
			ErrConflict, model.BookingStatusPendingVerification)
	}

	var reviewErr error
	if input.Rating != nil && booking.ContractorID != nil {
		_, err := s.bookings.CreateReview(ctx, model.Review{
			ContractorID: *booking.ContractorID,
			BookingID:    booking.ID,
			UserID:       input.Principal.UserID,
			Rating:       *input.Rating,
			Comment:      input.Comment,
		})
		if errors.Is(err, repository.ErrDuplicateReview) {
			reviewErr = fmt.Errorf("%w: a review already exists for this booking", ErrAlreadyReviewed)
		} else if err != nil {
			reviewErr = err
		}
	}

	s.notifyContractor(ctx, booking)

	return reviewErr
}

func (s *BookingService) notifyContractor(ctx context.Context, booking *model.Booking) {
	if booking.ContractorID == nil {
		return
	}
	contractor, err := s.contractors.GetContractor(ctx, *booking.ContractorID)
	if err != nil {
		s.log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("contractor lookup for notification failed")
		return
	}
	s.notifier.Notify(ctx, notify.Message{
		UserID: contractor.UserID,
		Email:  contractor.Email,
		Kind:   model.NotificationJobApproved,
		Title:  "Job approved",
		Body:   fmt.Sprintf("The customer approved your work on booking %s. Your payout is on its way.", booking.ID),
	})
}

type TransitionInput struct {
	BookingID uuid.UUID
	Principal model.Principal
}

// Start moves a confirmed booking to in_progress. Contractor action.
func (s *BookingService) Start(ctx context.Context, input TransitionInput) error {
	return s.contractorTransition(ctx, input, model.BookingStatusConfirmed, model.BookingStatusInProgress)
}

// Finish moves an in_progress booking to completed_pending_verification.
// Contractor action.
func (s *BookingService) Finish(ctx context.Context, input TransitionInput) error {
	return s.contractorTransition(ctx, input, model.BookingStatusInProgress, model.BookingStatusPendingVerification)
}

func (s *BookingService) contractorTransition(ctx context.Context, input TransitionInput, from, to model.BookingStatus) error {
	booking, err := s.getBooking(ctx, input.BookingID)
	if err != nil {
		return err
	}

	contractor, err := s.contractors.GetContractorByUserID(ctx, input.Principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrPermissionDenied
		}
		return err
	}
	if booking.ContractorID == nil || *booking.ContractorID != contractor.ID {
		return ErrPermissionDenied
	}

	if booking.Status != from {
		return fmt.Errorf("%w: booking is %s, expected %s", ErrConflict, booking.Status, from)
	}

	moved, err := s.bookings.TransitionStatus(ctx, booking.ID, from, to)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: booking left %s concurrently", ErrConflict, from)
	}
	return nil
}

// Cancel moves any non-terminal booking to cancelled. Allowed for the
// booking's customer and its assigned contractor.
func (s *BookingService) Cancel(ctx context.Context, input TransitionInput) error {
	booking, err := s.getBooking(ctx, input.BookingID)
	if err != nil {
		return err
	}

	if booking.UserID != input.Principal.UserID {
		contractor, err := s.contractors.GetContractorByUserID(ctx, input.Principal.UserID)
		if err != nil || booking.ContractorID == nil || *booking.ContractorID != contractor.ID {
			return ErrPermissionDenied
		}
	}

	if booking.Status.Terminal() {
		return fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
	}

	moved, err := s.bookings.TransitionStatus(ctx, booking.ID, booking.Status, model.BookingStatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: booking left %s concurrently", ErrConflict, booking.Status)
	}
	return nil
}

type ReceiptResult struct {
	FileName string
	Content  []byte
}

// Receipt renders the settlement receipt for a completed booking visible to
// the caller.
func (s *BookingService) Receipt(ctx context.Context, bookingID uuid.UUID, principal model.Principal) (*ReceiptResult, error) {
	booking, err := s.getForReceipt(ctx, bookingID, principal)
	if err != nil {
		return nil, err
	}

	content, err := s.receipts.Generate(*booking)
	if err != nil {
		return nil, err
	}

	return &ReceiptResult{
		FileName: fmt.Sprintf("receipt-%s.pdf", booking.ID),
		Content:  content,
	}, nil
}

func (s *BookingService) getForReceipt(ctx context.Context, bookingID uuid.UUID, principal model.Principal) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != principal.UserID && !principal.IsAdmin() {
		contractor, err := s.contractors.GetContractorByUserID(ctx, principal.UserID)
		if err != nil || booking.ContractorID == nil || *booking.ContractorID != contractor.ID {
			return nil, ErrPermissionDenied
		}
	}

	if booking.Status != model.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: receipt is only available for completed bookings", ErrConflict)
	}
	return booking, nil
}

func (s *BookingService) getBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}
