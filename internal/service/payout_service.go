package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

// PayoutService releases held funds to the performing contractor. Release is
// idempotent per booking: the provider call carries a booking-derived
// idempotency key and an already-released payout reports success with the
// stored reference.
type PayoutService struct {
	bookings    BookingStore
	contractors ContractorStore
	provider    PaymentAccountProvider
	currency    string
	log         zerolog.Logger
}

type PayoutResult struct {
	Released  bool
	PayoutRef string
}

func NewPayoutService(
	bookings BookingStore,
	contractors ContractorStore,
	provider PaymentAccountProvider,
	currency string,
	log zerolog.Logger,
) *PayoutService {
	return &PayoutService{
		bookings:    bookings,
		contractors: contractors,
		provider:    provider,
		currency:    currency,
		log:         log,
	}
}

func (s *PayoutService) Release(ctx context.Context, booking *model.Booking) (*PayoutResult, error) {
	if booking.PayoutStatus == model.PayoutStatusReleased {
		ref := ""
		if booking.PayoutRef != nil {
			ref = *booking.PayoutRef
		}
		return &PayoutResult{Released: true, PayoutRef: ref}, nil
	}

	if booking.ContractorID == nil {
		return nil, fmt.Errorf("%w: booking has no contractor", ErrConflict)
	}

	contractor, err := s.contractors.GetContractor(ctx, *booking.ContractorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if contractor.PaymentAccountRef == nil {
		return nil, fmt.Errorf("%w: contractor has no payment account", ErrExternalService)
	}
	if !contractor.PayoutsEnabled {
		return nil, fmt.Errorf("%w: contractor payouts are not enabled", ErrExternalService)
	}

	claimed, err := s.bookings.ClaimPayout(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Either a concurrent release is in flight or one just finished.
		// The idempotency key makes the provider call safe either way.
		current, err := s.bookings.GetBooking(ctx, booking.ID)
		if err == nil && current.PayoutStatus == model.PayoutStatusReleased {
			ref := ""
			if current.PayoutRef != nil {
				ref = *current.PayoutRef
			}
			return &PayoutResult{Released: true, PayoutRef: ref}, nil
		}
	}

	payoutRef, err := s.provider.ReleasePayout(ctx, PayoutRequest{
		AccountRef:     *contractor.PaymentAccountRef,
		Amount:         booking.TotalPrice,
		Currency:       s.currency,
		IdempotencyKey: "payout-" + booking.ID.String(),
		BookingID:      booking.ID,
	})
	if err != nil {
		if markErr := s.bookings.MarkPayoutFailed(ctx, booking.ID); markErr != nil {
			s.log.Error().Err(markErr).Str("booking_id", booking.ID.String()).Msg("failed to record payout failure")
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	if err := s.bookings.MarkPayoutReleased(ctx, booking.ID, payoutRef); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID.String()).
		Str("payout_ref", payoutRef).
		Msg("payout released")

	return &PayoutResult{Released: true, PayoutRef: payoutRef}, nil
}
