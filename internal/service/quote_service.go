package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
	"github.com/nurpe/mowops-settlement/internal/pricing"
)

type QuoteService struct {
	pricingStore PricingStore
	addresses    AddressStore
}

type QuoteInput struct {
	AddressID        uuid.UUID
	ScheduledDate    time.Time
	GrassLength      model.GrassLength
	ClippingsRemoval bool
	Principal        model.Principal
}

type QuoteResult struct {
	Breakdown     pricing.Breakdown
	IsPreliminary bool
}

func NewQuoteService(pricingStore PricingStore, addresses AddressStore) *QuoteService {
	return &QuoteService{
		pricingStore: pricingStore,
		addresses:    addresses,
	}
}

func (s *QuoteService) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.AddressID == uuid.Nil {
		return nil, fmt.Errorf("%w: address_id is required", ErrInvalidInput)
	}
	if input.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduled_date is required", ErrInvalidInput)
	}
	switch input.GrassLength {
	case model.GrassShort, model.GrassMedium, model.GrassLong, model.GrassOvergrown:
	default:
		return nil, fmt.Errorf("%w: invalid grass_length", ErrInvalidInput)
	}

	address, err := s.addresses.GetAddress(ctx, input.AddressID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// An address owned by someone else reads as absent.
	if address.UserID != input.Principal.UserID {
		return nil, ErrNotFound
	}

	if address.VerificationStatus == model.VerificationRejected {
		return nil, fmt.Errorf("%w: address was rejected during verification", ErrInvalidInput)
	}
	if address.SquareMeters == nil {
		return nil, fmt.Errorf("%w: address has no measured area", ErrInvalidInput)
	}

	settings, err := s.pricingStore.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.Calculate(pricing.Input{
		SquareMeters:     *address.SquareMeters,
		Slope:            address.Slope,
		TierCount:        address.TierCount,
		GrassLength:      input.GrassLength,
		ClippingsRemoval: input.ClippingsRemoval,
		ScheduledDate:    input.ScheduledDate,
		Settings:         pricing.NewSnapshot(settings),
	})

	return &QuoteResult{
		Breakdown:     breakdown,
		IsPreliminary: address.VerificationStatus != model.VerificationVerified,
	}, nil
}
