package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/mowops-settlement/internal/model"
)

func quoteFixtures() (*fakePricingStore, *fakeAddressStore, model.Principal, *model.Address) {
	area := decimal.RequireFromString("300")
	owner := model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	address := &model.Address{
		ID:                 uuid.New(),
		UserID:             owner.UserID,
		SquareMeters:       &area,
		Slope:              model.SlopeMild,
		TierCount:          1,
		VerificationStatus: model.VerificationVerified,
	}

	pricing := &fakePricingStore{settings: []model.PricingSetting{
		{Key: model.SettingBasePrice, Value: decimal.RequireFromString("45")},
		{Key: model.SettingPricePerSqm, Value: decimal.RequireFromString("0.20")},
		{Key: model.SettingSlopeMildMultiplier, Value: decimal.RequireFromString("1.1")},
		{Key: model.SettingGrassMediumMultiplier, Value: decimal.RequireFromString("1.2")},
	}}
	addresses := &fakeAddressStore{addresses: map[uuid.UUID]*model.Address{address.ID: address}}
	return pricing, addresses, owner, address
}

func TestQuoteVerifiedAddress(t *testing.T) {
	pricing, addresses, owner, address := quoteFixtures()
	svc := NewQuoteService(pricing, addresses)

	result, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     address.ID,
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), // Tuesday
		GrassLength:   model.GrassMedium,
		Principal:     owner,
	})
	require.NoError(t, err)

	assert.False(t, result.IsPreliminary)
	assert.Equal(t, "138.60", result.Breakdown.Total.StringFixed(2))
}

func TestQuotePendingAddressIsPreliminary(t *testing.T) {
	pricing, addresses, owner, address := quoteFixtures()
	address.VerificationStatus = model.VerificationPending
	svc := NewQuoteService(pricing, addresses)

	result, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     address.ID,
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		GrassLength:   model.GrassShort,
		Principal:     owner,
	})
	require.NoError(t, err)
	assert.True(t, result.IsPreliminary)
}

func TestQuoteRejectedAddress(t *testing.T) {
	pricing, addresses, owner, address := quoteFixtures()
	address.VerificationStatus = model.VerificationRejected
	svc := NewQuoteService(pricing, addresses)

	_, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     address.ID,
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		GrassLength:   model.GrassShort,
		Principal:     owner,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteWithoutMeasuredArea(t *testing.T) {
	pricing, addresses, owner, address := quoteFixtures()
	address.SquareMeters = nil
	svc := NewQuoteService(pricing, addresses)

	_, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     address.ID,
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		GrassLength:   model.GrassShort,
		Principal:     owner,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteForeignAddressReadsAsNotFound(t *testing.T) {
	pricing, addresses, _, address := quoteFixtures()
	svc := NewQuoteService(pricing, addresses)

	_, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     address.ID,
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		GrassLength:   model.GrassShort,
		Principal:     model.Principal{UserID: uuid.New(), Role: model.RoleCustomer},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuoteUnknownAddress(t *testing.T) {
	pricing, addresses, owner, _ := quoteFixtures()
	svc := NewQuoteService(pricing, addresses)

	_, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     uuid.New(),
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		GrassLength:   model.GrassShort,
		Principal:     owner,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuoteRejectsUnknownGrassLength(t *testing.T) {
	pricing, addresses, owner, address := quoteFixtures()
	svc := NewQuoteService(pricing, addresses)

	_, err := svc.Quote(context.Background(), QuoteInput{
		AddressID:     address.ID,
		ScheduledDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		GrassLength:   model.GrassLength("jungle"),
		Principal:     owner,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
