package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) GetAddress(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	var row struct {
		ID                 uuid.UUID
		UserID             uuid.UUID
		SquareMeters       *decimal.Decimal
		Slope              string
		TierCount          int
		VerificationStatus string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, user_id, square_meters, slope, tier_count, verification_status
		FROM addresses
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.Address{
		ID:                 row.ID,
		UserID:             row.UserID,
		SquareMeters:       row.SquareMeters,
		Slope:              model.Slope(row.Slope),
		TierCount:          row.TierCount,
		VerificationStatus: model.VerificationStatus(row.VerificationStatus),
	}, nil
}
