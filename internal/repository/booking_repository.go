package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

// ErrDuplicateReview reports a violated (contractor_id, booking_id) unique
// index on a review insert.
var ErrDuplicateReview = gorm.ErrDuplicatedKey

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var row struct {
		ID               uuid.UUID
		UserID           uuid.UUID
		ContractorID     *uuid.UUID
		AddressID        uuid.UUID
		Status           string
		ScheduledDate    time.Time
		GrassLength      string
		ClippingsRemoval bool
		TotalPrice       decimal.Decimal
		PaymentIntentRef string
		PayoutStatus     string
		PayoutRef        *string
		Disputed         bool
		CreatedAt        time.Time
		UpdatedAt        time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.id,
			b.user_id,
			b.contractor_id,
			b.address_id,
			b.status,
			b.scheduled_date,
			b.grass_length,
			b.clippings_removal,
			b.total_price,
			b.payment_intent_ref,
			b.payout_status,
			b.payout_ref,
			EXISTS (SELECT 1 FROM disputes d WHERE d.booking_id = b.id) AS disputed,
			b.created_at,
			b.updated_at
		FROM bookings b
		WHERE b.id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.Booking{
		ID:               row.ID,
		UserID:           row.UserID,
		ContractorID:     row.ContractorID,
		AddressID:        row.AddressID,
		Status:           model.BookingStatus(row.Status),
		ScheduledDate:    row.ScheduledDate,
		GrassLength:      model.GrassLength(row.GrassLength),
		ClippingsRemoval: row.ClippingsRemoval,
		TotalPrice:       row.TotalPrice,
		PaymentIntentRef: row.PaymentIntentRef,
		PayoutStatus:     model.PayoutStatus(row.PayoutStatus),
		PayoutRef:        row.PayoutRef,
		Disputed:         row.Disputed,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

// TransitionStatus moves a booking from one exact status to another. The
// WHERE clause carries the precondition; false means the booking was not in
// the expected status at update time.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE bookings
		SET status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, to, id, from)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClaimPayout atomically marks a pending or failed payout as processing.
// Exactly one caller wins under concurrent replay.
func (r *BookingRepository) ClaimPayout(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE bookings
		SET payout_status = 'processing', updated_at = NOW()
		WHERE id = ? AND payout_status IN ('pending', 'failed')
	`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *BookingRepository) MarkPayoutReleased(ctx context.Context, id uuid.UUID, payoutRef string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE bookings
		SET payout_status = 'released', payout_ref = ?, updated_at = NOW()
		WHERE id = ?
	`, payoutRef, id).Error
}

func (r *BookingRepository) MarkPayoutFailed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE bookings
		SET payout_status = 'failed', updated_at = NOW()
		WHERE id = ?
	`, id).Error
}

// CreateReview inserts the review and folds the rating into the contractor
// aggregate in one transaction.
func (r *BookingRepository) CreateReview(ctx context.Context, review model.Review) (*model.Review, error) {
	var saved model.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO reviews (contractor_id, booking_id, user_id, rating, comment)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id, contractor_id, booking_id, user_id, rating, comment, contractor_response, created_at
		`, review.ContractorID, review.BookingID, review.UserID, review.Rating, review.Comment).Scan(&saved).Error
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateReview
			}
			return err
		}

		return tx.Exec(`
			UPDATE contractors
			SET
				average_rating = ROUND((average_rating * total_ratings_count + ?) / (total_ratings_count + 1), 2),
				total_ratings_count = total_ratings_count + 1
			WHERE id = ?
		`, review.Rating, review.ContractorID).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}
