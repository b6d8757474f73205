package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type ContractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

const contractorColumns = `
	id,
	user_id,
	tier,
	payment_account_ref,
	onboarding_complete,
	payouts_enabled,
	average_rating,
	total_ratings_count,
	is_active,
	approval_status,
	email
`

func (r *ContractorRepository) GetContractor(ctx context.Context, id uuid.UUID) (*model.Contractor, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *ContractorRepository) GetContractorByUserID(ctx context.Context, userID uuid.UUID) (*model.Contractor, error) {
	return r.getOne(ctx, `WHERE user_id = ?`, userID)
}

func (r *ContractorRepository) GetContractorByAccountRef(ctx context.Context, accountRef string) (*model.Contractor, error) {
	return r.getOne(ctx, `WHERE payment_account_ref = ?`, accountRef)
}

func (r *ContractorRepository) getOne(ctx context.Context, where string, arg interface{}) (*model.Contractor, error) {
	var contractor model.Contractor
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractorColumns+`
		FROM contractors
		`+where+`
		LIMIT 1
	`, arg).Scan(&contractor).Error
	if err != nil {
		return nil, err
	}
	if contractor.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contractor, nil
}

func (r *ContractorRepository) SetPaymentAccount(ctx context.Context, id uuid.UUID, accountRef string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contractors
		SET payment_account_ref = ?
		WHERE id = ?
	`, accountRef, id).Error
}

func (r *ContractorRepository) UpdateAccountFlags(ctx context.Context, accountRef string, onboardingComplete, payoutsEnabled bool) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contractors
		SET onboarding_complete = ?, payouts_enabled = ?
		WHERE payment_account_ref = ?
	`, onboardingComplete, payoutsEnabled, accountRef).Error
}

// ListPromotable returns active approved contractors still below premium.
func (r *ContractorRepository) ListPromotable(ctx context.Context) ([]model.Contractor, error) {
	var contractors []model.Contractor
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + contractorColumns + `
		FROM contractors
		WHERE is_active = TRUE
			AND approval_status = 'approved'
			AND tier IN ('probation', 'standard')
		ORDER BY id
	`).Scan(&contractors).Error
	if err != nil {
		return nil, err
	}
	return contractors, nil
}

// Stats gathers the tier-evaluation aggregate in a single round trip:
// completed bookings, disputes among them, and the review aggregate.
func (r *ContractorRepository) Stats(ctx context.Context, id uuid.UUID) (*model.ContractorStats, error) {
	var stats model.ContractorStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*)
				FROM bookings b
				WHERE b.contractor_id = ? AND b.status = 'completed') AS completed_jobs,
			(SELECT COUNT(*)
				FROM disputes d
				JOIN bookings b ON b.id = d.booking_id
				WHERE b.contractor_id = ? AND b.status = 'completed') AS disputes,
			(SELECT COUNT(*)
				FROM reviews r WHERE r.contractor_id = ?) AS review_count,
			(SELECT COALESCE(AVG(r.rating), 0)
				FROM reviews r WHERE r.contractor_id = ?) AS average_rating
	`, id, id, id, id).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *ContractorRepository) PlatformCompletedCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM bookings WHERE status = 'completed'
	`).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Promote advances the tier only when the contractor is still at the
// expected one, so re-runs and concurrent runs cannot double-promote.
func (r *ContractorRepository) Promote(ctx context.Context, id uuid.UUID, from, to model.Tier) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contractors
		SET tier = ?
		WHERE id = ? AND tier = ?
	`, to, id, from)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ContractorRepository) RecordPromotion(ctx context.Context, contractorID uuid.UUID, from, to model.Tier) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO tier_promotions (contractor_id, from_tier, to_tier)
		VALUES (?, ?, ?)
	`, contractorID, from, to).Error
}

func (r *ContractorRepository) ListPromotions(ctx context.Context) ([]model.TierPromotion, error) {
	var rows []struct {
		ID           uuid.UUID
		ContractorID uuid.UUID
		FromTier     string
		ToTier       string
		CreatedAt    time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, contractor_id, from_tier, to_tier, created_at
		FROM tier_promotions
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	promotions := make([]model.TierPromotion, 0, len(rows))
	for _, row := range rows {
		promotions = append(promotions, model.TierPromotion{
			ID:           row.ID,
			ContractorID: row.ContractorID,
			FromTier:     model.Tier(row.FromTier),
			ToTier:       model.Tier(row.ToTier),
			CreatedAt:    row.CreatedAt,
		})
	}
	return promotions, nil
}
