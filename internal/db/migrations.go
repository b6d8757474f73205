package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'booking_status') THEN
			CREATE TYPE booking_status AS ENUM (
				'pending_payment',
				'confirmed',
				'in_progress',
				'completed_pending_verification',
				'completed',
				'cancelled'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payout_status') THEN
			CREATE TYPE payout_status AS ENUM ('pending', 'processing', 'released', 'failed');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contractor_tier') THEN
			CREATE TYPE contractor_tier AS ENUM ('probation', 'standard', 'premium');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'address_slope') THEN
			CREATE TYPE address_slope AS ENUM ('flat', 'mild', 'steep');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'verification_status') THEN
			CREATE TYPE verification_status AS ENUM ('pending', 'verified', 'rejected');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS pricing_settings (
		key VARCHAR(64) PRIMARY KEY,
		value NUMERIC(18,4) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL,
		square_meters NUMERIC(10,2),
		slope address_slope NOT NULL DEFAULT 'flat',
		tier_count INT NOT NULL DEFAULT 1 CHECK (tier_count >= 1),
		verification_status verification_status NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contractors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL UNIQUE,
		tier contractor_tier NOT NULL DEFAULT 'probation',
		payment_account_ref VARCHAR(128),
		onboarding_complete BOOLEAN NOT NULL DEFAULT FALSE,
		payouts_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		average_rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		total_ratings_count INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		approval_status VARCHAR(16) NOT NULL DEFAULT 'pending',
		email VARCHAR(256) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL,
		contractor_id UUID REFERENCES contractors(id),
		address_id UUID NOT NULL REFERENCES addresses(id),
		status booking_status NOT NULL DEFAULT 'pending_payment',
		scheduled_date DATE NOT NULL,
		grass_length VARCHAR(16) NOT NULL DEFAULT 'short',
		clippings_removal BOOLEAN NOT NULL DEFAULT FALSE,
		total_price NUMERIC(18,2) NOT NULL,
		payment_intent_ref VARCHAR(128) NOT NULL DEFAULT '',
		payout_status payout_status NOT NULL DEFAULT 'pending',
		payout_ref VARCHAR(128),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_contractor_id ON bookings (contractor_id) WHERE contractor_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status);`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_payout_status ON bookings (payout_status) WHERE payout_status IN ('pending', 'failed');`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contractor_id UUID NOT NULL REFERENCES contractors(id),
		booking_id UUID NOT NULL REFERENCES bookings(id),
		user_id UUID NOT NULL,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		contractor_response TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_reviews_contractor_booking ON reviews (contractor_id, booking_id);`,
	`CREATE TABLE IF NOT EXISTS disputes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		booking_id UUID NOT NULL REFERENCES bookings(id),
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_disputes_booking_id ON disputes (booking_id);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL,
		kind VARCHAR(32) NOT NULL,
		title VARCHAR(256) NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id);`,
	`CREATE TABLE IF NOT EXISTS tier_promotions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contractor_id UUID NOT NULL REFERENCES contractors(id),
		from_tier contractor_tier NOT NULL,
		to_tier contractor_tier NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tier_promotions_contractor_id ON tier_promotions (contractor_id);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'bookings' AND column_name = 'payout_ref') THEN
			ALTER TABLE bookings ADD COLUMN payout_ref VARCHAR(128);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'contractors' AND column_name = 'payouts_enabled') THEN
			ALTER TABLE contractors ADD COLUMN payouts_enabled BOOLEAN NOT NULL DEFAULT FALSE;
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
