package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS identities (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255),
		full_name VARCHAR(255),
		provider VARCHAR(50) NOT NULL DEFAULT 'email',
		provider_id VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		identity_id UUID NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Profiles are keyed by the identity id but carry no foreign key: identities
	// issued by Firebase never get a row in identities.
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		full_name VARCHAR(255),
		username VARCHAR(100) UNIQUE,
		avatar_url VARCHAR(500),
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(100) NOT NULL,
		goal_amount NUMERIC(14, 2) NOT NULL CHECK (goal_amount > 0),
		current_amount NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (current_amount >= 0),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'rejected')),
		end_date TIMESTAMP WITH TIME ZONE NOT NULL,
		image_url VARCHAR(500),
		creator_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		donations_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS donations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		donor_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		amount NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
		payment_status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (payment_status IN ('pending', 'completed')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS testimonials (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		role VARCHAR(100),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_identity_id ON refresh_tokens(identity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_status_created_at ON campaigns(status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_creator_id ON campaigns(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_campaign_id ON donations(campaign_id)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_testimonials_status_featured ON testimonials(status, is_featured)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
