package postgres

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferralRepository struct {
	pool *pgxpool.Pool
}

var _ port.ReferralStoragePort = (*ReferralRepository)(nil)

func NewReferralRepository(pool *pgxpool.Pool) (*ReferralRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ReferralRepository{pool: pool}, nil
}

// AddReferral пользователь может быть приглашен только один раз
func (r *ReferralRepository) AddReferral(ctx context.Context, referral domain.Referral) error {
	const query = `
		INSERT INTO referrals (referrer_id, invited_id, invited_name, invited_photo)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (invited_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, referral.ReferrerID, referral.InvitedID, referral.InvitedName, referral.InvitedPhoto)
	if err != nil {
		return fmt.Errorf("failed to insert referral: %w", err)
	}

	if tag.RowsAffected() == 0 {
		contextkeys.LoggerFromContext(ctx).Debug("Referral already exists, ignored", port.Fields{
			"component":  "ReferralRepository",
			"invited_id": referral.InvitedID,
		})
	}
	return nil
}

// GetInvitedUsers новые приглашения первыми
func (r *ReferralRepository) GetInvitedUsers(ctx context.Context, referrerID int64) ([]domain.Referral, error) {
	const query = `
		SELECT referrer_id, invited_id, COALESCE(invited_name, ''), COALESCE(invited_photo, ''), created_at
		FROM referrals
		WHERE referrer_id = $1
		ORDER BY created_at DESC, invited_id DESC`

	rows, err := r.pool.Query(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invited users: %w", err)
	}
	defer rows.Close()

	invited := make([]domain.Referral, 0)
	for rows.Next() {
		var ref domain.Referral
		if err := rows.Scan(&ref.ReferrerID, &ref.InvitedID, &ref.InvitedName, &ref.InvitedPhoto, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		invited = append(invited, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrals: %w", err)
	}
	return invited, nil
}
