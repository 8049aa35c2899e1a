package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type ReferralStoragePort interface {
	// AddReferral повторное приглашение того же пользователя игнорируется
	AddReferral(ctx context.Context, referral domain.Referral) error
	GetInvitedUsers(ctx context.Context, referrerID int64) ([]domain.Referral, error)
}
