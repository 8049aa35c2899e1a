package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type AddReferralUseCase interface {
	Execute(ctx context.Context, referral domain.Referral) error
}

type GetInvitedUsersUseCase interface {
	Execute(ctx context.Context, referrerID int64) ([]domain.Referral, error)
}
