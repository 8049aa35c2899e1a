package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetInvitedUsersUseCase struct {
	storage port.ReferralStoragePort
}

func NewGetInvitedUsersUseCase(storage port.ReferralStoragePort) *GetInvitedUsersUseCase {
	return &GetInvitedUsersUseCase{storage: storage}
}

func (uc *GetInvitedUsersUseCase) Execute(ctx context.Context, referrerID int64) ([]domain.Referral, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetInvitedUsers",
		"referrer_id": referrerID,
	})

	if referrerID == 0 {
		return nil, fmt.Errorf("%w: referrer id is required", domain.ErrValidation)
	}

	invited, err := uc.storage.GetInvitedUsers(ctx, referrerID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{"invited": len(invited)})
	return invited, nil
}
