package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type AddReferralUseCase struct {
	storage port.ReferralStoragePort
}

func NewAddReferralUseCase(storage port.ReferralStoragePort) *AddReferralUseCase {
	return &AddReferralUseCase{storage: storage}
}

func (uc *AddReferralUseCase) Execute(ctx context.Context, referral domain.Referral) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "AddReferral",
		"referrer_id": referral.ReferrerID,
		"invited_id":  referral.InvitedID,
	})

	if referral.ReferrerID == 0 || referral.InvitedID == 0 {
		return fmt.Errorf("%w: referrer and invited ids are required", domain.ErrValidation)
	}
	if referral.ReferrerID == referral.InvitedID {
		return fmt.Errorf("%w: user cannot invite themselves", domain.ErrValidation)
	}

	if err := uc.storage.AddReferral(ctx, referral); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
