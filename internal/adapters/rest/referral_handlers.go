package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
)

type ReferralHandler struct {
	addReferralUC     usecases_port.AddReferralUseCase
	getInvitedUsersUC usecases_port.GetInvitedUsersUseCase
}

func NewReferralHandler(addReferralUC usecases_port.AddReferralUseCase, getInvitedUsersUC usecases_port.GetInvitedUsersUseCase) *ReferralHandler {
	return &ReferralHandler{addReferralUC: addReferralUC, getInvitedUsersUC: getInvitedUsersUC}
}

// AddReferral обрабатывает POST /api/referral
func (h *ReferralHandler) AddReferral(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddReferral"})

	var req AddReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"reason": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.ReferrerID == 0 || req.InvitedID == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Missing referrerId or invitedId")
		return
	}

	err := h.addReferralUC.Execute(r.Context(), domain.Referral{
		ReferrerID:   req.ReferrerID,
		InvitedID:    req.InvitedID,
		InvitedName:  req.InvitedName,
		InvitedPhoto: req.InvitedPhoto,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, "Invalid referral", err.Error())
			return
		}
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to add referral", err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// GetInvitedUsers обрабатывает GET /api/referral?referrer_id=
func (h *ReferralHandler) GetInvitedUsers(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetInvitedUsers"})

	raw := strings.TrimSpace(r.URL.Query().Get("referrer_id"))
	if raw == "" {
		WriteJSONError(w, http.StatusBadRequest, "Missing referrer_id")
		return
	}
	referrerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid referrer_id", err.Error())
		return
	}

	invited, err := h.getInvitedUsersUC.Execute(r.Context(), referrerID)
	if err != nil {
		logger.Error("Use case failed", err, port.Fields{"referrer_id": referrerID})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch invited users", err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, toInvitedUsersResponse(invited))
}
