package rest

import (
	"time"

	"catalog-service/internal/core/domain"
)

type AttributeResponse struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type ItemResponse struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	BaseName       string              `json:"base_name"`
	Description    string              `json:"description"`
	Image          string              `json:"image"`
	Lottie         string              `json:"lottie"`
	IsOnTelegram   bool                `json:"isOnTelegram"`
	IsOnBlockchain bool                `json:"isOnBlockchain"`
	Attributes     []AttributeResponse `json:"attributes"`
}

type ItemsPageResponse struct {
	Items      []ItemResponse `json:"items"`
	TotalItems int            `json:"totalItems"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

type AttributeStatResponse struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// AttributesResponse trait_type -> value -> {count, percentage}
type AttributesResponse map[string]map[string]AttributeStatResponse

type StatsResponse struct {
	TotalItems int `json:"totalItems"`
}

type CollectionDataPayload struct {
	GiftName   string         `json:"giftName"`
	Items      []ItemResponse `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
}

type CollectionDataResponse struct {
	CollectionData CollectionDataPayload `json:"collectionData"`
	Attributes     AttributesResponse    `json:"attributes"`
	Stats          StatsResponse         `json:"stats"`
}

type CollectionInfoResponse struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type ListExportsResponse struct {
	DB []CollectionInfoResponse `json:"db"`
}

// CheckFileResponse exists и db несут одно и то же значение
type CheckFileResponse struct {
	Exists bool `json:"exists"`
	DB     bool `json:"db"`
}

type AddReferralRequest struct {
	ReferrerID   int64  `json:"referrerId"`
	InvitedID    int64  `json:"invitedId"`
	InvitedName  string `json:"invitedName"`
	InvitedPhoto string `json:"invitedPhoto"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type InvitedUserResponse struct {
	InvitedID    int64     `json:"invited_id"`
	InvitedName  string    `json:"invited_name"`
	InvitedPhoto string    `json:"invited_photo"`
	CreatedAt    time.Time `json:"created_at"`
}

type InvitedUsersResponse struct {
	Invited []InvitedUserResponse `json:"invited"`
}

// --- маппинг domain -> DTO ---

func toItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		attrs := make([]AttributeResponse, len(item.Attributes))
		for j, a := range item.Attributes {
			attrs[j] = AttributeResponse{TraitType: a.TraitType, Value: a.Value}
		}
		out[i] = ItemResponse{
			ID:             item.ID,
			Name:           item.Name(),
			BaseName:       item.BaseName,
			Description:    item.Description,
			Image:          item.Image,
			Lottie:         item.Lottie,
			IsOnTelegram:   item.IsOnTelegram,
			IsOnBlockchain: item.IsOnBlockchain,
			Attributes:     attrs,
		}
	}
	return out
}

func toItemsPageResponse(page *domain.ItemsPage) ItemsPageResponse {
	return ItemsPageResponse{
		Items:      toItemResponses(page.Items),
		TotalItems: page.TotalItems,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
}

// toAttributesResponse nil превращается в пустой объект
func toAttributesResponse(dist domain.AttributeDistribution) AttributesResponse {
	out := make(AttributesResponse, len(dist))
	for trait, values := range dist {
		stats := make(map[string]AttributeStatResponse, len(values))
		for value, s := range values {
			stats[value] = AttributeStatResponse{Count: s.Count, Percentage: s.Percentage}
		}
		out[trait] = stats
	}
	return out
}

func toCollectionDataResponse(data *domain.CollectionData) CollectionDataResponse {
	page := toItemsPageResponse(data.Page)
	return CollectionDataResponse{
		CollectionData: CollectionDataPayload{
			GiftName:   data.GiftName,
			Items:      page.Items,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
			Page:       page.Page,
		},
		Attributes: toAttributesResponse(data.Attributes),
		Stats:      StatsResponse{TotalItems: data.Stats.TotalItems},
	}
}

func toInvitedUsersResponse(referrals []domain.Referral) InvitedUsersResponse {
	out := InvitedUsersResponse{Invited: make([]InvitedUserResponse, len(referrals))}
	for i, r := range referrals {
		out.Invited[i] = InvitedUserResponse{
			InvitedID:    r.InvitedID,
			InvitedName:  r.InvitedName,
			InvitedPhoto: r.InvitedPhoto,
			CreatedAt:    r.CreatedAt,
		}
	}
	return out
}
