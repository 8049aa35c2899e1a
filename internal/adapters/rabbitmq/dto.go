package rabbitmq

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"catalog-service/internal/core/domain"
)

// IncomingAttributeDTO value может прийти строкой, числом или bool
type IncomingAttributeDTO struct {
	TraitType string          `json:"trait_type"`
	Value     json.RawMessage `json:"value"`
}

// GiftItemImportedDTO тело события GiftItemImportedEvent
type GiftItemImportedDTO struct {
	Collection  string                 `json:"collection"`
	ID          int64                  `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Image       string                 `json:"image"`
	Lottie      string                 `json:"lottie"`
	Attributes  []IncomingAttributeDTO `json:"attributes"`
}

func toDomainImportedItem(dto *GiftItemImportedDTO) domain.ImportedItem {
	attrs := make([]domain.Attribute, 0, len(dto.Attributes))
	for _, a := range dto.Attributes {
		attrs = append(attrs, domain.Attribute{
			TraitType: strings.TrimSpace(a.TraitType),
			Value:     rawValueToString(a.Value),
		})
	}
	return domain.ImportedItem{
		Collection:  strings.TrimSpace(dto.Collection),
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Image:       dto.Image,
		Lottie:      dto.Lottie,
		Attributes:  attrs,
	}
}

// rawValueToString "A" -> A, 3 -> 3, true -> true
func rawValueToString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return string(raw)
}
