package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse тело любой ошибки API
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var errInvalidAttributes = errors.New("invalid attributes format")

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string, details ...string) {
	body := ErrorResponse{Error: message}
	if len(details) > 0 {
		body.Details = strings.Join(details, "; ")
	}
	RespondWithJSON(w, statusCode, body)
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// writeUseCaseError классифицирует ошибку use case в HTTP-статус.
// what используется в 500-сообщении: "Failed to fetch <what> for <name>".
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error, giftName, what string) {
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound):
		logger.Warn("Collection not found", port.Fields{"gift_name": giftName})
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("No database found for %s", giftName))
	case errors.Is(err, domain.ErrValidation):
		logger.Warn("Invalid request", port.Fields{"gift_name": giftName, "reason": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request parameters", err.Error())
	default:
		logger.Error("Use case failed", err, port.Fields{"gift_name": giftName})
		WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s for %s", what, giftName), err.Error())
	}
}

// giftNameParam имя коллекции из пути, с раскодированием "%20" и т.п.
func giftNameParam(r *http.Request) string {
	raw := chi.URLParam(r, "giftName")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// parseInt некорректное значение трактуется как "не задано"
func parseInt(q url.Values, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return 0
	}
	return v
}

func parseBool(q url.Values, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	return err == nil && v
}

// parseAttributeFilters разбирает JSON вида {"Model":["A","B"],"Symbol":"X"}.
// Одиночная строка допускается как список из одного значения.
func parseAttributeFilters(raw string) (domain.AttributeFilters, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidAttributes, err)
	}

	filters := make(domain.AttributeFilters, len(decoded))
	for trait, msg := range decoded {
		var values []string
		if err := json.Unmarshal(msg, &values); err == nil {
			filters[trait] = values
			continue
		}
		var single string
		if err := json.Unmarshal(msg, &single); err == nil {
			filters[trait] = []string{single}
			continue
		}
		if string(msg) == "null" {
			continue
		}
		return nil, fmt.Errorf("%w: trait %q must be a string or an array of strings", errInvalidAttributes, trait)
	}
	return filters, nil
}

// parseItemsRequest общие параметры items и collection-data
func parseItemsRequest(r *http.Request, giftName string) (domain.ItemsRequest, error) {
	q := r.URL.Query()

	filters, err := parseAttributeFilters(q.Get("attributes"))
	if err != nil {
		return domain.ItemsRequest{}, err
	}

	return domain.ItemsRequest{
		CollectionName: giftName,
		Page:           parseInt(q, "page"),
		Limit:          parseInt(q, "limit"),
		Sort:           q.Get("sort"),
		Filters:        filters,
	}, nil
}
