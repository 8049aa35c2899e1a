package rest

import (
	"errors"
	"net/http"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
)

type CatalogHandler struct {
	getItemsUC          usecases_port.GetItemsUseCase
	getAttributesUC     usecases_port.GetAttributesUseCase
	getStatsUC          usecases_port.GetStatsUseCase
	listCollectionsUC   usecases_port.ListCollectionsUseCase
	checkCollectionUC   usecases_port.CheckCollectionUseCase
	getCollectionDataUC usecases_port.GetCollectionDataUseCase
}

func NewCatalogHandler(
	getItemsUC usecases_port.GetItemsUseCase,
	getAttributesUC usecases_port.GetAttributesUseCase,
	getStatsUC usecases_port.GetStatsUseCase,
	listCollectionsUC usecases_port.ListCollectionsUseCase,
	checkCollectionUC usecases_port.CheckCollectionUseCase,
	getCollectionDataUC usecases_port.GetCollectionDataUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		getItemsUC:          getItemsUC,
		getAttributesUC:     getAttributesUC,
		getStatsUC:          getStatsUC,
		listCollectionsUC:   listCollectionsUC,
		checkCollectionUC:   checkCollectionUC,
		getCollectionDataUC: getCollectionDataUC,
	}
}

// writeFiltersError 400 для битого JSON в ?attributes=
func writeFiltersError(w http.ResponseWriter, logger port.LoggerPort, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errInvalidAttributes) {
		logger.Warn("Invalid attributes filter", port.Fields{"reason": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid attributes format", err.Error())
		return true
	}
	WriteJSONError(w, http.StatusBadRequest, "Invalid request parameters", err.Error())
	return true
}

// GetCollectionData обрабатывает GET /api/collection-data/{giftName}
func (h *CatalogHandler) GetCollectionData(w http.ResponseWriter, r *http.Request) {
	giftName := giftNameParam(r)
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "GetCollectionData",
		"gift_name": giftName,
	})

	itemsReq, err := parseItemsRequest(r, giftName)
	if writeFiltersError(w, logger, err) {
		return
	}

	req := domain.CollectionDataRequest{
		ItemsRequest:      itemsReq,
		IncludeAttributes: parseBool(r.URL.Query(), "include_attributes"),
	}
	logger.Debug("Processing collection data request", port.Fields{
		"page":               req.Page,
		"limit":              req.Limit,
		"sort":               req.Sort,
		"filters":            req.Filters,
		"include_attributes": req.IncludeAttributes,
	})

	data, err := h.getCollectionDataUC.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, logger, err, giftName, "collection data")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCollectionDataResponse(data))
}

// GetItems обрабатывает GET /api/items/{giftName}
func (h *CatalogHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	giftName := giftNameParam(r)
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "GetItems",
		"gift_name": giftName,
	})

	req, err := parseItemsRequest(r, giftName)
	if writeFiltersError(w, logger, err) {
		return
	}

	page, err := h.getItemsUC.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, logger, err, giftName, "items")
		return
	}

	logger.Info("Successfully found items", port.Fields{
		"total_items":   page.TotalItems,
		"items_on_page": len(page.Items),
	})
	RespondWithJSON(w, http.StatusOK, toItemsPageResponse(page))
}

// GetAttributes обрабатывает GET /api/attributes/{giftName}
func (h *CatalogHandler) GetAttributes(w http.ResponseWriter, r *http.Request) {
	giftName := giftNameParam(r)
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "GetAttributes",
		"gift_name": giftName,
	})

	dist, err := h.getAttributesUC.Execute(r.Context(), giftName)
	if err != nil {
		writeUseCaseError(w, logger, err, giftName, "attributes")
		return
	}

	RespondWithJSON(w, http.StatusOK, toAttributesResponse(dist))
}

// GetStats обрабатывает GET /api/stats/{giftName}
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	giftName := giftNameParam(r)
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "GetStats",
		"gift_name": giftName,
	})

	stats, err := h.getStatsUC.Execute(r.Context(), giftName)
	if err != nil {
		writeUseCaseError(w, logger, err, giftName, "stats")
		return
	}

	RespondWithJSON(w, http.StatusOK, StatsResponse{TotalItems: stats.TotalItems})
}

// ListExports обрабатывает GET /api/list-exports
func (h *CatalogHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListExports"})

	collections, err := h.listCollectionsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to list exports", err.Error())
		return
	}

	resp := ListExportsResponse{DB: make([]CollectionInfoResponse, len(collections))}
	for i, c := range collections {
		resp.DB[i] = CollectionInfoResponse{Name: c.Name, Total: c.Total}
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// CheckFile обрабатывает GET /api/check-file/{giftName}
func (h *CatalogHandler) CheckFile(w http.ResponseWriter, r *http.Request) {
	giftName := giftNameParam(r)
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "CheckFile",
		"gift_name": giftName,
	})

	exists, err := h.checkCollectionUC.Execute(r.Context(), giftName)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, "Invalid request parameters", err.Error())
			return
		}
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to check file for "+giftName, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, CheckFileResponse{Exists: exists, DB: exists})
}
