package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kioku/internal/api/shared"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/service"
)

// ItemHandler serves the vocabulary catalog endpoints.
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService service.ItemService, logger *slog.Logger) *ItemHandler {
	if itemService == nil {
		panic("itemService cannot be nil for ItemHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ItemHandler")
	}
	return &ItemHandler{
		itemService: itemService,
		logger:      logger.With(slog.String("component", "item_handler")),
	}
}

// ListItems handles GET /items?category=.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ListItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list items")
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, itemToResponse(it))
	}
	RespondOK(w, r, resp)
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateItemRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), service.CreateItemInput{
		Term:     req.Term,
		Reading:  req.Reading,
		Meaning:  req.Meaning,
		Category: req.Category,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// GetItem handles GET /items/{id}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get item")
		return
	}
	RespondOK(w, r, itemToResponse(item))
}

// DeleteItem handles DELETE /items/{id}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), itemID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
