package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kioku/internal/api/shared"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/service"
)

// PracticeHandler serves the quote catalog and the typing-practice game.
type PracticeHandler struct {
	practiceService service.PracticeService
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(practiceService service.PracticeService, logger *slog.Logger) *PracticeHandler {
	if practiceService == nil {
		panic("practiceService cannot be nil for PracticeHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for PracticeHandler")
	}
	return &PracticeHandler{
		practiceService: practiceService,
		logger:          logger.With(slog.String("component", "practice_handler")),
	}
}

// ListQuotes handles GET /quotes?category=.
func (h *PracticeHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.practiceService.ListQuotes(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list quotes")
		return
	}

	resp := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		resp = append(resp, quoteToResponse(q))
	}
	RespondOK(w, r, resp)
}

// CreateQuote handles POST /quotes.
func (h *PracticeHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateQuoteRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	q, err := h.practiceService.CreateQuote(r.Context(), service.CreateQuoteInput{
		Sentence: req.Sentence,
		Kana:     req.Kana,
		Meaning:  req.Meaning,
		Origin:   req.Origin,
		Category: req.Category,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create quote")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, quoteToResponse(q))
}

// GetQuote handles GET /quotes/{id}.
func (h *PracticeHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, quoteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	q, err := h.practiceService.GetQuote(r.Context(), quoteID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get quote")
		return
	}
	RespondOK(w, r, quoteToResponse(q))
}

// DeleteQuote handles DELETE /quotes/{id}.
func (h *PracticeHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, quoteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.practiceService.DeleteQuote(r.Context(), quoteID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete quote")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NextQuote handles GET /practice/next?category=. An empty catalog is 204.
func (h *PracticeHandler) NextQuote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := requireUserID(w, r, log); !ok {
		return
	}

	q, err := h.practiceService.NextQuote(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to pick a quote")
		return
	}
	RespondOK(w, r, quoteToResponse(q))
}

// CheckTyping handles POST /practice/{id}/check.
func (h *PracticeHandler) CheckTyping(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, quoteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CheckTypingRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	res, err := h.practiceService.CheckTyping(r.Context(), userID, quoteID, req.Input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check answer")
		return
	}
	RespondOK(w, r, typingResultToResponse(res))
}
