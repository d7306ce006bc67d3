package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/service/review"
)

// ReviewHandler serves the review session endpoints.
type ReviewHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// GetDueItems handles GET /reviews/due.
func (h *ReviewHandler) GetDueItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	due, summary, err := h.reviewService.GetDueItems(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due items")
		return
	}

	resp := DueItemsResponse{
		Items:      make([]DueItemResponse, 0, len(due)),
		DueSummary: summary,
	}
	for _, d := range due {
		resp.Items = append(resp.Items, dueItemToResponse(d))
	}

	log.Debug("due items listed",
		slog.Int("total_due", summary.TotalDue),
		slog.Int("returned", summary.Returned))
	RespondOK(w, r, resp)
}

// GetNextItem handles GET /reviews/next. Responds 204 when nothing is due.
func (h *ReviewHandler) GetNextItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	next, err := h.reviewService.GetNextItem(r.Context(), userID)
	if errors.Is(err, review.ErrNoItemsDue) {
		log.Debug("no items due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review item")
		return
	}

	RespondOK(w, r, dueItemToResponse(*next))
}

// SubmitGrade handles POST /items/{id}/grade.
func (h *ReviewHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req GradeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	grade, err := req.Resolve()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.reviewService.SubmitGrade(r.Context(), userID, itemID, grade)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit grade")
		return
	}

	log.Debug("grade submitted",
		slog.String("item_id", itemID.String()),
		slog.Int("grade", int(grade)),
		slog.String("next_review", state.NextReview.String()))
	RespondOK(w, r, stateToResponse(state))
}

// Postpone handles POST /items/{id}/postpone.
func (h *ReviewHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PostponeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	state, err := h.reviewService.Postpone(r.Context(), userID, itemID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone item")
		return
	}

	RespondOK(w, r, stateToResponse(state))
}
