package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/service"
)

// ProfileHandler serves the caller's review preferences.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if profileService == nil {
		panic("profileService cannot be nil for ProfileHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ProfileHandler")
	}
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger.With(slog.String("component", "profile_handler")),
	}
}

// GetProfile handles GET /profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	p, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get profile")
		return
	}
	RespondOK(w, r, profileToResponse(p))
}

// UpdateProfile handles PUT /profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	p, err := h.profileService.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		DailyLimit:      req.DailyLimit,
		ReminderEnabled: req.ReminderEnabled,
		TelegramChatID:  req.TelegramChatID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}
	RespondOK(w, r, profileToResponse(p))
}
