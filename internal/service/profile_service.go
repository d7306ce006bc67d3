package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// UpdateProfileInput lists the preference changes to apply. Nil fields are left untouched.
type UpdateProfileInput struct {
	DailyLimit      *int
	ReminderEnabled *bool
	TelegramChatID  *int64
}

// ProfileService reads and updates per-user review preferences.
type ProfileService interface {
	// GetProfile returns the stored profile, or the defaults when none has been saved.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// UpdateProfile applies the given changes and persists the profile.
	// The row is locked while the changes are applied, so progress earned
	// concurrently through practice is never overwritten.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error)
}

type profileServiceImpl struct {
	tx           store.Transactor
	profiles     store.ProfileStore
	defaultLimit int
	logger       *slog.Logger
}

var _ ProfileService = (*profileServiceImpl)(nil)

// NewProfileService creates a ProfileService. defaultLimit applies to users
// without a stored profile; 0 selects domain.DefaultDailyLimit.
func NewProfileService(
	tx store.Transactor,
	profiles store.ProfileStore,
	defaultLimit int,
	logger *slog.Logger,
) ProfileService {
	if tx == nil || profiles == nil {
		panic("profile service dependencies cannot be nil")
	}
	if defaultLimit == 0 {
		defaultLimit = domain.DefaultDailyLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &profileServiceImpl{
		tx:           tx,
		profiles:     profiles,
		defaultLimit: defaultLimit,
		logger:       logger.With(slog.String("component", "profile_service")),
	}
}

// GetProfile implements ProfileService.GetProfile.
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, NewServiceError("profile", "get", "failed to load profile", err)
	}

	p, err = domain.NewProfile(userID, s.defaultLimit)
	if err != nil {
		return nil, profileValidationError(err)
	}
	return p, nil
}

// UpdateProfile implements ProfileService.UpdateProfile.
func (s *profileServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	input UpdateProfileInput,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var p *domain.Profile
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		profiles := s.profiles.WithTx(tx)
		locked, err := lockProfile(ctx, profiles, userID, s.defaultLimit)
		if err != nil {
			return err
		}

		if input.DailyLimit != nil {
			locked.DailyLimit = *input.DailyLimit
		}
		if input.ReminderEnabled != nil {
			locked.ReminderEnabled = *input.ReminderEnabled
		}
		if input.TelegramChatID != nil {
			locked.TelegramChatID = *input.TelegramChatID
		}
		if err := locked.Validate(); err != nil {
			return profileValidationError(err)
		}
		locked.UpdatedAt = time.Now().UTC()

		if err := profiles.Upsert(ctx, locked); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		p = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to save profile",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("profile", "update", "failed to save profile", err)
	}

	log.Info("profile updated",
		slog.String("user_id", userID.String()),
		slog.Int("daily_limit", p.DailyLimit),
		slog.Bool("reminder_enabled", p.ReminderEnabled))
	return p, nil
}

func profileValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDailyLimit):
		return domain.NewValidationError("daily_limit", "must be between 5 and 50", err)
	case errors.Is(err, domain.ErrInvalidProgress):
		return domain.NewValidationError("level", "is inconsistent with exp", err)
	case errors.Is(err, domain.ErrProfileUserIDEmpty):
		return domain.NewValidationError("user_id", "is required", err)
	default:
		return domain.NewValidationError("profile", err.Error(), err)
	}
}
