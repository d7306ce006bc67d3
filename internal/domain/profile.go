package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Daily review limit bounds.
const (
	DefaultDailyLimit = 20
	MinDailyLimit     = 5
	MaxDailyLimit     = 50
)

// ExpPerCorrectAnswer is awarded for each correctly typed quote.
const ExpPerCorrectAnswer = 10

// Profile validation errors
var (
	ErrProfileUserIDEmpty = errors.New("profile user ID cannot be empty")
	ErrInvalidDailyLimit  = errors.New("daily limit must be between 5 and 50")
	ErrInvalidProgress    = errors.New("profile level must be positive and exp below the next level")
)

// Profile holds a learner's review preferences.
type Profile struct {
	UserID          uuid.UUID `json:"user_id"`
	DailyLimit      int       `json:"daily_limit"`
	ReminderEnabled bool      `json:"reminder_enabled"`
	TelegramChatID  int64     `json:"telegram_chat_id,omitempty"` // 0 when not linked
	Level           int       `json:"level"`
	Exp             int       `json:"exp"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProfile returns a profile with default preferences.
func NewProfile(userID uuid.UUID, dailyLimit int) (*Profile, error) {
	if dailyLimit == 0 {
		dailyLimit = DefaultDailyLimit
	}
	now := time.Now().UTC()
	p := &Profile{
		UserID:     userID,
		DailyLimit: dailyLimit,
		Level:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProfileUserIDEmpty
	}
	if p.DailyLimit < MinDailyLimit || p.DailyLimit > MaxDailyLimit {
		return ErrInvalidDailyLimit
	}
	if p.Level < 1 || p.Exp < 0 || p.Exp >= p.ExpToNextLevel() {
		return ErrInvalidProgress
	}
	return nil
}

// ExpToNextLevel is the exp needed to leave the current level.
func (p *Profile) ExpToNextLevel() int {
	return p.Level * 1000
}

// AwardExp adds points and reports whether the profile leveled up.
// Exp restarts from zero on a new level; the surplus is not carried.
func (p *Profile) AwardExp(points int) bool {
	if points <= 0 {
		return false
	}
	p.Exp += points
	if p.Exp < p.ExpToNextLevel() {
		return false
	}
	p.Level++
	p.Exp = 0
	return true
}
