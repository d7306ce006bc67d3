package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/store"
)

// CreateQuoteInput carries the user-supplied fields of a new practice quote.
type CreateQuoteInput struct {
	Sentence string
	Kana     string
	Meaning  string
	Origin   string
	Category string
}

// TypingResult reports the outcome of one typing attempt and the
// learner's progress afterwards.
type TypingResult struct {
	Correct    bool
	ExpAwarded int
	LeveledUp  bool
	Level      int
	Exp        int
	ExpToNext  int
}

// PracticeService runs the typing-practice game: a shared quote catalog,
// random quote selection, and exp awarded for correct answers.
type PracticeService interface {
	CreateQuote(ctx context.Context, input CreateQuoteInput) (*domain.Quote, error)

	// ImportQuotes stores quotes atomically.
	ImportQuotes(ctx context.Context, quotes []*domain.Quote) error

	GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	ListQuotes(ctx context.Context, category string) ([]*domain.Quote, error)
	DeleteQuote(ctx context.Context, id uuid.UUID) error

	// NextQuote picks a random quote, optionally from one category.
	// Returns ErrNoQuotes when there is nothing to pick from.
	NextQuote(ctx context.Context, category string) (*domain.Quote, error)

	// CheckTyping compares input against the quote. A correct answer awards
	// domain.ExpPerCorrectAnswer inside a transaction that locks the profile.
	CheckTyping(ctx context.Context, userID, quoteID uuid.UUID, input string) (*TypingResult, error)
}

// PracticeOption configures a PracticeService.
type PracticeOption func(*practiceServiceImpl)

// WithQuotePicker replaces the random index source. pick receives n > 0
// and must return a value in [0, n).
func WithQuotePicker(pick func(n int) int) PracticeOption {
	return func(s *practiceServiceImpl) { s.pick = pick }
}

// WithPracticeEventEmitter publishes profile.level_up events.
func WithPracticeEventEmitter(emitter events.EventEmitter) PracticeOption {
	return func(s *practiceServiceImpl) { s.emitter = emitter }
}

type practiceServiceImpl struct {
	tx           store.Transactor
	quotes       store.QuoteStore
	profiles     store.ProfileStore
	defaultLimit int
	pick         func(n int) int
	emitter      events.EventEmitter
	logger       *slog.Logger
}

var _ PracticeService = (*practiceServiceImpl)(nil)

// NewPracticeService creates a PracticeService. defaultLimit seeds profiles
// created on a learner's first correct answer; 0 selects domain.DefaultDailyLimit.
func NewPracticeService(
	tx store.Transactor,
	quotes store.QuoteStore,
	profiles store.ProfileStore,
	defaultLimit int,
	logger *slog.Logger,
	opts ...PracticeOption,
) PracticeService {
	if tx == nil || quotes == nil || profiles == nil {
		panic("practice service dependencies cannot be nil")
	}
	if defaultLimit == 0 {
		defaultLimit = domain.DefaultDailyLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &practiceServiceImpl{
		tx:           tx,
		quotes:       quotes,
		profiles:     profiles,
		defaultLimit: defaultLimit,
		pick:         rand.IntN,
		logger:       logger.With(slog.String("component", "practice_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateQuote implements PracticeService.CreateQuote.
func (s *practiceServiceImpl) CreateQuote(ctx context.Context, input CreateQuoteInput) (*domain.Quote, error) {
	q, err := domain.NewQuote(input.Sentence, input.Kana, input.Meaning, input.Origin, input.Category)
	if err != nil {
		return nil, quoteValidationError(err)
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, NewServiceError("practice", "create", "failed to store quote", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("quote created",
		slog.String("quote_id", q.ID.String()),
		slog.String("category", q.Category))
	return q, nil
}

// ImportQuotes implements PracticeService.ImportQuotes.
func (s *practiceServiceImpl) ImportQuotes(ctx context.Context, quotes []*domain.Quote) error {
	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			return quoteValidationError(err)
		}
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.quotes.WithTx(tx).CreateMultiple(ctx, quotes)
	})
	if err != nil {
		return NewServiceError("practice", "import", "failed to import quotes", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("quotes imported", slog.Int("quotes", len(quotes)))
	return nil
}

// GetQuote implements PracticeService.GetQuote.
func (s *practiceServiceImpl) GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrQuoteNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, NewServiceError("practice", "get", "failed to load quote", err)
	}
	return q, nil
}

// ListQuotes implements PracticeService.ListQuotes.
func (s *practiceServiceImpl) ListQuotes(ctx context.Context, category string) ([]*domain.Quote, error) {
	quotes, err := s.quotes.List(ctx, category)
	if err != nil {
		return nil, NewServiceError("practice", "list", "failed to list quotes", err)
	}
	return quotes, nil
}

// DeleteQuote implements PracticeService.DeleteQuote.
func (s *practiceServiceImpl) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	if err := s.quotes.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrQuoteNotFound) {
			return ErrQuoteNotFound
		}
		return NewServiceError("practice", "delete", "failed to delete quote", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("quote deleted", slog.String("quote_id", id.String()))
	return nil
}

// NextQuote implements PracticeService.NextQuote.
func (s *practiceServiceImpl) NextQuote(ctx context.Context, category string) (*domain.Quote, error) {
	quotes, err := s.ListQuotes(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}
	return quotes[s.pick(len(quotes))], nil
}

// CheckTyping implements PracticeService.CheckTyping.
func (s *practiceServiceImpl) CheckTyping(
	ctx context.Context,
	userID, quoteID uuid.UUID,
	input string,
) (*TypingResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if domain.NormalizeTyping(input) == "" {
		return nil, domain.NewValidationError("input", "is required", domain.ErrTypingInputEmpty)
	}
	q, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if !q.Accepts(input) {
		p, err := s.currentProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		log.Debug("typing attempt missed",
			slog.String("user_id", userID.String()),
			slog.String("quote_id", quoteID.String()))
		return progressResult(p, false, 0, false), nil
	}

	var (
		p         *domain.Profile
		leveledUp bool
	)
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		profiles := s.profiles.WithTx(tx)
		locked, err := lockProfile(ctx, profiles, userID, s.defaultLimit)
		if err != nil {
			return err
		}
		leveledUp = locked.AwardExp(domain.ExpPerCorrectAnswer)
		locked.UpdatedAt = time.Now().UTC()
		if err := profiles.Upsert(ctx, locked); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		p = locked
		return nil
	})
	if err != nil {
		log.Error("failed to award exp",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("practice", "check", "failed to record progress", err)
	}

	log.Info("typing attempt correct",
		slog.String("user_id", userID.String()),
		slog.String("quote_id", quoteID.String()),
		slog.Int("level", p.Level),
		slog.Int("exp", p.Exp),
		slog.Bool("leveled_up", leveledUp))
	if leveledUp {
		s.emitLevelUp(ctx, p)
	}
	return progressResult(p, true, domain.ExpPerCorrectAnswer, leveledUp), nil
}

func (s *practiceServiceImpl) currentProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, NewServiceError("practice", "check", "failed to load profile", err)
	}
	p, err = domain.NewProfile(userID, s.defaultLimit)
	if err != nil {
		return nil, profileValidationError(err)
	}
	return p, nil
}

func (s *practiceServiceImpl) emitLevelUp(ctx context.Context, p *domain.Profile) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeLevelUp, events.LevelUpPayload{UserID: p.UserID, Level: p.Level})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit level up event",
			slog.String("error", err.Error()))
	}
}

func progressResult(p *domain.Profile, correct bool, awarded int, leveledUp bool) *TypingResult {
	return &TypingResult{
		Correct:    correct,
		ExpAwarded: awarded,
		LeveledUp:  leveledUp,
		Level:      p.Level,
		Exp:        p.Exp,
		ExpToNext:  p.ExpToNextLevel(),
	}
}

// lockProfile makes sure the user's row exists and returns it locked for
// the rest of the transaction. profiles must be bound to that transaction.
func lockProfile(ctx context.Context, profiles store.ProfileStore, userID uuid.UUID, defaultLimit int) (*domain.Profile, error) {
	defaults, err := domain.NewProfile(userID, defaultLimit)
	if err != nil {
		return nil, profileValidationError(err)
	}
	if err := profiles.CreateIfMissing(ctx, defaults); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	p, err := profiles.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}
	return p, nil
}

func quoteValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrQuoteSentenceEmpty):
		return domain.NewValidationError("sentence", "is required", err)
	case errors.Is(err, domain.ErrQuoteKanaEmpty):
		return domain.NewValidationError("kana", "is required", err)
	case errors.Is(err, domain.ErrQuoteIDEmpty):
		return domain.NewValidationError("id", "is required", err)
	default:
		return domain.NewValidationError("quote", err.Error(), err)
	}
}
