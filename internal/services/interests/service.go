package interests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vivahapp/backend/internal/domain/enums"
	"github.com/vivahapp/backend/internal/domain/rules"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
	ratesvc "github.com/vivahapp/backend/internal/services/rate"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDailyLimit      = errors.New("daily interests limit reached")
	ErrNotFound        = errors.New("interest not found")
	ErrDependenciesNil = errors.New("interest dependencies are not configured")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type InterestStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, senderUserID, receiverUserID int64) (pgrepo.InterestRecord, error)
	SetStatus(ctx context.Context, tx pgx.Tx, senderUserID, receiverUserID int64, status string) (pgrepo.InterestRecord, error)
	ListIncoming(ctx context.Context, userID int64, limit int) ([]pgrepo.InterestProfileRecord, error)
	ListSent(ctx context.Context, userID int64, limit int) ([]pgrepo.InterestProfileRecord, error)
}

type QuotaStore interface {
	GetInterestsUsed(ctx context.Context, userID int64, dayKey string) (int, error)
	IncrementInterestsUsed(ctx context.Context, userID int64, dayKey, timezone string, delta int) (int, error)
}

type SubscriptionStore interface {
	IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error)
}

// PairInvalidator drops memoized relationship facts once interest state
// changes; disclosure decisions must observe the transition immediately.
type PairInvalidator interface {
	InvalidatePair(ctx context.Context, userA, userB int64) error
}

type Config struct {
	FreeInterestsPerDay int
	DefaultTimezone     string
}

type Dependencies struct {
	Pool          *pgxpool.Pool
	InterestStore InterestStore
	QuotaStore    QuotaStore
	Subscriptions SubscriptionStore
	RateLimiter   *ratesvc.Limiter
	PrivacyCache  PairInvalidator
	Logger        *zap.Logger
}

type Service struct {
	pool          *pgxpool.Pool
	interestStore InterestStore
	quotaStore    QuotaStore
	subscriptions SubscriptionStore
	rateLimiter   *ratesvc.Limiter
	privacyCache  PairInvalidator
	logger        *zap.Logger
	cfg           Config
	now           func() time.Time
}

type Item struct {
	InterestID  int64
	UserID      int64
	DisplayName string
	Age         int
	City        string
	Status      enums.InterestStatus
	CreatedAt   time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.FreeInterestsPerDay <= 0 {
		cfg.FreeInterestsPerDay = rules.FreeInterestsPerDay
	}
	if strings.TrimSpace(cfg.DefaultTimezone) == "" {
		cfg.DefaultTimezone = "UTC"
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		pool:          deps.Pool,
		interestStore: deps.InterestStore,
		quotaStore:    deps.QuotaStore,
		subscriptions: deps.Subscriptions,
		rateLimiter:   deps.RateLimiter,
		privacyCache:  deps.PrivacyCache,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Send records a pending interest from sender to receiver. Non-premium
// senders consume one unit of the daily free quota; every sender goes
// through the pacing limiter.
func (s *Service) Send(ctx context.Context, senderUserID, receiverUserID int64, timezone string) error {
	if senderUserID <= 0 || receiverUserID <= 0 || senderUserID == receiverUserID {
		return ErrValidation
	}
	if s.interestStore == nil {
		return ErrDependenciesNil
	}

	now := s.now().UTC()

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowInterest(ctx, senderUserID)
		if err != nil {
			return fmt.Errorf("consume interest rate limit: %w", err)
		}
		if !allowed {
			return TooFastError{RetryAfterSec: retryAfter}
		}
	}

	premium, err := s.resolvePremium(ctx, senderUserID, now)
	if err != nil {
		return err
	}

	if !premium && s.quotaStore != nil {
		loc, tzName := s.resolveTimezone(timezone)
		dayKey := rules.DayKey(now, loc)

		used, err := s.quotaStore.GetInterestsUsed(ctx, senderUserID, dayKey)
		if err != nil {
			return fmt.Errorf("read daily interest quota: %w", err)
		}
		if used >= s.cfg.FreeInterestsPerDay {
			return ErrDailyLimit
		}
		if _, err := s.quotaStore.IncrementInterestsUsed(ctx, senderUserID, dayKey, tzName, 1); err != nil {
			return fmt.Errorf("update daily interest quota: %w", err)
		}
	}

	if err := pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		_, err := s.interestStore.Upsert(txCtx, tx, senderUserID, receiverUserID)
		return err
	}); err != nil {
		return err
	}

	s.invalidatePair(ctx, senderUserID, receiverUserID)
	return nil
}

// Accept transitions the pending interest sent by senderUserID to the
// caller. Only the receiver may resolve an interest.
func (s *Service) Accept(ctx context.Context, receiverUserID, senderUserID int64) error {
	return s.respond(ctx, receiverUserID, senderUserID, enums.InterestStatusAccepted)
}

func (s *Service) Decline(ctx context.Context, receiverUserID, senderUserID int64) error {
	return s.respond(ctx, receiverUserID, senderUserID, enums.InterestStatusDeclined)
}

func (s *Service) respond(ctx context.Context, receiverUserID, senderUserID int64, status enums.InterestStatus) error {
	if receiverUserID <= 0 || senderUserID <= 0 || receiverUserID == senderUserID {
		return ErrValidation
	}
	if s.interestStore == nil {
		return ErrDependenciesNil
	}

	if err := pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		_, err := s.interestStore.SetStatus(txCtx, tx, senderUserID, receiverUserID, string(status))
		if errors.Is(err, pgrepo.ErrInterestNotFound) {
			return ErrNotFound
		}
		return err
	}); err != nil {
		return err
	}

	s.invalidatePair(ctx, receiverUserID, senderUserID)
	return nil
}

func (s *Service) ListIncoming(ctx context.Context, userID int64, limit int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.interestStore == nil {
		return nil, ErrDependenciesNil
	}

	rows, err := s.interestStore.ListIncoming(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incoming interests: %w", err)
	}
	return mapItems(rows), nil
}

func (s *Service) ListSent(ctx context.Context, userID int64, limit int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.interestStore == nil {
		return nil, ErrDependenciesNil
	}

	rows, err := s.interestStore.ListSent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sent interests: %w", err)
	}
	return mapItems(rows), nil
}

func (s *Service) resolvePremium(ctx context.Context, userID int64, at time.Time) (bool, error) {
	if s.subscriptions == nil {
		return false, nil
	}

	premium, err := s.subscriptions.IsPremiumActive(ctx, userID, at)
	if err != nil {
		return false, fmt.Errorf("resolve premium status: %w", err)
	}
	return premium, nil
}

func (s *Service) resolveTimezone(explicit string) (*time.Location, string) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = strings.TrimSpace(s.cfg.DefaultTimezone)
	}
	if candidate == "" {
		candidate = "UTC"
	}

	loc, err := time.LoadLocation(candidate)
	if err != nil {
		return time.UTC, "UTC"
	}
	return loc, candidate
}

func (s *Service) invalidatePair(ctx context.Context, userA, userB int64) {
	if s.privacyCache == nil {
		return
	}
	if err := s.privacyCache.InvalidatePair(ctx, userA, userB); err != nil {
		s.logger.Warn("invalidate privacy pair cache failed",
			zap.Int64("user_a", userA),
			zap.Int64("user_b", userB),
			zap.Error(err),
		)
	}
}

func mapItems(rows []pgrepo.InterestProfileRecord) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{
			InterestID:  row.InterestID,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Age:         row.Age,
			City:        row.City,
			Status:      enums.InterestStatus(row.Status),
			CreatedAt:   row.CreatedAt,
		})
	}
	return items
}
