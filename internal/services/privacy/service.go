package privacy

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vivahapp/backend/internal/domain/enums"
	"github.com/vivahapp/backend/internal/domain/model"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
	redrepo "github.com/vivahapp/backend/internal/repo/redis"
)

var ErrValidation = errors.New("validation error")

const defaultCacheTTL = 30 * time.Second

type VisibilityStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.VisibilityConfigRecord, error)
}

type SubscriptionStore interface {
	IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error)
}

type InterestStore interface {
	HasAcceptedBetween(ctx context.Context, userA, userB int64) (bool, error)
}

type FactsCache interface {
	Get(ctx context.Context, viewerID, subjectID int64) (redrepo.RelationshipFactsRecord, bool, error)
	Set(ctx context.Context, viewerID, subjectID int64, rec redrepo.RelationshipFactsRecord, ttl time.Duration) error
}

type Config struct {
	CacheTTL time.Duration
}

// Service resolves the relationship facts for a (viewer, subject) pair and
// runs the disclosure decision over them. Lookup failures degrade to the
// most restrictive input for the affected axis and are logged for operators;
// they never surface as errors and never grant disclosure.
type Service struct {
	visibilityStore   VisibilityStore
	subscriptionStore SubscriptionStore
	interestStore     InterestStore
	cache             FactsCache
	cfg               Config
	logger            *zap.Logger
	now               func() time.Time
}

func NewService(visibilityStore VisibilityStore, subscriptionStore SubscriptionStore, interestStore InterestStore, logger *zap.Logger, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		visibilityStore:   visibilityStore,
		subscriptionStore: subscriptionStore,
		interestStore:     interestStore,
		cfg:               cfg,
		logger:            logger,
		now:               time.Now,
	}
}

// AttachCache enables per-pair memoization of resolved facts. Optional; the
// service works without it.
func (s *Service) AttachCache(cache FactsCache) {
	s.cache = cache
}

// EvaluateDisclosure computes the disclosure decision for viewerID looking
// at subjectID. A nil viewerID is an anonymous visitor.
func (s *Service) EvaluateDisclosure(ctx context.Context, viewerID *int64, subjectID int64) (Decision, error) {
	if subjectID <= 0 {
		return Decision{}, ErrValidation
	}
	if viewerID != nil && *viewerID <= 0 {
		return Decision{}, ErrValidation
	}

	if viewerID != nil && *viewerID == subjectID {
		return FullDisclosure(), nil
	}

	if viewerID != nil && s.cache != nil {
		if rec, ok, err := s.cache.Get(ctx, *viewerID, subjectID); err != nil {
			s.logger.Debug("privacy facts cache read failed",
				zap.Int64("viewer_id", *viewerID),
				zap.Int64("subject_id", subjectID),
				zap.Error(err),
			)
		} else if ok {
			return Decide(inputsFromFacts(rec, true)), nil
		}
	}

	facts, complete := s.resolveFacts(ctx, viewerID, subjectID)
	if ctx.Err() != nil {
		// The hosting context was torn down mid-resolution; discard any
		// partial facts rather than applying a partial decision.
		return Decision{}, ctx.Err()
	}

	if viewerID != nil && s.cache != nil && complete {
		if err := s.cache.Set(ctx, *viewerID, subjectID, facts, s.cfg.CacheTTL); err != nil {
			s.logger.Debug("privacy facts cache write failed",
				zap.Int64("viewer_id", *viewerID),
				zap.Int64("subject_id", subjectID),
				zap.Error(err),
			)
		}
	}

	return Decide(inputsFromFacts(facts, viewerID != nil)), nil
}

// resolveFacts issues the three independent lookups concurrently and joins
// them. The second return value reports whether every lookup succeeded;
// fail-closed results are usable but must not be memoized.
func (s *Service) resolveFacts(ctx context.Context, viewerID *int64, subjectID int64) (redrepo.RelationshipFactsRecord, bool) {
	restrictive := model.MostRestrictiveVisibility(subjectID)
	facts := redrepo.RelationshipFactsRecord{
		ProfileVisibility: string(restrictive.ProfileVisibility),
		PhotoVisibility:   string(restrictive.PhotoVisibility),
		ContactVisibility: string(restrictive.ContactVisibility),
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed bool
	)

	markFailed := func() {
		mu.Lock()
		failed = true
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		rec, err := s.visibilityStore.Get(ctx, subjectID)
		switch {
		case errors.Is(err, pgrepo.ErrNoVisibilityConfig):
			// Mid-onboarding subject: keep the restrictive defaults.
		case err != nil:
			markFailed()
			s.logger.Warn("visibility lookup failed, denying by default",
				zap.Int64("subject_id", subjectID),
				zap.Error(err),
			)
		default:
			mu.Lock()
			facts.ProfileVisibility = rec.ProfileVisibility
			facts.PhotoVisibility = rec.PhotoVisibility
			facts.ContactVisibility = rec.ContactVisibility
			mu.Unlock()
		}
	}()

	if viewerID != nil {
		viewer := *viewerID

		wg.Add(1)
		go func() {
			defer wg.Done()
			premium, err := s.subscriptionStore.IsPremiumActive(ctx, viewer, s.now().UTC())
			if err != nil {
				markFailed()
				s.logger.Warn("subscription lookup failed, treating viewer as non-premium",
					zap.Int64("viewer_id", viewer),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			facts.ViewerIsPremium = premium
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			connected, err := s.interestStore.HasAcceptedBetween(ctx, viewer, subjectID)
			if err != nil {
				markFailed()
				s.logger.Warn("interest lookup failed, treating pair as not connected",
					zap.Int64("viewer_id", viewer),
					zap.Int64("subject_id", subjectID),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			facts.MutualConnection = connected
			mu.Unlock()
		}()
	}

	wg.Wait()

	return facts, !failed
}

func inputsFromFacts(rec redrepo.RelationshipFactsRecord, authenticated bool) Inputs {
	return Inputs{
		Self:          false,
		Authenticated: authenticated,
		Premium:       authenticated && rec.ViewerIsPremium,
		Connected:     authenticated && rec.MutualConnection,
		Visibility: model.VisibilityConfig{
			ProfileVisibility: enums.ProfileVisibility(rec.ProfileVisibility),
			PhotoVisibility:   enums.MediaVisibility(rec.PhotoVisibility),
			ContactVisibility: enums.MediaVisibility(rec.ContactVisibility),
		},
	}
}
