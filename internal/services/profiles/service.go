package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vivahapp/backend/internal/domain/enums"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrAgeRejected = errors.New("age rejected")
	ErrNotFound    = errors.New("profile not found")
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	SaveCore(
		ctx context.Context,
		userID int64,
		displayName string,
		bio string,
		birthdate time.Time,
		gender string,
		motherTongue string,
		religion string,
		community string,
		maritalStatus string,
		occupation string,
		education string,
		heightCM int,
		city string,
		country string,
		profileCompleted bool,
	) error
}

type VisibilityStore interface {
	Upsert(ctx context.Context, userID int64, profileVisibility, photoVisibility, contactVisibility string) error
}

type ContactStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ContactRecord, error)
	Upsert(ctx context.Context, userID int64, email, phoneE164 string) error
}

// UserInvalidator drops memoized relationship facts involving the user once
// their visibility settings change.
type UserInvalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

type Service struct {
	store        ProfileStore
	visibility   VisibilityStore
	contacts     ContactStore
	privacyCache UserInvalidator
	logger       *zap.Logger
	now          func() time.Time
}

type CoreInput struct {
	DisplayName   string
	Bio           string
	Birthdate     time.Time
	Gender        string
	MotherTongue  string
	Religion      string
	Community     string
	MaritalStatus string
	Occupation    string
	Education     string
	HeightCM      int
	City          string
	Country       string
}

type VisibilityInput struct {
	ProfileVisibility string
	PhotoVisibility   string
	ContactVisibility string
}

func NewService(store ProfileStore, visibility VisibilityStore, contacts ContactStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:      store,
		visibility: visibility,
		contacts:   contacts,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) AttachPrivacyCache(cache UserInvalidator) {
	s.privacyCache = cache
}

func (s *Service) Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, ErrValidation
	}
	if s.store == nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return pgrepo.ProfileRecord{}, ErrNotFound
		}
		return pgrepo.ProfileRecord{}, err
	}
	return rec, nil
}

func (s *Service) UpdateCore(ctx context.Context, userID int64, in CoreInput) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return false, fmt.Errorf("profile store is nil")
	}

	normalized, err := normalizeAndValidateInput(s.now(), in)
	if err != nil {
		return false, err
	}

	profileCompleted := isProfileCompleted(normalized)
	if err := s.store.SaveCore(
		ctx,
		userID,
		normalized.DisplayName,
		normalized.Bio,
		normalized.Birthdate,
		normalized.Gender,
		normalized.MotherTongue,
		normalized.Religion,
		normalized.Community,
		normalized.MaritalStatus,
		normalized.Occupation,
		normalized.Education,
		normalized.HeightCM,
		normalized.City,
		normalized.Country,
		profileCompleted,
	); err != nil {
		return false, fmt.Errorf("save profile core: %w", err)
	}

	return profileCompleted, nil
}

// UpdateVisibility validates the three axes strictly: a request carrying an
// unknown value is rejected instead of being stored and later interpreted as
// the restrictive fallback.
func (s *Service) UpdateVisibility(ctx context.Context, userID int64, in VisibilityInput) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.visibility == nil {
		return fmt.Errorf("visibility store is nil")
	}

	profile := strings.ToLower(strings.TrimSpace(in.ProfileVisibility))
	photo := strings.ToLower(strings.TrimSpace(in.PhotoVisibility))
	contact := strings.ToLower(strings.TrimSpace(in.ContactVisibility))

	if !isAllowedProfileVisibility(profile) || !isAllowedMediaVisibility(photo) || !isAllowedMediaVisibility(contact) {
		return ErrValidation
	}

	if err := s.visibility.Upsert(ctx, userID, profile, photo, contact); err != nil {
		return fmt.Errorf("save visibility settings: %w", err)
	}

	s.invalidateUser(ctx, userID)
	return nil
}

// GetContact returns the private contact record. Callers decide whether the
// viewer sees it raw or masked; this method never masks.
func (s *Service) GetContact(ctx context.Context, userID int64) (pgrepo.ContactRecord, error) {
	if userID <= 0 {
		return pgrepo.ContactRecord{}, ErrValidation
	}
	if s.contacts == nil {
		return pgrepo.ContactRecord{}, fmt.Errorf("contact store is nil")
	}

	rec, err := s.contacts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrContactNotFound) {
			return pgrepo.ContactRecord{}, ErrNotFound
		}
		return pgrepo.ContactRecord{}, err
	}
	return rec, nil
}

func (s *Service) UpdateContact(ctx context.Context, userID int64, email, phoneE164 string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.contacts == nil {
		return fmt.Errorf("contact store is nil")
	}

	email = strings.TrimSpace(email)
	phoneE164 = strings.TrimSpace(phoneE164)
	if email == "" && phoneE164 == "" {
		return ErrValidation
	}
	if email != "" && !strings.Contains(email, "@") {
		return ErrValidation
	}

	if err := s.contacts.Upsert(ctx, userID, email, phoneE164); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}

	return nil
}

func (s *Service) invalidateUser(ctx context.Context, userID int64) {
	if s.privacyCache == nil {
		return
	}
	if err := s.privacyCache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("invalidate privacy user cache failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func normalizeAndValidateInput(now time.Time, in CoreInput) (CoreInput, error) {
	if in.Birthdate.IsZero() {
		return CoreInput{}, fmt.Errorf("birthdate is required: %w", ErrValidation)
	}

	age := ageYears(in.Birthdate, now)
	if age < 18 {
		return CoreInput{}, ErrAgeRejected
	}

	out := CoreInput{
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Bio:           strings.TrimSpace(in.Bio),
		Birthdate:     in.Birthdate,
		Gender:        strings.ToLower(strings.TrimSpace(in.Gender)),
		MotherTongue:  strings.ToLower(strings.TrimSpace(in.MotherTongue)),
		Religion:      strings.ToLower(strings.TrimSpace(in.Religion)),
		Community:     strings.TrimSpace(in.Community),
		MaritalStatus: strings.ToLower(strings.TrimSpace(in.MaritalStatus)),
		Occupation:    strings.TrimSpace(in.Occupation),
		Education:     strings.TrimSpace(in.Education),
		HeightCM:      in.HeightCM,
		City:          strings.TrimSpace(in.City),
		Country:       strings.TrimSpace(in.Country),
	}

	if out.DisplayName == "" || out.Gender == "" || out.MaritalStatus == "" {
		return CoreInput{}, fmt.Errorf("required fields are missing: %w", ErrValidation)
	}
	if _, ok := allowedMaritalStatuses[out.MaritalStatus]; !ok {
		return CoreInput{}, fmt.Errorf("marital status %q is not allowed: %w", out.MaritalStatus, ErrValidation)
	}
	if out.HeightCM != 0 && (out.HeightCM < 100 || out.HeightCM > 250) {
		return CoreInput{}, fmt.Errorf("invalid height_cm: %w", ErrValidation)
	}

	return out, nil
}

func isProfileCompleted(in CoreInput) bool {
	return !in.Birthdate.IsZero() &&
		in.DisplayName != "" &&
		in.Gender != "" &&
		in.MotherTongue != "" &&
		in.Religion != "" &&
		in.MaritalStatus != "" &&
		in.Occupation != "" &&
		in.Education != "" &&
		in.HeightCM >= 100 &&
		in.City != "" &&
		in.Country != ""
}

func isAllowedProfileVisibility(value string) bool {
	switch enums.ProfileVisibility(value) {
	case enums.ProfileVisibilityPublic,
		enums.ProfileVisibilityCommunity,
		enums.ProfileVisibilityPremium,
		enums.ProfileVisibilityPrivate:
		return true
	default:
		return false
	}
}

func isAllowedMediaVisibility(value string) bool {
	switch enums.MediaVisibility(value) {
	case enums.MediaVisibilityAll,
		enums.MediaVisibilityPremium,
		enums.MediaVisibilityMutual:
		return true
	default:
		return false
	}
}

func ageYears(birthdate time.Time, now time.Time) int {
	b := birthdate.UTC()
	n := now.UTC()

	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}

	return years
}

var allowedMaritalStatuses = map[string]struct{}{
	"never_married": {},
	"divorced":      {},
	"widowed":       {},
	"annulled":      {},
}
