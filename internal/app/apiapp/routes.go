package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	interestsvc "github.com/vivahapp/backend/internal/services/interests"
	photossvc "github.com/vivahapp/backend/internal/services/photos"
	privacysvc "github.com/vivahapp/backend/internal/services/privacy"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
	subssvc "github.com/vivahapp/backend/internal/services/subscriptions"
	telemetrysvc "github.com/vivahapp/backend/internal/services/telemetry"
	"github.com/vivahapp/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	TokenVerifier       *authsvc.Verifier
	PrivacyService      *privacysvc.Service
	ProfileService      *profilesvc.Service
	PhotoService        *photossvc.Service
	InterestService     *interestsvc.Service
	SubscriptionService *subssvc.Service
	TelemetryService    *telemetrysvc.Service
	Logger              *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	viewHandler := handlers.NewProfileViewHandler(deps.PrivacyService, deps.ProfileService, deps.PhotoService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	photosHandler := handlers.NewPhotosHandler(deps.PhotoService)
	interestsHandler := handlers.NewInterestsHandler(deps.InterestService)
	subscriptionHandler := handlers.NewSubscriptionHandler(deps.SubscriptionService)
	meHandler := handlers.NewMeHandler(deps.ProfileService, deps.SubscriptionService)
	eventsHandler := handlers.NewEventsHandler(deps.TelemetryService)

	authMW := AuthMiddleware(deps.TokenVerifier, deps.Logger)
	optionalAuthMW := OptionalAuthMiddleware(deps.TokenVerifier, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.With(optionalAuthMW).Get("/profiles/{user_id}", viewHandler.Profile)
		r.With(optionalAuthMW).Get("/profiles/{user_id}/photos", viewHandler.Photos)
		r.With(optionalAuthMW).Get("/profiles/{user_id}/contact", viewHandler.Contact)

		r.With(authMW).Get("/me", meHandler.Get)
		r.With(authMW).Put("/profile", profileHandler.Core)
		r.With(authMW).Put("/profile/visibility", profileHandler.Visibility)
		r.With(authMW).Put("/profile/contact", profileHandler.Contact)
		r.With(authMW).Post("/profile/photos", photosHandler.Upload)
		r.With(authMW).Get("/profile/photos", photosHandler.ListOwn)

		r.With(authMW).Post("/interests", interestsHandler.Send)
		r.With(authMW).Post("/interests/accept", interestsHandler.Accept)
		r.With(authMW).Post("/interests/decline", interestsHandler.Decline)
		r.With(authMW).Get("/interests/incoming", interestsHandler.Incoming)
		r.With(authMW).Get("/interests/sent", interestsHandler.Sent)

		r.With(authMW).Get("/subscription", subscriptionHandler.Get)

		r.With(optionalAuthMW).Post("/events/batch", eventsHandler.Batch)
	})
}
