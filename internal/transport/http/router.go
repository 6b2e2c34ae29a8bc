package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/aqarmatch/api/internal/application/auth"
	"github.com/aqarmatch/api/internal/application/dashboard"
	fileapp "github.com/aqarmatch/api/internal/application/file"
	"github.com/aqarmatch/api/internal/application/match"
	"github.com/aqarmatch/api/internal/application/matching"
	"github.com/aqarmatch/api/internal/application/notification"
	"github.com/aqarmatch/api/internal/application/offer"
	"github.com/aqarmatch/api/internal/application/request"
	"github.com/aqarmatch/api/internal/application/session"
	"github.com/aqarmatch/api/internal/application/submission"
	"github.com/aqarmatch/api/internal/application/team"
	"github.com/aqarmatch/api/internal/application/user"
	"github.com/aqarmatch/api/internal/config"
	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/aqarmatch/api/internal/infrastructure/jwt"
	"github.com/aqarmatch/api/internal/infrastructure/realtime"
	s3infra "github.com/aqarmatch/api/internal/infrastructure/s3"
	"github.com/aqarmatch/api/internal/infrastructure/smtp"
	"github.com/aqarmatch/api/internal/infrastructure/sns"
	"github.com/aqarmatch/api/internal/transport/http/handler"
	appmiddleware "github.com/aqarmatch/api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo           *dynamo.UserRepo
	SessionRepo        *dynamo.SessionRepo
	OfferRepo          *dynamo.OfferRepo
	RequestRepo        *dynamo.RequestRepo
	MatchRepo          *dynamo.MatchRepo
	NotificationRepo   *dynamo.NotificationRepo
	TeamRepo           *dynamo.TeamRepo
	FileRepo           *dynamo.FileRepo
	VerificationRepo   *dynamo.VerificationRepo
	SubmissionLinkRepo *dynamo.SubmissionLinkRepo
	S3Store            *s3infra.Store
	Mailer             smtp.Mailer
	SMSSender          sns.SMSSender
	JWTProvider        *jwtinfra.Provider
	Pusher             realtime.Pusher
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	matchingSvc := matching.NewService(matching.ServiceDeps{
		OfferRepo:        deps.OfferRepo,
		RequestRepo:      deps.RequestRepo,
		MatchRepo:        deps.MatchRepo,
		NotificationRepo: deps.NotificationRepo,
		Pusher:           deps.Pusher,
	})
	sessionSvc := session.NewService(deps.SessionRepo, deps.UserRepo, deps.JWTProvider, cfg.RefreshTokenTTL)
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenTTL,
	})
	offerSvc := offer.NewService(deps.OfferRepo, matchingSvc)
	requestSvc := request.NewService(deps.RequestRepo, matchingSvc)
	matchSvc := match.NewService(deps.MatchRepo, deps.OfferRepo, deps.RequestRepo, deps.TeamRepo)
	notifSvc := notification.NewService(deps.NotificationRepo)
	teamSvc := team.NewService(deps.TeamRepo, deps.UserRepo)
	fileSvc := fileapp.NewService(deps.S3Store, deps.FileRepo, deps.OfferRepo)
	authSvc := auth.NewService(deps.VerificationRepo, deps.UserRepo, deps.SessionRepo,
		deps.Mailer, deps.SMSSender, deps.JWTProvider, cfg.RefreshTokenTTL)
	dashboardSvc := dashboard.NewService(deps.OfferRepo, deps.RequestRepo, deps.MatchRepo,
		deps.TeamRepo, deps.UserRepo)
	submissionSvc := submission.NewService(deps.SubmissionLinkRepo, deps.UserRepo,
		offerSvc, requestSvc)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	offerH := handler.NewOfferHandler(offerSvc)
	requestH := handler.NewRequestHandler(requestSvc)
	matchH := handler.NewMatchHandler(matchSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	teamH := handler.NewTeamHandler(teamSvc)
	fileH := handler.NewFileHandler(fileSvc)
	pwH := handler.NewPasswordRecoveryHandler(authSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	submissionH := handler.NewSubmissionLinkHandler(submissionSvc)
	emailH := handler.NewEmailConfirmHandler(authSvc)
	phoneH := handler.NewPhoneConfirmHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)
		r.With(sensitiveRL.Limit).Post("/public/submissions/{token}/offers", submissionH.SubmitOffer)
		r.With(sensitiveRL.Limit).Post("/public/submissions/{token}/requests", submissionH.SubmitRequest)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Post("/users/change-password", userH.ChangePassword)

			r.Get("/meta/enums", handler.Enums)

			r.Get("/dashboard/summary", dashboardH.Summary)
			r.Get("/dashboard/top-brokers", dashboardH.TopBrokers)
			r.Get("/dashboard/top-cities", dashboardH.TopCities)

			r.Post("/offers", offerH.Create)
			r.Get("/offers", offerH.List)
			r.Get("/offers/{id}", offerH.Get)
			r.Put("/offers/{id}", offerH.Update)
			r.Delete("/offers/{id}", offerH.Delete)
			r.Post("/offers/{id}/files", fileH.Upload)
			r.Get("/offers/{id}/files", fileH.ListByOffer)

			r.Post("/requests", requestH.Create)
			r.Get("/requests", requestH.List)
			r.Get("/requests/{id}", requestH.Get)
			r.Put("/requests/{id}", requestH.Update)
			r.Delete("/requests/{id}", requestH.Delete)

			r.Get("/matches", matchH.List)
			r.Get("/matches/{id}", matchH.Get)
			r.Put("/matches/{id}/status", matchH.UpdateStatus)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/{id}", notifH.Get)
			r.Put("/notifications/{id}", notifH.UpdateStatus)

			r.Get("/teams", teamH.List)
			r.Get("/teams/{id}", teamH.Get)

			r.Get("/files/{id}", fileH.Download)
			r.Delete("/files/{id}", fileH.Delete)

			r.Post("/password-recovery/change-password", pwH.ChangePassword)
			r.Post("/confirm-email/{action}", emailH.Action)
			r.Post("/confirm-phone/{action}", phoneH.Action)

			// Elevated roles
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleManager))

				r.Post("/teams", teamH.Create)
				r.Post("/teams/{id}/members", teamH.AddMember)
				r.Delete("/teams/{id}/members/{userID}", teamH.RemoveMember)

				r.Post("/users/{id}/submission-links", submissionH.Create)
				r.Get("/users/{id}/submission-links", submissionH.List)
				r.Delete("/submission-links/{linkID}", submissionH.Deactivate)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)
			})
		})
	})

	return r
}
