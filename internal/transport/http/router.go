package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/signup-api/internal/application/activation"
	"github.com/signup-api/internal/application/user"
	"github.com/signup-api/internal/application/verification"
	"github.com/signup-api/internal/config"
	"github.com/signup-api/internal/transport/http/handler"
	appmiddleware "github.com/signup-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	if proxies, err := appmiddleware.ParseProxies(cfg.TrustedProxies); err != nil {
		slog.Warn("ignoring TRUSTED_PROXIES, rate limiting by socket address", "err", err)
	} else {
		sensitiveRL.TrustProxies(proxies)
	}

	codes := verification.NewService(deps.CodeStore, verification.Options{
		TTL:              cfg.OTPTTL,
		ConsumeOnSuccess: cfg.OTPConsumeOnSuccess,
	})
	activationDeps := activation.ServiceDeps{Codes: codes, Mailer: deps.Mailer}
	userDeps := user.ServiceDeps{UserRepo: deps.UserRepo, RequireVerifiedEmail: cfg.RequireVerifiedEmail}
	if deps.SMSSender != nil {
		activationDeps.SMSSender = deps.SMSSender
	}
	if deps.Tickets != nil {
		activationDeps.Tickets = deps.Tickets
		userDeps.Tickets = deps.Tickets
	}

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerificationHandler(activation.NewService(activationDeps))
	userH := handler.NewUserHandler(user.NewService(userDeps))

	r.Route("/api", func(r chi.Router) {
		r.Use(sensitiveRL.Limit)
		r.Post("/sendEmail", verifyH.SendEmail)
		r.Post("/verifyCode", verifyH.VerifyCode)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/verification/{action}", verifyH.Action)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
	})

	return r
}
