// Package server wires every feature into the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/reimburse/internal/auth"
	"github.com/fkhayef/reimburse/internal/category"
	"github.com/fkhayef/reimburse/internal/config"
	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/employee"
	"github.com/fkhayef/reimburse/internal/expense"
	"github.com/fkhayef/reimburse/internal/logger"
	"github.com/fkhayef/reimburse/internal/notification"
	"github.com/fkhayef/reimburse/internal/report"
	"github.com/fkhayef/reimburse/internal/settlement"
	"github.com/fkhayef/reimburse/internal/user"
	mw "github.com/fkhayef/reimburse/pkg/middleware"
	"github.com/fkhayef/reimburse/pkg/response"
)

// New builds the application router
func New(cfg *config.Config, db *database.DB, log zerolog.Logger) http.Handler {
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		ResetTTL:   cfg.ResetTokenTTL,
	})

	var sender notification.Sender = notification.NewLogSender(log.With().Str("component", "mail").Logger())
	if cfg.SMTPHost != "" {
		sender = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.SMTPTimeout,
		})
	}
	notificationService := notification.NewService(sender)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Auth feature
	authService := auth.NewService(db, userRepo, auth.NewOTPRepository(db), tokens, notificationService,
		log.With().Str("component", "auth").Logger(), cfg.OTPTTL)
	authHandler := auth.NewHandler(authService)

	// Employee and category features
	employeeRepo := employee.NewRepository(db)
	employeeHandler := employee.NewHandler(employee.NewService(employeeRepo))

	categoryRepo := category.NewRepository(db)
	categoryHandler := category.NewHandler(category.NewService(categoryRepo))

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseHandler := expense.NewHandler(expense.NewService(expenseRepo, employeeRepo, categoryRepo))

	// Settlement feature
	paymentHandler := settlement.NewHandler(settlement.NewService(db, settlement.NewRepository(db), expenseRepo, employeeRepo))

	// Report feature
	reportHandler := report.NewHandler(report.NewService(expenseRepo, log.With().Str("component", "report").Logger()))

	authenticate := mw.Authenticate(tokens, userService)
	limitAuth := httprate.LimitByIP(cfg.AuthRateLimit, time.Minute)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unavailable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(limitAuth, authenticate))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			employees := employeeHandler.Routes()
			employees.Get("/{id}/expenses", expenseHandler.ListByEmployee)
			employees.Get("/{id}/payments", paymentHandler.ListByEmployee)

			r.Mount("/users", userHandler.Routes())
			r.Mount("/employees", employees)
			r.Mount("/categories", categoryHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/payments", paymentHandler.Routes())
			r.Mount("/reports", reportHandler.Routes())
		})
	})

	return r
}
