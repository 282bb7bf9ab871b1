package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/workforcehq/records-backend-go/internal/config"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/handler/http/middleware"
	"github.com/workforcehq/records-backend-go/internal/pkg/jwt"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	userRepo user.UserRepository,
	authHandler AuthHandler,
	userHandler UserHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	payrollHandler PayrollHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "records-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.CORSOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	// locally stored resumes and payslips
	if cfg.Storage.Type == "local" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.BasePath)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(userRepo))

			r.Route("/users", func(r chi.Router) {
				r.Post("/me/password", userHandler.ChangePassword)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin))
					r.Put("/{id}/role", userHandler.SetRole)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleHR, user.RoleSeniorManager))
					r.Get("/", employeeHandler.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleHR))
					r.Post("/", employeeHandler.Create)
					r.Put("/{id}", employeeHandler.Update)
					r.Post("/{id}/resume", employeeHandler.UploadResume)
				})

				// employees may read their own profile; the service enforces it
				r.Get("/{id}", employeeHandler.GetByID)
				r.Post("/me/biometric", employeeHandler.EnrollBiometric)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/my", attendanceHandler.My)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleHR, user.RoleSeniorManager))
					r.Get("/stats", attendanceHandler.Stats)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/request", leaveHandler.FileRequest)
				r.Get("/my", leaveHandler.My)
				r.Get("/balances", leaveHandler.Balances)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleHR, user.RoleSeniorManager))
					r.Get("/pending", leaveHandler.Pending)
					r.Post("/{id}/decide", leaveHandler.Decide)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleHR))
					r.Post("/balances", leaveHandler.SetBalance)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/current", payrollHandler.Current)
				r.Get("/my", payrollHandler.My)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleHR))
					r.Post("/run", payrollHandler.Run)
					r.Post("/{id}/pay", payrollHandler.Pay)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleAdmin))
				r.Get("/audit", auditHandler.List)
			})
		})
	})

	return r
}
