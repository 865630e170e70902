package routes

import (
	"net/http"

	"github.com/ismyyear/lockin/internal/app"
	"github.com/ismyyear/lockin/internal/handler"
	"github.com/ismyyear/lockin/internal/metrics"
	"github.com/ismyyear/lockin/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	leaderboard := handler.NewLeaderboardHandler(app.LeaderboardService)
	users := handler.NewUserHandler(app.UserService)
	checkins := handler.NewCheckinHandler(app.CheckinService)
	goals := handler.NewGoalHandler(app.GoalService)
	profile := handler.NewProfileHandler(app.ProfileService)
	export := handler.NewExportHandler(app.ExportService)

	// Auth: bearer token required when AUTH_JWT_SECRET is set
	requireUser := middleware.BearerAuth(app.Cfg.AuthJWTSecret, true)
	optionalUser := middleware.BearerAuth(app.Cfg.AuthJWTSecret, false)

	// Write endpoints are rate limited per IP
	rateLimit := middleware.RateLimit(middleware.NewRateLimiter(app.Cfg.RateLimitRPS, app.Cfg.RateLimitBurst))

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, requireUser)
	}
	protectedWrite := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, rateLimit, requireUser)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", handler.Health)
	mux.Handle("GET /metrics", middleware.BasicAuth(app.Cfg.MetricsUser, app.Cfg.MetricsPassword)(metrics.Handler()))

	mux.HandleFunc("GET /api/leaderboard/weekly", leaderboard.Weekly)
	mux.HandleFunc("GET /api/public-goals", profile.PublicGoals)

	// Sign-up sync from the auth provider
	mux.Handle("POST /api/users", middleware.Chain(http.HandlerFunc(users.Create), rateLimit, optionalUser))

	// ============================================================================
	// USER ROUTES
	// ============================================================================

	mux.Handle("POST /api/register-intent", protectedWrite(users.RegisterIntent))
	mux.Handle("POST /api/checkin", protectedWrite(checkins.Create))

	mux.Handle("GET /api/users/{id}/checkins", protected(checkins.List))
	mux.Handle("GET /api/users/{id}/stats", protected(checkins.Stats))
	mux.Handle("GET /api/users/{id}/goals", protected(goals.Get))
	mux.Handle("PUT /api/users/{id}/goals", protectedWrite(goals.Save))
	mux.Handle("GET /api/users/{id}/profile", protected(profile.Get))
	mux.Handle("PUT /api/users/{id}/profile", protectedWrite(profile.Update))
	mux.Handle("GET /api/users/{id}/export", protectedWrite(export.Export))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RecoverPanics,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.RequestLogging,
		middleware.Metrics,
	)
}
