package app

import (
	"fmt"
	"io"

	"github.com/ismyyear/lockin/internal/aggregate"
	"github.com/ismyyear/lockin/internal/cache"
	"github.com/ismyyear/lockin/internal/config"
	"github.com/ismyyear/lockin/internal/db"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/service"
	"github.com/ismyyear/lockin/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Cache              cache.Cache
	UserService        *service.UserService
	MatcherService     *service.MatcherService
	ProfileService     *service.ProfileService
	EmailService       *service.EmailService
	CheckinService     *service.CheckinService
	LeaderboardService *service.LeaderboardService
	GoalService        *service.GoalService
	ExportService      *service.ExportService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	responseCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %v", err)
	}

	// Storage (optional, exports are streamed without it)
	exportStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	return NewWithDeps(cfg, database, responseCache, exportStorage)
}

// NewWithDeps wires services around already opened infrastructure.
// exportStorage may be nil.
func NewWithDeps(cfg *config.Config, database *sqlx.DB, responseCache cache.Cache, exportStorage storage.Storage) (*App, error) {
	scoring, err := aggregate.ParseScoring(cfg.LeaderboardScoring)
	if err != nil {
		return nil, err
	}
	leaderboardOpts := aggregate.Options{
		Scoring: scoring,
		Limit:   cfg.LeaderboardSize,
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	checkinRepository := repository.NewCheckinRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	matcherService := service.NewMatcherService(userRepository, emailService)
	userService := service.NewUserService(userRepository, matcherService, cfg.RegistrationMonthEndOnly)
	profileService := service.NewProfileService(userRepository)
	checkinService := service.NewCheckinService(checkinRepository, userRepository, responseCache)
	leaderboardService := service.NewLeaderboardService(checkinRepository, userRepository, responseCache, leaderboardOpts, cfg.LeaderboardCacheTTL)
	goalService := service.NewGoalService(goalRepository, userRepository)
	exportService := service.NewExportService(userRepository, goalService, checkinRepository, exportStorage)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Cache:              responseCache,
		UserService:        userService,
		MatcherService:     matcherService,
		ProfileService:     profileService,
		EmailService:       emailService,
		CheckinService:     checkinService,
		LeaderboardService: leaderboardService,
		GoalService:        goalService,
		ExportService:      exportService,
	}, nil
}

func (a *App) Close() error {
	if c, ok := a.Cache.(io.Closer); ok {
		_ = c.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
