// Package di wires repositories, services and handlers together.
package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/audit"
	"github.com/eventup-dev/eventup/internal/handler"
	"github.com/eventup-dev/eventup/internal/middleware"
	"github.com/eventup-dev/eventup/internal/repository"
	"github.com/eventup-dev/eventup/internal/service"
	"github.com/eventup-dev/eventup/pkg/config"
	"github.com/eventup-dev/eventup/pkg/database"
	"github.com/eventup-dev/eventup/pkg/token"
)

// Container holds the fully wired application graph.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Tokens   *token.Manager
	Recorder audit.Recorder

	UserRepo      repository.UserRepository
	accessLogRepo repository.AccessLogRepository

	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	CategoryHandler     *handler.CategoryHandler
	EventHandler        *handler.EventHandler
	RegistrationHandler *handler.RegistrationHandler
	CertificateHandler  *handler.CertificateHandler
	AccessLogHandler    *handler.AccessLogHandler
	DashboardHandler    *handler.DashboardHandler
	HealthHandler       *handler.HealthHandler

	RateLimiter *middleware.RateLimiter
}

// AccessLogCollection is the MongoDB collection holding access entries.
const AccessLogCollection = "access_logs"

// NewContainer wires the application. mongoDB and redisClient may be nil;
// the access log then degrades and the rate limiter runs in-process.
func NewContainer(
	cfg *config.Config,
	log *zap.Logger,
	postgres *database.PostgresDB,
	mongoDB *database.MongoDB,
	redisClient *redis.Client,
) *Container {
	pool := postgres.Pool()

	userRepo := repository.NewPostgresUserRepository(pool)
	categoryRepo := repository.NewPostgresCategoryRepository(pool)
	eventRepo := repository.NewPostgresEventRepository(pool)
	registrationRepo := repository.NewPostgresRegistrationRepository(pool)
	certificateRepo := repository.NewPostgresCertificateRepository(pool)

	var accessLogRepo repository.AccessLogRepository
	if mongoDB != nil {
		accessLogRepo = repository.NewMongoAccessLogRepository(mongoDB.Collection(AccessLogCollection))
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TokenTTL, cfg.JWT.Issuer)
	recorder := audit.NewRecorder(accessLogRepo, log, audit.DefaultConfig())

	authSvc := service.NewAuthService(userRepo, tokens, recorder, log)
	userSvc := service.NewUserService(userRepo, log)
	categorySvc := service.NewCategoryService(categoryRepo, log)
	eventSvc := service.NewEventService(eventRepo, categoryRepo, log)
	registrationSvc := service.NewRegistrationService(registrationRepo, eventRepo, userRepo, recorder, log)
	certificateSvc := service.NewCertificateService(certificateRepo, registrationRepo, eventRepo, recorder, log)
	accessLogSvc := service.NewAccessLogService(accessLogRepo, userRepo, eventRepo, log)
	dashboardSvc := service.NewDashboardService(userRepo, eventRepo, registrationRepo, certificateRepo, accessLogRepo, log)

	var mongoPinger handler.Pinger
	if mongoDB != nil {
		mongoPinger = mongoDB
	}

	rateLimit := cfg.RateLimit.RequestsPerMinute + cfg.RateLimit.Burst

	return &Container{
		Config:        cfg,
		Logger:        log,
		Tokens:        tokens,
		Recorder:      recorder,
		UserRepo:      userRepo,
		accessLogRepo: accessLogRepo,

		AuthHandler:         handler.NewAuthHandler(authSvc, log),
		UserHandler:         handler.NewUserHandler(userSvc, log),
		CategoryHandler:     handler.NewCategoryHandler(categorySvc, log),
		EventHandler:        handler.NewEventHandler(eventSvc, log),
		RegistrationHandler: handler.NewRegistrationHandler(registrationSvc, log),
		CertificateHandler:  handler.NewCertificateHandler(certificateSvc, log),
		AccessLogHandler:    handler.NewAccessLogHandler(accessLogSvc, log),
		DashboardHandler:    handler.NewDashboardHandler(dashboardSvc, log),
		HealthHandler:       handler.NewHealthHandler(postgres, mongoPinger),

		RateLimiter: middleware.NewRateLimiter(redisClient, log, rateLimit, time.Minute),
	}
}

// EnsureAccessLogIndexes creates the access log indexes when the document
// store is connected.
func (c *Container) EnsureAccessLogIndexes(ctx context.Context) error {
	if c.accessLogRepo == nil {
		return nil
	}
	return c.accessLogRepo.EnsureIndexes(ctx)
}

// Close releases background workers owned by the container.
func (c *Container) Close() {
	c.Recorder.Close()
}
