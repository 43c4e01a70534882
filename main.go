package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amund211/pilgrim/internal/adapters/cache"
	"github.com/Amund211/pilgrim/internal/adapters/database"
	"github.com/Amund211/pilgrim/internal/adapters/guide"
	"github.com/Amund211/pilgrim/internal/adapters/progressrepository"
	"github.com/Amund211/pilgrim/internal/adapters/ticketrepository"
	"github.com/Amund211/pilgrim/internal/adapters/userrepository"
	"github.com/Amund211/pilgrim/internal/app"
	"github.com/Amund211/pilgrim/internal/config"
	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
	"github.com/Amund211/pilgrim/internal/ports"
	"github.com/Amund211/pilgrim/internal/reporting"
	"github.com/Amund211/pilgrim/internal/session"
	"github.com/Amund211/pilgrim/internal/syncer"
	"github.com/Amund211/pilgrim/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Distroless images ship without CA certificates
	_ "golang.org/x/crypto/x509roots/fallback"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "pilgrimjourney.app"
const STAGING_DOMAIN_SUFFIX = "pilgrim-staging.pages.dev"

const SERVICE_NAME = "pilgrim"

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instanceID := uuid.New().String()
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(handler).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}

	if project := config.GoogleCloudProject(); project != "" {
		handler = logging.NewGoogleCloudTracingLogHandler(handler, project)
		logger = slog.New(handler).With("instanceID", instanceID)
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	if !config.IsDevelopment() {
		shutdownOTel, err := telemetry.SetupOTelSDK(ctx, SERVICE_NAME)
		if err != nil {
			fail("Failed to initialize OpenTelemetry", "error", err.Error())
		}
		defer func() {
			err := shutdownOTel(context.Background())
			if err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	repos, err := newRepositories(ctx, config, logger)
	if err != nil {
		fail("Failed to initialize repositories", "error", err.Error())
	}

	progressSyncer := syncer.New(repos.progress, syncer.DEFAULT_TIMEOUT)

	sessionStore := session.NewStore(repos.progress, session.DEFAULT_TTL, logger.With("component", "sessions"))

	guideResponder, err := guide.NewResponder(ctx, config)
	if err != nil {
		fail("Failed to initialize guide", "error", err.Error())
	}
	logger.Info("Initialized guide", "gemini", config.GeminiAPIKey() != "")

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	engine := domain.NewDefaultEngine()
	levels := engine.Levels()

	login := app.BuildLogin(sessionStore, repos.users)
	logout := app.BuildLogout(sessionStore)
	getRank := app.BuildGetRank(sessionStore, repos.progress, cache.NewTTLCache[int](app.RANK_CACHE_TTL))
	getProgress := app.BuildGetProgress(sessionStore, levels, getRank)

	addPoints := app.BuildAddPoints(engine, sessionStore, progressSyncer)
	unlockAchievement := app.BuildUnlockAchievement(engine, sessionStore, progressSyncer)
	recordVerse := app.BuildRecordVerse(engine, sessionStore, progressSyncer)
	completeLevel := app.BuildCompleteLevel(engine, sessionStore, progressSyncer)
	claimDailyReward := app.BuildClaimDailyReward(engine, sessionStore, progressSyncer, time.Now)
	recordSocialInteraction := app.BuildRecordSocialInteraction(engine, sessionStore, progressSyncer)
	recordVisit := app.BuildRecordVisit(engine, sessionStore, progressSyncer)

	createTicket := app.BuildCreateTicket(repos.tickets, time.Now, time.AfterFunc)
	listTickets := app.BuildListTickets(repos.tickets)

	respondToGuide := app.BuildRespondToGuide(engine.Campaigns(), guideResponder)
	getGuideIntro := app.BuildGetGuideIntro(engine.Campaigns(), guideResponder)

	mux := http.NewServeMux()

	handleWithCORS := func(path string, handlers map[string]http.HandlerFunc) {
		mux.HandleFunc(fmt.Sprintf("OPTIONS %s", path), ports.BuildCORSHandler(allowedOrigins))
		for method, handler := range handlers {
			mux.HandleFunc(fmt.Sprintf("%s %s", method, path), handler)
		}
	}

	handleWithCORS("/v1/session", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeLoginHandler(
			login,
			levels,
			allowedOrigins,
			logger.With("port", "login"),
			sentryMiddleware,
		),
		http.MethodDelete: ports.MakeLogoutHandler(
			logout,
			allowedOrigins,
			logger.With("port", "logout"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/progress", map[string]http.HandlerFunc{
		http.MethodGet: ports.MakeGetProgressHandler(
			getProgress,
			levels,
			allowedOrigins,
			logger.With("port", "progress"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/points", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeAddPointsHandler(
			addPoints,
			levels,
			allowedOrigins,
			logger.With("port", "points"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/achievements/{id}", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeUnlockAchievementHandler(
			unlockAchievement,
			levels,
			allowedOrigins,
			logger.With("port", "achievements"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/verses", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeRecordVerseHandler(
			recordVerse,
			levels,
			allowedOrigins,
			logger.With("port", "verses"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/campaigns/{campaign}/complete", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeCompleteLevelHandler(
			completeLevel,
			levels,
			allowedOrigins,
			logger.With("port", "completelevel"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/daily", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeClaimDailyRewardHandler(
			claimDailyReward,
			levels,
			allowedOrigins,
			logger.With("port", "daily"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/social", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeRecordSocialInteractionHandler(
			recordSocialInteraction,
			levels,
			allowedOrigins,
			logger.With("port", "social"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/visits/{surface}", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeRecordVisitHandler(
			recordVisit,
			levels,
			allowedOrigins,
			logger.With("port", "visits"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/rank", map[string]http.HandlerFunc{
		http.MethodGet: ports.MakeGetRankHandler(
			getRank,
			allowedOrigins,
			logger.With("port", "rank"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/tickets", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeCreateTicketHandler(
			createTicket,
			allowedOrigins,
			logger.With("port", "createticket"),
			sentryMiddleware,
		),
		http.MethodGet: ports.MakeListTicketsHandler(
			listTickets,
			allowedOrigins,
			logger.With("port", "listtickets"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/guide", map[string]http.HandlerFunc{
		http.MethodPost: ports.MakeRespondToGuideHandler(
			respondToGuide,
			allowedOrigins,
			logger.With("port", "guide"),
			sentryMiddleware,
		),
	})

	handleWithCORS("/v1/guide/intro", map[string]http.HandlerFunc{
		http.MethodGet: ports.MakeGetGuideIntroHandler(
			getGuideIntro,
			allowedOrigins,
			logger.With("port", "guide-intro"),
			sentryMiddleware,
		),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port()),
		Handler:           otelhttp.NewHandler(mux, SERVICE_NAME),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	logger.Info("Init complete")

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			fail("Server error", "error", err.Error())
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("Failed to shut down server", "error", err.Error())
	}

	// Deltas accepted before shutdown are still persisted
	err = progressSyncer.Flush(shutdownCtx)
	if err != nil {
		logger.Error("Failed to flush pending progress", "error", err.Error())
	}

	logger.Info("Server shutdown")
}

type repositories struct {
	progress progressrepository.ProgressRepository
	tickets  ticketrepository.TicketRepository
	users    userrepository.UserRepository
}

// Development runs without a database unless a Cloud SQL socket is configured
func newRepositories(ctx context.Context, config config.Config, logger *slog.Logger) (repositories, error) {
	if config.IsDevelopment() && config.CloudSQLUnixSocketPath() == "" {
		logger.Info("Using in-memory repositories")
		return repositories{
			progress: progressrepository.NewInMemory(),
			tickets:  ticketrepository.NewInMemory(),
			users:    userrepository.NewInMemory(time.Now),
		}, nil
	}

	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(config)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Initialized database connection")

	schemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		return repositories{}, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repositories{
		progress: progressrepository.NewPostgres(db, schemaName),
		tickets:  ticketrepository.NewPostgres(db, schemaName),
		users:    userrepository.NewPostgres(db, schemaName, time.Now),
	}, nil
}
