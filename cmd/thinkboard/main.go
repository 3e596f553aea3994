package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	rediscache "thinkboard/internal/notes/adapters/cache"
	httpServer "thinkboard/internal/notes/adapters/http"
	notespg "thinkboard/internal/notes/adapters/postgres"
	adapterServices "thinkboard/internal/notes/adapters/services"
	"thinkboard/internal/notes/adapters/storage"
	"thinkboard/internal/notes/app"
	"thinkboard/internal/notes/app/scheduler"
	"thinkboard/internal/notes/config"
	"thinkboard/internal/notes/ports/cache"
	"thinkboard/pkg/db/postgres"
	"thinkboard/pkg/logger"
	"thinkboard/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrConnectDatabase      = "failed to connect to database"
	ErrRunMigrations        = "failed to run database migrations"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrCreateBlobStore      = "failed to create attachment storage"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes service started"
	LogServiceShutdownDone = "notes service shutdown complete"
	LogConnectingDatabase  = "connecting to database"
	LogRunningMigrations   = "running database migrations"
	LogInitCache           = "initializing cache"
	LogCacheDisabled       = "share cache disabled, resolving tokens from database"
	LogInitStorage         = "initializing attachment storage"
	LogInitUseCases        = "initializing use cases"
	LogInitScheduler       = "starting reminder scheduler"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingScheduler   = "stopping reminder scheduler"
)

// migrationsPath - путь к миграциям базы данных заметок.
const migrationsPath = "migrations/notes"

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogConnectingDatabase)
		database, err := postgres.New(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MinConn, cfg.Postgres.MaxConn)
		if err != nil {
			log.Error(ctx, ErrConnectDatabase, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogRunningMigrations)
		if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), migrationsPath); err != nil {
			log.Error(ctx, ErrRunMigrations, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		// Кэш токенов доступа опционален: без него токены
		// разрешаются напрямую из базы.
		var shareCache cache.Cache
		if cfg.Redis.Enabled {
			log.Info(ctx, LogInitCache)
			shareCache, err = rediscache.NewRedisCache(ctx, &cfg.Redis)
			if err != nil {
				log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
				database.Close(ctx)
				exitCode = 1
				return
			}
		} else {
			log.Info(ctx, LogCacheDisabled)
		}

		log.Info(ctx, LogInitStorage)
		blobs, err := storage.NewDiskStore(cfg.Storage.Dir)
		if err != nil {
			log.Error(ctx, ErrCreateBlobStore, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitUseCases)
		repoFactory := notespg.NewRepositoryFactory(database.Pool())
		noteRepo := repoFactory.NoteRepository()
		userDirectory := repoFactory.UserDirectory()

		clock := adapterServices.SystemClock{}
		tokens := adapterServices.NewJWT(cfg.JWT.SecretKey)
		email := adapterServices.NewEmailTransport(&cfg.Email)

		noteUseCase := app.NewNoteUseCase(noteRepo, blobs, clock)
		shareUseCase := app.NewShareUseCase(noteRepo, shareCache, clock)
		reminderUseCase := app.NewReminderUseCase(noteRepo, clock)

		log.Info(ctx, LogInitScheduler,
			zap.Duration("interval", cfg.Scheduler.Interval),
			zap.Duration("window", cfg.Scheduler.Window))
		reminderScheduler := scheduler.New(noteRepo, userDirectory, email, clock,
			scheduler.WithInterval(cfg.Scheduler.Interval),
			scheduler.WithWindow(cfg.Scheduler.Window))
		reminderScheduler.Start(ctx)

		log.Info(ctx, LogInitHTTPServer)
		fiberApp := fiber.New(fiber.Config{
			BodyLimit: cfg.HTTP.BodyLimit,
		})

		httpServer.SetupRouter(fiberApp, tokens, noteUseCase, shareUseCase, reminderUseCase)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.Shutdown()
			},
			// Остановка планировщика напоминаний.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingScheduler)
				reminderScheduler.Stop(ctx)
				return nil
			},
			// Закрытие Redis соединения.
			func(ctx context.Context) error {
				if shareCache == nil {
					return nil
				}
				log.Info(ctx, "Closing Redis connection")
				return shareCache.Close()
			},
			// Закрытие пула соединений с базой.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing database connection pool")
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
