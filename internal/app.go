package internal

import (
	"log"
	"strings"

	"mantisbeanstalk/internal/audit"
	"mantisbeanstalk/internal/beanstalkhooks"
	"mantisbeanstalk/internal/db"
	"mantisbeanstalk/internal/directive"
	"mantisbeanstalk/internal/env"
	"mantisbeanstalk/internal/events"
	"mantisbeanstalk/internal/hyperusers"
	"mantisbeanstalk/internal/logging"
	"mantisbeanstalk/internal/models"
	"mantisbeanstalk/internal/orchestrator"
	"mantisbeanstalk/internal/tracker/mantis"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func SetupApp(deployment string, envRoot string, appVersion string) *fiber.App {
	app := fiber.New()

	env.Init(envRoot, appVersion)

	logger, err := logging.New(env.LOG_LEVEL, env.LOG_FORMAT)
	if err != nil {
		log.Fatalf("Could not configure logging: %v", err)
		return nil
	}
	zap.ReplaceGlobals(logger)

	deploy := strings.TrimSpace(deployment)
	logger = logger.With(zap.String("deployment", deploy))

	if env.MANTIS_URL == "" {
		logger.Fatal("MANTIS_URL is required")
	}

	if err := db.InitDB(); err != nil {
		logger.Fatal("Could not connect to MongoDB", zap.Error(err))
		return nil
	}

	if err := db.InitCache(); err != nil {
		logger.Fatal("Could not connect to Redis", zap.Error(err))
		return nil
	}

	if db.Events != nil {
		events.Em = events.NewEmitter(db.Events, deploy)
	} else {
		events.Em = nil
	}

	client := mantis.New(env.MANTIS_URL, env.MANTIS_TOKEN,
		mantis.WithTimeout(env.MANTIS_TIMEOUT),
		mantis.WithUserCache(db.RedisCache{RDB: db.RDB}, env.USER_CACHE_TTL),
		mantis.WithLogger(logger.Named("mantis")),
	)

	opts := []orchestrator.Option{orchestrator.WithLogger(logger.Named("orchestrator"))}
	if events.Em != nil {
		opts = append(opts, orchestrator.WithRecorder(events.Em))
	}
	parser := directive.Parser{LegacyPriority: env.DIRECTIVE_LEGACY_PRIORITY}
	o := orchestrator.New(client, parser, opts...)

	store := audit.NewMongoSink(db.Audits)
	sinks := audit.Multi{store}
	if env.AUDIT_LOG_DIR != "" {
		sinks = append(sinks, audit.NewFileSink(env.AUDIT_LOG_DIR))
	}

	hooks := beanstalkhooks.NewHandler(o, sinks, logger.Named("hooks"))
	hooks.Events = events.Em
	hooks.Token = env.HOOK_TOKEN

	mantisGroup := app.Group("/mantis")

	mantisGroup.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	mantisGroup.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	beanstalkhooks.Routes(mantisGroup, hooks)
	hyperusers.Routes(mantisGroup)
	audit.Routes(mantisGroup, store, models.AccountMiddleware)

	logger.Info("app ready",
		zap.String("version", env.VERSION),
		zap.String("mantis", env.MANTIS_URL),
		zap.Bool("legacy_priority", parser.LegacyPriority),
		zap.Bool("file_audit", env.AUDIT_LOG_DIR != ""),
	)

	return app
}
