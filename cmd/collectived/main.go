package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/gocollective/collective-server/internal/config"
	"github.com/gocollective/collective-server/internal/infra/cache"
	"github.com/gocollective/collective-server/internal/infra/database"
	"github.com/gocollective/collective-server/internal/infra/gateway"
	"github.com/gocollective/collective-server/internal/infra/repository"
	"github.com/gocollective/collective-server/internal/present/rest"
	authmw "github.com/gocollective/collective-server/internal/present/rest/middleware"
	"github.com/gocollective/collective-server/internal/service"
	"github.com/gocollective/collective-server/internal/usecase"
)

func main() {
	configPath := "/etc/collectived/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	conf, err := config.Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		logger.Fatalw("failed to connect database", "error", err)
	}
	if err := database.MigratePostgres(db); err != nil {
		logger.Fatalw("failed to migrate database", "error", err)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	if conf.Server.EnableTrace {
		shutdown, err := setupTracer(conf.Server.TraceEndpoint)
		if err != nil {
			logger.Fatalw("failed to initialize tracer", "error", err)
		}
		defer shutdown(context.Background())
	}

	collectiveRepo := repository.NewCollectiveRepository(db)
	hostRepo := repository.NewHostRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	signal := service.NewSignalService(rdb)
	activityRepo := repository.NewActivityRepository(db, signal)

	githubGateway := gateway.NewGithubGateway(conf.Platform.GithubStarsThreshold)
	purger := cache.NewPagePurger(mc, rdb)

	collectiveUsecase := usecase.NewCollectiveUsecase(
		collectiveRepo,
		hostRepo,
		accountRepo,
		githubGateway,
		purger,
		activityRepo,
		usecase.Config{OpenSourceHostSlug: conf.Platform.OpenSourceHostSlug},
		logger,
	)

	auth := service.NewAuthService([]byte(conf.Platform.JwtSecret), accountRepo)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("collectived"))
	}
	e.Use(authmw.NewAuthMiddleware(auth).IdentifyActor)

	handler := rest.NewHandler(collectiveUsecase, signal)
	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTracer(endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", "collectived"),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
