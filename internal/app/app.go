package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	"github.com/alimikegami/pos-microservices/payment-service/internal/controller"
	circuitbreaker "github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/pos-microservices/payment-service/internal/middleware"
	"github.com/alimikegami/pos-microservices/payment-service/internal/repository"
	"github.com/alimikegami/pos-microservices/payment-service/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

type App struct {
	DB     *sqlx.DB
	Config *config.Config
	Server *echo.Echo

	publisher kafka.EventPublisher
}

// CreateApp sets up logging and builds the server and the event publisher.
// Both exist before Start is called, so StopServer may run at any time.
func CreateApp(db *sqlx.DB, config *config.Config) *App {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	e := echo.New()
	e.HideBanner = true

	app := &App{
		DB:     db,
		Config: config,
		Server: e,
	}
	app.publisher = app.createPublisher()

	return app
}

func (app *App) Start() {
	logger := log.Logger

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	tracer := traceProvider.Tracer(tracing.ServiceName)

	e := app.Server

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	})

	if app.Config.MetricsPort != "" {
		// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
		e.Use(echoprometheus.NewMiddleware(""))

		go func() {
			metrics := echo.New()
			metrics.HideBanner = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Failed to start metrics server")
			}
		}()
	}

	e.Use(localmiddleware.Logger)

	var cb *gobreaker.CircuitBreaker[[]byte]
	if app.Config.EasypayConfig.CircuitBreakerEnabled {
		cb = circuitbreaker.CreateCircuitBreaker("easypay")
	}

	gateway := paymentgateway.CreateEasypayClient(app.Config, cb)
	repo := repository.CreatePaymentRepository(app.DB)
	svc := service.CreatePaymentService(repo, gateway, app.publisher, app.Config)
	controller.CreatePaymentController(e.Group("/api/payment"), svc)

	if err := e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// createPublisher falls back to a no-op publisher when no broker is
// configured or the broker cannot be reached at startup.
func (app *App) createPublisher() kafka.EventPublisher {
	if app.Config.KafkaConfig.BrokerAddress == "" {
		return kafka.NoopPublisher{}
	}

	conn, err := kafka.CreateKafkaProducer(app.Config)
	if err != nil {
		log.Error().Err(err).Str("component", "createPublisher").Msg("status events disabled")
		return kafka.NoopPublisher{}
	}

	return kafka.CreateKafkaPublisher(conn)
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// in-flight requests may still publish status events
	err := app.Server.Shutdown(ctx)

	if closeErr := app.publisher.Close(); closeErr != nil {
		log.Error().Err(closeErr).Str("component", "StopServer").Msg("")
	}

	return err
}
