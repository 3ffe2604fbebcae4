package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/cache"
	"theatre-forms/internal/config"
	"theatre-forms/internal/handlers"
	"theatre-forms/internal/logging"
	"theatre-forms/internal/notify"
	"theatre-forms/internal/pricing"
	"theatre-forms/internal/service"
	"theatre-forms/internal/validation"
)

const requestIDHeader = "X-Request-ID"

type Config struct {
	Settings       *config.Config
	Logger         *logging.ContextLogger
	TracerProvider trace.TracerProvider
	Notifier       notify.Notifier // overrides the SMTP / log notifier chosen from Settings
	Stores         *Stores         // overrides the backend chosen from Settings
}

type Application struct {
	server  *http.Server
	config  *Config
	router  *gin.Engine
	stores  *Stores
	cache   *cache.InMemoryCache
	handler *handlers.FormHandler
	release func()
}

func Build(config *Config) (*Application, error) {
	settings := config.Settings
	if settings.GinMode != "" {
		gin.SetMode(settings.GinMode)
	}

	cacheInstance := cache.NewInMemoryCache()

	stores, release := config.Stores, func() {}
	if stores == nil {
		var err error
		stores, release, err = openStores(context.Background(), settings, cacheInstance)
		if err != nil {
			cacheInstance.Close()
			return nil, err
		}
	}

	notifier, err := buildNotifier(config)
	if err != nil {
		release()
		cacheInstance.Close()
		return nil, err
	}

	prices := pricing.DefaultTable()
	if settings.PricingFile != "" {
		if prices, err = pricing.LoadTable(settings.PricingFile); err != nil {
			release()
			cacheInstance.Close()
			return nil, err
		}
	}

	v := validation.New()
	formHandler := handlers.NewFormHandler(
		service.NewContactService(v, stores.Contact, notifier, settings.Mail, config.Logger),
		service.NewNewsletterService(v, stores.Subscribers, stores.NewsletterActivity, notifier, settings.Mail, config.Logger),
		service.NewBookingService(v, prices, stores.Booking, notifier, settings.Mail, config.Logger),
		config.Logger,
	)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(handlers.MethodNotAllowed)
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(settings.ServiceName, otelgin.WithTracerProvider(config.TracerProvider)))
	router.Use(cors.New(corsConfig(settings.AllowedOrigins)))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		config.Logger.WithTracing(c.Request.Context()).WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     method,
			"path":       path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}).Info("HTTP request completed")
	})

	api := router.Group("/api")
	{
		api.POST("/contact", formHandler.Contact)
		api.POST("/newsletter", formHandler.Newsletter)
		api.POST("/booking", formHandler.Booking)
	}

	// Paths the existing page forms post to.
	router.POST("/process_contact.php", formHandler.Contact)
	router.POST("/newsletter.php", formHandler.Newsletter)
	router.POST("/booking.php", formHandler.Booking)

	router.GET("/health", handlers.Health(settings.ServiceName, settings.ServiceVersion))

	server := &http.Server{
		Addr:         settings.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
	}

	return &Application{
		server:  server,
		config:  config,
		router:  router,
		stores:  stores,
		cache:   cacheInstance,
		handler: formHandler,
		release: release,
	}, nil
}

func buildNotifier(config *Config) (notify.Notifier, error) {
	if config.Notifier != nil {
		return config.Notifier, nil
	}
	settings := config.Settings
	if !settings.SMTPEnabled() {
		config.Logger.Warn("SMTP_HOST not set, outbound mail will only be logged")
		return notify.NewLogNotifier(config.Logger), nil
	}
	n, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     settings.SMTP.Host,
		Port:     settings.SMTP.Port,
		Username: settings.SMTP.Username,
		Password: settings.SMTP.Password,
		UseTLS:   settings.SMTP.UseTLS,
		Timeout:  settings.SMTP.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid smtp configuration: %w", err)
	}
	return n, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodPost, http.MethodGet, http.MethodOptions}
	return cfg
}

func (app *Application) Run() error {
	app.config.Logger.Info("Starting server on " + app.server.Addr)
	if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.config.Logger.Info("Shutting down server...")
	defer app.cache.Close()
	defer app.release()
	return app.server.Shutdown(ctx)
}

func (app *Application) GetStores() *Stores {
	return app.stores
}

func (app *Application) GetHandler() *handlers.FormHandler {
	return app.handler
}

func (app *Application) GetRouter() *gin.Engine {
	return app.router
}
