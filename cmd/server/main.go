package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lambdaf-dashboard/internal/bot"
	"lambdaf-dashboard/internal/cache"
	"lambdaf-dashboard/internal/config"
	"lambdaf-dashboard/internal/handler"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/ratelimit"
	"lambdaf-dashboard/internal/repository"
	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "lambdaf-dashboard/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	openStoreFunc          = repository.OpenStore
	newCacheFunc           = cache.New
	newLambdaServiceFunc   = service.NewLambdaService
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           λF Risk Dashboard API
// @version         1.0
// @description     Reads λF risk indicator records, classifies the latest reading and serves dashboard data.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Redis; the record cache falls back to memory without it
	os.Setenv("REDIS_URL", cfg.RedisURL)
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, "")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Open the record store. An unreachable store is reported on every
	// render instead of stopping the server.
	var recordStore service.RecordStore
	store, closeStore, err := openStoreFunc(ctx, cfg, tracer)
	if err != nil {
		log.Printf("λF store unavailable (%s): %v", cfg.StoreBackend, err)
	} else {
		recordStore = store
		log.Printf("λF store ready: %s", store.Backend())
	}
	defer closeStore()

	variant, err := lambdaf.ParseVariant(cfg.ContributionMode)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	lambdaService := newLambdaServiceFunc(tracer, recordStore, newCacheFunc(cache.Client), service.Options{
		CacheTTL:     time.Duration(cfg.CacheTTLSecs) * time.Second,
		StoreTimeout: time.Duration(cfg.StoreTimeoutSecs) * time.Second,
		Variant:      variant,

		RefreshLimiter: ratelimit.PerMinute(cfg.RefreshPerMinute),
	})

	// Start Telegram bot
	if b := startTelegramBotFunc(cfg.TelegramBotToken, lambdaService); b != nil {
		defer b.Stop()
	}

	// Create handlers and routes
	h := newHandlerFunc(tracer, lambdaService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
