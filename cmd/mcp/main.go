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

	"lambdaf-dashboard/internal/cache"
	"lambdaf-dashboard/internal/config"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/mcpserver"
	"lambdaf-dashboard/internal/ratelimit"
	"lambdaf-dashboard/internal/repository"
	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	openStoreFunc        = repository.OpenStore
	newCacheFunc         = cache.New
	newLambdaServiceFunc = service.NewLambdaService
	runStdioFunc         = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("REDIS_URL", cfg.RedisURL)
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx, "mcp")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var recordStore service.RecordStore
	store, closeStore, err := openStoreFunc(ctx, cfg, tracer)
	if err != nil {
		log.Printf("λF store unavailable (%s): %v", cfg.StoreBackend, err)
	} else {
		recordStore = store
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

	server := mcpserver.New(lambdaService, time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second)

	if cfg.MCPTransport != "http" {
		// stdout belongs to the protocol; log keeps writing to stderr
		if err := runStdioFunc(ctx, server); err != nil {
			log.Printf("MCP stdio session ended: %v", err)
		}
		return
	}

	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil),
	}

	go func() {
		log.Printf("MCP server listening on %s", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down MCP server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Printf("MCP server shutdown error: %v", err)
	}

	log.Println("MCP server exited")
}
