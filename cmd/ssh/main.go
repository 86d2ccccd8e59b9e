package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"lambdaf-dashboard/internal/cache"
	"lambdaf-dashboard/internal/config"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/ratelimit"
	"lambdaf-dashboard/internal/repository"
	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/internal/tui"
	"lambdaf-dashboard/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	openStoreFunc        = repository.OpenStore
	newCacheFunc         = cache.New
	newLambdaServiceFunc = service.NewLambdaService
	newWishServerFunc    = wish.NewServer
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

// acceptAnyKey lets every client in. The dashboard is read-only and the
// fingerprint is only logged.
func acceptAnyKey(ctx ssh.Context, key ssh.PublicKey) bool {
	log.Printf("SSH session accepted: user=%s fingerprint=%s", ctx.User(), gossh.FingerprintSHA256(key))
	return true
}

// sessionHandler builds one dashboard model per SSH session, rendered with
// the session's own color profile.
func sessionHandler(reader tui.LambdaReader) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		model := tui.NewAppModel(tui.Services{
			Lambda:   reader,
			Renderer: bubbletea.MakeRenderer(s),
			Username: s.User(),
		})
		pty, _, _ := s.Pty()
		model.SetSize(pty.Window.Width, pty.Window.Height)

		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

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
	tp, tracer, err := initTracerFunc(ctx, "ssh")
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

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(acceptAnyKey),
		wish.WithMiddleware(
			bubbletea.Middleware(sessionHandler(lambdaService)),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
