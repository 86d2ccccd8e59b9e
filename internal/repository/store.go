package repository

import (
	"context"
	"fmt"

	"lambdaf-dashboard/internal/config"
	"lambdaf-dashboard/internal/db"
	"lambdaf-dashboard/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Store is the read side every backend implements.
type Store interface {
	Backend() string
	FetchRecent(ctx context.Context, limit int) ([]domain.RawRecord, error)
}

var (
	openFirestore = func(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (Store, func(), error) {
		repo, err := NewFirestoreRepository(ctx, FirestoreOptions{
			ProjectID:       cfg.FirestoreProjectID,
			Collection:      cfg.FirestoreCollection,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			CredentialsJSON: cfg.FirebaseCredentials(),
		}, tracer)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	}
	initPostgres = db.InitPostgres
)

// OpenStore connects the backend named by cfg.StoreBackend. The returned
// cleanup func is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		initPostgres(ctx)
		if db.Pool == nil {
			return nil, func() {}, fmt.Errorf("postgres store unavailable")
		}
		pool := db.Pool
		repo := NewLambdaRepository(pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, func() {}, fmt.Errorf("run lambda_f_records migrations: %w", err)
		}
		return repo, pool.Close, nil
	case config.BackendFirestore, "":
		store, closeFn, err := openFirestore(ctx, cfg, tracer)
		if err != nil {
			return nil, func() {}, err
		}
		return store, closeFn, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported store backend: %q", cfg.StoreBackend)
	}
}
