package db

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

var (
	newPool  = pgxpool.New
	pingPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
)

// InitPostgres opens Pool from DATABASE_URL. Pool stays nil when the URL is
// empty or the database cannot be reached; the λF fetcher then reports a
// fetch warning instead of failing startup.
func InitPostgres(ctx context.Context) {
	Pool = nil

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Println("DATABASE_URL not set, skipping Postgres")
		return
	}

	pool, err := newPool(ctx, dsn)
	if err != nil {
		log.Printf("failed to open Postgres pool: %v", err)
		return
	}
	if err := pingPool(ctx, pool); err != nil {
		log.Printf("failed to connect to Postgres: %v", err)
		pool.Close()
		return
	}
	Pool = pool
	log.Println("Connected to Postgres")
}
