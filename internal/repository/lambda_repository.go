package repository

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"lambdaf-dashboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ts and lambda_f are nullable: producers occasionally write partial rows and
// the normalizer is the one that drops them.
const createLambdaTable = `
CREATE TABLE IF NOT EXISTS lambda_f_records (
    id            BIGSERIAL        PRIMARY KEY,
    ts            TIMESTAMPTZ,
    lambda_f      DOUBLE PRECISION,
    status        TEXT,
    source_scores JSONB,
    created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_lambda_f_records_ts
    ON lambda_f_records (ts DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type LambdaRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewLambdaRepository(pool PgxPool, tracer trace.Tracer) *LambdaRepository {
	return &LambdaRepository{pool: pool, tracer: tracer}
}

func (r *LambdaRepository) Backend() string {
	return "postgres"
}

func (r *LambdaRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "lambda-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createLambdaTable)
	return err
}

// FetchRecent returns up to limit records, newest first.
func (r *LambdaRepository) FetchRecent(ctx context.Context, limit int) ([]domain.RawRecord, error) {
	_, span := r.tracer.Start(ctx, "lambda-repo.fetch-recent")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit))

	if r.pool == nil {
		return nil, errNotInitialized("postgres pool")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, ts, lambda_f, status, source_scores
		 FROM lambda_f_records
		 ORDER BY ts DESC NULLS LAST, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RawRecord
	for rows.Next() {
		var (
			id      int64
			ts      *time.Time
			lambdaF *float64
			status  *string
			scores  []byte
		)
		if err := rows.Scan(&id, &ts, &lambdaF, &status, &scores); err != nil {
			return nil, err
		}
		records = append(records, recordFromRow(id, ts, lambdaF, status, scores))
	}
	return records, rows.Err()
}

func recordFromRow(id int64, ts *time.Time, lambdaF *float64, status *string, scores []byte) domain.RawRecord {
	rec := domain.RawRecord{ID: strconv.FormatInt(id, 10), Status: status}
	if ts != nil {
		rec.Timestamp = *ts
	}
	if lambdaF != nil {
		rec.LambdaF = *lambdaF
	}
	if len(scores) > 0 {
		var parsed map[string]any
		if err := json.Unmarshal(scores, &parsed); err != nil {
			log.Printf("lambda_f_records id=%d: ignoring unreadable source_scores: %v", id, err)
		} else {
			rec.SourceScores = parsed
		}
	}
	return rec
}
