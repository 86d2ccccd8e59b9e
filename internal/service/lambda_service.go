package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lambdaf-dashboard/internal/cache"
	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/ratelimit"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FetchLimit is the number of most recent records pulled per cycle.
const FetchLimit = 30

const (
	defaultCacheTTL     = 600 * time.Second
	defaultStoreTimeout = 10 * time.Second
	refreshWait         = 2 * time.Second
)

// ErrRefreshThrottled is returned by Refresh when forced re-fetches arrive
// faster than the configured rate.
var ErrRefreshThrottled = errors.New("refresh throttled")

type RecordStore interface {
	Backend() string
	FetchRecent(ctx context.Context, limit int) ([]domain.RawRecord, error)
}

type Options struct {
	CacheTTL     time.Duration
	StoreTimeout time.Duration
	Variant      domain.ContributionVariant

	// RefreshLimiter bounds Refresh calls; nil means unlimited.
	RefreshLimiter *ratelimit.Limiter
}

// Snapshot is one evaluated render cycle. Warning is set when the store
// could not be read; the evaluation is then empty.
type Snapshot struct {
	domain.Evaluation
	Backend     string    `json:"backend"`
	Variant     string    `json:"variant"`
	Warning     string    `json:"warning,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// LambdaService fetches λF records through a TTL cache and evaluates them.
type LambdaService struct {
	tracer  trace.Tracer
	store   RecordStore
	cache   cache.Cache
	ttl     time.Duration
	timeout time.Duration
	variant domain.ContributionVariant
	limiter *ratelimit.Limiter
	now     func() time.Time
}

func NewLambdaService(tracer trace.Tracer, store RecordStore, c cache.Cache, opts Options) *LambdaService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if !opts.Variant.IsValid() {
		opts.Variant = domain.VariantBreakdown
	}
	return &LambdaService{
		tracer:  tracer,
		store:   store,
		cache:   c,
		ttl:     opts.CacheTTL,
		timeout: opts.StoreTimeout,
		variant: opts.Variant,
		limiter: opts.RefreshLimiter,
		now:     time.Now,
	}
}

func (s *LambdaService) Backend() string {
	if s.store == nil {
		return "none"
	}
	return s.store.Backend()
}

func (s *LambdaService) Variant() domain.ContributionVariant {
	return s.variant
}

func (s *LambdaService) cacheKey() string {
	return "lambdaf:records:" + s.Backend()
}

// FetchRecords returns at most FetchLimit records, newest first. Cached
// results are served until the TTL lapses. Store failures come back as a
// *domain.FetchError with an empty slice and are never cached.
func (s *LambdaService) FetchRecords(ctx context.Context) ([]domain.RawRecord, error) {
	ctx, span := s.tracer.Start(ctx, "lambda-service.fetch-records")
	defer span.End()

	key := s.cacheKey()
	if s.cache != nil {
		records, ok, err := s.readCache(ctx, key)
		if err != nil {
			log.Printf("cache read error for %s: %v", key, err)
		}
		if ok {
			span.SetAttributes(attribute.Bool("cache_hit", true), attribute.Int("records", len(records)))
			return records, nil
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	if s.store == nil {
		err := &domain.FetchError{Backend: s.Backend(), Cause: errors.New("no record store configured")}
		span.SetStatus(codes.Error, err.Error())
		return []domain.RawRecord{}, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.store.FetchRecent(fetchCtx, FetchLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return []domain.RawRecord{}, &domain.FetchError{Backend: s.store.Backend(), Cause: err}
	}
	if len(records) > FetchLimit {
		records = records[:FetchLimit]
	}
	if records == nil {
		records = []domain.RawRecord{}
	}
	span.SetAttributes(attribute.Int("records", len(records)))

	if s.cache != nil {
		if err := s.writeCache(ctx, key, records); err != nil {
			log.Printf("cache write error for %s: %v", key, err)
		}
	}
	return records, nil
}

// Snapshot runs the full pipeline. It never fails: fetch problems surface
// through Snapshot.Warning.
func (s *LambdaService) Snapshot(ctx context.Context) Snapshot {
	ctx, span := s.tracer.Start(ctx, "lambda-service.snapshot")
	defer span.End()

	snap := Snapshot{
		Backend:     s.Backend(),
		Variant:     string(s.variant),
		GeneratedAt: s.now().UTC(),
	}

	records, err := s.FetchRecords(ctx)
	if err != nil {
		log.Printf("λF fetch failed: %v", err)
		snap.Warning = err.Error()
	}

	snap.Evaluation = lambdaf.Evaluate(records, s.variant)
	if snap.Dropped > 0 {
		log.Printf("dropped %d malformed λF records", snap.Dropped)
	}
	span.SetAttributes(
		attribute.Int("samples", len(snap.Series)),
		attribute.Int("dropped", snap.Dropped),
	)
	return snap
}

// Refresh drops the cached fetch result so the next read goes to the store.
func (s *LambdaService) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "lambda-service.refresh")
	defer span.End()

	if s.limiter != nil {
		waitCtx, cancel := context.WithTimeout(ctx, refreshWait)
		err := s.limiter.Wait(waitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRefreshThrottled, err)
		}
	}

	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		span.RecordError(err)
		return err
	}
	log.Printf("λF cache cleared for %s", s.Backend())
	return nil
}

func (s *LambdaService) readCache(ctx context.Context, key string) ([]domain.RawRecord, bool, error) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, err
	}
	if records == nil {
		records = []domain.RawRecord{}
	}
	return records, true, nil
}

func (s *LambdaService) writeCache(ctx context.Context, key string, records []domain.RawRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.ttl)
}
