package repository

import (
	"context"
	"errors"
	"fmt"

	"lambdaf-dashboard/internal/domain"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Document fields written by the λF producer.
const (
	fieldTimestamp    = "timestamp"
	fieldLambdaF      = "lambda_F"
	fieldStatus       = "status"
	fieldSourceScores = "source_scores"
)

type firestoreDoc struct {
	ID   string
	Data map[string]any
}

type documentQuery func(ctx context.Context, limit int) ([]firestoreDoc, error)

type FirestoreRepository struct {
	client     *firestore.Client
	collection string
	query      documentQuery
	tracer     trace.Tracer
}

type FirestoreOptions struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
	CredentialsJSON []byte
}

var newFirestoreClient = firestore.NewClient

// NewFirestoreRepository opens a Firestore client for the λF collection.
func NewFirestoreRepository(ctx context.Context, opts FirestoreOptions, tracer trace.Tracer) (*FirestoreRepository, error) {
	var clientOpts []option.ClientOption
	switch {
	case len(opts.CredentialsJSON) > 0:
		clientOpts = append(clientOpts, option.WithCredentialsJSON(opts.CredentialsJSON))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	projectID := opts.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	client, err := newFirestoreClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	repo := &FirestoreRepository{
		client:     client,
		collection: opts.Collection,
		tracer:     tracer,
	}
	repo.query = repo.queryClient
	return repo, nil
}

func (r *FirestoreRepository) Backend() string {
	return "firestore"
}

// FetchRecent returns up to limit documents ordered by timestamp, newest
// first. Documents without a timestamp field are not returned by Firestore.
func (r *FirestoreRepository) FetchRecent(ctx context.Context, limit int) ([]domain.RawRecord, error) {
	_, span := r.tracer.Start(ctx, "firestore-repo.fetch-recent")
	defer span.End()
	span.SetAttributes(attribute.String("collection", r.collection), attribute.Int("limit", limit))

	if r.query == nil {
		return nil, errNotInitialized("firestore client")
	}

	docs, err := r.query(ctx, limit)
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, recordFromDocument(doc.ID, doc.Data))
	}
	return records, nil
}

func (r *FirestoreRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *FirestoreRepository) queryClient(ctx context.Context, limit int) ([]firestoreDoc, error) {
	iter := r.client.Collection(r.collection).
		OrderBy(fieldTimestamp, firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var docs []firestoreDoc
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, firestoreDoc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func recordFromDocument(id string, data map[string]any) domain.RawRecord {
	rec := domain.RawRecord{
		ID:        id,
		Timestamp: data[fieldTimestamp],
		LambdaF:   data[fieldLambdaF],
	}
	if s, ok := data[fieldStatus].(string); ok {
		rec.Status = &s
	}
	if scores, ok := data[fieldSourceScores].(map[string]any); ok {
		rec.SourceScores = scores
	}
	return rec
}
