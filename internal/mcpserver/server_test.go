package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type readerStub struct {
	snap       service.Snapshot
	refreshErr error
	refreshed  int
}

func (r *readerStub) Snapshot(context.Context) service.Snapshot { return r.snap }

func (r *readerStub) Refresh(context.Context) error {
	r.refreshed++
	return r.refreshErr
}

func criticalSnapshot() service.Snapshot {
	return service.Snapshot{
		Evaluation: lambdaf.Evaluate([]domain.RawRecord{
			{Timestamp: "2026-02-12T10:05:00Z", LambdaF: 0.6},
			{
				Timestamp:    "2026-02-13T10:05:00Z",
				LambdaF:      0.72,
				Status:       strPtr("Kritik"),
				SourceScores: map[string]any{"fearAndGreed": 90.0, "redditHype": 50.0},
			},
		}, domain.VariantBreakdown),
		Variant:     "breakdown",
		GeneratedAt: time.Date(2026, 2, 13, 11, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }

func TestReadingFrom(t *testing.T) {
	r := readingFrom(criticalSnapshot())
	if !r.Available || r.Tier != "Critical" || r.LambdaF != 0.72 {
		t.Fatalf("unexpected reading: %+v", r)
	}
	if math.Abs(r.Delta-0.12) > 1e-9 || r.DeltaText != "0.120 vs. previous day" {
		t.Fatalf("unexpected delta: %v %q", r.Delta, r.DeltaText)
	}
	if r.StoredStatus != "Kritik" || r.Timestamp != "2026-02-13T10:05:00Z" {
		t.Fatalf("unexpected latest sample fields: %+v", r)
	}
	if math.Abs(r.FearAndGreed-0.36) > 1e-9 || math.Abs(r.RedditHype-0.15) > 1e-9 || r.VolumeSpike != 0 {
		t.Fatalf("unexpected contributions: %+v", r)
	}
	if r.Samples != 2 || r.Summary == "" {
		t.Fatalf("unexpected metadata: %+v", r)
	}
}

func TestReadingFromEmpty(t *testing.T) {
	r := readingFrom(service.Snapshot{
		Evaluation: lambdaf.Evaluate(nil, domain.VariantBreakdown),
		Warning:    "fetch λF records from firestore: boom",
	})
	if r.Available || r.Tier != "" || r.LambdaF != 0 {
		t.Fatalf("expected unavailable reading, got %+v", r)
	}
	if r.Warning == "" {
		t.Fatal("expected warning to be carried")
	}
}

func TestRefreshToolError(t *testing.T) {
	tl := &tools{reader: &readerStub{refreshErr: errors.New("redis down")}, timeout: time.Second}
	if _, _, err := tl.refresh(context.Background(), nil, RefreshInput{}); err == nil {
		t.Fatal("expected refresh error")
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	reader := &readerStub{snap: criticalSnapshot()}
	server := New(reader, time.Second)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "lambda_f_refresh", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool reported error: %+v", res.Content)
	}
	if reader.refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", reader.refreshed)
	}

	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var got Reading
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode reading: %v", err)
	}
	if got.Tier != "Critical" || !got.Available {
		t.Fatalf("unexpected reading over the wire: %+v", got)
	}
}
