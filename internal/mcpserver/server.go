// Package mcpserver exposes the λF pipeline as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"time"

	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/internal/view"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "lambdaf-dashboard"
	ServerVersion = "1.0.0"

	defaultTimeout = 5 * time.Second
)

type LambdaReader interface {
	Snapshot(ctx context.Context) service.Snapshot
	Refresh(ctx context.Context) error
}

type SnapshotInput struct{}

type RefreshInput struct{}

// Reading is the structured tool result. Score fields are zero and
// Available is false when no sample could be read.
type Reading struct {
	Available    bool    `json:"available"`
	LambdaF      float64 `json:"lambda_F"`
	Tier         string  `json:"tier,omitempty"`
	Delta        float64 `json:"delta"`
	DeltaText    string  `json:"delta_text,omitempty"`
	HasHistory   bool    `json:"has_history"`
	StoredStatus string  `json:"stored_status,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
	FearAndGreed float64 `json:"fearAndGreed"`
	RedditHype   float64 `json:"redditHype"`
	VolumeSpike  float64 `json:"volumeSpike"`
	Variant      string  `json:"variant"`
	Samples      int     `json:"samples"`
	Dropped      int     `json:"dropped"`
	Warning      string  `json:"warning,omitempty"`
	Summary      string  `json:"summary"`
}

type tools struct {
	reader  LambdaReader
	timeout time.Duration
}

// New registers lambda_f_snapshot and lambda_f_refresh on a fresh server.
func New(reader LambdaReader, timeout time.Duration) *mcp.Server {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	t := &tools{reader: reader, timeout: timeout}

	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lambda_f_snapshot",
		Description: "Read the latest λF risk score, its tier (Normal/Risky/Critical), the change since the previous sample and the weighted source contributions.",
	}, t.snapshot)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lambda_f_refresh",
		Description: "Clear the cached λF records and return a freshly fetched reading.",
	}, t.refresh)
	return server
}

func (t *tools) snapshot(ctx context.Context, _ *mcp.CallToolRequest, _ SnapshotInput) (*mcp.CallToolResult, Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return nil, readingFrom(t.reader.Snapshot(ctx)), nil
}

func (t *tools) refresh(ctx context.Context, _ *mcp.CallToolRequest, _ RefreshInput) (*mcp.CallToolResult, Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	if err := t.reader.Refresh(ctx); err != nil {
		return nil, Reading{}, err
	}
	return nil, readingFrom(t.reader.Snapshot(ctx)), nil
}

func readingFrom(snap service.Snapshot) Reading {
	d := view.Build(snap)
	r := Reading{
		Variant: snap.Variant,
		Samples: len(snap.Series),
		Dropped: snap.Dropped,
		Warning: snap.Warning,
		Summary: view.Summary(d),
	}

	latest, ok := snap.Series.Latest()
	if !ok || snap.Classification == nil {
		return r
	}
	r.Available = true
	r.LambdaF = latest.LambdaF
	r.Tier = string(snap.Classification.Tier)
	r.Delta = snap.Delta
	r.DeltaText = d.Metric.Delta
	r.HasHistory = snap.HasHistory
	r.StoredStatus = latest.Status
	r.Timestamp = latest.Timestamp.UTC().Format(time.RFC3339)
	if n := len(snap.Contributions); n > 0 {
		c := snap.Contributions[n-1]
		r.FearAndGreed = c.FearAndGreed
		r.RedditHype = c.RedditHype
		r.VolumeSpike = c.VolumeSpike
	}
	return r
}
