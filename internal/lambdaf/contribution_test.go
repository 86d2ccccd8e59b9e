package lambdaf

import (
	"math"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
)

func f64(v float64) *float64 { return &v }

func TestWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range Weights() {
		total += w
	}
	if math.Abs(total-1.0) > 1e-12 {
		t.Fatalf("expected weights to sum to 1, got %v", total)
	}
}

func TestBreakdownFullScoresSumToWeightTotal(t *testing.T) {
	sample := domain.Sample{
		Timestamp: time.Now(),
		LambdaF:   0.12,
		Components: domain.ComponentScores{
			FearAndGreed: f64(100),
			RedditHype:   f64(100),
			VolumeSpike:  f64(100),
		},
	}
	got := Breakdown(sample)
	if math.Abs(got.Total()-1.0) > 1e-12 {
		t.Fatalf("expected contributions to sum to 1.0, got %v", got.Total())
	}
	if got.Composite != 0.12 {
		t.Fatalf("composite must be carried unchanged, got %v", got.Composite)
	}
}

func TestBreakdownMissingComponentChartsAsZero(t *testing.T) {
	sample := domain.Sample{
		LambdaF:    0.5,
		Components: domain.ComponentScores{FearAndGreed: f64(50)},
	}
	got := Breakdown(sample)
	if math.Abs(got.FearAndGreed-0.2) > 1e-12 {
		t.Fatalf("expected fearAndGreed contribution 0.2, got %v", got.FearAndGreed)
	}
	if got.RedditHype != 0 || got.VolumeSpike != 0 {
		t.Fatalf("missing components should chart as 0: %+v", got)
	}
}

func TestContributionsVariants(t *testing.T) {
	t1 := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	series := domain.Series{
		{Timestamp: t1, LambdaF: 0.42, Components: domain.ComponentScores{FearAndGreed: f64(60)}},
		{Timestamp: t1.Add(5 * time.Minute), LambdaF: 0.68, Components: domain.ComponentScores{FearAndGreed: f64(80)}},
	}

	direct := Contributions(series, domain.VariantDirect)
	if len(direct) != 2 || direct[1].Composite != 0.68 || direct[1].Total() != 0 {
		t.Fatalf("unexpected direct contributions: %+v", direct)
	}
	if direct[0].Variant != domain.VariantDirect {
		t.Fatalf("expected direct variant tag, got %s", direct[0].Variant)
	}

	breakdown := Contributions(series, domain.VariantBreakdown)
	if len(breakdown) != 2 || !breakdown[0].Timestamp.Equal(t1) {
		t.Fatalf("breakdown must keep series order: %+v", breakdown)
	}
	if math.Abs(breakdown[1].FearAndGreed-0.32) > 1e-9 {
		t.Fatalf("expected 0.32, got %v", breakdown[1].FearAndGreed)
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant(" Breakdown "); err != nil || v != domain.VariantBreakdown {
		t.Fatalf("expected breakdown, got %s (%v)", v, err)
	}
	if v, err := ParseVariant("direct"); err != nil || v != domain.VariantDirect {
		t.Fatalf("expected direct, got %s (%v)", v, err)
	}
	if _, err := ParseVariant("weighted"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}
