package lambdaf

import (
	"errors"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		v    float64
		want domain.Tier
	}{
		{0.7, domain.TierRisky},
		{0.700001, domain.TierCritical},
		{0.5, domain.TierNormal},
		{0.500001, domain.TierRisky},
		{0, domain.TierNormal},
		{-0.2, domain.TierNormal},
		{1.4, domain.TierCritical},
	}
	for _, tc := range cases {
		if got := Classify(tc.v); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.v, got, tc.want)
		}
	}
}

func TestClassifyLatestEmptySeries(t *testing.T) {
	_, err := ClassifyLatest(nil)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestClassifyLatestIgnoresStoredStatus(t *testing.T) {
	series := domain.Series{
		{Timestamp: time.Now(), LambdaF: 0.2, Status: "Kritik", StatusHint: domain.HintCritical},
	}
	got, err := ClassifyLatest(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tier != domain.TierNormal {
		t.Fatalf("numeric tier must win over stored status, got %s", got.Tier)
	}
	if got.StatusHint != domain.HintCritical || got.HintAgrees() {
		t.Fatalf("hint should be carried for display only: %+v", got)
	}
	if got.Value != 0.2 {
		t.Fatalf("expected originating value 0.2, got %v", got.Value)
	}
}

func TestParseStatusHint(t *testing.T) {
	cases := map[string]domain.StatusHint{
		"Kritik":   domain.HintCritical,
		"Critical": domain.HintCritical,
		"Riskli":   domain.HintRisky,
		" risky ":  domain.HintRisky,
		"Normal":   domain.HintNormal,
		"N/A":      domain.HintUnknown,
		"":         domain.HintUnknown,
		"Stabil":   domain.HintUnknown,
	}
	for in, want := range cases {
		if got := ParseStatusHint(in); got != want {
			t.Errorf("ParseStatusHint(%q) = %s, want %s", in, got, want)
		}
	}
}
