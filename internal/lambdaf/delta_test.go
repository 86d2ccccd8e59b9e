package lambdaf

import (
	"math"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
)

func TestDelta(t *testing.T) {
	t1 := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Minute)

	two := domain.Series{{Timestamp: t1, LambdaF: 0.3}, {Timestamp: t2, LambdaF: 0.5}}
	if got := Delta(two); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("expected delta 0.2, got %v", got)
	}

	one := domain.Series{{Timestamp: t1, LambdaF: 0.3}}
	if got := Delta(one); got != 0 {
		t.Fatalf("single sample should have zero delta, got %v", got)
	}

	if got := Delta(nil); got != 0 {
		t.Fatalf("empty series should have zero delta, got %v", got)
	}
}

func TestDeltaNegativeWhenFalling(t *testing.T) {
	t1 := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	series := domain.Series{
		{Timestamp: t1, LambdaF: 0.9},
		{Timestamp: t1.Add(time.Minute), LambdaF: 0.8},
		{Timestamp: t1.Add(2 * time.Minute), LambdaF: 0.6},
	}
	if got := Delta(series); math.Abs(got-(-0.2)) > 1e-9 {
		t.Fatalf("expected -0.2, got %v", got)
	}
}
