package lambdaf

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
)

var base = time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestNormalizeSortsAscending(t *testing.T) {
	records := []domain.RawRecord{
		{Timestamp: base.Add(20 * time.Minute), LambdaF: 0.6},
		{Timestamp: base.Add(10 * time.Minute), LambdaF: 0.5},
		{Timestamp: base, LambdaF: 0.4},
		{Timestamp: base.Add(15 * time.Minute), LambdaF: 0.3},
	}

	series := Normalize(records)
	if len(series) != len(records) {
		t.Fatalf("expected %d samples, got %d", len(records), len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp.Before(series[i-1].Timestamp) {
			t.Fatalf("series not ascending at %d: %v before %v", i, series[i].Timestamp, series[i-1].Timestamp)
		}
	}
	if series[0].LambdaF != 0.4 || series[3].LambdaF != 0.6 {
		t.Fatalf("unexpected order: %+v", series)
	}
}

func TestNormalizeDropsMalformedRecords(t *testing.T) {
	records := []domain.RawRecord{
		{Timestamp: base, LambdaF: 0.4},
		{Timestamp: nil, LambdaF: 0.5},
		{Timestamp: base.Add(time.Minute)},
		{Timestamp: "not-a-date", LambdaF: 0.5},
		{Timestamp: base.Add(2 * time.Minute), LambdaF: "abc"},
		{Timestamp: base.Add(3 * time.Minute), LambdaF: math.NaN()},
		{Timestamp: time.Time{}, LambdaF: 0.2},
		{Timestamp: base.Add(4 * time.Minute), LambdaF: true},
	}

	series := Normalize(records)
	if len(series) != 1 {
		t.Fatalf("expected only the valid record to survive, got %d: %+v", len(series), series)
	}
	if len(series) > len(records) {
		t.Fatal("series must never be longer than the input")
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Fatalf("expected empty series, got %+v", got)
	}
	got := Normalize([]domain.RawRecord{{LambdaF: 0.3}})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected non-nil empty series when everything is dropped, got %#v", got)
	}
}

func TestNormalizeParsesTimestampShapes(t *testing.T) {
	want := time.Date(2026, 2, 13, 10, 5, 0, 0, time.UTC)
	shapes := []any{
		want,
		&want,
		"2026-02-13T10:05:00Z",
		"2026-02-13T12:05:00+02:00",
		"2026-02-13 10:05:00+00:00",
		"2026-02-13 13:05:00+03:00",
		"2026-02-13 13:05:00.000000+03:00",
		"2026-02-13 10:05:00",
		"2026-02-13T10:05:00",
		float64(want.Unix()),
		want.Unix(),
		want.UnixMilli(),
		json.Number("1770977100"),
		"1770977100",
	}
	for _, shape := range shapes {
		series := Normalize([]domain.RawRecord{{Timestamp: shape, LambdaF: 0.1}})
		if len(series) != 1 {
			t.Errorf("shape %T(%v) was dropped", shape, shape)
			continue
		}
		if !series[0].Timestamp.Equal(want) {
			t.Errorf("shape %T(%v): expected %v, got %v", shape, shape, want, series[0].Timestamp)
		}
	}
}

func TestNormalizeKeepsFractionalOffsetTimestamp(t *testing.T) {
	series := Normalize([]domain.RawRecord{{Timestamp: "2024-05-01 10:05:00.123456+03:00", LambdaF: 0.4}})
	if len(series) != 1 {
		t.Fatal("expected space-separated timestamp with offset to be kept")
	}
	want := time.Date(2024, 5, 1, 7, 5, 0, 123456000, time.UTC)
	if !series[0].Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, series[0].Timestamp)
	}
}

func TestNormalizeParsesNumericShapes(t *testing.T) {
	values := []any{
		0.42, float32(0.5), 1, int64(0), json.Number("0.42"), " 0.42 ",
		int8(1), int16(1), int32(1), uint(1), uint8(1), uint16(1), uint32(1), uint64(1),
	}
	for _, v := range values {
		series := Normalize([]domain.RawRecord{{Timestamp: base, LambdaF: v}})
		if len(series) != 1 {
			t.Errorf("lambda_F %T(%v) was dropped", v, v)
		}
	}
}

func TestNormalizeKeepsDuplicateTimestampsStable(t *testing.T) {
	records := []domain.RawRecord{
		{ID: "b", Timestamp: base.Add(time.Minute), LambdaF: 0.2},
		{ID: "dup-1", Timestamp: base, LambdaF: 0.3},
		{ID: "dup-2", Timestamp: base, LambdaF: 0.4},
	}
	series := Normalize(records)
	if len(series) != 3 {
		t.Fatalf("duplicates must not be removed, got %d", len(series))
	}
	if series[0].ID != "dup-1" || series[1].ID != "dup-2" || series[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", series[0].ID, series[1].ID, series[2].ID)
	}
}

func TestNormalizeStatusAndComponents(t *testing.T) {
	records := []domain.RawRecord{
		{
			Timestamp: base,
			LambdaF:   0.72,
			Status:    strPtr("Kritik"),
			SourceScores: map[string]any{
				domain.ComponentFearAndGreed: 80.0,
				domain.ComponentRedditHype:   int64(70),
				domain.ComponentVolumeSpike:  "n/a",
			},
		},
		{Timestamp: base.Add(time.Minute), LambdaF: 0.1, Status: strPtr("   ")},
	}

	series := Normalize(records)
	first := series[0]
	if first.Status != "Kritik" || first.StatusHint != domain.HintCritical {
		t.Fatalf("unexpected status: %s / %s", first.Status, first.StatusHint)
	}
	if first.Components.FearAndGreed == nil || *first.Components.FearAndGreed != 80 {
		t.Fatalf("expected fearAndGreed=80, got %v", first.Components.FearAndGreed)
	}
	if first.Components.RedditHype == nil || *first.Components.RedditHype != 70 {
		t.Fatalf("expected redditHype=70, got %v", first.Components.RedditHype)
	}
	if first.Components.VolumeSpike != nil {
		t.Fatalf("non-numeric component should be absent, got %v", *first.Components.VolumeSpike)
	}

	second := series[1]
	if second.Status != domain.StatusNotAvailable || second.StatusHint != domain.HintUnknown {
		t.Fatalf("blank status should default to N/A, got %q", second.Status)
	}
	if second.Components.FearAndGreed != nil || second.Components.RedditHype != nil || second.Components.VolumeSpike != nil {
		t.Fatalf("missing source scores must stay absent: %+v", second.Components)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	records := []domain.RawRecord{
		{ID: "2", Timestamp: "2026-02-13T10:05:00Z", LambdaF: 0.68, Status: strPtr("Riskli"),
			SourceScores: map[string]any{"fearAndGreed": 80, "redditHype": 70, "volumeSpike": 65}},
		{ID: "1", Timestamp: base, LambdaF: json.Number("0.42")},
		{ID: "x", LambdaF: 0.9},
	}

	once := Normalize(records)
	twice := Normalize(ToRecords(once))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("re-normalizing changed the series:\n%+v\n%+v", once, twice)
	}
}

func TestNormalizeSurvivesJSONRoundTrip(t *testing.T) {
	records := []domain.RawRecord{
		{Timestamp: base, LambdaF: 0.42, SourceScores: map[string]any{"fearAndGreed": 60.0}},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []domain.RawRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	series := Normalize(decoded)
	if len(series) != 1 || !series[0].Timestamp.Equal(base) || series[0].LambdaF != 0.42 {
		t.Fatalf("unexpected series after round trip: %+v", series)
	}
}
