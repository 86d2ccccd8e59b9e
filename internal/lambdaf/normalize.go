package lambdaf

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"lambdaf-dashboard/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize turns raw store records into an ascending series. Records without
// a parseable timestamp or lambda_F are dropped. Equal timestamps keep their
// input order.
func Normalize(records []domain.RawRecord) domain.Series {
	out := make(domain.Series, 0, len(records))
	for _, rec := range records {
		sample, ok := normalizeRecord(rec)
		if !ok {
			continue
		}
		out = append(out, sample)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func normalizeRecord(rec domain.RawRecord) (domain.Sample, bool) {
	ts, ok := parseTimestamp(rec.Timestamp)
	if !ok {
		return domain.Sample{}, false
	}
	value, ok := parseFloat(rec.LambdaF)
	if !ok {
		return domain.Sample{}, false
	}

	status := domain.StatusNotAvailable
	if rec.Status != nil {
		if s := strings.TrimSpace(*rec.Status); s != "" {
			status = s
		}
	}

	return domain.Sample{
		ID:         rec.ID,
		Timestamp:  ts,
		LambdaF:    value,
		Status:     status,
		StatusHint: ParseStatusHint(status),
		Components: domain.ComponentScores{
			FearAndGreed: componentScore(rec.SourceScores, domain.ComponentFearAndGreed),
			RedditHype:   componentScore(rec.SourceScores, domain.ComponentRedditHype),
			VolumeSpike:  componentScore(rec.SourceScores, domain.ComponentVolumeSpike),
		},
	}, true
}

// ToRecords converts a series back into the raw shape the store produces.
func ToRecords(series domain.Series) []domain.RawRecord {
	out := make([]domain.RawRecord, 0, len(series))
	for _, s := range series {
		status := s.Status
		scores := make(map[string]any, 3)
		if s.Components.FearAndGreed != nil {
			scores[domain.ComponentFearAndGreed] = *s.Components.FearAndGreed
		}
		if s.Components.RedditHype != nil {
			scores[domain.ComponentRedditHype] = *s.Components.RedditHype
		}
		if s.Components.VolumeSpike != nil {
			scores[domain.ComponentVolumeSpike] = *s.Components.VolumeSpike
		}
		out = append(out, domain.RawRecord{
			ID:           s.ID,
			Timestamp:    s.Timestamp,
			LambdaF:      s.LambdaF,
			Status:       &status,
			SourceScores: scores,
		})
	}
	return out
}

func componentScore(scores map[string]any, key string) *float64 {
	if scores == nil {
		return nil
	}
	raw, ok := scores[key]
	if !ok {
		return nil
	}
	v, ok := parseFloat(raw)
	if !ok {
		return nil
	}
	return &v
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return parseTimestamp(*t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n)
		}
		return time.Time{}, false
	default:
		n, ok := parseFloat(v)
		if !ok {
			return time.Time{}, false
		}
		return fromEpoch(n)
	}
}

// fromEpoch accepts unix seconds or milliseconds.
func fromEpoch(n float64) (time.Time, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return time.Time{}, false
	}
	if n > 1_000_000_000_000 {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

func parseFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
