package domain

import (
	"errors"
	"fmt"
	"time"
)

// Source score keys as written by the upstream producer.
const (
	ComponentFearAndGreed = "fearAndGreed"
	ComponentRedditHype   = "redditHype"
	ComponentVolumeSpike  = "volumeSpike"
)

// StatusNotAvailable is the display status for records stored without one.
const StatusNotAvailable = "N/A"

// RawRecord is a λF document as read from the store. Timestamp and LambdaF
// keep whatever type the store returned; the normalizer decides whether they
// are usable.
type RawRecord struct {
	ID           string         `json:"id,omitempty"`
	Timestamp    any            `json:"timestamp"`
	LambdaF      any            `json:"lambda_F"`
	Status       *string        `json:"status,omitempty"`
	SourceScores map[string]any `json:"source_scores,omitempty"`
}

// ComponentScores holds the optional 0..100 inputs behind a sample.
type ComponentScores struct {
	FearAndGreed *float64 `json:"fearAndGreed,omitempty"`
	RedditHype   *float64 `json:"redditHype,omitempty"`
	VolumeSpike  *float64 `json:"volumeSpike,omitempty"`
}

// Sample is a validated λF reading.
type Sample struct {
	ID         string          `json:"id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	LambdaF    float64         `json:"lambda_F"`
	Status     string          `json:"status"`
	StatusHint StatusHint      `json:"status_hint"`
	Components ComponentScores `json:"components"`
}

// Series is a chronologically ascending run of samples.
type Series []Sample

// Latest returns the newest sample.
func (s Series) Latest() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// Tier is the severity derived from a composite score.
type Tier string

const (
	TierNormal   Tier = "Normal"
	TierRisky    Tier = "Risky"
	TierCritical Tier = "Critical"
)

// StatusHint is the best-effort reading of the free-form stored status.
type StatusHint string

const (
	HintUnknown  StatusHint = "unknown"
	HintNormal   StatusHint = "normal"
	HintRisky    StatusHint = "risky"
	HintCritical StatusHint = "critical"
)

// Tier maps a hint onto a tier. Unknown hints report false.
func (h StatusHint) Tier() (Tier, bool) {
	switch h {
	case HintNormal:
		return TierNormal, true
	case HintRisky:
		return TierRisky, true
	case HintCritical:
		return TierCritical, true
	default:
		return "", false
	}
}

type Classification struct {
	Tier       Tier       `json:"tier"`
	Value      float64    `json:"value"`
	StatusHint StatusHint `json:"status_hint"`
}

// HintAgrees reports whether the stored status tells the same story as the
// numeric tier. Unknown hints never agree.
func (c Classification) HintAgrees() bool {
	t, ok := c.StatusHint.Tier()
	return ok && t == c.Tier
}

// ContributionVariant selects how per-sample contributions are derived.
type ContributionVariant string

const (
	VariantDirect    ContributionVariant = "direct"
	VariantBreakdown ContributionVariant = "breakdown"
)

func (v ContributionVariant) IsValid() bool {
	return v == VariantDirect || v == VariantBreakdown
}

type ContributionSet struct {
	Timestamp    time.Time           `json:"timestamp"`
	Variant      ContributionVariant `json:"variant"`
	FearAndGreed float64             `json:"fearAndGreed"`
	RedditHype   float64             `json:"redditHype"`
	VolumeSpike  float64             `json:"volumeSpike"`
	Composite    float64             `json:"lambda_F"`
}

// Total is the stacked height of the breakdown. It is independent of
// Composite.
func (c ContributionSet) Total() float64 {
	return c.FearAndGreed + c.RedditHype + c.VolumeSpike
}

// Evaluation is everything one render cycle derives from a fetch.
type Evaluation struct {
	Series         Series            `json:"series"`
	Contributions  []ContributionSet `json:"contributions"`
	Classification *Classification   `json:"classification,omitempty"`
	Delta          float64           `json:"delta"`
	HasHistory     bool              `json:"has_history"`
	Dropped        int               `json:"dropped"`
}

// HasData reports whether the classifier had a sample to work with.
func (e Evaluation) HasData() bool {
	return e.Classification != nil
}

// ErrInsufficientData is returned when a series has no samples.
var ErrInsufficientData = errors.New("no λF data available")

// FetchError wraps a store failure. It is recovered by the fetcher and shown
// as a warning.
type FetchError struct {
	Backend string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("fetch λF records from %s failed", e.Backend)
	}
	return fmt.Sprintf("fetch λF records from %s: %v", e.Backend, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
