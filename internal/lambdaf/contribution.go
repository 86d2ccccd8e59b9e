package lambdaf

import (
	"fmt"
	"strings"

	"lambdaf-dashboard/internal/domain"
)

const (
	WeightFearAndGreed = 0.4
	WeightRedditHype   = 0.3
	WeightVolumeSpike  = 0.3
)

// Weights returns the breakdown weights keyed by source score name.
func Weights() map[string]float64 {
	return map[string]float64{
		domain.ComponentFearAndGreed: WeightFearAndGreed,
		domain.ComponentRedditHype:   WeightRedditHype,
		domain.ComponentVolumeSpike:  WeightVolumeSpike,
	}
}

func ParseVariant(v string) (domain.ContributionVariant, error) {
	variant := domain.ContributionVariant(strings.ToLower(strings.TrimSpace(v)))
	if !variant.IsValid() {
		return "", fmt.Errorf("unsupported contribution variant: %q", v)
	}
	return variant, nil
}

// Contributions derives one set per sample, in series order.
func Contributions(series domain.Series, variant domain.ContributionVariant) []domain.ContributionSet {
	out := make([]domain.ContributionSet, 0, len(series))
	for _, sample := range series {
		if variant == domain.VariantDirect {
			out = append(out, Direct(sample))
			continue
		}
		out = append(out, Breakdown(sample))
	}
	return out
}

// Direct carries the stored composite through untouched.
func Direct(sample domain.Sample) domain.ContributionSet {
	return domain.ContributionSet{
		Timestamp: sample.Timestamp,
		Variant:   domain.VariantDirect,
		Composite: sample.LambdaF,
	}
}

// Breakdown weights each 0..100 component score. A missing component is
// charted as 0. The total is not expected to match the stored composite.
func Breakdown(sample domain.Sample) domain.ContributionSet {
	return domain.ContributionSet{
		Timestamp:    sample.Timestamp,
		Variant:      domain.VariantBreakdown,
		FearAndGreed: weighted(sample.Components.FearAndGreed, WeightFearAndGreed),
		RedditHype:   weighted(sample.Components.RedditHype, WeightRedditHype),
		VolumeSpike:  weighted(sample.Components.VolumeSpike, WeightVolumeSpike),
		Composite:    sample.LambdaF,
	}
}

func weighted(score *float64, weight float64) float64 {
	if score == nil {
		return 0
	}
	return (*score / 100) * weight
}
