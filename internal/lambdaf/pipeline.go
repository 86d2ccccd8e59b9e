package lambdaf

import "lambdaf-dashboard/internal/domain"

// Evaluate runs one render cycle over a fetch result. An empty series leaves
// Classification nil and Delta 0.
func Evaluate(records []domain.RawRecord, variant domain.ContributionVariant) domain.Evaluation {
	series := Normalize(records)
	eval := domain.Evaluation{
		Series:        series,
		Contributions: Contributions(series, variant),
		Delta:         Delta(series),
		HasHistory:    len(series) > 1,
		Dropped:       len(records) - len(series),
	}
	if classification, err := ClassifyLatest(series); err == nil {
		eval.Classification = &classification
	}
	return eval
}
