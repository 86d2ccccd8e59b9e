package lambdaf

import (
	"strings"

	"lambdaf-dashboard/internal/domain"
)

const (
	CriticalThreshold = 0.7
	RiskThreshold     = 0.5
)

// Classify maps a composite score onto a tier. Thresholds are checked high
// to low with strict comparisons, so 0.7 is Risky and 0.5 is Normal.
func Classify(v float64) domain.Tier {
	switch {
	case v > CriticalThreshold:
		return domain.TierCritical
	case v > RiskThreshold:
		return domain.TierRisky
	default:
		return domain.TierNormal
	}
}

// ClassifyLatest classifies the newest sample of the series.
func ClassifyLatest(series domain.Series) (domain.Classification, error) {
	latest, ok := series.Latest()
	if !ok {
		return domain.Classification{}, domain.ErrInsufficientData
	}
	return domain.Classification{
		Tier:       Classify(latest.LambdaF),
		Value:      latest.LambdaF,
		StatusHint: latest.StatusHint,
	}, nil
}

// ParseStatusHint reads the producer's free-form status. Both the Turkish and
// English labels are in use upstream.
func ParseStatusHint(status string) domain.StatusHint {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "kritik", "critical":
		return domain.HintCritical
	case "riskli", "risky":
		return domain.HintRisky
	case "normal":
		return domain.HintNormal
	default:
		return domain.HintUnknown
	}
}
