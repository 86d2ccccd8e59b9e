package lambdaf

import "lambdaf-dashboard/internal/domain"

// Delta is the change of the newest sample against the one before it. A
// series with fewer than two samples has no trend and reports 0.
func Delta(series domain.Series) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}
	return series[n-1].LambdaF - series[n-2].LambdaF
}
