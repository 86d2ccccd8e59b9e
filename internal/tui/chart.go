package tui

import (
	"fmt"
	"math"
	"strings"

	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/view"
)

// chartRows maps 1.0..0.0 onto 11 rows, so both thresholds land on a row.
const chartRows = 11

const (
	pointGlyph     = "●"
	thresholdGlyph = "┄"
	axisWidth      = 5
)

func valueRow(v float64) int {
	v = math.Max(0, math.Min(1, v))
	return int(math.Round((1 - v) * float64(chartRows-1)))
}

// renderChart draws the series left to right, two cells per sample. Samples
// that do not fit in width are cut from the oldest end.
func renderChart(st Styles, series domain.Series, width int) string {
	if len(series) == 0 {
		return st.Muted.Render(view.NoChartText)
	}

	if width <= 0 {
		width = defaultWidth
	}
	maxSamples := (width - axisWidth - 26) / 2
	if maxSamples < 1 {
		maxSamples = 1
	}
	if len(series) > maxSamples {
		series = series[len(series)-maxSamples:]
	}

	critRow := valueRow(lambdaf.CriticalThreshold)
	riskRow := valueRow(lambdaf.RiskThreshold)

	var b strings.Builder
	b.WriteString(st.Value.Render(view.ChartTitle) + "\n")
	for row := 0; row < chartRows; row++ {
		b.WriteString(axisLabel(row))

		lineStyle := st.Muted
		glyph := " "
		switch row {
		case critRow:
			lineStyle, glyph = st.Critical, thresholdGlyph
		case riskRow:
			lineStyle, glyph = st.Risky, thresholdGlyph
		}

		for _, s := range series {
			if valueRow(s.LambdaF) == row {
				b.WriteString(st.tier(lambdaf.Classify(s.LambdaF)).Render(pointGlyph))
			} else {
				b.WriteString(lineStyle.Render(glyph))
			}
			b.WriteString(lineStyle.Render(glyph))
		}

		switch row {
		case critRow:
			b.WriteString(" " + st.Critical.Render(view.Thresholds[0].Label))
		case riskRow:
			b.WriteString(" " + st.Risky.Render(view.Thresholds[1].Label))
		}
		b.WriteString("\n")
	}

	plotWidth := len(series) * 2
	b.WriteString(strings.Repeat(" ", axisWidth-1) + "└" + strings.Repeat("─", plotWidth) + "\n")

	first := series[0].Timestamp.UTC().Format("01-02 15:04")
	last := series[len(series)-1].Timestamp.UTC().Format("01-02 15:04")
	if len(series) == 1 {
		b.WriteString(strings.Repeat(" ", axisWidth) + st.Muted.Render(first))
	} else {
		b.WriteString(strings.Repeat(" ", axisWidth) + st.Muted.Render(first+" → "+last))
	}
	return b.String()
}

func axisLabel(row int) string {
	if row%5 == 0 || row == valueRow(lambdaf.CriticalThreshold) {
		v := 1 - float64(row)/float64(chartRows-1)
		return fmt.Sprintf("%.1f ┤", v)
	}
	return "    │"
}

const barWidth = 20

// renderContributions shows the latest contribution set. Breakdown bars are
// scaled against the largest weight; the composite is shown on its own line
// because the two are not expected to add up.
func renderContributions(st Styles, set domain.ContributionSet) string {
	var b strings.Builder
	b.WriteString(st.Value.Render("Latest contributions") + st.Muted.Render(" ("+string(set.Variant)+")") + "\n")

	if set.Variant == domain.VariantBreakdown {
		scale := lambdaf.WeightFearAndGreed
		rows := []struct {
			name  string
			value float64
		}{
			{domain.ComponentFearAndGreed, set.FearAndGreed},
			{domain.ComponentRedditHype, set.RedditHype},
			{domain.ComponentVolumeSpike, set.VolumeSpike},
		}
		for _, r := range rows {
			b.WriteString(fmt.Sprintf("%-13s %s %s\n", r.name, st.Bar.Render(bar(r.value, scale)), view.FormatScore(r.value)))
		}
		b.WriteString(fmt.Sprintf("%-13s %s %s", "sum", strings.Repeat(" ", barWidth), view.FormatScore(set.Total())))
		b.WriteString("\n")
	}
	tier := lambdaf.Classify(set.Composite)
	b.WriteString(fmt.Sprintf("%-13s %s %s", "λF", st.tier(tier).Render(bar(set.Composite, 1)), view.FormatScore(set.Composite)))
	return b.String()
}

func bar(v, scale float64) string {
	if scale <= 0 {
		return strings.Repeat("░", barWidth)
	}
	filled := int(math.Round(math.Max(0, math.Min(1, v/scale)) * barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
