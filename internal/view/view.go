// Package view turns an evaluated λF snapshot into display-ready copy shared
// by the HTTP, terminal, chat and MCP front ends.
package view

import (
	"fmt"
	"strings"

	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/service"
)

const (
	Title          = "λF Risk Dashboard"
	Icon           = "🔺"
	MetricLabel    = "Current λF Score"
	ChartTabLabel  = "📈 Time Series Chart"
	TableTabLabel  = "📄 Data Table"
	ChartHeading   = "Interactive Chart of λF Scores"
	ChartTitle     = "Lambda-F Score Over Time"
	TableHeading   = "Historical λF Data (Last 30 records)"
	AboutHeader    = "About the λF Model"
	RefreshLabel   = "Refresh Data 🔄"
	NoHistoryText  = "No historical data available to display yet. Please ensure the simulation is generating data."
	NoChartText    = "Not enough data to draw the chart."
	NoTableText    = "No data table to display."
	captionLayout  = "2006-01-02 15:04"
	timestampStamp = "2006-01-02 15:04:05"
)

const AboutText = "Lambda-F (λF) is a risk indicator that aims to predict potential instabilities " +
	"and 'phase transitions' (sudden crashes or overheating) in financial markets " +
	"by analyzing collective sentiment shifts on social media."

type Band struct {
	Range       string      `json:"range"`
	Tier        domain.Tier `json:"tier"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
}

var Bands = []Band{
	{Range: "0.0 - 0.5", Tier: domain.TierNormal, Icon: "✅", Description: "The market is calm."},
	{Range: "0.5 - 0.7", Tier: domain.TierRisky, Icon: "⚠️", Description: "Uncertainty and volatility are increasing."},
	{Range: "0.7 - 1.0", Tier: domain.TierCritical, Icon: "🚨", Description: "Social tension is high, increasing the risk of sudden and large price movements."},
}

type Metric struct {
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Delta      string  `json:"delta"`
	DeltaColor string  `json:"delta_color"`
	Raw        float64 `json:"raw"`
	RawDelta   float64 `json:"raw_delta"`
	HasHistory bool    `json:"has_history"`
}

type StatusBadge struct {
	Tier         domain.Tier `json:"tier"`
	Label        string      `json:"label"`
	Icon         string      `json:"icon"`
	Level        string      `json:"level"`
	StoredStatus string      `json:"stored_status"`
	HintAgrees   bool        `json:"hint_agrees"`
}

type Threshold struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Dash  string  `json:"dash"`
}

// Thresholds are drawn on every λF chart.
var Thresholds = []Threshold{
	{Value: lambdaf.CriticalThreshold, Label: "🚨 Critical Level (0.7)", Color: "red", Dash: "dot"},
	{Value: lambdaf.RiskThreshold, Label: "⚠️ Risk Level (0.5)", Color: "orange", Dash: "dot"},
}

type Point struct {
	Timestamp string  `json:"timestamp"`
	LambdaF   float64 `json:"lambda_F"`
}

type Chart struct {
	Title         string                   `json:"title"`
	XLabel        string                   `json:"x_label"`
	YLabel        string                   `json:"y_label"`
	YMin          float64                  `json:"y_min"`
	YMax          float64                  `json:"y_max"`
	Points        []Point                  `json:"points"`
	Contributions []domain.ContributionSet `json:"contributions"`
	Thresholds    []Threshold              `json:"thresholds"`
	EmptyText     string                   `json:"empty_text,omitempty"`
}

type Row struct {
	ID        string      `json:"id,omitempty"`
	Timestamp string      `json:"timestamp"`
	LambdaF   string      `json:"lambda_F"`
	Status    string      `json:"status"`
	Tier      domain.Tier `json:"tier"`
}

type Table struct {
	Title     string `json:"title"`
	Rows      []Row  `json:"rows"`
	EmptyText string `json:"empty_text,omitempty"`
}

type About struct {
	Header string `json:"header"`
	Text   string `json:"text"`
	Bands  []Band `json:"bands"`
}

// Dashboard is the whole page. Metric and Status are nil when there is no
// data; Notice then carries the empty-state copy.
type Dashboard struct {
	Title   string       `json:"title"`
	Caption string       `json:"caption"`
	Warning string       `json:"warning,omitempty"`
	Notice  string       `json:"notice,omitempty"`
	Metric  *Metric      `json:"metric,omitempty"`
	Status  *StatusBadge `json:"status,omitempty"`
	Chart   Chart        `json:"chart"`
	Table   Table        `json:"table"`
	About   About        `json:"about"`
	Dropped int          `json:"dropped"`
	Backend string       `json:"backend"`
	Variant string       `json:"variant"`
}

func Build(snap service.Snapshot) Dashboard {
	d := Dashboard{
		Title:   Title,
		Caption: Caption(snap),
		Chart: Chart{
			Title:         ChartTitle,
			XLabel:        "Time",
			YLabel:        "λF Score",
			YMin:          0,
			YMax:          1,
			Points:        make([]Point, 0, len(snap.Series)),
			Contributions: snap.Contributions,
			Thresholds:    Thresholds,
		},
		Table:   Table{Title: TableHeading, Rows: Rows(snap.Series)},
		About:   About{Header: AboutHeader, Text: AboutText, Bands: Bands},
		Dropped: snap.Dropped,
		Backend: snap.Backend,
		Variant: snap.Variant,
	}
	if snap.Warning != "" {
		d.Warning = "An error occurred while fetching data: " + snap.Warning
	}
	if d.Chart.Contributions == nil {
		d.Chart.Contributions = []domain.ContributionSet{}
	}

	for _, s := range snap.Series {
		d.Chart.Points = append(d.Chart.Points, Point{
			Timestamp: s.Timestamp.UTC().Format(timestampStamp),
			LambdaF:   s.LambdaF,
		})
	}

	latest, ok := snap.Series.Latest()
	if !ok || snap.Classification == nil {
		d.Notice = NoHistoryText
		d.Chart.EmptyText = NoChartText
		d.Table.EmptyText = NoTableText
		return d
	}

	d.Metric = &Metric{
		Label:      MetricLabel,
		Value:      FormatScore(latest.LambdaF),
		Delta:      FormatDelta(snap.Delta),
		DeltaColor: DeltaColor(snap.Delta),
		Raw:        latest.LambdaF,
		RawDelta:   snap.Delta,
		HasHistory: snap.HasHistory,
	}
	badge := Badge(*snap.Classification)
	badge.StoredStatus = latest.Status
	d.Status = &badge
	return d
}

// Caption stamps the render time in UTC, not the sample time.
func Caption(snap service.Snapshot) string {
	return "Flux Finance | Data last updated on " + snap.GeneratedAt.UTC().Format(captionLayout) + " UTC"
}

func FormatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func FormatDelta(d float64) string {
	return fmt.Sprintf("%.3f vs. previous day", d)
}

// DeltaColor inverts the usual convention: a rising λF is bad news.
func DeltaColor(d float64) string {
	switch {
	case d > 0:
		return "red"
	case d < 0:
		return "green"
	default:
		return "gray"
	}
}

func Badge(c domain.Classification) StatusBadge {
	b := StatusBadge{
		Tier:       c.Tier,
		Label:      "Status: " + string(c.Tier),
		Icon:       TierIcon(c.Tier),
		HintAgrees: c.HintAgrees(),
	}
	switch c.Tier {
	case domain.TierCritical:
		b.Level = "error"
	case domain.TierRisky:
		b.Level = "warning"
	default:
		b.Level = "success"
	}
	return b
}

func TierIcon(t domain.Tier) string {
	switch t {
	case domain.TierCritical:
		return "🚨"
	case domain.TierRisky:
		return "⚠️"
	default:
		return "✅"
	}
}

// Rows lists the series newest first.
func Rows(series domain.Series) []Row {
	rows := make([]Row, 0, len(series))
	for i := len(series) - 1; i >= 0; i-- {
		s := series[i]
		rows = append(rows, Row{
			ID:        s.ID,
			Timestamp: s.Timestamp.UTC().Format(timestampStamp),
			LambdaF:   FormatScore(s.LambdaF),
			Status:    s.Status,
			Tier:      lambdaf.Classify(s.LambdaF),
		})
	}
	return rows
}

// Summary is a short plain-text reading for chat replies and tool output.
func Summary(d Dashboard) string {
	var b strings.Builder
	b.WriteString(Icon + " " + d.Title + "\n")
	b.WriteString(d.Caption + "\n")
	if d.Warning != "" {
		b.WriteString("\n" + d.Warning + "\n")
	}
	if d.Metric == nil || d.Status == nil {
		b.WriteString("\n" + d.Notice)
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s: %s (%s)\n", d.Metric.Label, d.Metric.Value, d.Metric.Delta)
	fmt.Fprintf(&b, "%s %s", d.Status.Label, d.Status.Icon)
	if d.Status.StoredStatus != "" && d.Status.StoredStatus != domain.StatusNotAvailable && !d.Status.HintAgrees {
		fmt.Fprintf(&b, "\nStored status: %s", d.Status.StoredStatus)
	}
	return b.String()
}
