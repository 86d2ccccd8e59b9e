package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 40
	loadTimeout   = 15 * time.Second
)

type LambdaReader interface {
	Snapshot(ctx context.Context) service.Snapshot
	Refresh(ctx context.Context) error
}

type Services struct {
	Lambda   LambdaReader
	Renderer *lipgloss.Renderer
	Username string
}

type tab int

const (
	chartTab tab = iota
	tableTab
)

type snapshotMsg struct {
	snap       service.Snapshot
	refreshErr error
}

// AppModel is one dashboard session. Each load runs the whole fetch and
// evaluate cycle; nothing refreshes in the background.
type AppModel struct {
	lambda   LambdaReader
	styles   Styles
	keys     keyMap
	help     help.Model
	table    table.Model
	username string

	width   int
	height  int
	tab     tab
	loading bool
	dash    *view.Dashboard
	series  domain.Series
	flash   string
}

func NewAppModel(svc Services) *AppModel {
	st := NewStyles(svc.Renderer)

	t := table.New(
		table.WithColumns(tableColumns()),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	ts.Selected = ts.Selected.Foreground(lipgloss.Color("229")).Background(colorAccent)
	t.SetStyles(ts)

	return &AppModel{
		lambda:   svc.Lambda,
		styles:   st,
		keys:     defaultKeyMap(),
		help:     help.New(),
		table:    t,
		username: svc.Username,
		width:    defaultWidth,
		height:   defaultHeight,
		loading:  true,
	}
}

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Timestamp (UTC)", Width: 20},
		{Title: "λF", Width: 7},
		{Title: "Status", Width: 10},
		{Title: "Tier", Width: 9},
	}
}

// SetSize applies the initial pty size before the first WindowSizeMsg.
func (m *AppModel) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
		m.table.SetHeight(max(5, height-20))
	}
	m.help.Width = m.width
}

func (m *AppModel) Init() tea.Cmd {
	return m.load(false)
}

func (m *AppModel) load(refresh bool) tea.Cmd {
	reader := m.lambda
	return func() tea.Msg {
		if reader == nil {
			return snapshotMsg{snap: service.Snapshot{Warning: "λF service unavailable", GeneratedAt: time.Now().UTC()}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var msg snapshotMsg
		if refresh {
			msg.refreshErr = reader.Refresh(ctx)
		}
		msg.snap = reader.Snapshot(ctx)
		return msg
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case snapshotMsg:
		d := view.Build(msg.snap)
		m.dash = &d
		m.series = msg.snap.Series
		m.loading = false
		m.flash = ""
		if msg.refreshErr != nil {
			m.flash = fmt.Sprintf("refresh failed: %v", msg.refreshErr)
		}
		m.table.SetRows(tableRows(d.Table.Rows))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.load(true)
		case key.Matches(msg, m.keys.Switch):
			if m.tab == chartTab {
				m.tab = tableTab
			} else {
				m.tab = chartTab
			}
			return m, nil
		}
		if m.tab == tableTab {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func tableRows(rows []view.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{r.Timestamp, r.LambdaF, r.Status, string(r.Tier)})
	}
	return out
}

func (m *AppModel) View() string {
	st := m.styles
	var sections []string

	sections = append(sections, st.Title.Render(view.Icon+" "+view.Title))
	if m.dash == nil {
		sections = append(sections, st.Muted.Render("Loading λF data..."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}
	d := m.dash

	caption := d.Caption
	if m.username != "" {
		caption += " | " + m.username
	}
	sections = append(sections, st.Caption.Render(caption))
	if d.Warning != "" {
		sections = append(sections, st.Warning.Render(d.Warning))
	}
	if m.flash != "" {
		sections = append(sections, st.Warning.Render(m.flash))
	}
	if m.loading {
		sections = append(sections, st.Muted.Render("Refreshing..."))
	}

	sections = append(sections, "", m.metricRow(), "")
	sections = append(sections, m.tabs(), "")

	if m.tab == chartTab {
		sections = append(sections, st.Value.Render(view.ChartHeading))
		sections = append(sections, renderChart(st, m.series, m.width))
		if n := len(d.Chart.Contributions); n > 0 {
			sections = append(sections, "", renderContributions(st, d.Chart.Contributions[n-1]))
		}
	} else {
		sections = append(sections, st.Value.Render(view.TableHeading))
		if d.Table.EmptyText != "" {
			sections = append(sections, st.Muted.Render(d.Table.EmptyText))
		} else {
			sections = append(sections, m.table.View())
		}
	}

	sections = append(sections, "", m.about(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *AppModel) metricRow() string {
	st := m.styles
	d := m.dash
	if d.Metric == nil || d.Status == nil {
		return st.Notice.Render(d.Notice)
	}

	arrow := "■"
	switch d.Metric.DeltaColor {
	case "red":
		arrow = "▲"
	case "green":
		arrow = "▼"
	}
	metric := lipgloss.JoinVertical(lipgloss.Left,
		st.Label.Render(d.Metric.Label),
		st.Value.Render(d.Metric.Value),
		st.delta(d.Metric.DeltaColor).Render(arrow+" "+d.Metric.Delta),
	)

	badge := st.tier(d.Status.Tier).Render(d.Status.Label + " " + d.Status.Icon)
	if d.Status.StoredStatus != "" && !d.Status.HintAgrees {
		badge = lipgloss.JoinVertical(lipgloss.Left, badge, st.Muted.Render("stored: "+d.Status.StoredStatus))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, st.Panel.Render(metric), "  ", st.Panel.Render(badge))
}

func (m *AppModel) tabs() string {
	st := m.styles
	chart, tbl := st.Tab, st.Tab
	if m.tab == chartTab {
		chart = st.TabActive
	} else {
		tbl = st.TabActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chart.Render(view.ChartTabLabel), tbl.Render(view.TableTabLabel))
}

func (m *AppModel) about() string {
	st := m.styles
	lines := []string{st.Value.Render(view.AboutHeader), view.AboutText, ""}
	for _, b := range view.Bands {
		lines = append(lines, fmt.Sprintf("%s (%s %s): %s", b.Range, b.Tier, b.Icon, b.Description))
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return st.Panel.Width(width).Render(strings.Join(lines, "\n"))
}
