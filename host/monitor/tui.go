package monitor

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gobuggy/color"
)

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 5 // status box
	borderSize   = 2 // chart border
)

// Chart series
const (
	seriesHue   = "hue"
	seriesRed   = "red"
	seriesGreen = "green"
	seriesBlue  = "blue"
)

var seriesColors = []struct{ name, color string }{
	{seriesHue, "201"},
	{seriesRed, "196"},
	{seriesGreen, "46"},
	{seriesBlue, "33"},
}

// Swatch colours for each marker category
var categoryColors = map[color.Category]string{
	color.White:     "255",
	color.LightBlue: "117",
	color.Pink:      "213",
	color.Red:       "196",
	color.Orange:    "208",
	color.Green:     "46",
	color.Blue:      "21",
	color.Yellow:    "226",
	color.Unknown:   "240",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

type readingMsg Reading
type doneMsg struct{}

func waitForReading(ch <-chan Reading) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return doneMsg{}
		}
		return readingMsg(r)
	}
}

// Model is the bubbletea model of the live monitor
type Model struct {
	source   string
	readings <-chan Reading
	chart    *streamlinechart.Model
	width    int
	height   int

	last     *Reading
	count    int
	seen     map[color.Category]int
	ended    bool
	quitting bool
}

// NewModel builds a monitor view fed from readings. source is shown in the
// title, typically the serial device.
func NewModel(source string, readings <-chan Reading) Model {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, 360),
	)
	for _, s := range seriesColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color))
		chart.SetDataSetStyles(s.name, runes.ThinLineStyle, style)
	}

	return Model{
		source:   source,
		readings: readings,
		chart:    &chart,
		seen:     make(map[color.Category]int),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForReading(m.readings)
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *Model) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.chartSize()
		m.chart.Resize(w, h)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case readingMsg:
		r := Reading(msg)
		m.apply(r)
		return m, waitForReading(m.readings)

	case doneMsg:
		m.ended = true
		return m, nil
	}

	return m, nil
}

func (m *Model) apply(r Reading) {
	f := r.Frame
	m.chart.PushDataSet(seriesHue, f.Hue)
	m.chart.PushDataSet(seriesRed, f.R)
	m.chart.PushDataSet(seriesGreen, f.G)
	m.chart.PushDataSet(seriesBlue, f.B)
	m.chart.DrawAll()

	// a new category only counts once per run of identical readings
	if m.last == nil || m.last.Category != r.Category {
		m.seen[r.Category]++
	}
	m.last = &r
	m.count++
}

func (m Model) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Buggy Monitor"))
	sb.WriteString(" - " + m.source)
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%d frames]", m.count)))
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	sb.WriteString(boxStyle.Width(max(m.width-4, 40)).Render(m.status()))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) status() string {
	if m.last == nil {
		return statusStyle.Render("Waiting for telemetry... press 'q' to quit")
	}

	f := m.last.Frame
	lines := []string{
		Swatch(m.last.Category) + fmt.Sprintf("  R %6.2f  G %6.2f  B %6.2f  C %7.2f  hue %6.2f", f.R, f.G, f.B, f.Clear, f.Hue),
		fmt.Sprintf("turns %-20s previous leg %d ticks", turnsOrDash(f.Turns), f.PrevTicks),
		m.seenSummary(),
	}
	if m.ended {
		lines = append(lines, statusStyle.Render("stream ended, press 'q' to quit"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) seenSummary() string {
	var parts []string
	for c := color.Unknown; c <= color.Yellow; c++ {
		if n := m.seen[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s x%d", c, n))
		}
	}
	return statusStyle.Render("seen: " + strings.Join(parts, ", "))
}

// Swatch renders a category name in its marker colour
func Swatch(c color.Category) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(categoryColors[c])).Bold(true)
	return style.Render("■ " + c.String())
}

func turnsOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderLegend() string {
	var items []string
	for _, s := range seriesColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color)).Bold(true)
		items = append(items, style.Render("━━")+" "+s.name)
	}
	return strings.Join(items, "  ")
}
