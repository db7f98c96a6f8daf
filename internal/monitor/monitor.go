// Package monitor is the live observability dashboard over the
// transport's stats surface: running frame counts, tick-duration EMAs, the
// current number of PlayingAnimations, and the global isPlaying aggregate.
// It is a bubbletea program driven by a fixed-rate tick message; nothing
// here is persisted.
package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/transport"
)

// pollRate is how often the dashboard re-reads Transport.Stats(). 30 fps
// is enough for a human-facing readout; this is not the render loop
// itself.
const pollRate = 30

// Source is the minimal view the dashboard needs of a running engine.
type Source interface {
	Stats() transport.Stats
}

// tickMsg drives the poll loop, independent of playback advancement.
type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second/pollRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	frameStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Model is the bubbletea model for `orbiter monitor`.
type Model struct {
	source     Source
	registry   *models.Registry
	stats      transport.Stats
	modelTable viewport.Model
	ready      bool
}

// New returns a dashboard polling source and, if registry is non-nil,
// listing registered model categories with color coding in a scrolling
// viewport, since the model list may exceed the terminal height.
func New(source Source, registry *models.Registry) Model {
	return Model{source: source, registry: registry, modelTable: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.modelTable.Width = msg.Width - 4
		m.modelTable.Height = msg.Height - 10
		if !m.ready && m.registry != nil {
			m.modelTable.SetContent(categoryTable(m.registry))
			m.ready = true
		}
		return m, nil
	case tickMsg:
		m.stats = m.source.Stats()
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.modelTable, cmd = m.modelTable.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("orbiter monitor") + "\n\n")
	b.WriteString(row("playing animations", fmt.Sprintf("%d", m.stats.PlayingCount)))
	b.WriteString(row("is playing", fmt.Sprintf("%v", m.stats.IsPlaying)))
	b.WriteString(row("ui frames", fmt.Sprintf("%d", m.stats.UIFrameCount)))
	b.WriteString(row("ui tick EMA", fmt.Sprintf("%.2f ms", m.stats.UITickEMAMs)))
	b.WriteString(row("osc frames", fmt.Sprintf("%d", m.stats.OSCFrameCount)))
	b.WriteString(row("osc tick EMA", fmt.Sprintf("%.2f ms", m.stats.OSCTickEMAMs)))

	if m.registry != nil {
		b.WriteString("\n" + titleStyle.Render("registered models") + "\n")
		if m.ready {
			b.WriteString(m.modelTable.View())
		} else {
			b.WriteString(categoryTable(m.registry))
		}
	}

	b.WriteString("\n" + labelStyle.Render("q to quit, ↑/↓ to scroll"))
	return frameStyle.Render(b.String())
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-20s", label)) + valueStyle.Render(value) + "\n"
}

// categoryTable renders one line per registered model, color-coded by
// category via a stable hash of the category name into an HSV color.
func categoryTable(registry *models.Registry) string {
	profile := termenv.ColorProfile()
	all := registry.List(models.Filter{})
	sort.Slice(all, func(i, j int) bool {
		return all[i].Metadata().Type < all[j].Metadata().Type
	})

	colors := map[string]colorful.Color{}
	var b strings.Builder
	for _, model := range all {
		meta := model.Metadata()
		c, ok := colors[meta.Category]
		if !ok {
			c = categoryColor(meta.Category)
			colors[meta.Category] = c
		}
		term := profile.Color(c.Hex())
		line := termenv.String(fmt.Sprintf("%-12s %-20s", meta.Category, meta.Type)).Foreground(term).String()
		b.WriteString(line + "\n")
	}
	return b.String()
}

// categoryColor derives a stable hue from the category name so the same
// category always renders the same color across runs.
func categoryColor(category string) colorful.Color {
	var hash uint32
	for _, r := range category {
		hash = hash*31 + uint32(r)
	}
	hue := float64(hash % 360)
	return colorful.Hsv(hue, 0.6, 0.9)
}
