package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sync-bridge/models"
)

const defaultBarWidth = 30

// syncKey identifies a sync across stores: ids are only unique per store.
type syncKey struct {
	isGlobal  bool
	storeName string
	id        int64
}

// syncRow is the latest known state of one sync.
type syncRow struct {
	key   syncKey
	state models.SyncState
}

// monitorModel lists every sync seen since start, newest last.
type monitorModel struct {
	rows   []syncRow
	byKey  map[syncKey]int
	cursor int

	events int

	spinner spinner.Model
	bar     progress.Model
	help    help.Model

	buildInfo     models.AppBuildInfo
	showBuildInfo bool
	quitByUser    bool
}

func newMonitorModel(buildInfo models.AppBuildInfo) monitorModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return monitorModel{
		byKey:     make(map[syncKey]int),
		spinner:   s,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		help:      help.New(),
		buildInfo: buildInfo,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if w := msg.Width / 3; w > 10 {
			m.bar.Width = w
		}
		return m, nil

	case progressMsg:
		m.apply(models.ProgressEvent(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m monitorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		m.quitByUser = true
		return m, tea.Quit
	}

	if m.showBuildInfo {
		if key.Matches(msg, keys.esc, keys.buildInfo) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.buildInfo):
		m.showBuildInfo = true
	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.clear):
		m.clearFinished()
	}
	return m, nil
}

// apply records the latest state of the event's sync.
func (m *monitorModel) apply(event models.ProgressEvent) {
	m.events++
	k := syncKey{isGlobal: event.IsGlobal, storeName: event.StoreName, id: event.SyncState.ID}

	if i, ok := m.byKey[k]; ok {
		m.rows[i].state = event.SyncState
		return
	}

	m.byKey[k] = len(m.rows)
	m.rows = append(m.rows, syncRow{key: k, state: event.SyncState})
}

// clearFinished drops DONE syncs. Failed ones stay until the user has seen
// them in a resync.
func (m *monitorModel) clearFinished() {
	kept := m.rows[:0]
	m.byKey = make(map[syncKey]int, len(m.rows))
	for _, row := range m.rows {
		if row.state.Status == models.SyncStatusDone {
			continue
		}
		m.byKey[row.key] = len(kept)
		kept = append(kept, row)
	}
	m.rows = kept

	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

// View implements tea.Model.
func (m monitorModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("SYNC MONITOR"))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d syncs, %d events", len(m.rows), m.events)))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("waiting for sync activity..."))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		b.WriteString(m.renderRow(row, i == m.cursor))
		b.WriteString("\n")
	}

	if len(m.rows) > 0 {
		if msg := humanizeSyncError(m.rows[m.cursor].state.Error); msg != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("error: " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return appStyle.Render(b.String())
}

func (m monitorModel) renderRow(row syncRow, selected bool) string {
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}

	scope := "user"
	if row.key.isGlobal {
		scope = "global"
	}

	status := string(row.state.Status)
	if style, ok := statusStyles[status]; ok {
		status = style.Render(status)
	}

	indicator := " "
	if row.state.Status == models.SyncStatusRunning {
		indicator = m.spinner.View()
	}

	return fmt.Sprintf("%s%s %-6s %-16s #%-4d %-8s %-9s %s %3d%%",
		cursor,
		indicator,
		scope,
		row.key.storeName+"/"+row.state.SoupName,
		row.state.ID,
		row.state.Type,
		status,
		m.bar.ViewAs(float64(row.state.Progress)/100),
		row.state.Progress,
	)
}
