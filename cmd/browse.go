package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blueprint-browser/catalog"
	"blueprint-browser/logger"
	"blueprint-browser/ui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive blueprint browser",
	Long:  `Launch an interactive TUI to search, filter, sort and inspect blueprints.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		return runBrowse(a)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// chromeLines is the number of lines the header, status and footer take.
const chromeLines = 7

// Model is the state of the browser TUI.
type Model struct {
	controller *catalog.Controller
	copyText   func(string) error

	state      catalog.State
	query      catalog.Query
	categories []string
	view       []catalog.Record

	cursor    int
	offset    int
	searching bool
	search    textinput.Model
	spinner   spinner.Model
	detail    *catalog.Record
	message   string
	width     int
	height    int
}

func newModel(controller *catalog.Controller, sort catalog.SortOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "name, author or category"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		controller: controller,
		copyText:   clipboard.WriteAll,
		query:      catalog.Query{Category: catalog.AllCategories, Sort: sort},
		categories: []string{catalog.AllCategories},
		search:     ti,
		spinner:    s,
		width:      100,
		height:     30,
	}
	m.state = controller.Snapshot()
	m.state.Loading = true
	return m
}

// Message types
type refreshDoneMsg struct {
	err error
}

type clearMessageMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m Model) refresh() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return refreshDoneMsg{err: controller.Refresh(context.Background())}
	}
}

func clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
	case refreshDoneMsg:
		m.state = m.controller.Snapshot()
		if msg.err != nil {
			logger.Log.Warnw("Browser refresh failed", zap.Error(msg.err))
		}
		m.recompute()
	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.detail != nil {
		return m.handleDetailKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view)-1 {
			m.cursor++
		}
	case "pgup":
		m.cursor -= m.pageSize()
	case "pgdown":
		m.cursor += m.pageSize()
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.view) - 1
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "c":
		m.cycleCategory(1)
	case "C":
		m.cycleCategory(-1)
	case "s":
		m.query.Sort = m.query.Sort.Next()
		m.recompute()
	case "esc":
		m.search.SetValue("")
		m.query.Search = ""
		m.query.Category = catalog.AllCategories
		m.recompute()
	case "r":
		if !m.state.Loading {
			m.state.Loading = true
			m.state.Err = ""
			return m, tea.Batch(m.spinner.Tick, m.refresh())
		}
	case "enter":
		if len(m.view) > 0 {
			r := m.view[m.cursor]
			m.detail = &r
		}
	}
	m.clampCursor()
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.recompute()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.query.Search {
		m.query.Search = m.search.Value()
		m.recompute()
	}
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter", "backspace":
		m.detail = nil
	case "y":
		if err := m.copyText(m.detail.ID); err != nil {
			logger.Log.Warnw("Failed to copy blueprint ID", zap.String("id", m.detail.ID), zap.Error(err))
			m.message = "Clipboard unavailable: " + err.Error()
		} else {
			m.message = "Copied ID " + m.detail.ID
		}
		return m, clearMessageAfter(3 * time.Second)
	}
	return m, nil
}

// recompute rebuilds the filtered view after the collection or query changed.
func (m *Model) recompute() {
	m.categories = catalog.Categories(m.state.Records)
	if _, ok := matchCategory(m.categories, m.query.Category); !ok {
		m.query.Category = catalog.AllCategories
	}
	m.view = catalog.Apply(m.state.Records, m.query)
	m.clampCursor()
}

func (m *Model) cycleCategory(step int) {
	idx := 0
	for i, c := range m.categories {
		if c == m.query.Category {
			idx = i
			break
		}
	}
	n := len(m.categories)
	m.query.Category = m.categories[((idx+step)%n+n)%n]
	m.cursor = 0
	m.recompute()
}

func (m Model) pageSize() int {
	size := m.height - chromeLines
	if size < 1 {
		return 1
	}
	return size
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the UI
func (m Model) View() string {
	if m.detail != nil {
		return m.renderDetailScreen()
	}

	var b strings.Builder
	b.WriteString(m.renderTitleBar() + "\n")
	b.WriteString(m.renderStatusLine() + "\n")

	if m.state.Err != "" {
		b.WriteString(ui.Error.Render("Error: "+m.state.Err) + "\n")
		b.WriteString(ui.Muted.Render("Make sure index.json exists at the site origin or the mirror is reachable. Press r to retry.") + "\n")
	}

	switch {
	case m.state.Loading && len(m.state.Records) == 0:
		b.WriteString(fmt.Sprintf("\n %s Loading blueprints...\n", m.spinner.View()))
	case len(m.view) == 0 && m.state.Err == "":
		b.WriteString("\n" + ui.Muted.Render("  No blueprints match the current filters.") + "\n")
	case len(m.view) > 0:
		b.WriteString(renderHeader() + "\n")
		end := m.offset + m.pageSize()
		if end > len(m.view) {
			end = len(m.view)
		}
		for i := m.offset; i < end; i++ {
			row := renderRow(m.view[i])
			if i == m.cursor {
				row = ui.Selected.Render(row)
			}
			b.WriteString(row + "\n")
		}
	}

	b.WriteString("\n" + ui.Footer.Render("↑/k ↓/j move  enter details  / search  c/C category  s sort  r refresh  esc reset  q quit"))
	if m.message != "" {
		b.WriteString("\n" + ui.Success.Render(m.message))
	}
	return b.String()
}

func (m Model) renderTitleBar() string {
	title := ui.Title.Render("Blueprint Browser")
	if m.state.Loading {
		title += " " + m.spinner.View()
	}
	if m.searching || m.query.Search != "" {
		title += "   " + m.search.View()
	}
	return title
}

func (m Model) renderStatusLine() string {
	source := "no data"
	if m.state.Generation > 0 {
		source = fmt.Sprintf("%s index", m.state.Tier)
		if m.state.Index.GeneratedAt != "" {
			source += " generated " + ui.Truncate(m.state.Index.GeneratedAt, 19)
		}
	}
	category := m.query.Category
	if category != catalog.AllCategories {
		category = ui.Category(category)
	}
	return ui.Muted.Render(fmt.Sprintf("%d/%d blueprints · sort: %s · category: ",
		len(m.view), len(m.state.Records), m.query.Sort)) + category + ui.Muted.Render(" · "+source)
}

func (m Model) renderDetailScreen() string {
	body := ui.Panel.Width(max(40, m.width-4)).Render(strings.TrimRight(renderDetail(*m.detail), "\n"))
	out := body + "\n" + ui.Footer.Render("esc back  y copy ID  q quit")
	if m.message != "" {
		out += "\n" + ui.Success.Render(m.message)
	}
	return out
}

func runBrowse(a *app) error {
	m := newModel(a.controller, a.defaultSort())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Errorw("Failed to run browser", zap.Error(err))
		return err
	}
	return nil
}
