// Package tui is a terminal drill-down dashboard over the category tree
// engine. It runs one Session per mode against any store, usually the remote
// API client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/session"
	"github.com/zdy718/ClearDollar/internal/store"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

const (
	barWidth  = 20
	nameWidth = 24
)

type styles struct {
	Title     lipgloss.Style
	Crumbs    lipgloss.Style
	Selected  lipgloss.Style
	Synthetic lipgloss.Style
	Over      lipgloss.Style
	Under     lipgloss.Style
	Help      lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")),
		Crumbs:    lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0af68")),
		Synthetic: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#bbbbbb")),
		Over:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
		Under:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
	}
}

// row is one line of the dashboard: a budget bar plus whether Enter may
// descend into it.
type row struct {
	bar       tagtree.Bar
	drillable bool
}

// loadedMsg carries a freshly computed view back to Update.
type loadedMsg struct {
	mode   tagtree.Mode
	path   []uint
	forest tagtree.Forest
	view   tagtree.View
	resync bool
	err    error
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	sessions map[tagtree.Mode]*session.Session
	loaded   map[tagtree.Mode]bool
	timeout  time.Duration

	mode   tagtree.Mode
	path   []uint
	forest tagtree.Forest
	view   tagtree.View
	rows   []row
	cursor int

	loading   bool
	status    string
	statusErr bool
	styles    styles
}

// New creates a dashboard for userID over st, starting in expense mode.
// timeout bounds every store round trip.
func New(st store.Store, userID string, timeout time.Duration) Model {
	return Model{
		sessions: map[tagtree.Mode]*session.Session{
			tagtree.ModeExpense: session.New(st, userID, tagtree.ModeExpense),
			tagtree.ModeIncome:  session.New(st, userID, tagtree.ModeIncome),
		},
		loaded:  map[tagtree.Mode]bool{},
		timeout: timeout,
		mode:    tagtree.ModeExpense,
		loading: true,
		styles:  defaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.load(true)
}

// load recomputes the view for the current mode and path. resync rebuilds
// the forest from the store first; the path is then cut back to its longest
// prefix that still resolves.
func (m Model) load(resync bool) tea.Cmd {
	sess := m.sessions[m.mode]
	mode := m.mode
	path := append([]uint(nil), m.path...)
	timeout := m.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if resync {
			if err := sess.Resync(ctx); err != nil {
				return loadedMsg{mode: mode, resync: resync, err: err}
			}
		}
		forest := sess.Forest()
		nav := tagtree.NewNavigator(forest)
		for _, id := range path {
			if nav.Descend(id) != nil {
				break
			}
		}
		path = nav.Path()

		view, err := sess.View(ctx, path)
		return loadedMsg{mode: mode, path: path, forest: forest, view: view, resync: resync, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m.handleLoaded(msg), nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) Model {
	if msg.resync && msg.err == nil {
		m.loaded[msg.mode] = true
	}
	if msg.mode != m.mode {
		return m
	}
	m.loading = false
	if msg.err != nil {
		m.setError(errorText(msg.err))
		return m
	}

	m.path = msg.path
	m.forest = msg.forest
	m.view = msg.view
	m.rows = buildRows(msg.forest, msg.path, msg.view.Bars)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter":
		if m.loading || len(m.rows) == 0 {
			return m, nil
		}
		r := m.rows[m.cursor]
		if !r.drillable {
			m.setError(fmt.Sprintf("%s has no breakdown", r.bar.Name))
			return m, nil
		}
		m.path = append(append([]uint(nil), m.path...), *r.bar.CategoryID)
		m.cursor = 0
		m.status = ""
		m.loading = true
		return m, m.load(false)
	case "backspace":
		if m.loading || len(m.path) == 0 {
			return m, nil
		}
		m.path = m.path[:len(m.path)-1]
		m.cursor = 0
		m.status = ""
		m.loading = true
		return m, m.load(false)
	case "m":
		m.mode = m.mode.Toggle()
		m.path = nil
		m.cursor = 0
		m.rows = nil
		m.status = ""
		m.loading = true
		return m, m.load(!m.loaded[m.mode])
	case "r":
		m.loading = true
		m.status = "Re-synced."
		m.statusErr = false
		return m, m.load(true)
	}
	return m, nil
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

// Mode returns the hierarchy on screen.
func (m Model) Mode() tagtree.Mode { return m.mode }

// Path returns the current drill path.
func (m Model) Path() []uint { return append([]uint(nil), m.path...) }

// buildRows lists every child of the node at path, so a category with no
// activity or budget yet can still be drilled into, followed by the view's
// synthetic bars.
func buildRows(forest tagtree.Forest, path []uint, bars []tagtree.Bar) []row {
	current := &tagtree.Node{Children: forest}
	for _, id := range path {
		next := current.Child(id)
		if next == nil {
			break
		}
		current = next
	}

	byID := make(map[uint]tagtree.Bar, len(bars))
	for _, b := range bars {
		if b.CategoryID != nil {
			byID[*b.CategoryID] = b
		}
	}

	rows := make([]row, 0, len(current.Children)+2)
	for _, child := range current.Children {
		b, ok := byID[child.ID]
		if !ok {
			id := child.ID
			b = tagtree.Bar{CategoryID: &id, Name: child.Name, Budget: child.BudgetAmount}
		}
		rows = append(rows, row{bar: b, drillable: !child.IsLeaf()})
	}
	for _, b := range bars {
		if b.CategoryID == nil {
			rows = append(rows, row{bar: b})
		}
	}
	return rows
}

func errorText(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func modeLabel(mode tagtree.Mode) string {
	if mode == tagtree.ModeIncome {
		return "Income"
	}
	return "Expenses"
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("ClearDollar · " + modeLabel(m.mode)))
	b.WriteString("\n")

	crumbs := make([]string, 0, len(m.view.Breadcrumbs))
	for _, c := range m.view.Breadcrumbs {
		crumbs = append(crumbs, c.Label)
	}
	if len(crumbs) == 0 {
		crumbs = append(crumbs, tagtree.RootLabel)
	}
	b.WriteString(m.styles.Crumbs.Render(strings.Join(crumbs, " › ")))
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString("Loading…\n")
	case len(m.rows) == 0:
		b.WriteString("No categories here yet.\n")
	default:
		b.WriteString(fmt.Sprintf("Total %s\n\n", money(m.view.Total)))
		for i, r := range m.rows {
			b.WriteString(m.renderRow(r, i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.status))
		} else {
			b.WriteString(m.styles.Status.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("↑/↓ select · enter drill in · backspace up · m income/expense · r re-sync · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRow(r row, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	name := r.bar.Name
	if r.drillable {
		name += " ▸"
	}
	name = fmt.Sprintf("%-*s", nameWidth, truncate(name, nameWidth))

	switch {
	case selected:
		name = m.styles.Selected.Render(name)
	case r.bar.IsOther:
		name = m.styles.Synthetic.Render(name)
	}

	line := fmt.Sprintf("%s%s %12s", cursor, name, money(r.bar.Spent))
	if !r.bar.HasBudget {
		return line
	}
	style := m.styles.Under
	if r.bar.Spent.GreaterThan(r.bar.Budget) {
		style = m.styles.Over
	}
	return fmt.Sprintf("%s / %-10s %s %s%%", line, money(r.bar.Budget),
		style.Render(progress(r.bar.Percent)), r.bar.Percent.StringFixed(0))
}

func progress(pct decimal.Decimal) string {
	filled := int(pct.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).IntPart())
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
