package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/render"
	"github.com/san-kum/gravfield/internal/survey"
)

var ErrNoGrids = errors.New("viz: result has no grids")

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Level    key.Binding
	Grid     key.Binding
	Quantity key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Level, k.Quantity, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Level, k.Grid, k.Quantity},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "row +y")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "row -y")),
	Level:    key.NewBinding(key.WithKeys("tab", "z"), key.WithHelp("z", "next level")),
	Grid:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next grid")),
	Quantity: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "U / gz")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ExploreModel browses the grids of a finished run one profile at a time.
type ExploreModel struct {
	res      *survey.Result
	grid     int
	level    int
	row      int
	quantity Quantity

	table table.Model
	help  help.Model

	width  int
	height int
}

// NewExploreModel starts on the first grid and level, at the row closest to
// the source.
func NewExploreModel(res *survey.Result) (ExploreModel, error) {
	if res == nil || len(res.Grids) == 0 {
		return ExploreModel{}, ErrNoGrids
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "z [m]", Width: 8},
			{Title: "min", Width: 12},
			{Title: "max", Width: 12},
		}),
		table.WithFocused(false),
		table.WithHeight(len(res.Grids[0].Levels)+1),
	)
	m := ExploreModel{
		res:    res,
		table:  t,
		help:   help.New(),
		width:  80,
		height: 24,
	}
	m.row = m.sourceRow()
	m.refreshTable()
	return m, nil
}

func (m ExploreModel) Init() tea.Cmd { return nil }

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ExploreModel) handleKey(msg tea.KeyMsg) (ExploreModel, tea.Cmd) {
	g := m.current()
	_, ny := g.Mesh.Dims()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.row < ny-1 {
			m.row++
		}
	case key.Matches(msg, keys.Down):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, keys.Level):
		m.level = (m.level + 1) % len(g.Levels)
	case key.Matches(msg, keys.Grid):
		m.grid = (m.grid + 1) % len(m.res.Grids)
		m.level = 0
		m.row = m.sourceRow()
		m.table.SetHeight(len(m.current().Levels) + 1)
	case key.Matches(msg, keys.Quantity):
		m.quantity = 1 - m.quantity
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.refreshTable()
	return m, nil
}

func (m ExploreModel) current() survey.Grid { return m.res.Grids[m.grid] }

// sourceRow is the mesh row whose y is nearest the source.
func (m ExploreModel) sourceRow() int {
	g := m.current()
	y := m.res.Source.Source.Y
	best := 0
	for i, v := range g.Mesh.Y {
		if abs(v-y) < abs(g.Mesh.Y[best]-y) {
			best = i
		}
	}
	return best
}

// levelRange is the current level's range in display units.
func (m ExploreModel) levelRange() field.Range {
	r := m.quantity.field(m.current().Survey).LevelRange(m.level)
	return field.Range{Min: m.quantity.scale(r.Min), Max: m.quantity.scale(r.Max)}
}

func (m *ExploreModel) refreshTable() {
	g := m.current()
	f := m.quantity.field(g.Survey)
	rows := make([]table.Row, len(g.Levels))
	for k, z := range g.Levels {
		r := f.LevelRange(k)
		rows[k] = table.Row{
			render.FormatMetres(z),
			fmt.Sprintf("%.4f", m.quantity.scale(r.Min)),
			fmt.Sprintf("%.4f", m.quantity.scale(r.Max)),
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(m.level)
}

func (m ExploreModel) View() string {
	g := m.current()
	var b strings.Builder

	b.WriteString(Title.Render(render.FigureTitle(g.Spacing)))
	b.WriteString("\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("grid %d/%d  ·  %s [%s]  ·  run %s",
		m.grid+1, len(m.res.Grids), m.quantity, m.quantity.Unit(), m.res.ID)))
	b.WriteString("\n")
	b.WriteString(Separator(min(m.width, 80)))
	b.WriteString("\n\n")

	p, err := ProfileAt(g.Survey, m.quantity, m.level, m.row)
	if err != nil {
		b.WriteString(ErrorText.Render(err.Error()))
		return b.String()
	}

	chartW := m.width - 16
	if chartW < 20 {
		chartW = 20
	}
	chartH := m.height - len(g.Levels) - 14
	if chartH < 5 {
		chartH = 5
	}

	left := Panel.Render(m.table.View())
	right := lipgloss.JoinVertical(lipgloss.Left,
		KeyValue("level", fmt.Sprintf("%d/%d", m.level+1, len(g.Levels))),
		KeyValue("row", fmt.Sprintf("%d, y = %s m", m.row, render.FormatMetres(p.Y))),
		Sparkline(p.Values, m.levelRange(), SparklineStride(len(p.Values), 40)),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")
	b.WriteString(RenderProfile(p, chartW, chartH))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

// RunExplore opens the explorer on the alternate screen until the user quits.
func RunExplore(res *survey.Result) error {
	m, err := NewExploreModel(res)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
