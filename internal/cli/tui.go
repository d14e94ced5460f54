package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cm2kit/pkg/circuit"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive block browser
// =============================================================================

// inspectRow is one block of the inspected module with its wiring.
type inspectRow struct {
	Index int
	Block circuit.Block
	In    []string
	Out   []string
}

// InspectModel is the bubbletea model behind the inspect command.
type InspectModel struct {
	Name   string
	Rows   []inspectRow
	Wires  int
	Cursor int
	Height int
	Offset int
}

// NewInspectModel indexes m for browsing.
func NewInspectModel(m *circuit.Module) InspectModel {
	idx := m.Indexes()
	blocks := m.Blocks()
	pos := make(map[string]int, len(blocks))
	rows := make([]inspectRow, len(blocks))
	for i, b := range blocks {
		rows[i] = inspectRow{Index: idx[b.Name], Block: b}
		pos[b.Name] = i
	}
	for _, w := range m.Wires() {
		rows[pos[w.Src]].Out = append(rows[pos[w.Src]].Out, w.Dst)
		rows[pos[w.Dst]].In = append(rows[pos[w.Dst]].In, w.Src)
	}
	return InspectModel{Name: m.Name(), Rows: rows, Wires: m.WireCount(), Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Rows))
		case "end", "G":
			m.move(len(m.Rows))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls to keep it visible.
func (m *InspectModel) move(delta int) {
	if len(m.Rows) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Rows)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := m.Name
	if title == "" {
		title = "module"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d blocks · %d wires", len(m.Rows), m.Wires)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(r.Index), r.Block.Name, r.Block.Kind.String(), r.Block.Pos.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Name", "Kind", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	sel := m.Rows[m.Cursor]
	b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render("in: "), joinOrDash(sel.In)))
	b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render("out:"), joinOrDash(sel.Out)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// joinOrDash lists at most eight names.
func joinOrDash(names []string) string {
	switch {
	case len(names) == 0:
		return "—"
	case len(names) > 8:
		return strings.Join(names[:8], ", ") + fmt.Sprintf(" … +%d", len(names)-8)
	}
	return strings.Join(names, ", ")
}
