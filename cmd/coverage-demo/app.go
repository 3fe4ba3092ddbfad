package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spiralstc/grid"
	"spiralstc/planner"
)

var (
	styleBlocked = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleVisited = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleCurrent = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleFree    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	styleStatus  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// replayModel is the bubbletea Model for stepping through a recorded
// plan one Observer callback at a time. There is no Update message that
// drives it forward on its own; the user pages with the keyboard, the
// same paged-replay shape as the teacher TUI's status board.
type replayModel struct {
	cg      *grid.CoverageGrid
	mask    *grid.CellMask
	frames  []frame
	cursor  int
	result  *planner.Result
	quitted bool
}

func newReplayModel(cg *grid.CoverageGrid, mask *grid.CellMask, frames []frame, result *planner.Result) replayModel {
	return replayModel{cg: cg, mask: mask, frames: frames, result: result}
}

func (m replayModel) Init() tea.Cmd { return nil }

func (m replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		m.quitted = true
		return m, tea.Quit
	case "right", " ", "n":
		if m.cursor < len(m.frames)-1 {
			m.cursor++
		}
	case "left", "p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = len(m.frames) - 1
	}
	return m, nil
}

func (m replayModel) View() string {
	if len(m.frames) == 0 {
		return "no recorded frames\n"
	}
	f := m.frames[m.cursor]

	var rows []byte
	for y := 0; y < m.cg.H; y++ {
		for x := 0; x < m.cg.W; x++ {
			rows = appendCell(rows, f, m.mask, x, y)
		}
		rows = append(rows, '\n')
	}

	status := fmt.Sprintf(
		"frame %d/%d  [%s]  run=%s  visited=%d  multi_pass=%d  (←/→ to step, g/G to jump, q to quit)",
		m.cursor+1, len(m.frames), f.label, m.result.RunID, m.result.Metrics.VisitedCount, m.result.Metrics.MultiPassCount,
	)
	return string(rows) + "\n" + styleStatus.Render(status) + "\n"
}

func appendCell(out []byte, f frame, mask *grid.CellMask, x, y int) []byte {
	cell := grid.Cell{X: x, Y: y}
	current := len(f.path) > 0 && f.path[len(f.path)-1] == cell
	switch {
	case current:
		return append(out, []byte(styleCurrent.Render("@"))...)
	case mask.IsBlocked(x, y):
		return append(out, []byte(styleBlocked.Render("#"))...)
	case f.visited[cell]:
		return append(out, []byte(styleVisited.Render("*"))...)
	default:
		return append(out, []byte(styleFree.Render("."))...)
	}
}

// runTUI drives the replay model to completion via bubbletea's program
// runner, the same entrypoint shape as the teacher's tea.NewProgram(app).Run().
func runTUI(cg *grid.CoverageGrid, mask *grid.CellMask, frames []frame, result *planner.Result) error {
	p := tea.NewProgram(newReplayModel(cg, mask, frames, result))
	_, err := p.Run()
	return err
}
