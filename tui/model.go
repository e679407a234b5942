package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chordflow/sequencer"
	"chordflow/theme"
)

type Model struct {
	Manager *sequencer.Manager
	Theme   *theme.Theme

	editing  bool
	editSlot int
	input    string
	status   string
	quitting bool
}

type UpdateMsg struct{}

func NewModel(manager *sequencer.Manager, th *theme.Theme) Model {
	return Model{
		Manager: manager,
		Theme:   th,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Manager)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg), nil
		}
		return m.updateNormal(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.Manager.Snapshot()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Manager.Stop()
		return m, tea.Quit

	case " ":
		if snap.Running {
			m.Manager.Stop()
		} else {
			m.Manager.Start()
		}

	case "tab":
		m.Manager.ToggleMode()

	case "h", "left":
		m.Manager.SetCursor(snap.Cursor - 1)

	case "l", "right":
		m.Manager.SetCursor(snap.Cursor + 1)

	case "e", "enter":
		m.editing = true
		m.editSlot = snap.Cursor
		m.input = snap.Slots[snap.Cursor]
		m.status = ""

	case "x":
		m.Manager.ClearSlot(snap.Cursor)

	case "i":
		if err := m.Manager.CycleInversion(snap.Cursor); err != nil {
			m.status = err.Error()
		}

	case "a":
		if err := m.Manager.SetLoop(snap.Cursor, max(snap.Cursor, snap.LoopB)); err != nil {
			m.status = err.Error()
		}

	case "b":
		if err := m.Manager.SetLoop(min(snap.LoopA, snap.Cursor), snap.Cursor); err != nil {
			m.status = err.Error()
		}

	case "c":
		m.Manager.ClearLoop()

	case "m":
		m.Manager.ToggleKeyMode()

	case "v":
		m.Manager.SetVoiceLead(!snap.VoiceLead)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if snap.Mode == sequencer.ModePerformance {
			m.Manager.Fire(int(msg.String()[0] - '1'))
		}
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		if err := m.Manager.SetSlot(m.editSlot, m.input); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
			m.editing = false
		}

	case "esc":
		m.editing = false
		m.status = ""

	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		}
	}
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Manager.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	okStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	playState := dimStyle.Render("STOP")
	if snap.Running {
		playState = okStyle.Render("PLAY")
	}
	lead := "lead:off"
	if snap.VoiceLead {
		lead = "lead:on"
	}
	header := headerStyle.Render("chordflow  ") + playState + headerStyle.Render(fmt.Sprintf(
		"  key:%s %s  %s  [%s]",
		snap.Key.Root, strings.ToLower(snap.Key.Mode.String()), lead, snap.Mode))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	if snap.Mode == sequencer.ModeGrid {
		out.WriteString(m.gridView(snap, cursorStyle, activeStyle, dimStyle))
	} else {
		out.WriteString(m.performanceView(snap, dimStyle))
	}

	out.WriteString("\n")
	if m.editing {
		out.WriteString(cursorStyle.Render(fmt.Sprintf("step %02d> %s_", m.editSlot, m.input)))
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(errStyle.Render(m.status))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	if snap.Mode == sequencer.ModeGrid {
		out.WriteString(dimStyle.Render("hl:move  e:edit  x:clear  i:invert  a/b:loop  c:unloop  m:key  v:lead  tab:perform  space:play  q:quit"))
	} else {
		out.WriteString(dimStyle.Render("1-9:fire  tab:grid  space:play  q:quit"))
	}
	return out.String()
}

func (m Model) gridView(snap sequencer.Snapshot, cursorStyle, activeStyle, dimStyle lipgloss.Style) string {
	sym := m.Theme.Symbols
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	var row strings.Builder
	for i := range snap.Slots {
		onCursor := i == snap.Cursor
		onPlayhead := snap.Running && i == snap.Cursor

		var r rune
		switch {
		case onPlayhead && onCursor:
			r = sym.CursorPlayhead
		case onCursor && snap.Slots[i] != "":
			r = sym.CursorChord
		case onCursor:
			r = sym.CursorEmpty
		case snap.Slots[i] != "":
			r = sym.StepChord
		default:
			r = sym.StepEmpty
		}

		cell := string(r)
		switch {
		case onCursor:
			cell = cursorStyle.Render(cell)
		case i >= snap.LoopA && i <= snap.LoopB:
			cell = activeStyle.Render(cell)
		default:
			cell = dimStyle.Render(cell)
		}
		row.WriteString(cell)
		row.WriteString(" ")
	}
	row.WriteString("\n\n")

	token := snap.Slots[snap.Cursor]
	if token == "" {
		row.WriteString(dimStyle.Render(fmt.Sprintf("step %02d: (empty)", snap.Cursor)))
	} else if snap.SlotErrs[snap.Cursor] != "" {
		row.WriteString(fmt.Sprintf("step %02d: %s  %s", snap.Cursor, token, snap.SlotErrs[snap.Cursor]))
	} else {
		row.WriteString(fgStyle.Render(fmt.Sprintf("step %02d: %s  %s", snap.Cursor, token, snap.Voicings[snap.Cursor])))
	}
	row.WriteString("\n")
	return row.String()
}

func (m Model) performanceView(snap sequencer.Snapshot, dimStyle lipgloss.Style) string {
	var out strings.Builder
	for i, token := range snap.Bindings {
		line := fmt.Sprintf("%d: %s", i+1, token)
		if token == "" {
			line = dimStyle.Render(fmt.Sprintf("%d: -", i+1))
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}
