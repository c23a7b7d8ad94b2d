package board

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopfloor/shopboard/internal/board/commands"
	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		LogKeyPress(msg)
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case commands.BoardLoadedMsg:
		m.machines = msg.Machines
		m.slots = msg.Slots
		m.orders = msg.Orders
		m.drag.SetBoard(msg.Machines, msg.Slots)
		m.loading = false
		return m, nil

	case commands.SlotCommittedMsg:
		delete(m.updating, msg.ID)
		m.statusMsg = "Rescheduled"
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, tea.Batch(
			commands.LoadBoard(m.repo, m.scale),
			commands.ClearStatusAfter(3*time.Second),
		)

	case commands.BulkCommittedMsg:
		m.updating = make(map[int64]bool)
		m.statusMsg = fmt.Sprintf("Rescheduled %d slots", msg.Count)
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, tea.Batch(
			commands.LoadBoard(m.repo, m.scale),
			commands.ClearStatusAfter(3*time.Second),
		)

	case commands.DebounceElapsedMsg:
		// Only the latest pointer-move generation triggers a request.
		if msg.Seq != m.debounceSeq || !m.drag.Active() {
			return m, nil
		}
		candidate := m.drag.Candidate()
		if candidate == nil {
			return m, nil
		}
		requestID := m.drag.BeginValidation()
		LogValidation(requestID, "requested")
		return m, commands.Validate(m.validator, requestID, []*schedule.Slot{candidate})

	case commands.ValidationResultMsg:
		switch {
		case msg.Err != nil:
			// Fail open: clear the pending flag, keep the local conflicts.
			LogError("validation", msg.Err)
			m.drag.ApplyValidation(msg.RequestID, nil)
		case m.drag.ApplyValidation(msg.RequestID, msg.Conflicts):
			LogValidation(msg.RequestID, "applied")
		default:
			LogValidation(msg.RequestID, "stale, discarded")
		}
		return m, nil

	case commands.NowTickMsg:
		m.now = msg.Now
		return m, commands.NowTick(m.mode)

	case commands.CopiedMsg:
		m.statusMsg = "Copied window to clipboard"
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, commands.ClearStatusAfter(3 * time.Second)

	case commands.ErrMsg:
		m.err = msg.Err
		LogError("command", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, commands.ClearStatusAfter(5 * time.Second)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Cancel):
		if m.drag.Active() {
			m.drag.Cancel()
			return m, nil
		}
		m.sel.Clear()
		return m, nil

	case key.Matches(msg, keys.DayView):
		return m, m.setWindow(timescale.ViewDay, m.anchor)
	case key.Matches(msg, keys.WeekView):
		return m, m.setWindow(timescale.ViewWeek, m.anchor)
	case key.Matches(msg, keys.MonthView):
		return m, m.setWindow(timescale.ViewMonth, m.anchor)

	case key.Matches(msg, keys.Today):
		return m, m.setWindow(m.mode, m.nowFunc())

	case key.Matches(msg, keys.NextPeriod):
		return m, m.setWindow(m.mode, m.shiftAnchor(1))
	case key.Matches(msg, keys.PrevPeriod):
		return m, m.setWindow(m.mode, m.shiftAnchor(-1))

	case key.Matches(msg, keys.ScrollL):
		m.scrollX -= scrollStep
		m.clampScroll()
		return m, nil
	case key.Matches(msg, keys.ScrollR):
		m.scrollX += scrollStep
		m.clampScroll()
		return m, nil

	case key.Matches(msg, keys.NudgeL):
		return m, m.nudgeSelection(-1)
	case key.Matches(msg, keys.NudgeR):
		return m, m.nudgeSelection(1)

	case key.Matches(msg, keys.Conflicts):
		m.showConflicts = !m.showConflicts
		return m, nil

	case key.Matches(msg, keys.Reload):
		m.loading = true
		return m, commands.LoadBoard(m.repo, m.scale)

	case key.Matches(msg, keys.Copy):
		return m, commands.CopyToClipboard(m.exportWindow())
	}

	return m, nil
}

const scrollStep = 8

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollX -= scrollStep
		m.clampScroll()
		return m, nil

	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollX += scrollStep
		m.clampScroll()
		return m, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.handlePress(msg)

	case msg.Action == tea.MouseActionMotion:
		return m.handleMotion(msg)

	case msg.Action == tea.MouseActionRelease:
		return m.handleRelease()
	}

	return m, nil
}

func (m Model) handlePress(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	boardX, boardY := m.layout.PointerToBoard(msg.X, msg.Y, m.scrollX)
	slot := m.slotAt(boardX, boardY)

	if slot == nil {
		if !msg.Ctrl {
			m.sel.Clear()
		}
		return m, nil
	}

	if msg.Ctrl {
		m.sel.Toggle(slot.ID)
		return m, nil
	}

	m.sel.Click(slot.ID)
	if err := m.drag.Start(slot, boardX, m.updating[slot.ID]); err != nil {
		// Locked slots and slots with a commit in flight are ignored without
		// surfacing anything; the refusal only shows up in the debug log.
		LogDrag(m.drag, "start refused: "+err.Error())
		return m, nil
	}
	LogDrag(m.drag, "start")
	return m, nil
}

func (m Model) handleMotion(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.drag.Active() {
		return m, nil
	}

	boardX, boardY := m.layout.PointerToBoard(msg.X, msg.Y, m.scrollX)
	m.drag.Move(boardX, boardY)

	// Re-arm the debounce: only the generation armed by the last move fires.
	m.debounceSeq++
	return m, commands.Debounce(m.debounce(), m.debounceSeq)
}

func (m Model) handleRelease() (tea.Model, tea.Cmd) {
	if !m.drag.Active() {
		return m, nil
	}

	LogDrag(m.drag, "end")
	id, update, ok := m.drag.End()
	if !ok {
		return m, nil
	}

	m.updating[id] = true
	return m, commands.CommitSlot(m.repo, id, update)
}

// nudgeSelection shifts every selected slot by one snap interval. Locked
// slots and slots with a commit in flight stay put.
func (m *Model) nudgeSelection(direction int) tea.Cmd {
	if m.drag.Active() || m.sel.Len() == 0 {
		return nil
	}

	delta := time.Duration(direction*m.config.Board.SnapMinutes) * time.Minute
	var updates []schedule.BulkSlotUpdate
	for _, id := range m.sel.IDs() {
		slot := m.slotByID(id)
		if slot == nil || slot.Locked || m.updating[id] {
			continue
		}
		start := slot.Start.Add(delta)
		end := slot.End.Add(delta)
		updates = append(updates, schedule.BulkSlotUpdate{
			ID:     id,
			Update: schedule.SlotUpdate{Start: &start, End: &end},
		})
	}
	if len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		m.updating[u.ID] = true
	}
	return commands.CommitBulk(m.repo, updates)
}

func (m *Model) slotByID(id int64) *schedule.Slot {
	for _, s := range m.slots {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// shiftAnchor moves the anchor one window in either direction, using
// calendar arithmetic so month windows land on real month boundaries.
func (m *Model) shiftAnchor(direction int) time.Time {
	switch m.mode {
	case timescale.ViewWeek:
		return m.anchor.AddDate(0, 0, 7*direction)
	case timescale.ViewMonth:
		return m.anchor.AddDate(0, direction, 0)
	default:
		return m.anchor.AddDate(0, 0, direction)
	}
}

func (m *Model) clampScroll() {
	visible := m.width - m.layout.LabelWidth
	max := m.scale.Width() - visible
	if max < 0 {
		max = 0
	}
	if m.scrollX > max {
		m.scrollX = max
	}
	if m.scrollX < 0 {
		m.scrollX = 0
	}
}
