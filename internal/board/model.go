package board

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopfloor/shopboard/internal/board/commands"
	"github.com/shopfloor/shopboard/internal/config"
	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
	"github.com/shopfloor/shopboard/internal/validate"
)

// Model is the board's Bubble Tea model.
type Model struct {
	// Dependencies
	repo      schedule.Repository
	validator validate.Service
	config    *config.Config
	styles    *Styles

	// Window
	mode   timescale.ViewMode
	anchor time.Time
	scale  timescale.Scale
	layout timescale.Layout

	// Board contents
	machines []*schedule.Machine
	slots    []*schedule.Slot
	orders   []*schedule.WorkOrder

	// Interaction
	drag *Dragger
	sel  *Selection

	// Validation debounce: each pointer move bumps the generation, only the
	// latest generation's timer triggers a request.
	debounceSeq int

	// Slots with a commit in flight; dragging them is refused.
	updating map[int64]bool

	// Terminal state
	width, height int
	scrollX       int
	loading       bool
	showConflicts bool

	// Now marker
	now     time.Time
	nowFunc func() time.Time

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// New creates a board model over the given repository and validator. The
// anchor decides which day/week/month the window shows.
func New(repo schedule.Repository, validator validate.Service, cfg *config.Config, anchor time.Time) *Model {
	mode, err := timescale.ParseViewMode(cfg.Board.View)
	if err != nil {
		mode = timescale.ViewDay
	}
	scale := timescale.Compute(mode, anchor, cfg.Views.PixelsPerHour(string(mode)))
	layout := timescale.Layout{
		LabelWidth:   cfg.Board.LabelWidth,
		HeaderHeight: cfg.Board.HeaderHeight,
		LaneHeight:   cfg.Board.LaneHeight,
	}

	return &Model{
		repo:      repo,
		validator: validator,
		config:    cfg,
		styles:    NewStyles(),
		mode:      mode,
		anchor:    anchor,
		scale:     scale,
		layout:    layout,
		drag:      NewDragger(scale, layout, cfg.Board.SnapMinutes),
		sel:       NewSelection(),
		updating:  make(map[int64]bool),
		loading:   true,
		nowFunc:   time.Now,
		now:       time.Now(),
	}
}

// SetSelectionSink installs the collaborator notified whenever the
// selection changes.
func (m *Model) SetSelectionSink(sink SelectionSink) {
	m.sel.SetSink(sink)
}

// Init starts the initial load and the now-marker ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadBoard(m.repo, m.scale),
		commands.NowTick(m.mode),
	)
}

// setWindow recomputes the scale for a new mode or anchor and resets the
// interaction state that depended on the old mapping.
func (m *Model) setWindow(mode timescale.ViewMode, anchor time.Time) tea.Cmd {
	m.mode = mode
	m.anchor = anchor
	m.scale = timescale.Compute(mode, anchor, m.config.Views.PixelsPerHour(string(mode)))
	m.drag.SetScale(m.scale)
	m.scrollX = 0
	m.loading = true
	return commands.LoadBoard(m.repo, m.scale)
}

// slotAt returns the slot under a board-relative position, or nil.
func (m *Model) slotAt(boardX float64, boardY int) *schedule.Slot {
	lane := m.layout.LaneHit(boardY, len(m.machines))
	if lane < 0 {
		return nil
	}
	t := m.scale.XToTime(boardX)
	machineID := m.machines[lane].ID
	for _, s := range m.slots {
		if s.MachineID == machineID && !t.Before(s.Start) && t.Before(s.End) {
			return s
		}
	}
	return nil
}

// debounce returns the configured validation quiet period.
func (m *Model) debounce() time.Duration {
	return time.Duration(m.config.Board.DebounceMS) * time.Millisecond
}

// Run starts the board TUI.
func Run(repo schedule.Repository, validator validate.Service, cfg *config.Config, anchor time.Time) error {
	return RunWithDebug(repo, validator, cfg, anchor, false)
}

// RunWithDebug starts the board TUI with optional debug logging.
func RunWithDebug(repo schedule.Repository, validator validate.Service, cfg *config.Config, anchor time.Time, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, validator, cfg, anchor)
	model.SetSelectionSink(selectionLog{})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
