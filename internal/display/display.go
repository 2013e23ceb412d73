// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent kitchen view (status bar, grid and
// what every cook is holding) and an input prompt at the bottom of the
// terminal. All application output is printed above the rendered area via
// Program.Println / Printf, ensuring concurrent writes never garble the
// display.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	clockLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Good news: deliveries, sparkles.
	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Cooling down: extinguished, washed.
	calmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))

	fireCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true)
	warnCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb923c"))
	agentCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bae6fd")).Bold(true)
	cellStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa"))
)

// lowClock is when the round clock turns red.
const lowClock = 30 * time.Second

// Viewer gives read access to a session under its lock. *engine.Engine
// satisfies it.
type Viewer interface {
	View(ctx context.Context, sessionID string, fn func(*domain.Session)) error
}

// ViewerFunc adapts a function to Viewer.
type ViewerFunc func(ctx context.Context, sessionID string, fn func(*domain.Session)) error

// View calls f.
func (f ViewerFunc) View(ctx context.Context, sessionID string, fn func(*domain.Session)) error {
	return f(ctx, sessionID, fn)
}

// ── UI ───────────────────────────────────────────────────────────

var _ domain.Presenter = (*UI)(nil)

// UI manages the terminal through Bubble Tea. It is also a
// domain.Presenter: notable effects are printed into the scrollback.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], [UI.Show] and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	viewer  Viewer
	refresh time.Duration
	tile    float64
	done    atomic.Bool
	effects atomic.Uint64

	mu      sync.Mutex
	session string
}

// Option configures the UI.
type Option func(*UI)

// WithRefresh sets how often the kitchen view is redrawn. Default 200ms.
func WithRefresh(d time.Duration) Option {
	return func(u *UI) {
		if d > 0 {
			u.refresh = d
		}
	}
}

// WithTileSize lets effect lines name grid cells instead of world
// coordinates.
func WithTileSize(size float64) Option {
	return func(u *UI) { u.tile = size }
}

// NewUI creates the display. Call Run() to start.
func NewUI(viewer Viewer, opts ...Option) *UI {
	u := &UI{
		viewer:  viewer,
		refresh: 200 * time.Millisecond,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// SetSession selects the session the kitchen view follows.
func (u *UI) SetSession(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.session = id
}

func (u *UI) sessionID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.session
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintInfo prints a primary line.
func (u *UI) PrintInfo(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("kitchen") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// ── Presenter feed ───────────────────────────────────────────────

// Show prints a notable effect. Progress indicators are drawn by the grid
// and not printed.
func (u *UI) Show(e domain.Effect) domain.EffectID {
	id := domain.EffectID(u.effects.Add(1))
	if line, ok := u.effectLine(e); ok {
		u.Println(line)
	}
	return id
}

// Hide is a no-op; printed lines stay printed.
func (u *UI) Hide(domain.EffectID) {}

func (u *UI) effectLine(e domain.Effect) (string, bool) {
	style := primaryStyle
	switch e.Kind {
	case domain.EffectProgress:
		return "", false
	case domain.EffectIgnite, domain.EffectDanger:
		style = urgentOutputStyle
	case domain.EffectScore:
		style = goodStyle
		if strings.HasPrefix(e.Text, "-") {
			style = urgentOutputStyle
		}
	case domain.EffectExtinguish, domain.EffectClean:
		style = calmStyle
	case domain.EffectSparkle, domain.EffectTrash:
		style = secondaryStyle
	}

	msg := e.Kind.String()
	if e.Text != "" {
		msg += " " + e.Text
	}
	return style.Render("  "+msg) + secondaryStyle.Render(" @ "+u.where(e.At)), true
}

func (u *UI) where(p domain.Vec) string {
	if u.tile > 0 {
		return fmt.Sprintf("%d,%d", int(p.X/u.tile), int(p.Y/u.tile))
	}
	return fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y)
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop.  Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt: styled prompts add ANSI bytes that break the
	// textinput width math.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		input:    ti,
		inputCh:  u.inputCh,
		readyCh:  u.readyCh,
		interval: u.refresh,
		snap:     u.snapshot,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// snapshot reads the followed session. It runs outside the event loop: the
// session lock may be held by a tick that is printing through the program.
func (u *UI) snapshot() (Snapshot, bool) {
	id := u.sessionID()
	if id == "" || u.viewer == nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	err := u.viewer.View(context.Background(), id, func(s *domain.Session) {
		snap = Snap(s)
	})
	return snap, err == nil
}

// ── Bubble Tea model ─────────────────────────────────────────────

const promptText = "kitchen> "

type model struct {
	input    textinput.Model
	inputCh  chan<- string
	readyCh  chan struct{}
	echoFn   func(string) // prints user input into scrollback
	interval time.Duration
	snap     func() (Snapshot, bool)

	kitchen Snapshot
	live    bool
	width   int
}

// Messages.
type snapshotMsg struct {
	snap Snapshot
	ok   bool
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.refreshCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) refreshCmd() tea.Cmd {
	snap := m.snap
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		s, ok := snap()
		return snapshotMsg{snap: s, ok: ok}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo outside Update so it won't deadlock on msgs.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case snapshotMsg:
		m.kitchen, m.live = msg.snap, msg.ok
		title := "OttoKitchen"
		if m.live {
			title = titleStr(m.kitchen)
		}
		return m, tea.Batch(m.refreshCmd(), tea.SetWindowTitle(title))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func titleStr(s Snapshot) string {
	return fmt.Sprintf("OttoKitchen | %s | score %d | %s", s.Level, s.Score, fmtDuration(s.Remaining))
}

func (m model) View() string {
	var b strings.Builder

	if m.live {
		b.WriteString(renderBar(m.kitchen, m.width))
		b.WriteByte('\n')
		for _, row := range m.kitchen.Grid {
			b.WriteString("  ")
			b.WriteString(renderRow(row))
			b.WriteByte('\n')
		}
		for _, h := range m.kitchen.Hands {
			b.WriteString(secondaryStyle.Render("  " + h))
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func renderBar(s Snapshot, width int) string {
	clock := clockStyle
	if s.Remaining <= lowClock {
		clock = clockLowStyle
	}

	parts := []string{
		labelStyle.Render(s.Level),
		labelStyle.Render("score ") + clock.Render(fmt.Sprint(s.Score)),
		clock.Render(fmtDuration(s.Remaining)),
	}
	if s.Status == domain.SessionPaused {
		parts = append(parts, pausedStyle.Render("paused"))
	}
	for _, o := range s.Orders {
		style := clockStyle
		if o.Remaining <= 10*time.Second {
			style = clockLowStyle
		}
		parts = append(parts, labelStyle.Render(o.Name+": ")+style.Render(fmtDuration(o.Remaining)))
	}
	if s.Burning > 0 {
		parts = append(parts, urgentOutputStyle.Render(fmt.Sprintf("FIRE x%d", s.Burning)))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}

func renderRow(row string) string {
	var b strings.Builder
	for _, r := range row {
		c := string(r)
		switch {
		case r == CellFire:
			b.WriteString(fireCellStyle.Render(c))
		case r == CellDanger || r == CellDone:
			b.WriteString(warnCellStyle.Render(c))
		case r >= '1' && r <= '9':
			b.WriteString(agentCellStyle.Render(c))
		default:
			b.WriteString(cellStyle.Render(c))
		}
	}
	return b.String()
}

// ── Helpers ──────────────────────────────────────────────────────

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
