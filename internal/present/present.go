// Package present provides domain.Presenter implementations that do not
// need a terminal UI: a no-op, a recorder for tests and scripts, a fan-out,
// and an ANSI line printer.
package present

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Presenter = Nop{}
	_ domain.Presenter = (*Recorder)(nil)
	_ domain.Presenter = (*Multi)(nil)
	_ domain.Presenter = (*Printer)(nil)
)

// Nop discards every effect.
type Nop struct{}

func (Nop) Show(domain.Effect) domain.EffectID { return 0 }
func (Nop) Hide(domain.EffectID)               {}

// Recorder keeps every effect it is shown. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	next   domain.EffectID
	shown  []domain.Effect
	active map[domain.EffectID]domain.Effect
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{active: make(map[domain.EffectID]domain.Effect)}
}

// Show records e and returns a fresh id.
func (r *Recorder) Show(e domain.Effect) domain.EffectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.shown = append(r.shown, e)
	r.active[r.next] = e
	return r.next
}

// Hide forgets the effect with id.
func (r *Recorder) Hide(id domain.EffectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}

// Shown returns every effect shown so far, in order.
func (r *Recorder) Shown() []domain.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Effect(nil), r.shown...)
}

// Count returns how many effects of kind were shown.
func (r *Recorder) Count(kind domain.EffectKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.shown {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Active returns how many shown effects of kind have not been hidden.
func (r *Recorder) Active(kind domain.EffectKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.active {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = nil
	clear(r.active)
}

// Multi shows every effect on each presenter and hides it on each again.
// Safe for concurrent use.
type Multi struct {
	mu   sync.Mutex
	ps   []domain.Presenter
	next domain.EffectID
	ids  map[domain.EffectID][]domain.EffectID
}

// NewMulti fans effects out to ps, in order.
func NewMulti(ps ...domain.Presenter) *Multi {
	return &Multi{ps: ps, ids: make(map[domain.EffectID][]domain.EffectID)}
}

// Show fans e out and returns an id of its own.
func (m *Multi) Show(e domain.Effect) domain.EffectID {
	if len(m.ps) == 0 {
		return 0
	}
	ids := make([]domain.EffectID, len(m.ps))
	for i, p := range m.ps {
		ids[i] = p.Show(e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.ids[m.next] = ids
	return m.next
}

// Hide hides id on every presenter that showed it.
func (m *Multi) Hide(id domain.EffectID) {
	m.mu.Lock()
	ids, ok := m.ids[id]
	delete(m.ids, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	for i, p := range m.ps {
		p.Hide(ids[i])
	}
}

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of fmt.Printf.
type PrintFunc func(format string, a ...any)

// Printer writes notable effects as coloured lines. Progress indicators are
// not printed.
type Printer struct {
	mu      sync.Mutex
	log     *logger.Logger
	printFn PrintFunc
	next    domain.EffectID
}

// NewPrinter creates a line printer. If printFn is nil, fmt.Printf is used.
func NewPrinter(log *logger.Logger, printFn PrintFunc) *Printer {
	if printFn == nil {
		printFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &Printer{log: log, printFn: printFn}
}

// Show prints e.
func (p *Printer) Show(e domain.Effect) domain.EffectID {
	p.mu.Lock()
	p.next++
	id := p.next
	p.mu.Unlock()

	p.log.Debug("effect %s at (%.0f,%.0f) %q", e.Kind, e.At.X, e.At.Y, e.Text)

	color := cyan
	switch e.Kind {
	case domain.EffectProgress:
		return id
	case domain.EffectIgnite, domain.EffectDanger:
		color = red
	case domain.EffectScore:
		color = green
		if len(e.Text) > 0 && e.Text[0] == '-' {
			color = red
		}
	case domain.EffectExtinguish, domain.EffectClean:
		color = yellow
	}

	msg := e.Kind.String()
	if e.Text != "" {
		msg += " " + e.Text
	}
	p.printFn("%s%s%s @ (%.0f,%.0f)%s", color, bold, msg, e.At.X, e.At.Y, reset)
	return id
}

// Hide is a no-op; printed lines stay printed.
func (p *Printer) Hide(domain.EffectID) {}
