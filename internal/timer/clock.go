package timer

import (
	"container/heap"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Clock     = (*SimClock)(nil)
	_ domain.Scheduler = (*SimClock)(nil)
)

// Epoch is where every SimClock starts unless told otherwise. A fixed start
// keeps journals and golden traces reproducible.
var Epoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// SimClock is simulated time for one kitchen. It only moves when Advance is
// called, and runs scheduled callbacks as it passes their due time.
// Not safe for concurrent use.
type SimClock struct {
	now   time.Time
	queue callQueue
	seq   uint64
}

// NewSimClock creates a clock reading start. A zero start means Epoch.
func NewSimClock(start time.Time) *SimClock {
	if start.IsZero() {
		start = Epoch
	}
	return &SimClock{now: start}
}

// Now returns the simulated time.
func (c *SimClock) Now() time.Time { return c.now }

// ScheduleAfter queues fn to run once d from now. Callbacks due at the same
// instant run in scheduling order.
func (c *SimClock) ScheduleAfter(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	c.seq++
	heap.Push(&c.queue, &call{due: c.now.Add(d), seq: c.seq, fn: fn})
}

// Advance moves time forward by delta and runs every callback due by then.
// The clock reads each callback's due time while it runs, and callbacks
// scheduled from inside a callback still run in this call if they fall due.
func (c *SimClock) Advance(delta time.Duration) {
	target := c.now.Add(max(delta, 0))
	for c.queue.Len() > 0 && !c.queue[0].due.After(target) {
		next := heap.Pop(&c.queue).(*call)
		c.now = next.due
		next.fn()
	}
	c.now = target
}

// Pending returns the number of callbacks not yet run.
func (c *SimClock) Pending() int { return c.queue.Len() }

type call struct {
	due time.Time
	seq uint64
	fn  func()
}

// callQueue is a min-heap on (due, seq).
type callQueue []*call

func (q callQueue) Len() int { return len(q) }

func (q callQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q callQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *callQueue) Push(x any) { *q = append(*q, x.(*call)) }

func (q *callQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
