package sound

import (
	"bytes"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Cuer plays cues without blocking the caller.
type Cuer interface {
	Play(c Cue)
	Close() error
}

// Compile-time interface checks.
var (
	_ Cuer = (*Player)(nil)
	_ Cuer = (*NoOp)(nil)
)

// Player plays cues through the system audio device via oto. Cues are
// queued; when the queue is full new cues are dropped.
type Player struct {
	ctx  *oto.Context
	bank Bank
	log  *logger.Logger

	queue chan Cue
	done  chan struct{}

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
	closed bool
}

// NewPlayer initializes the audio context. Returns an error if the audio
// device is unavailable.
func NewPlayer(bank Bank, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	p := &Player{
		ctx:   ctx,
		bank:  bank,
		log:   log.Named("sound"),
		queue: make(chan Cue, 8),
		done:  make(chan struct{}),
	}
	go p.run()

	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return p, nil
}

// Play queues c.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- c:
	default:
		p.log.Debug("audio player: queue full, dropping %s", c)
	}
}

func (p *Player) run() {
	defer close(p.done)
	for c := range p.queue {
		pcm := p.bank[c]
		if len(pcm) == 0 {
			continue
		}
		if err := p.playPCM(pcm); err != nil {
			p.log.Warn("audio player: %s: %v", c, err)
		}
	}
}

// playPCM blocks until playback finishes or Stop is called.
func (p *Player) playPCM(pcm []byte) error {
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts the cue playing now, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}

// Close stops playback and waits for the queue to drain.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.Stop()
	<-p.done
	return nil
}

// NoOp is a cuer that does nothing. Used when sound is disabled or no audio
// device is available.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent cuer.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Play logs the cue it would have played.
func (n *NoOp) Play(c Cue) {
	n.log.Debug("sound no-op: would play %s", c)
}

// Close does nothing.
func (n *NoOp) Close() error { return nil }
