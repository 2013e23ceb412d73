package sound

import (
	"strings"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
)

var _ domain.Presenter = (*Presenter)(nil)

// Presenter wraps another presenter and plays a cue for every effect that
// has one.
type Presenter struct {
	inner domain.Presenter
	cuer  Cuer
}

// NewPresenter decorates inner with sound.
func NewPresenter(inner domain.Presenter, cuer Cuer) *Presenter {
	return &Presenter{inner: inner, cuer: cuer}
}

// Show forwards e and plays its cue.
func (p *Presenter) Show(e domain.Effect) domain.EffectID {
	id := p.inner.Show(e)
	if c := CueFor(e); c != CueNone {
		p.cuer.Play(c)
	}
	return id
}

// Hide forwards to the wrapped presenter.
func (p *Presenter) Hide(id domain.EffectID) { p.inner.Hide(id) }

// CueFor maps an effect to its cue.
func CueFor(e domain.Effect) Cue {
	switch e.Kind {
	case domain.EffectIgnite:
		return CueIgnite
	case domain.EffectExtinguish:
		return CueExtinguish
	case domain.EffectDanger:
		return CueDanger
	case domain.EffectSparkle:
		return CueChop
	case domain.EffectTrash:
		return CueTrash
	case domain.EffectScore:
		if strings.HasPrefix(e.Text, "-") {
			return CueWrongDish
		}
		return CueDelivered
	default:
		return CueNone
	}
}
