package present

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	bar := r.Show(domain.Effect{Kind: domain.EffectProgress})
	r.Show(domain.Effect{Kind: domain.EffectScore, Text: "+100"})
	assert.NotEqual(t, domain.EffectID(0), bar)
	assert.Equal(t, 1, r.Active(domain.EffectProgress))

	r.Hide(bar)
	r.Hide(bar)
	assert.Zero(t, r.Active(domain.EffectProgress))
	assert.Equal(t, 1, r.Count(domain.EffectProgress))
	assert.Len(t, r.Shown(), 2)

	r.Reset()
	assert.Empty(t, r.Shown())
	assert.Zero(t, r.Active(domain.EffectScore))
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	b.Show(domain.Effect{Kind: domain.EffectScore})
	m := NewMulti(a, b)

	id := m.Show(domain.Effect{Kind: domain.EffectDanger})
	other := m.Show(domain.Effect{Kind: domain.EffectDanger})
	assert.Equal(t, 2, b.Count(domain.EffectDanger))

	m.Hide(id)
	assert.Equal(t, 1, a.Active(domain.EffectDanger))
	assert.Equal(t, 1, b.Active(domain.EffectDanger), "every presenter hides")
	assert.Equal(t, 1, b.Active(domain.EffectScore), "ids are mapped per presenter")

	m.Hide(other)
	m.Hide(other)
	assert.Zero(t, a.Active(domain.EffectDanger))
	assert.Zero(t, b.Active(domain.EffectDanger))

	assert.Equal(t, domain.EffectID(0), NewMulti().Show(domain.Effect{}))
}

func TestPrinter(t *testing.T) {
	var lines []string
	p := NewPrinter(logger.New(logger.LevelOff, nil), func(format string, a ...any) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})

	p.Show(domain.Effect{Kind: domain.EffectProgress, Text: "cut"})
	p.Show(domain.Effect{Kind: domain.EffectScore, Text: "+100", At: domain.Vec{X: 32, Y: 96}})
	p.Show(domain.Effect{Kind: domain.EffectScore, Text: "-60"})
	p.Show(domain.Effect{Kind: domain.EffectIgnite})

	if assert.Len(t, lines, 3, "progress is not printed") {
		assert.Contains(t, lines[0], "score +100 @ (32,96)")
		assert.True(t, strings.HasPrefix(lines[0], green))
		assert.True(t, strings.HasPrefix(lines[1], red))
		assert.True(t, strings.HasPrefix(lines[2], red))
	}
}
