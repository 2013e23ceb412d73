package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

func TestBusOrder(t *testing.T) {
	b := NewBus(logger.New(logger.LevelOff, nil))
	var got []string

	b.Subscribe(AddDirtyPlate, func(any) { got = append(got, "first") })
	b.Subscribe(AddDirtyPlate, func(p any) { got = append(got, p.(string)) })
	b.Subscribe("other", func(any) { got = append(got, "other") })

	n := b.Emit(AddDirtyPlate, "second")
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus(logger.New(logger.LevelOff, nil))
	calls := 0
	stopA := b.Subscribe("e", func(any) { calls++ })
	b.Subscribe("e", func(any) { calls += 10 })

	stopA()
	stopA()
	b.Emit("e", nil)
	assert.Equal(t, 10, calls)
}

func TestBusSubscribeDuringEmit(t *testing.T) {
	b := NewBus(logger.New(logger.LevelOff, nil))
	late := 0
	b.Subscribe("e", func(any) {
		b.Subscribe("e", func(any) { late++ })
	})

	b.Emit("e", nil)
	assert.Zero(t, late)
	b.Emit("e", nil)
	assert.Equal(t, 1, late)
}

func TestBusNoSubscribers(t *testing.T) {
	b := NewBus(logger.New(logger.LevelOff, nil))
	assert.Zero(t, b.Emit("nobody", nil))
}
