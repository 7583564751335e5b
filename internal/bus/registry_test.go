package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Open(t *testing.T) {
	r := NewRegistry()

	a := Open[int](r, "numbers")
	b := Open[int](r, "numbers")
	require.Same(t, a, b)

	assert.Panics(t, func() { Open[string](r, "numbers") })
	assert.Equal(t, []string{"numbers"}, r.Keys())
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	Open[int](r, "numbers")

	assert.NotNil(t, Lookup[int](r, "numbers"))
	assert.Nil(t, Lookup[string](r, "numbers"))
	assert.Nil(t, Lookup[int](r, "missing"))
}

func TestRegistry_Observe(t *testing.T) {
	r := NewRegistry()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r.SetClock(func() time.Time { return at })

	numbers := Open[int](r, "numbers")
	words := Open[string](r, "words")

	var order []string
	numbers.Subscribe(func(int) { order = append(order, "subscriber") })

	var events []Event
	dispose := r.Observe(func(ev Event) {
		order = append(order, "observer")
		events = append(events, ev)
	})

	numbers.Publish(7)
	words.Publish("hi")

	assert.Equal(t, []string{"subscriber", "observer", "observer"}, order)
	assert.Equal(t, []Event{
		{Subject: "numbers", Payload: 7, At: at},
		{Subject: "words", Payload: "hi", At: at},
	}, events)

	dispose()
	numbers.Publish(8)
	assert.Len(t, events, 2)
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	s := Open[int](r, "numbers")
	calls := 0
	s.Subscribe(func(int) { calls++ })
	r.Observe(func(Event) { calls++ })

	r.Close()
	s.Publish(1)

	assert.Zero(t, calls)
}
