package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject_PublishOrder(t *testing.T) {
	s := NewSubject[int]("numbers")

	var got []string
	s.Subscribe(func(v int) { got = append(got, "a") })
	s.Subscribe(func(v int) { got = append(got, "b") })
	s.Subscribe(func(v int) { got = append(got, "c") })

	s.Publish(1)

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSubject_DisposeDuringPublish(t *testing.T) {
	s := NewSubject[int]("numbers")

	var calls []string
	var disposeB Disposer
	s.Subscribe(func(int) {
		calls = append(calls, "a")
		disposeB()
	})
	disposeB = s.Subscribe(func(int) { calls = append(calls, "b") })
	s.Subscribe(func(int) { calls = append(calls, "c") })

	s.Publish(1)
	s.Publish(2)

	assert.Equal(t, []string{"a", "c", "a", "c"}, calls)
	assert.Equal(t, 2, s.Subscribers())
}

func TestSubject_SubscribeDuringPublish(t *testing.T) {
	s := NewSubject[int]("numbers")

	var late []int
	subscribed := false
	s.Subscribe(func(v int) {
		if !subscribed {
			subscribed = true
			s.Subscribe(func(v int) { late = append(late, v) })
		}
	})

	s.Publish(1)
	assert.Empty(t, late, "new subscriber must not see the value in flight")

	s.Publish(2)
	assert.Equal(t, []int{2}, late)
}

func TestSubject_NestedPublishIsQueued(t *testing.T) {
	s := NewSubject[int]("numbers")

	var trace []int
	depth := 0
	s.Subscribe(func(v int) {
		depth++
		defer func() { depth-- }()
		require.Equal(t, 1, depth, "subscriber re-entered")

		trace = append(trace, v)
		if v < 3 {
			s.Publish(v + 1)
		}
		trace = append(trace, -v)
	})

	s.Publish(1)

	assert.Equal(t, []int{1, -1, 2, -2, 3, -3}, trace)
}

func TestSubject_Replay(t *testing.T) {
	t.Run("without replay", func(t *testing.T) {
		s := NewSubject[string]("area")
		s.Publish("rect")

		var got []string
		s.Subscribe(func(v string) { got = append(got, v) })
		assert.Empty(t, got)

		last, ok := s.Last()
		assert.True(t, ok)
		assert.Equal(t, "rect", last)
	})

	t.Run("with replay", func(t *testing.T) {
		s := NewSubject[string]("area", WithReplay())
		s.Publish("rect")

		var got []string
		s.Subscribe(func(v string) { got = append(got, v) })
		assert.Equal(t, []string{"rect"}, got)
	})
}

func TestSubject_DisposeTwice(t *testing.T) {
	s := NewSubject[int]("numbers")
	dispose := s.Subscribe(func(int) {})
	s.Subscribe(func(int) {})

	dispose()
	dispose()

	assert.Equal(t, 1, s.Subscribers())
}

func TestSubject_Close(t *testing.T) {
	s := NewSubject[int]("numbers")
	calls := 0
	s.Subscribe(func(int) { calls++ })

	s.Close()
	s.Publish(1)
	s.Subscribe(func(int) { calls++ })()

	assert.Zero(t, calls)
	assert.Zero(t, s.Subscribers())
}

func TestSubject_PanicResetsState(t *testing.T) {
	s := NewSubject[int]("numbers")
	var got []int
	s.Subscribe(func(v int) {
		if v == 1 {
			panic("boom")
		}
		got = append(got, v)
	})

	assert.Panics(t, func() { s.Publish(1) })

	s.Publish(2)
	assert.Equal(t, []int{2}, got)
}
