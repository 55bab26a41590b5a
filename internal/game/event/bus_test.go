package event

import (
	"sync"
	"testing"

	"atc-grid/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func landed(id int) Event {
	return AirplaneLanded{ID: types.AirplaneID(id)}
}

func TestBus(t *testing.T) {
	b := NewBus(nil)
	s := b.Sender()

	assert.ErrorIs(t, s.Send(PhaseStarted{}), ErrNoSubscribers)

	sub := b.Subscribe()
	assert.Empty(t, sub.Get())

	require.NoError(t, s.Send(landed(1)))
	require.NoError(t, s.Send(landed(2)))

	got := sub.Get()
	require.Len(t, got, 2)
	assert.Equal(t, landed(1), got[0])
	assert.Equal(t, landed(2), got[1])
	assert.Empty(t, sub.Get())
}

func TestBusFanOut(t *testing.T) {
	b := NewBus(nil)
	a, c := b.Subscribe(), b.Subscribe()
	assert.Equal(t, 2, b.Subscribers())

	require.NoError(t, b.Sender().Send(PhaseStarted{}))
	require.NoError(t, b.Sender().Send(landed(7)))

	want := []Event{PhaseStarted{}, landed(7)}
	assert.Equal(t, want, a.Get())
	assert.Equal(t, want, c.Get())
}

func TestBusLateSubscriberMissesOldEvents(t *testing.T) {
	b := NewBus(nil)
	early := b.Subscribe()
	require.NoError(t, b.Sender().Send(landed(1)))

	late := b.Subscribe()
	require.NoError(t, b.Sender().Send(landed(2)))

	assert.Equal(t, []Event{landed(1), landed(2)}, early.Get())
	assert.Equal(t, []Event{landed(2)}, late.Get())
}

func TestBusClose(t *testing.T) {
	b := NewBus(nil)
	sub := b.Subscribe()
	require.NoError(t, b.Sender().Send(landed(1)))

	b.Close()
	assert.True(t, b.Closed())
	assert.ErrorIs(t, b.Sender().Send(landed(2)), ErrClosed)

	assert.Equal(t, []Event{landed(1)}, sub.Get())
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus(nil)
	sub := b.Subscribe()
	sub.Unsubscribe()
	sub.Unsubscribe()

	assert.Equal(t, 0, b.Subscribers())
	assert.Nil(t, sub.Get())
	assert.ErrorIs(t, b.Sender().Send(landed(1)), ErrNoSubscribers)
}

func TestZeroSender(t *testing.T) {
	var s Sender
	assert.ErrorIs(t, s.Send(PhaseStarted{}), ErrClosed)
}

func TestDefaultBusIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

// Subscribers drain at different cadences while the log is compacted every
// round; each must still see every event exactly once and in order, and
// compaction must keep the log well below the number of events posted.
func TestBusCompactKeepsEachSubscriberInOrder(t *testing.T) {
	b := NewBus(nil)

	drainEvery := []int{1, 7, 50}
	subs := make([]*Subscription, len(drainEvery))
	for i := range subs {
		subs[i] = b.Subscribe()
	}
	next := make([]int, len(subs))

	const rounds, perRound = 100, 10
	for round := 1; round <= rounds; round++ {
		for j := 0; j < perRound; j++ {
			require.NoError(t, b.Sender().Send(landed((round-1)*perRound+j)))
		}

		for i, sub := range subs {
			if round%drainEvery[i] != 0 {
				continue
			}
			for _, e := range sub.Get() {
				require.Equal(t, landed(next[i]), e, "subscriber %d round %d", i, round)
				next[i]++
			}
		}

		b.mu.Lock()
		b.compact()
		b.mu.Unlock()
	}

	for i, sub := range subs {
		for _, e := range sub.Get() {
			require.Equal(t, landed(next[i]), e, "subscriber %d", i)
			next[i]++
		}
		assert.Equal(t, rounds*perRound, next[i], "subscriber %d", i)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Less(t, len(b.events), rounds*perRound)
}

func TestBusConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	b := NewBus(nil)
	sub := b.Subscribe()

	const producers, perProducer = 4, 500
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := b.Sender()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, s.Send(landed(p*perProducer+i)))
			}
		}()
	}
	wg.Wait()

	last := map[int]int{}
	events := sub.Get()
	require.Len(t, events, producers*perProducer)
	for _, e := range events {
		id := int(e.(AirplaneLanded).ID)
		p := id / perProducer
		if prev, ok := last[p]; ok {
			assert.Greater(t, id, prev)
		}
		last[p] = id
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "PhaseStarted", PhaseStarted{}.Kind().String())
	assert.Equal(t, "AirplaneDetected", AirplaneDetected{}.Kind().String())
	assert.Equal(t, "AirplaneLanded", landed(1).Kind().String())
	assert.Equal(t, "AirplaneLost", AirplaneLost{}.Kind().String())
}
