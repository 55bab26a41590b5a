// The Bus design (subscriptions tracking an offset into a shared log that
// is periodically compacted) follows eventstream.go from vice,
// https://github.com/mmp/vice, Copyright (c) 2022 Matt Pharr,
// GPL-3.0-only.

package event

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"atc-grid/internal/logging"

	"github.com/labstack/gommon/log"
)

var (
	ErrNoSubscribers = errors.New("event bus has no subscribers")
	ErrClosed        = errors.New("event bus is closed")
)

// Bus is a fan-out event log. Producers post through a Sender without
// blocking; every Subscription sees every event posted after it subscribed,
// in posting order.
type Bus struct {
	mu            sync.Mutex
	events        []Event
	lastCompact   time.Time
	subscriptions map[*Subscription]struct{}
	closed        bool
	lg            *log.Logger
}

type Subscription struct {
	bus *Bus
	// offset into bus.events up to which this subscriber has consumed.
	offset int
	source string
}

func (s *Subscription) String() string {
	return fmt.Sprintf("subscription(offset=%d, source=%s)", s.offset, s.source)
}

var (
	defaultBus  *Bus
	defaultOnce sync.Once
)

// Default returns the process-wide bus, creating it on first use.
func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = NewBus(nil)
	})
	return defaultBus
}

func NewBus(lg *log.Logger) *Bus {
	if lg == nil {
		lg = logging.Discard("event")
	}
	return &Bus{
		subscriptions: make(map[*Subscription]struct{}),
		lastCompact:   time.Now(),
		lg:            lg,
	}
}

// Subscribe registers a new consumer. Events posted before the call are
// never reported to it.
func (b *Bus) Subscribe() *Subscription {
	// Remember who subscribed so stuck consumers are easy to find.
	_, fn, line, _ := runtime.Caller(1)

	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		bus:    b,
		offset: len(b.events),
		source: fmt.Sprintf("%s:%d", fn, line),
	}
	b.subscriptions[sub] = struct{}{}
	return sub
}

func (s *Subscription) Unsubscribe() {
	b := s.bus
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscriptions[s]; !ok {
		b.lg.Errorf("unsubscribing unknown %s", s)
	}
	delete(b.subscriptions, s)
	s.bus = nil
}

// Get returns the events posted since the previous call. Events already in
// the bus can still be drained after it is closed.
func (s *Subscription) Get() []Event {
	b := s.bus
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscriptions[s]; !ok {
		b.lg.Errorf("get on unregistered %s", s)
		return nil
	}

	events := make([]Event, len(b.events)-s.offset)
	copy(events, b.events[s.offset:])
	s.offset = len(b.events)

	if time.Since(b.lastCompact) > time.Second {
		b.compact()
		b.lastCompact = time.Now()
	}
	return events
}

func (b *Bus) post(e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if len(b.subscriptions) == 0 {
		return ErrNoSubscribers
	}

	b.lg.Debugf("posted %v", e)
	b.events = append(b.events, e)
	return nil
}

// Sender returns a handle producers publish through.
func (b *Bus) Sender() Sender {
	return Sender{bus: b}
}

// Close stops the bus from accepting events. Existing subscribers keep
// whatever they have not consumed yet.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscriptions)
}

// compact drops events every subscriber has seen. Caller holds b.mu.
func (b *Bus) compact() {
	minOffset := len(b.events)
	for sub := range b.subscriptions {
		minOffset = min(minOffset, sub.offset)
	}

	if len(b.events) > 1000 {
		b.lg.Warnf("event bus backlog %d", len(b.events))
	}

	if minOffset > cap(b.events)/2 {
		n := len(b.events) - minOffset
		copy(b.events, b.events[minOffset:])
		clear(b.events[n:])
		b.events = b.events[:n]

		for sub := range b.subscriptions {
			sub.offset -= minOffset
		}
	}
}

// Sender publishes events on a Bus. The zero Sender has no bus and reports
// ErrClosed.
type Sender struct {
	bus *Bus
}

// Send appends e to the bus. It never blocks on consumers; it fails with
// ErrNoSubscribers if nobody listens and ErrClosed once the bus is closed.
func (s Sender) Send(e Event) error {
	if s.bus == nil {
		return ErrClosed
	}
	return s.bus.post(e)
}
