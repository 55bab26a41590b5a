package event

import (
	"fmt"
	"strings"

	"atc-grid/internal/logging"

	"github.com/labstack/gommon/log"
)

// Policy decides what to do with an event the bus refused. It returns nil
// when the failure is dealt with, otherwise the error to hand back to the
// producer.
type Policy func(s Sender, e Event, err error) error

// Strict hands every delivery failure back to the producer.
func Strict(_ Sender, _ Event, err error) error {
	return err
}

// Drop logs the failure and discards the event.
func Drop(lg *log.Logger) Policy {
	if lg == nil {
		lg = logging.Discard("event")
	}
	return func(_ Sender, e Event, err error) error {
		lg.Warnf("dropped %v: %v", e, err)
		return nil
	}
}

// Retry sends the event up to attempts more times, then defers to then.
// A closed bus is not retried.
func Retry(attempts int, then Policy) Policy {
	return func(s Sender, e Event, err error) error {
		for i := 0; i < attempts && err != ErrClosed; i++ {
			if err = s.Send(e); err == nil {
				return nil
			}
		}
		return then(s, e, err)
	}
}

// ParsePolicy maps a policy name (drop, strict, retry) to a Policy. retry
// makes three extra attempts and then drops.
func ParsePolicy(name string, lg *log.Logger) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "drop":
		return Drop(lg), nil
	case "strict":
		return Strict, nil
	case "retry":
		return Retry(3, Drop(lg)), nil
	default:
		return nil, fmt.Errorf("%s: unknown delivery policy", name)
	}
}

// Publisher sends events and routes failures through its Policy. A nil
// Policy behaves like Strict.
type Publisher struct {
	Sender Sender
	Policy Policy
}

func NewPublisher(s Sender, p Policy) Publisher {
	return Publisher{Sender: s, Policy: p}
}

func (p Publisher) Publish(e Event) error {
	err := p.Sender.Send(e)
	if err == nil {
		return nil
	}
	if p.Policy == nil {
		return err
	}
	return p.Policy(p.Sender, e, err)
}
