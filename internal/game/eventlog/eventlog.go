// Package eventlog writes simulation events to a stream of msgpack records
// so other tools can replay or inspect a session.
package eventlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"atc-grid/internal/game/event"
	"atc-grid/internal/logging"
	"atc-grid/pkg/types"

	"github.com/labstack/gommon/log"
	"github.com/vmihailenco/msgpack/v5"
)

type Record struct {
	Seq        uint64           `msgpack:"seq"`
	Kind       string           `msgpack:"kind"`
	ID         uint64           `msgpack:"id,omitempty"`
	Location   *types.Location  `msgpack:"loc,omitempty"`
	FlightPlan []types.Location `msgpack:"plan,omitempty"`
}

// RecordOf flattens e into a Record; Seq is left to the caller.
func RecordOf(e event.Event) Record {
	r := Record{Kind: e.Kind().String()}

	switch e := e.(type) {
	case event.AirplaneDetected:
		r.ID = uint64(e.ID)
		r.Location = &e.Location
		for _, t := range e.FlightPlan.Waypoints() {
			r.FlightPlan = append(r.FlightPlan, types.LocationOf(t))
		}
	case event.AirplaneLanded:
		r.ID = uint64(e.ID)
		r.Location = &e.Location
	case event.AirplaneLost:
		r.ID = uint64(e.ID)
		r.Location = &e.Location
	}
	return r
}

// Recorder drains its own bus subscription into w. Each record reaches w
// in a single Write, so size-rotating writers never split one.
type Recorder struct {
	sub *event.Subscription
	w   io.Writer
	buf bytes.Buffer
	enc *msgpack.Encoder
	seq uint64
	lg  *log.Logger
}

func NewRecorder(bus *event.Bus, w io.Writer, lg *log.Logger) *Recorder {
	if lg == nil {
		lg = logging.Discard("eventlog")
	}
	r := &Recorder{
		sub: bus.Subscribe(),
		w:   w,
		lg:  lg,
	}
	r.enc = msgpack.NewEncoder(&r.buf)
	return r
}

// Flush writes every event received since the last call and returns how
// many were written.
func (r *Recorder) Flush() (int, error) {
	if r.sub == nil {
		return 0, nil
	}

	events := r.sub.Get()
	for i, e := range events {
		r.seq++
		rec := RecordOf(e)
		rec.Seq = r.seq
		r.buf.Reset()
		if err := r.enc.Encode(&rec); err != nil {
			return i, fmt.Errorf("record %d (%s): %w", rec.Seq, rec.Kind, err)
		}
		if _, err := r.w.Write(r.buf.Bytes()); err != nil {
			return i, fmt.Errorf("record %d (%s): %w", rec.Seq, rec.Kind, err)
		}
	}
	if len(events) > 0 {
		r.lg.Debugf("recorded %d events, seq %d", len(events), r.seq)
	}
	return len(events), nil
}

// Close flushes what is left and drops the subscription.
func (r *Recorder) Close() error {
	if r.sub == nil {
		return nil
	}
	_, err := r.Flush()
	r.sub.Unsubscribe()
	r.sub = nil
	return err
}

// Read decodes all records from rd.
func Read(rd io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(rd)

	var recs []Record
	for {
		if _, err := dec.PeekCode(); errors.Is(err, io.EOF) {
			return recs, nil
		}

		var rec Record
		if err := dec.Decode(&rec); err != nil {
			// The stream ended inside a record.
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return recs, fmt.Errorf("record %d: %w", len(recs)+1, err)
		}
		recs = append(recs, rec)
	}
}
