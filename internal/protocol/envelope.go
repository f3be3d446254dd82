package protocol

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/session"
)

type Kind string

const (
	KindFrame  Kind = "frame"
	KindEvent  Kind = "event"
	KindStatus Kind = "status"
	KindError  Kind = "error"
)

// Envelope is one binary message sent to a renderer. Exactly one payload is set.
type Envelope struct {
	Kind   Kind              `msgpack:"k"`
	Seq    uint64            `msgpack:"seq"`
	Frame  *gallery.Snapshot `msgpack:"f,omitempty"`
	Event  *gallery.Event    `msgpack:"e,omitempty"`
	Status *session.Status   `msgpack:"s,omitempty"`
	Error  string            `msgpack:"err,omitempty"`
}

var ErrBadEnvelope = errors.New("malformed envelope")

func Encode(env Envelope) ([]byte, error) {
	b, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", env.Kind)
	}
	return b, nil
}

func Decode(b []byte) (Envelope, error) {
	var env Envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return Envelope{}, errors.Wrap(ErrBadEnvelope, err.Error())
	}
	ok := false
	switch env.Kind {
	case KindFrame:
		ok = env.Frame != nil
	case KindEvent:
		ok = env.Event != nil
	case KindStatus:
		ok = env.Status != nil
	case KindError:
		ok = env.Error != ""
	}
	if !ok {
		return Envelope{}, errors.Wrapf(ErrBadEnvelope, "kind %q", env.Kind)
	}
	return env, nil
}

// Sequencer stamps outgoing envelopes with a per-stream sequence number so
// a renderer can spot frames dropped by a slow link.
type Sequencer struct {
	seq atomic.Uint64
}

func (s *Sequencer) Frame(snap gallery.Snapshot) Envelope {
	return Envelope{Kind: KindFrame, Seq: s.seq.Add(1), Frame: &snap}
}

func (s *Sequencer) Event(ev gallery.Event) Envelope {
	return Envelope{Kind: KindEvent, Seq: s.seq.Add(1), Event: &ev}
}

func (s *Sequencer) Status(st session.Status) Envelope {
	return Envelope{Kind: KindStatus, Seq: s.seq.Add(1), Status: &st}
}

func (s *Sequencer) Error(err error) Envelope {
	return Envelope{Kind: KindError, Seq: s.seq.Add(1), Error: err.Error()}
}
