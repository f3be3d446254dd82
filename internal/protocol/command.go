package protocol

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

type Op string

const (
	OpFire  Op = "fire"
	OpBet   Op = "bet"
	OpStop  Op = "stop"
	OpTopUp Op = "top_up"
)

// Command is an inbound player action on the live stream.
type Command struct {
	Op  Op      `msgpack:"op"`
	X   float64 `msgpack:"x,omitempty"`
	Y   float64 `msgpack:"y,omitempty"`
	Dir string  `msgpack:"dir,omitempty"` // "up" or "down" for OpBet
}

var ErrBadCommand = errors.New("malformed command")

func EncodeCommand(c Command) ([]byte, error) {
	return msgpack.Marshal(&c)
}

func DecodeCommand(b []byte) (Command, error) {
	var c Command
	if err := msgpack.Unmarshal(b, &c); err != nil {
		return Command{}, errors.Wrap(ErrBadCommand, err.Error())
	}
	switch c.Op {
	case OpFire, OpStop, OpTopUp:
	case OpBet:
		if c.Dir != "up" && c.Dir != "down" {
			return Command{}, errors.Wrapf(ErrBadCommand, "bet dir %q", c.Dir)
		}
	default:
		return Command{}, errors.Wrapf(ErrBadCommand, "op %q", c.Op)
	}
	return c, nil
}
