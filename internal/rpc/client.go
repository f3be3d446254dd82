package rpc

import (
	"context"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a thin typed wrapper over a connection to a Gallery server.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Create opens a session and returns its id.
func (c *Client) Create(ctx context.Context) (string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodCreate, &emptypb.Empty{}, out); err != nil {
		return "", err
	}
	return out.GetFields()["id"].GetStringValue(), nil
}

// Fire returns the projectile id and the balance after the stake was taken.
func (c *Client) Fire(ctx context.Context, sid string, x, y float64) (uint64, int64, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"sid": sid, "x": x, "y": y})
	if err != nil {
		return 0, 0, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodFire, in, out); err != nil {
		return 0, 0, err
	}
	f := out.GetFields()
	return uint64(f["id"].GetNumberValue()), int64(f["balance"].GetNumberValue()), nil
}

func (c *Client) ChangeBet(ctx context.Context, sid, dir string) (int64, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"sid": sid, "dir": dir})
	if err != nil {
		return 0, err
	}
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, methodChangeBet, in, out); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) Snapshot(ctx context.Context, sid string) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodSnapshot, wrapperspb.String(sid), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Status(ctx context.Context, sid string) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodStatus, wrapperspb.String(sid), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Stop(ctx context.Context, sid string) error {
	return c.cc.Invoke(ctx, methodStop, wrapperspb.String(sid), new(emptypb.Empty))
}

// TopUp returns the balance after the chip grant.
func (c *Client) TopUp(ctx context.Context, sid string) (int64, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, methodTopUp, wrapperspb.String(sid), out); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// Events calls fn for every event until the stream ends or fn returns false.
func (c *Client) Events(ctx context.Context, sid string, fn func(*structpb.Struct) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], methodEvents)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(wrapperspb.String(sid)); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		ev := new(structpb.Struct)
		if err := stream.RecvMsg(ev); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !fn(ev) {
			return nil
		}
	}
}
