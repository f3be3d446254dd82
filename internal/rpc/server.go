package rpc

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/session"
)

// Server exposes a session.Manager over gRPC. Sessions it creates live until
// stopped or until base is cancelled.
type Server struct {
	base context.Context
	mgr  *session.Manager
}

func NewServer(base context.Context, mgr *session.Manager) *Server {
	return &Server{base: base, mgr: mgr}
}

// toStatus maps core and session errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, session.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, session.ErrTopUpDisabled):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, gallery.ErrInsufficientFunds), errors.Is(err, gallery.ErrStopped):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, gallery.ErrInvalidAim), errors.Is(err, gallery.ErrInvalidBet):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct converts any JSON-tagged value into a Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func (s *Server) lookup(sid string) (*session.Session, error) {
	sess, err := s.mgr.Get(sid)
	if err != nil {
		return nil, toStatus(err)
	}
	return sess, nil
}

func (s *Server) Create(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sess, err := s.mgr.Create(s.base)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(sess.Status())
}

func (s *Server) Fire(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	sess, err := s.lookup(f["sid"].GetStringValue())
	if err != nil {
		return nil, err
	}
	x, xok := f["x"].GetKind().(*structpb.Value_NumberValue)
	y, yok := f["y"].GetKind().(*structpb.Value_NumberValue)
	if !xok || !yok {
		return nil, status.Error(codes.InvalidArgument, "x and y are required numbers")
	}
	id, err := sess.Fire(x.NumberValue, y.NumberValue)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"id":      float64(id),
		"balance": float64(sess.Purse().Balance()),
	})
}

func (s *Server) ChangeBet(ctx context.Context, in *structpb.Struct) (*wrapperspb.Int64Value, error) {
	f := in.GetFields()
	sess, err := s.lookup(f["sid"].GetStringValue())
	if err != nil {
		return nil, err
	}
	switch f["dir"].GetStringValue() {
	case "up":
		return wrapperspb.Int64(sess.BetUp()), nil
	case "down":
		return wrapperspb.Int64(sess.BetDown()), nil
	default:
		return nil, status.Error(codes.InvalidArgument, "dir must be up or down")
	}
}

func (s *Server) Snapshot(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	sess, err := s.lookup(in.GetValue())
	if err != nil {
		return nil, err
	}
	return toStruct(sess.Snapshot())
}

func (s *Server) Status(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	sess, err := s.lookup(in.GetValue())
	if err != nil {
		return nil, err
	}
	return toStruct(sess.Status())
}

func (s *Server) Stop(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.mgr.Close(in.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) TopUp(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	sess, err := s.lookup(in.GetValue())
	if err != nil {
		return nil, err
	}
	bal, err := sess.TopUp()
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Int64(bal), nil
}

// Events streams the session's game events until the client goes away or the session closes.
func (s *Server) Events(in *wrapperspb.StringValue, stream grpc.ServerStream) error {
	sess, err := s.lookup(in.GetValue())
	if err != nil {
		return err
	}
	events, cancel := sess.Subscribe()
	defer cancel()
	for {
		select {
		case <-stream.Context().Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			msg, err := toStruct(ev)
			if err != nil {
				return status.Error(codes.Internal, err.Error())
			}
			if err := stream.SendMsg(msg); err != nil {
				log.Printf("[rpc] events %s: %v", sess.ID, err)
				return err
			}
		}
	}
}
