package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service. Messages are protobuf
// well-known types, so no generated stubs are needed on either side.
const ServiceName = "gallery.v1.Gallery"

const (
	methodCreate    = "/" + ServiceName + "/Create"
	methodFire      = "/" + ServiceName + "/Fire"
	methodChangeBet = "/" + ServiceName + "/ChangeBet"
	methodSnapshot  = "/" + ServiceName + "/Snapshot"
	methodStatus    = "/" + ServiceName + "/Status"
	methodStop      = "/" + ServiceName + "/Stop"
	methodTopUp     = "/" + ServiceName + "/TopUp"
	methodEvents    = "/" + ServiceName + "/Events"
)

// GalleryServer is the service contract.
//
//	Create(Empty) -> Struct{status}
//	Fire(Struct{sid,x,y}) -> Struct{id,balance}
//	ChangeBet(Struct{sid,dir}) -> Int64Value{stake}
//	Snapshot(StringValue{sid}) -> Struct{snapshot}
//	Status(StringValue{sid}) -> Struct{status}
//	Stop(StringValue{sid}) -> Empty
//	TopUp(StringValue{sid}) -> Int64Value{balance}
//	Events(StringValue{sid}) -> stream Struct{event}
type GalleryServer interface {
	Create(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Fire(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangeBet(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	Snapshot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Status(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Stop(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	TopUp(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
	Events(*wrapperspb.StringValue, grpc.ServerStream) error
}

func RegisterGalleryServer(s grpc.ServiceRegistrar, srv GalleryServer) {
	s.RegisterService(&serviceDesc, srv)
}

func unary[In any, Out any](method string, newIn func() *In, call func(GalleryServer, context.Context, *In) (Out, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newIn()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GalleryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(GalleryServer), ctx, req.(*In))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GalleryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Create", func() *emptypb.Empty { return new(emptypb.Empty) }, GalleryServer.Create),
		unary("Fire", func() *structpb.Struct { return new(structpb.Struct) }, GalleryServer.Fire),
		unary("ChangeBet", func() *structpb.Struct { return new(structpb.Struct) }, GalleryServer.ChangeBet),
		unary("Snapshot", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }, GalleryServer.Snapshot),
		unary("Status", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }, GalleryServer.Status),
		unary("Stop", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }, GalleryServer.Stop),
		unary("TopUp", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }, GalleryServer.TopUp),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Events",
			ServerStreams: true,
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				in := new(wrapperspb.StringValue)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(GalleryServer).Events(in, stream)
			},
		},
	},
	Metadata: "gallery/v1/gallery.proto",
}
