package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/undeconstructed/pictogo/canvas"
	"github.com/undeconstructed/pictogo/game"
)

// The session service only uses well known message types, so it is declared
// here rather than generated.
//
//	service Session {
//	  rpc Apply(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	  rpc State(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Canvas(google.protobuf.Empty) returns (google.protobuf.BytesValue);
//	}
const sessionServiceName = "pictogo.Session"

// SessionServer is the gRPC face of a Server.
type SessionServer interface {
	Apply(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	State(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Canvas(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: sessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Apply",
			Handler: unaryHandler("Apply", func() interface{} { return new(wrapperspb.StringValue) }, func(srv SessionServer, ctx context.Context, in interface{}) (interface{}, error) {
				return srv.Apply(ctx, in.(*wrapperspb.StringValue))
			}),
		},
		{
			MethodName: "State",
			Handler: unaryHandler("State", func() interface{} { return new(emptypb.Empty) }, func(srv SessionServer, ctx context.Context, in interface{}) (interface{}, error) {
				return srv.State(ctx, in.(*emptypb.Empty))
			}),
		},
		{
			MethodName: "Canvas",
			Handler: unaryHandler("Canvas", func() interface{} { return new(emptypb.Empty) }, func(srv SessionServer, ctx context.Context, in interface{}) (interface{}, error) {
				return srv.Canvas(ctx, in.(*emptypb.Empty))
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pictogo/session.proto",
}

type callFunc func(srv SessionServer, ctx context.Context, in interface{}) (interface{}, error)

// unaryHandler builds what protoc would generate for one method. newIn
// makes the request message to decode into.
func unaryHandler(method string, newIn func() interface{}, call callFunc) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + sessionServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SessionServer), ctx, req)
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterSession adds the session service for s to a gRPC server.
func RegisterSession(gs *grpc.Server, s *Server) {
	gs.RegisterService(&sessionServiceDesc, &grpcGateway{server: s})
}

func runGrpcGateway(ctx context.Context, server *Server, addr string) error {
	log := log.With().Str("gw", "grpc").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("grpc listening on %v", ln.Addr())

	gs := grpc.NewServer()
	RegisterSession(gs, server)

	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()

	return gs.Serve(ln)
}

type grpcGateway struct {
	server *Server
}

func (g *grpcGateway) Apply(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	cmd, err := game.ParseCommand(game.CommandString(in.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	view, err := g.server.ApplyRemote(ctx, cmd)
	if err != nil {
		return nil, toStatus(err)
	}
	return viewToStruct(view)
}

func (g *grpcGateway) State(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	view, err := g.server.View(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return viewToStruct(view)
}

func (g *grpcGateway) Canvas(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	data, err := g.server.CanvasPNG(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(data), nil
}

func toStatus(err error) error {
	code := codes.Unknown

	var ge *game.GameError
	switch {
	case errors.As(err, &ge):
		switch ge.Code {
		case game.ErrBadRequest.Code, game.ErrUnknownCommand.Code:
			code = codes.InvalidArgument
		case game.ErrNotNow.Code:
			code = codes.FailedPrecondition
		case errNotRemote.Code:
			code = codes.PermissionDenied
		case ErrStopped.Code:
			code = codes.Unavailable
		}
	case errors.Is(err, canvas.ErrUnsupportedFormat):
		code = codes.InvalidArgument
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		var ioe *canvas.IOError
		if errors.As(err, &ioe) {
			code = codes.Internal
		}
	}

	return status.Error(code, err.Error())
}

// viewToStruct goes through JSON so the struct has the same field names as
// the REST API.
func viewToStruct(v game.View) (*structpb.Struct, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(bs, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return structpb.NewStruct(m)
}

func viewFromStruct(s *structpb.Struct) (game.View, error) {
	v := game.View{}
	bs, err := json.Marshal(s.AsMap())
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(bs, &v)
	return v, err
}

// SessionClient calls a session service.
type SessionClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionClient(cc grpc.ClientConnInterface) *SessionClient {
	return &SessionClient{cc: cc}
}

// Apply sends one command in the text protocol, e.g. "guess:cat".
func (c *SessionClient) Apply(ctx context.Context, command string) (game.View, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+sessionServiceName+"/Apply", wrapperspb.String(command), out)
	if err != nil {
		return game.View{}, fromStatus(err)
	}
	return viewFromStruct(out)
}

func (c *SessionClient) State(ctx context.Context) (game.View, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+sessionServiceName+"/State", &emptypb.Empty{}, out)
	if err != nil {
		return game.View{}, fromStatus(err)
	}
	return viewFromStruct(out)
}

// Canvas gets the picture as PNG.
func (c *SessionClient) Canvas(ctx context.Context) ([]byte, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/"+sessionServiceName+"/Canvas", &emptypb.Empty{}, out)
	if err != nil {
		return nil, fromStatus(err)
	}
	return out.GetValue(), nil
}

func fromStatus(err error) error {
	se, _ := status.FromError(err)
	switch se.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", game.ErrBadRequest, se.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", game.ErrNotNow, se.Message())
	case codes.PermissionDenied:
		return errors.New(se.Message())
	case codes.Unavailable:
		log.Warn().Err(err).Msg("rpc unavailable")
	}
	return err
}
