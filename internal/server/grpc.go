package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/thraizz/monopoly-server-go/internal/config"
	"github.com/thraizz/monopoly-server-go/internal/session"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// ToolServiceName is the fully qualified gRPC service name.
const ToolServiceName = "monopoly.v1.ToolService"

// ToolServiceServer is the gRPC surface of the tool registry. Messages are
// google.protobuf.Struct so clients need no generated code beyond the
// well-known types.
type ToolServiceServer interface {
	// ListTools returns {"tools": [...]}.
	ListTools(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// CallTool takes {"game_id", "tool", "args"} and returns {"result": ...}.
	CallTool(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// CreateGame takes {"players": [...]} and returns {"game": ...}.
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// toolServer implements ToolServiceServer on a session manager.
type toolServer struct {
	games    *session.Manager
	registry *tools.Registry
	logger   *zap.Logger
}

// NewToolServer creates the gRPC tool service.
func NewToolServer(games *session.Manager, registry *tools.Registry, logger *zap.Logger) ToolServiceServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolServer{games: games, registry: registry, logger: logger}
}

func (s *toolServer) ListTools(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return wrap("tools", s.registry.List())
}

func (s *toolServer) CallTool(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	gameID := fields["game_id"].GetStringValue()
	name := fields["tool"].GetStringValue()
	if gameID == "" || name == "" {
		return nil, status.Error(codes.InvalidArgument, "game_id and tool are required")
	}
	args := tools.Args{}
	if a := fields["args"].GetStructValue(); a != nil {
		args = a.AsMap()
	}

	out, err := s.registry.Dispatch(ctx, s.games, gameID, name, args)
	if err != nil {
		s.logger.Debug("tool call rejected",
			zap.String("game_id", gameID),
			zap.String("tool", name),
			zap.Error(err),
		)
		return nil, grpcError(err)
	}
	return wrap("result", out)
}

func (s *toolServer) CreateGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var players []string
	for _, v := range req.GetFields()["players"].GetListValue().GetValues() {
		players = append(players, v.GetStringValue())
	}
	view, err := s.games.Create(ctx, players)
	if err != nil {
		return nil, grpcError(err)
	}
	return wrap("game", view)
}

// wrap converts v through JSON into a Struct under key.
func wrap(key string, v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode %s: %v", key, err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to decode %s: %v", key, err)
	}
	out, err := structpb.NewStruct(map[string]any{key: generic})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build %s: %v", key, err)
	}
	return out, nil
}

func unaryHandler(method string, call func(ToolServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	fullMethod := fmt.Sprintf("/%s/%s", ToolServiceName, method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ToolServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ToolServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ToolServiceDesc describes the service for grpc.Server.RegisterService.
var ToolServiceDesc = grpc.ServiceDesc{
	ServiceName: ToolServiceName,
	HandlerType: (*ToolServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListTools", Handler: unaryHandler("ListTools", ToolServiceServer.ListTools)},
		{MethodName: "CallTool", Handler: unaryHandler("CallTool", ToolServiceServer.CallTool)},
		{MethodName: "CreateGame", Handler: unaryHandler("CreateGame", ToolServiceServer.CreateGame)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "monopoly/v1/tools.proto",
}

// RegisterToolServiceServer registers srv on s.
func RegisterToolServiceServer(s grpc.ServiceRegistrar, srv ToolServiceServer) {
	s.RegisterService(&ToolServiceDesc, srv)
}

// ToolServiceClient calls a remote ToolService.
type ToolServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewToolServiceClient creates a client on cc.
func NewToolServiceClient(cc grpc.ClientConnInterface) *ToolServiceClient {
	return &ToolServiceClient{cc: cc}
}

func (c *ToolServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ToolServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ToolServiceClient) ListTools(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListTools", &structpb.Struct{}, opts...)
}

func (c *ToolServiceClient) CallTool(ctx context.Context, gameID, tool string, args map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"game_id": gameID, "tool": tool, "args": args})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "CallTool", in, opts...)
}

func (c *ToolServiceClient) CreateGame(ctx context.Context, players []string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	names := make([]any, len(players))
	for i, p := range players {
		names[i] = p
	}
	in, err := structpb.NewStruct(map[string]any{"players": names})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "CreateGame", in, opts...)
}

// NewGRPCServer builds a server with the tool service registered behind the
// recovery, logging and auth interceptors.
func NewGRPCServer(cfg config.GRPCConfig, srv ToolServiceServer, auth *Authenticator, logger *zap.Logger) *grpc.Server {
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(ChainUnaryInterceptors(
			RecoveryInterceptor(logger),
			LoggingInterceptor(logger),
			AuthInterceptor(auth),
		)),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	}
	if cfg.MaxConcurrentStreams > 0 {
		opts = append(opts, grpc.MaxConcurrentStreams(uint32(cfg.MaxConcurrentStreams)))
	}
	s := grpc.NewServer(opts...)
	RegisterToolServiceServer(s, srv)
	return s
}

// Helper function to extract host from context
func extractHostFromContext(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != net.Addr(nil) {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}
