package supervisor

import (
	"context"

	"google.golang.org/grpc"
)

// ControllerServer is implemented by the Supervisor to serve the external,
// TCP-exposed Controller surface.
type ControllerServer interface {
	CreateGame(context.Context, *CreateGameRequest) (*CreateGameResponse, error)
	StartGame(context.Context, *StartGameRequest) (*StartGameResponse, error)
}

// SupervisorServer is implemented by the Supervisor to serve the internal,
// Unix-domain-socket Supervisor surface consumed by match servers.
type SupervisorServer interface {
	ReportGameEnds(context.Context, *ReportGameEndsRequest) (*ReportGameEndsResponse, error)
	PreparePlayerChange(context.Context, *PreparePlayerChangeRequest) (*PreparePlayerChangeResponse, error)
}

var controllerServiceDesc = grpc.ServiceDesc{
	ServiceName: "splendor.Controller",
	HandlerType: (*ControllerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateGame",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				req := new(CreateGameRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(ControllerServer).CreateGame(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/splendor.Controller/CreateGame"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(ControllerServer).CreateGame(ctx, req.(*CreateGameRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
		{
			MethodName: "StartGame",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				req := new(StartGameRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(ControllerServer).StartGame(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/splendor.Controller/StartGame"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(ControllerServer).StartGame(ctx, req.(*StartGameRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
	},
	Metadata: "splendor/controller.proto",
}

var supervisorServiceDesc = grpc.ServiceDesc{
	ServiceName: "splendor.Supervisor",
	HandlerType: (*SupervisorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ReportGameEnds",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				req := new(ReportGameEndsRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(SupervisorServer).ReportGameEnds(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/splendor.Supervisor/ReportGameEnds"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(SupervisorServer).ReportGameEnds(ctx, req.(*ReportGameEndsRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
		{
			MethodName: "PreparePlayerChange",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				req := new(PreparePlayerChangeRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(SupervisorServer).PreparePlayerChange(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/splendor.Supervisor/PreparePlayerChange"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(SupervisorServer).PreparePlayerChange(ctx, req.(*PreparePlayerChangeRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
	},
	Metadata: "splendor/supervisor.proto",
}

// RegisterControllerServer registers srv with s under the Controller
// service name.
func RegisterControllerServer(s grpc.ServiceRegistrar, srv ControllerServer) {
	s.RegisterService(&controllerServiceDesc, srv)
}

// RegisterSupervisorServer registers srv with s under the Supervisor
// service name.
func RegisterSupervisorServer(s grpc.ServiceRegistrar, srv SupervisorServer) {
	s.RegisterService(&supervisorServiceDesc, srv)
}

// ControllerClient is the external, TCP-facing client stub.
type ControllerClient interface {
	CreateGame(ctx context.Context, in *CreateGameRequest, opts ...grpc.CallOption) (*CreateGameResponse, error)
	StartGame(ctx context.Context, in *StartGameRequest, opts ...grpc.CallOption) (*StartGameResponse, error)
}

type controllerClient struct{ cc grpc.ClientConnInterface }

// NewControllerClient builds a Controller client over cc.
func NewControllerClient(cc grpc.ClientConnInterface) ControllerClient {
	return &controllerClient{cc}
}

func (c *controllerClient) CreateGame(ctx context.Context, in *CreateGameRequest, opts ...grpc.CallOption) (*CreateGameResponse, error) {
	out := new(CreateGameResponse)
	if err := c.cc.Invoke(ctx, "/splendor.Controller/CreateGame", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controllerClient) StartGame(ctx context.Context, in *StartGameRequest, opts ...grpc.CallOption) (*StartGameResponse, error) {
	out := new(StartGameResponse)
	if err := c.cc.Invoke(ctx, "/splendor.Controller/StartGame", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SupervisorClient is the internal, UDS-facing client stub used by match
// servers.
type SupervisorClient interface {
	ReportGameEnds(ctx context.Context, in *ReportGameEndsRequest, opts ...grpc.CallOption) (*ReportGameEndsResponse, error)
	PreparePlayerChange(ctx context.Context, in *PreparePlayerChangeRequest, opts ...grpc.CallOption) (*PreparePlayerChangeResponse, error)
}

type supervisorClient struct{ cc grpc.ClientConnInterface }

// NewSupervisorClient builds a Supervisor client over cc.
func NewSupervisorClient(cc grpc.ClientConnInterface) SupervisorClient {
	return &supervisorClient{cc}
}

func (c *supervisorClient) ReportGameEnds(ctx context.Context, in *ReportGameEndsRequest, opts ...grpc.CallOption) (*ReportGameEndsResponse, error) {
	out := new(ReportGameEndsResponse)
	if err := c.cc.Invoke(ctx, "/splendor.Supervisor/ReportGameEnds", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *supervisorClient) PreparePlayerChange(ctx context.Context, in *PreparePlayerChangeRequest, opts ...grpc.CallOption) (*PreparePlayerChangeResponse, error) {
	out := new(PreparePlayerChangeResponse)
	if err := c.cc.Invoke(ctx, "/splendor.Supervisor/PreparePlayerChange", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
