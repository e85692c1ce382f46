package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "market_analyzer.Control"

// ControlServer is the server API of the control service.
type ControlServer interface {
	ListSources(context.Context, *Empty) (*ListSourcesResponse, error)
	AddSource(context.Context, *AddSourceRequest) (*SourceControlResponse, error)
	RemoveSource(context.Context, *RemoveSourceRequest) (*SourceControlResponse, error)
	PurgeCache(context.Context, *PurgeCacheRequest) (*PurgeCacheResponse, error)
	GetStatus(context.Context, *Empty) (*StatusResponse, error)
}

// -----------------------------------------------------------------------------

func unaryMethod[Req any, Resp any](name string, call func(ControlServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ControlServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ControlServer), ctx, req.(*Req))
			})
		},
	}
}

// ControlServiceDesc describes the control service for grpc.Server.
var ControlServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ListSources", ControlServer.ListSources),
		unaryMethod("AddSource", ControlServer.AddSource),
		unaryMethod("RemoveSource", ControlServer.RemoveSource),
		unaryMethod("PurgeCache", ControlServer.PurgeCache),
		unaryMethod("GetStatus", ControlServer.GetStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "market_analyzer/control",
}

// -----------------------------------------------------------------------------

func RegisterControlServer(s grpc.ServiceRegistrar, srv ControlServer) {
	s.RegisterService(&ControlServiceDesc, srv)
}

// -----------------------------------------------------------------------------

// NewServer returns a grpc.Server exposing the control service and the
// standard health service.
func NewServer(svc *ControlService, opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	RegisterControlServer(s, svc)
	healthpb.RegisterHealthServer(s, svc.Health)
	return s
}

// -----------------------------------------------------------------------------

// ControlClient calls the control service over a client connection.
type ControlClient struct {
	cc grpc.ClientConnInterface
}

func NewControlClient(cc grpc.ClientConnInterface) *ControlClient {
	return &ControlClient{cc: cc}
}

func (c *ControlClient) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *ControlClient) ListSources(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListSourcesResponse, error) {
	out := new(ListSourcesResponse)
	return out, c.invoke(ctx, "ListSources", in, out, opts...)
}

func (c *ControlClient) AddSource(ctx context.Context, in *AddSourceRequest, opts ...grpc.CallOption) (*SourceControlResponse, error) {
	out := new(SourceControlResponse)
	return out, c.invoke(ctx, "AddSource", in, out, opts...)
}

func (c *ControlClient) RemoveSource(ctx context.Context, in *RemoveSourceRequest, opts ...grpc.CallOption) (*SourceControlResponse, error) {
	out := new(SourceControlResponse)
	return out, c.invoke(ctx, "RemoveSource", in, out, opts...)
}

func (c *ControlClient) PurgeCache(ctx context.Context, in *PurgeCacheRequest, opts ...grpc.CallOption) (*PurgeCacheResponse, error) {
	out := new(PurgeCacheResponse)
	return out, c.invoke(ctx, "PurgeCache", in, out, opts...)
}

func (c *ControlClient) GetStatus(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	return out, c.invoke(ctx, "GetStatus", in, out, opts...)
}
