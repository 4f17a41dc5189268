package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// The control service speaks well-known protobuf types only, so its
// descriptor is declared here instead of generated from a .proto file.

const (
	ServiceName = "dashboard.v1.DashboardControl"

	listSymbolsMethod    = "/" + ServiceName + "/ListSymbols"
	getViewMethod        = "/" + ServiceName + "/GetView"
	refreshCatalogMethod = "/" + ServiceName + "/RefreshCatalog"
)

// DashboardControlServer is the server API for the control service.
type DashboardControlServer interface {
	ListSymbols(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetView(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshCatalog(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// -----------------------------------------------------------------------------

func RegisterDashboardControlServer(s grpc.ServiceRegistrar, srv DashboardControlServer) {
	s.RegisterService(&DashboardControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

var DashboardControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListSymbols", Handler: listSymbolsHandler},
		{MethodName: "GetView", Handler: getViewHandler},
		{MethodName: "RefreshCatalog", Handler: refreshCatalogHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashboard/v1/control.proto",
}

// -----------------------------------------------------------------------------

func listSymbolsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardControlServer).ListSymbols(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listSymbolsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardControlServer).ListSymbols(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getViewHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardControlServer).GetView(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getViewMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardControlServer).GetView(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func refreshCatalogHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardControlServer).RefreshCatalog(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: refreshCatalogMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardControlServer).RefreshCatalog(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type DashboardControlClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardControlClient(cc grpc.ClientConnInterface) *DashboardControlClient {
	return &DashboardControlClient{cc: cc}
}

func (c *DashboardControlClient) ListSymbols(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listSymbolsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) GetView(ctx context.Context, symbol, window string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"symbol": symbol, "window": window})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getViewMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) RefreshCatalog(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, refreshCatalogMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
