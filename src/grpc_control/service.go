package grpc_control

import (
	"context"
	"encoding/json"
	"time"

	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ControlService implements DashboardControlServer on top of the dashboard
// service and owns the health status reported to probes.
type ControlService struct {
	Service *dashboard.Service
	Health  *health.Server
	Logger  *logger.Logger
}

// NewControlService creates a new instance of ControlService. Health starts as
// NOT_SERVING until MarkServing is called.
func NewControlService(svc *dashboard.Service, log *logger.Logger) *ControlService {
	if log == nil {
		log = logger.NewLogger("ControlService")
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &ControlService{Service: svc, Health: hs, Logger: log}
}

// -----------------------------------------------------------------------------

// NewServer builds a gRPC server with the control, health and reflection
// services registered.
func NewServer(cs *ControlService, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.UnaryInterceptor(cs.logCalls))
	s := grpc.NewServer(opts...)
	RegisterDashboardControlServer(s, cs)
	healthpb.RegisterHealthServer(s, cs.Health)
	reflection.Register(s)
	return s
}

// -----------------------------------------------------------------------------

// MarkServing flips the health status once the catalog is available.
func (s *ControlService) MarkServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.Health.SetServingStatus("", st)
	s.Health.SetServingStatus(ServiceName, st)
}

// -----------------------------------------------------------------------------

func (s *ControlService) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		s.Logger.Warning("gRPC: %s failed after %s: %v", info.FullMethod, time.Since(start), err)
	} else {
		s.Logger.Debug("gRPC: %s took %s", info.FullMethod, time.Since(start))
	}
	return resp, err
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListSymbols(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	symbols, err := s.Service.Symbols(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	list := make([]interface{}, len(symbols))
	for i, sym := range symbols {
		list[i] = sym
	}
	return structpb.NewStruct(map[string]interface{}{
		"symbols": list,
		"count":   len(symbols),
	})
}

// -----------------------------------------------------------------------------

// GetView expects {"symbol": ..., "window": ...}; window may be omitted.
func (s *ControlService) GetView(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	symbol := fields["symbol"].GetStringValue()
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	snap, err := s.Service.Snapshot(ctx, symbol, fields["window"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}

	data, err := json.Marshal(snap.View)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode view: %v", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, status.Errorf(codes.Internal, "encode view: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) RefreshCatalog(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	catalog, err := s.Service.Catalog.Refresh(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	count := len(catalog.Symbols())
	s.Logger.Info("gRPC: catalog refreshed, %d symbols", count)
	return structpb.NewStruct(map[string]interface{}{
		"symbols":    count,
		"fetched_at": catalog.FetchedAt.Format(time.RFC3339),
	})
}

// -----------------------------------------------------------------------------

// toStatus maps the dashboard error taxonomy to gRPC codes.
func toStatus(err error) error {
	code := codes.Internal
	switch helpers.Kind(err) {
	case "selection_mismatch":
		code = codes.NotFound
	case "configuration":
		code = codes.InvalidArgument
	case "empty_input":
		code = codes.FailedPrecondition
	case "fetch":
		code = codes.Unavailable
	}
	return status.Error(code, err.Error())
}
