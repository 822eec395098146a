package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

const statsServiceName = "storefront.admin.v1.StatsService"

// StatsRequest identifies the calling admin.
type StatsRequest struct {
	AdminID string `json:"adminId"`
}

// StatsServer is the admin dashboard API served over gRPC.
type StatsServer interface {
	GetStats(context.Context, *StatsRequest) (*domain.DashboardStats, error)
	GetPieCharts(context.Context, *StatsRequest) (*domain.PieCharts, error)
	GetBarCharts(context.Context, *StatsRequest) (*domain.BarCharts, error)
	GetLineCharts(context.Context, *StatsRequest) (*domain.LineCharts, error)
}

func unaryMethod[Resp any](name string, call func(StatsServer, context.Context, *StatsRequest) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(StatsRequest)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StatsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + statsServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(StatsServer), ctx, req.(*StatsRequest))
			})
		},
	}
}

var StatsServiceDesc = grpc.ServiceDesc{
	ServiceName: statsServiceName,
	HandlerType: (*StatsServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetStats", StatsServer.GetStats),
		unaryMethod("GetPieCharts", StatsServer.GetPieCharts),
		unaryMethod("GetBarCharts", StatsServer.GetBarCharts),
		unaryMethod("GetLineCharts", StatsServer.GetLineCharts),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterStatsServer(s grpc.ServiceRegistrar, srv StatsServer) {
	s.RegisterService(&StatsServiceDesc, srv)
}

type GRPCHandler struct {
	users  *service.UserService
	stats  *service.StatsService
	logger *zap.Logger
}

func NewGRPCHandler(users *service.UserService, stats *service.StatsService, logger *zap.Logger) *GRPCHandler {
	return &GRPCHandler{users: users, stats: stats, logger: logger}
}

func (h *GRPCHandler) GetStats(ctx context.Context, req *StatsRequest) (*domain.DashboardStats, error) {
	return adminCall(ctx, h, req, h.stats.Stats)
}

func (h *GRPCHandler) GetPieCharts(ctx context.Context, req *StatsRequest) (*domain.PieCharts, error) {
	return adminCall(ctx, h, req, h.stats.PieCharts)
}

func (h *GRPCHandler) GetBarCharts(ctx context.Context, req *StatsRequest) (*domain.BarCharts, error) {
	return adminCall(ctx, h, req, h.stats.BarCharts)
}

func (h *GRPCHandler) GetLineCharts(ctx context.Context, req *StatsRequest) (*domain.LineCharts, error) {
	return adminCall(ctx, h, req, h.stats.LineCharts)
}

func adminCall[T any](ctx context.Context, h *GRPCHandler, req *StatsRequest, fetch func(context.Context) (T, error)) (*T, error) {
	if err := h.users.Authorize(ctx, req.AdminID); err != nil {
		return nil, h.statusError(err)
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, h.statusError(err)
	}
	return &out, nil
}

func grpcCode(kind domain.Kind) codes.Code {
	switch kind {
	case domain.KindValidation:
		return codes.InvalidArgument
	case domain.KindUnauthorized:
		return codes.Unauthenticated
	case domain.KindForbidden:
		return codes.PermissionDenied
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindConflict:
		return codes.AlreadyExists
	case domain.KindCacheUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func (h *GRPCHandler) statusError(err error) error {
	code := grpcCode(domain.KindOf(err))
	if code == codes.Internal || code == codes.Unavailable {
		h.logger.Error("grpc call failed", zap.Error(err))
	}
	return status.Error(code, domain.MessageOf(err))
}

// UnaryLogger logs every unary call with its outcome.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

// StatsClient calls a remote StatsServer using the JSON codec.
type StatsClient struct {
	cc grpc.ClientConnInterface
}

func NewStatsClient(cc grpc.ClientConnInterface) *StatsClient {
	return &StatsClient{cc: cc}
}

func invoke[T any](ctx context.Context, c *StatsClient, method string, req *StatsRequest, opts []grpc.CallOption) (*T, error) {
	out := new(T)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+statsServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StatsClient) GetStats(ctx context.Context, req *StatsRequest, opts ...grpc.CallOption) (*domain.DashboardStats, error) {
	return invoke[domain.DashboardStats](ctx, c, "GetStats", req, opts)
}

func (c *StatsClient) GetPieCharts(ctx context.Context, req *StatsRequest, opts ...grpc.CallOption) (*domain.PieCharts, error) {
	return invoke[domain.PieCharts](ctx, c, "GetPieCharts", req, opts)
}

func (c *StatsClient) GetBarCharts(ctx context.Context, req *StatsRequest, opts ...grpc.CallOption) (*domain.BarCharts, error) {
	return invoke[domain.BarCharts](ctx, c, "GetBarCharts", req, opts)
}

func (c *StatsClient) GetLineCharts(ctx context.Context, req *StatsRequest, opts ...grpc.CallOption) (*domain.LineCharts, error) {
	return invoke[domain.LineCharts](ctx, c, "GetLineCharts", req, opts)
}
