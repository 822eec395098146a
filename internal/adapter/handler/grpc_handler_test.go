package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
)

func newStatsClient(t *testing.T) (*StatsClient, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	services := newTestServices(t, store, nil)

	now := time.Now()
	require.NoError(t, store.CreateUser(context.Background(), domain.User{ID: "admin", Role: domain.RoleAdmin, Gender: domain.GenderMale, DOB: now.AddDate(-45, 0, 0), CreatedAt: now}))
	require.NoError(t, store.CreateUser(context.Background(), domain.User{ID: "shopper", Role: domain.RoleUser, Gender: domain.GenderFemale, DOB: now.AddDate(-17, 0, 0), CreatedAt: now}))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger(zap.NewNop())))
	RegisterStatsServer(srv, NewGRPCHandler(services.Users, services.Stats, zap.NewNop()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewStatsClient(conn), store
}

func TestStatsService_AdminCalls(t *testing.T) {
	client, _ := newStatsClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := client.GetStats(ctx, &StatsRequest{AdminID: "admin"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count.User)
	assert.Equal(t, domain.UserRatio{Male: 1, Female: 1}, stats.UserRatio)

	pie, err := client.GetPieCharts(ctx, &StatsRequest{AdminID: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.AgeGroups{Teen: 1, Old: 1}, pie.UsersAgeGroup)

	bar, err := client.GetBarCharts(ctx, &StatsRequest{AdminID: "admin"})
	require.NoError(t, err)
	assert.Len(t, bar.Orders, 12)

	line, err := client.GetLineCharts(ctx, &StatsRequest{AdminID: "admin"})
	require.NoError(t, err)
	assert.Len(t, line.Users, 12)
}

func TestStatsService_RejectsNonAdmins(t *testing.T) {
	client, _ := newStatsClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		adminID string
		code    codes.Code
	}{
		{name: "missing", adminID: "", code: codes.Unauthenticated},
		{name: "unknown", adminID: "ghost", code: codes.Unauthenticated},
		{name: "customer", adminID: "shopper", code: codes.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetStats(ctx, &StatsRequest{AdminID: tt.adminID})
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestGRPCCode(t *testing.T) {
	assert.Equal(t, codes.Unavailable, grpcCode(domain.KindCacheUnavailable))
	assert.Equal(t, codes.AlreadyExists, grpcCode(domain.KindConflict))
	assert.Equal(t, codes.Internal, grpcCode(domain.KindInternal))
}
