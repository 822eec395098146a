package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/dashboard"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// StatsService serves the admin dashboard reports through the read-through
// cache. Every report is evicted by cache.AdminChanged.
type StatsService struct {
	products port.ProductRepository
	orders   port.OrderRepository
	users    port.UserRepository
	rt       *cache.ReadThrough
	now      func() time.Time
}

func NewStatsService(
	products port.ProductRepository,
	orders port.OrderRepository,
	users port.UserRepository,
	rt *cache.ReadThrough,
) *StatsService {
	return &StatsService{
		products: products,
		orders:   orders,
		users:    users,
		rt:       rt,
		now:      time.Now,
	}
}

func (s *StatsService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyAdminStats, report(s, dashboard.Stats))
}

func (s *StatsService) PieCharts(ctx context.Context) (domain.PieCharts, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyAdminPieCharts, report(s, dashboard.Pie))
}

func (s *StatsService) BarCharts(ctx context.Context) (domain.BarCharts, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyAdminBarCharts, report(s, dashboard.Bar))
}

func (s *StatsService) LineCharts(ctx context.Context) (domain.LineCharts, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyAdminLineCharts, report(s, dashboard.Line))
}

func report[T any](s *StatsService, build func(dashboard.Snapshot) T) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return build(snapshot), nil
	}
}

// snapshot loads the three raw collections concurrently.
func (s *StatsService) snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	snapshot := dashboard.Snapshot{Today: s.now()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.products.AllProducts(ctx)
		snapshot.Products = products
		return errors.Wrap(err, "list products")
	})
	g.Go(func() error {
		orders, err := s.orders.AllOrders(ctx)
		snapshot.Orders = orders
		return errors.Wrap(err, "list orders")
	})
	g.Go(func() error {
		users, err := s.users.AllUsers(ctx)
		snapshot.Users = users
		return errors.Wrap(err, "list users")
	})

	if err := g.Wait(); err != nil {
		return dashboard.Snapshot{}, err
	}
	return snapshot, nil
}
