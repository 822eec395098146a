package storage

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// MemoryStore keeps every entity in process memory. It implements the same
// ports as MySQLAdapter, including the unique (user, product) review key and
// unique coupon codes. Values are copied on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	reviews  map[string]domain.Review
	users    map[string]domain.User
	coupons  map[string]domain.Coupon
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		reviews:  make(map[string]domain.Review),
		users:    make(map[string]domain.User),
		coupons:  make(map[string]domain.Coupon),
	}
}

func cloneProduct(p domain.Product) domain.Product {
	p.Photos = slices.Clone(p.Photos)
	return p
}

func cloneOrder(o domain.Order) domain.Order {
	o.OrderItems = slices.Clone(o.OrderItems)
	return o
}

func ref[T any](v T) *T {
	return &v
}

// values returns copies of the map values ordered by key.
func values[T any](m map[string]T, clone func(T) T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(m))
	for _, k := range keys {
		out = append(out, clone(m[k]))
	}
	return out
}

func same[T any](v T) T {
	return v
}

func (s *MemoryStore) CreateProduct(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; ok {
		return errors.Errorf("product %s already exists", p.ID)
	}
	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return ref(cloneProduct(p)), nil
}

func (s *MemoryStore) SaveProduct(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; ok {
		s.products[p.ID] = cloneProduct(p)
	}
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.products, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LatestProducts(_ context.Context, limit int) ([]domain.Product, error) {
	s.mu.RLock()
	products := values(s.products, cloneProduct)
	s.mu.RUnlock()

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	if limit >= 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *MemoryStore) AllProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return values(s.products, cloneProduct), nil
}

func (s *MemoryStore) matchProducts(filter port.ProductFilter) []domain.Product {
	search := strings.ToLower(filter.Search)
	category := strings.ToLower(filter.Category)

	matched := make([]domain.Product, 0)
	for _, p := range values(s.products, cloneProduct) {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if filter.MaxPrice.IsPositive() && p.Price.GreaterThan(filter.MaxPrice) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func (s *MemoryStore) FindProducts(_ context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	products := s.matchProducts(filter)
	s.mu.RUnlock()

	switch filter.Sort {
	case "asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.LessThan(products[j].Price) })
	case "dsc", "desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.GreaterThan(products[j].Price) })
	}

	if filter.Limit > 0 {
		start := min(filter.Offset, len(products))
		end := min(start+filter.Limit, len(products))
		products = products[start:end]
	}
	return products, nil
}

func (s *MemoryStore) CountProducts(_ context.Context, filter port.ProductFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchProducts(filter)), nil
}

func (s *MemoryStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, p := range s.products {
		seen[p.Category] = struct{}{}
	}
	s.mu.RUnlock()

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return errors.Errorf("order %s already exists", o.ID)
	}
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return ref(cloneOrder(o)), nil
}

func (s *MemoryStore) SaveOrder(_ context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		s.orders[o.ID] = cloneOrder(o)
	}
	return nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.orders, id)
	s.mu.Unlock()
	return nil
}

func newestOrdersFirst(orders []domain.Order) []domain.Order {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (s *MemoryStore) OrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0)
	for _, o := range values(s.orders, cloneOrder) {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return newestOrdersFirst(orders), nil
}

func (s *MemoryStore) AllOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestOrdersFirst(values(s.orders, cloneOrder)), nil
}

// CreateReview replaces the rating and comment of an existing review by the
// same user for the same product instead of adding a second one.
func (s *MemoryStore) CreateReview(_ context.Context, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			existing.Rating = r.Rating
			existing.Comment = r.Comment
			existing.UpdatedAt = r.UpdatedAt
			s.reviews[id] = existing
			return nil
		}
	}
	s.reviews[r.ID] = r
	return nil
}

func (s *MemoryStore) GetReview(_ context.Context, id string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	return ref(r), nil
}

func (s *MemoryStore) FindReview(_ context.Context, userID, productID string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return ref(r), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) SaveReview(_ context.Context, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.reviews[r.ID]; ok {
		existing.Rating = r.Rating
		existing.Comment = r.Comment
		existing.UpdatedAt = r.UpdatedAt
		s.reviews[r.ID] = existing
	}
	return nil
}

func (s *MemoryStore) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.reviews, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ReviewsByProduct(_ context.Context, productID string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]domain.Review, 0)
	for _, r := range values(s.reviews, same[domain.Review]) {
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].UpdatedAt.After(reviews[j].UpdatedAt)
	})
	return reviews, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return errors.Errorf("user %s already exists", u.ID)
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return ref(u), nil
}

func (s *MemoryStore) AllUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return values(s.users, same[domain.User]), nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) CreateCoupon(_ context.Context, c domain.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.coupons {
		if existing.Code == c.Code {
			return errors.Errorf("coupon code %s already exists", c.Code)
		}
	}
	s.coupons[c.ID] = c
	return nil
}

func (s *MemoryStore) GetCoupon(_ context.Context, id string) (*domain.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.coupons[id]
	if !ok {
		return nil, nil
	}
	return ref(c), nil
}

func (s *MemoryStore) GetCouponByCode(_ context.Context, code string) (*domain.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.coupons {
		if c.Code == code {
			return ref(c), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AllCoupons(_ context.Context) ([]domain.Coupon, error) {
	s.mu.RLock()
	coupons := values(s.coupons, same[domain.Coupon])
	s.mu.RUnlock()

	sort.SliceStable(coupons, func(i, j int) bool { return coupons[i].Code < coupons[j].Code })
	return coupons, nil
}

func (s *MemoryStore) SaveCoupon(_ context.Context, c domain.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.coupons[c.ID]; ok {
		s.coupons[c.ID] = c
	}
	return nil
}

func (s *MemoryStore) DeleteCoupon(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.coupons, id)
	s.mu.Unlock()
	return nil
}

var (
	_ port.DatabaseRepository = (*MemoryStore)(nil)
	_ port.DatabaseRepository = (*MySQLAdapter)(nil)
	_ port.CacheRepository    = (*MemoryAdapter)(nil)
	_ port.CacheRepository    = (*RedisAdapter)(nil)
	_ port.CacheRepository    = (*BreakerCache)(nil)
)
