package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/core/domain"
)

var today = time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC)

func order(id string, at time.Time, total, discount int64, status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID:              id,
		CreatedAt:       at,
		Total:           decimal.NewFromInt(total),
		Discount:        decimal.NewFromInt(discount),
		Tax:             decimal.NewFromInt(10),
		ShippingCharges: decimal.NewFromInt(5),
		Status:          status,
		OrderItems:      []domain.OrderItem{{ProductID: "p1", Quantity: 1}},
	}
}

func snapshot() Snapshot {
	thisMonth := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)

	return Snapshot{
		Today: today,
		Products: []domain.Product{
			{ID: "p1", Category: "laptop", Stock: 3, CreatedAt: thisMonth},
			{ID: "p2", Category: "laptop", Stock: 0, CreatedAt: lastMonth},
			{ID: "p3", Category: "camera", Stock: 1, CreatedAt: lastMonth},
			{ID: "p4", Category: "phone", Stock: 9, CreatedAt: lastMonth},
		},
		Orders: []domain.Order{
			order("o1", thisMonth, 200, 20, domain.OrderStatusProcessing),
			order("o2", thisMonth.Add(time.Hour), 100, 0, domain.OrderStatusShipped),
			order("o3", lastMonth, 100, 0, domain.OrderStatusDelivered),
		},
		Users: []domain.User{
			{ID: "u1", Gender: domain.GenderMale, Role: domain.RoleAdmin, DOB: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), CreatedAt: thisMonth},
			{ID: "u2", Gender: domain.GenderFemale, Role: domain.RoleUser, DOB: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), CreatedAt: thisMonth},
			{ID: "u3", Gender: domain.GenderFemale, Role: domain.RoleUser, DOB: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestStats(t *testing.T) {
	stats := Stats(snapshot())

	assert.Equal(t, domain.Counts{Revenue: 400, Product: 4, User: 3, Order: 3}, stats.Count)
	assert.Equal(t, domain.ChangePercent{
		Revenue: 300,
		Product: 33,
		User:    200,
		Order:   200,
	}, stats.ChangePercent)
	assert.Equal(t, domain.UserRatio{Male: 1, Female: 2}, stats.UserRatio)
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 2}, stats.Chart.Order)
	assert.Equal(t, []float64{0, 0, 0, 0, 100, 300}, stats.Chart.Revenue)

	require.Len(t, stats.LatestTransaction, 3)
	assert.Equal(t, "o2", stats.LatestTransaction[0].ID)
	assert.Equal(t, []domain.CategoryShare{
		{Category: "camera", Percent: 25},
		{Category: "laptop", Percent: 50},
		{Category: "phone", Percent: 25},
	}, stats.CategoryCount)
}

func TestPie(t *testing.T) {
	pie := Pie(snapshot())

	assert.Equal(t, domain.OrderFulfillment{Processing: 1, Shipped: 1, Delivered: 1}, pie.OrderFulfillment)
	assert.Equal(t, domain.StockAvailability{InStock: 3, OutOfStock: 1}, pie.StockAvailability)
	assert.Equal(t, domain.AgeGroups{Teen: 1, Adult: 1, Old: 1}, pie.UsersAgeGroup)
	assert.Equal(t, domain.AdminCustomer{Admin: 1, Customer: 2}, pie.AdminCustomer)

	// gross 400, discount 20, shipping 15, tax 30, marketing 120
	assert.Equal(t, domain.RevenueDistribution{
		NetMargin:      215,
		Discount:       20,
		ProductionCost: 15,
		Burnt:          30,
		MarketingCost:  120,
	}, pie.RevenueDistribution)
}

func TestBarAndLine(t *testing.T) {
	s := snapshot()

	bar := Bar(s)
	assert.Len(t, bar.Users, 6)
	assert.Len(t, bar.Orders, 12)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 2}, bar.Users, "users older than the window are ignored")
	assert.Equal(t, []float64{0, 0, 0, 0, 3, 1}, bar.Products)

	line := Line(s)
	assert.Len(t, line.Revenue, 12)
	assert.Equal(t, 300.0, line.Revenue[11])
	assert.Equal(t, 20.0, line.Discount[11])
	assert.Equal(t, 100.0, line.Revenue[10])
}

func TestBarAndLine_SameMonthLastYearIgnored(t *testing.T) {
	s := Snapshot{
		Today: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		Orders: []domain.Order{
			order("old", time.Date(2025, time.October, 25, 0, 0, 0, 0, time.UTC), 999, 9, domain.OrderStatusDelivered),
			order("new", time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC), 50, 5, domain.OrderStatusProcessing),
		},
	}

	bar := Bar(s)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, bar.Orders)

	line := Line(s)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 50}, line.Revenue)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5}, line.Discount)
}

func TestEmptySnapshot(t *testing.T) {
	s := Snapshot{Today: today}

	stats := Stats(s)
	assert.Empty(t, stats.CategoryCount)
	assert.NotNil(t, stats.LatestTransaction)
	assert.Equal(t, domain.ChangePercent{}, stats.ChangePercent)

	pie := Pie(s)
	assert.Equal(t, domain.RevenueDistribution{}, pie.RevenueDistribution)
}
