package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

const (
	latestTransactionCount = 4
	marketingCostPercent   = 30
)

// Snapshot is the raw data every report is computed from. It is fetched once
// per report and shared by all the figures in it.
type Snapshot struct {
	Today    time.Time
	Products []domain.Product
	Orders   []domain.Order
	Users    []domain.User
}

func productCreatedAt(p domain.Product) time.Time { return p.CreatedAt }
func orderCreatedAt(o domain.Order) time.Time     { return o.CreatedAt }
func userCreatedAt(u domain.User) time.Time       { return u.CreatedAt }
func orderTotal(o domain.Order) float64           { return o.Total.InexactFloat64() }
func orderDiscount(o domain.Order) float64        { return o.Discount.InexactFloat64() }

// Stats builds the dashboard summary.
func Stats(s Snapshot) domain.DashboardStats {
	thisMonthStart := time.Date(s.Today.Year(), s.Today.Month(), 1, 0, 0, 0, 0, s.Today.Location())
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	inThisMonth := func(t time.Time) bool { return !t.Before(thisMonthStart) && !t.After(s.Today) }
	inLastMonth := func(t time.Time) bool { return !t.Before(lastMonthStart) && t.Before(thisMonthStart) }

	thisMonthOrders := filter(s.Orders, func(o domain.Order) bool { return inThisMonth(o.CreatedAt) })
	lastMonthOrders := filter(s.Orders, func(o domain.Order) bool { return inLastMonth(o.CreatedAt) })
	thisMonthProducts := count(s.Products, func(p domain.Product) bool { return inThisMonth(p.CreatedAt) })
	lastMonthProducts := count(s.Products, func(p domain.Product) bool { return inLastMonth(p.CreatedAt) })
	thisMonthUsers := count(s.Users, func(u domain.User) bool { return inThisMonth(u.CreatedAt) })
	lastMonthUsers := count(s.Users, func(u domain.User) bool { return inLastMonth(u.CreatedAt) })

	const chartMonths = 6

	var ratio domain.UserRatio
	for _, u := range s.Users {
		switch u.Gender {
		case domain.GenderMale:
			ratio.Male++
		case domain.GenderFemale:
			ratio.Female++
		}
	}

	return domain.DashboardStats{
		CategoryCount: inventory(s.Products),
		ChangePercent: domain.ChangePercent{
			Revenue: PercentChange(revenue(thisMonthOrders), revenue(lastMonthOrders)),
			Product: PercentChange(float64(thisMonthProducts), float64(lastMonthProducts)),
			User:    PercentChange(float64(thisMonthUsers), float64(lastMonthUsers)),
			Order:   PercentChange(float64(len(thisMonthOrders)), float64(len(lastMonthOrders))),
		},
		Count: domain.Counts{
			Revenue: revenue(s.Orders),
			Product: len(s.Products),
			User:    len(s.Users),
			Order:   len(s.Orders),
		},
		Chart: domain.OrderRevenueChart{
			Order:   MonthCounts(chartMonths, s.Today, s.Orders, orderCreatedAt),
			Revenue: MonthSums(chartMonths, s.Today, s.Orders, orderCreatedAt, orderTotal),
		},
		UserRatio:         ratio,
		LatestTransaction: latestTransactions(s.Orders),
	}
}

// Pie builds the distribution charts.
func Pie(s Snapshot) domain.PieCharts {
	var fulfillment domain.OrderFulfillment
	for _, o := range s.Orders {
		switch o.Status {
		case domain.OrderStatusProcessing:
			fulfillment.Processing++
		case domain.OrderStatusShipped:
			fulfillment.Shipped++
		case domain.OrderStatusDelivered:
			fulfillment.Delivered++
		}
	}

	outOfStock := count(s.Products, func(p domain.Product) bool { return p.Stock == 0 })

	gross, discount, production, burnt := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range s.Orders {
		gross = gross.Add(o.Total)
		discount = discount.Add(o.Discount)
		production = production.Add(o.ShippingCharges)
		burnt = burnt.Add(o.Tax)
	}
	marketing := gross.Mul(decimal.NewFromInt(marketingCostPercent)).Div(decimal.NewFromInt(100)).Round(0)
	net := gross.Sub(discount).Sub(production).Sub(burnt).Sub(marketing)

	var ages domain.AgeGroups
	var roles domain.AdminCustomer
	for _, u := range s.Users {
		switch age := u.Age(s.Today); {
		case age < 20:
			ages.Teen++
		case age < 40:
			ages.Adult++
		default:
			ages.Old++
		}
		if u.Role == domain.RoleAdmin {
			roles.Admin++
		} else {
			roles.Customer++
		}
	}

	return domain.PieCharts{
		OrderFulfillment:  fulfillment,
		ProductCategories: inventory(s.Products),
		StockAvailability: domain.StockAvailability{
			InStock:    len(s.Products) - outOfStock,
			OutOfStock: outOfStock,
		},
		RevenueDistribution: domain.RevenueDistribution{
			NetMargin:      net.InexactFloat64(),
			Discount:       discount.InexactFloat64(),
			ProductionCost: production.InexactFloat64(),
			Burnt:          burnt.InexactFloat64(),
			MarketingCost:  marketing.InexactFloat64(),
		},
		UsersAgeGroup: ages,
		AdminCustomer: roles,
	}
}

// Bar builds the monthly count charts.
func Bar(s Snapshot) domain.BarCharts {
	return domain.BarCharts{
		Users:    MonthCounts(6, s.Today, s.Users, userCreatedAt),
		Products: MonthCounts(6, s.Today, s.Products, productCreatedAt),
		Orders:   MonthCounts(12, s.Today, s.Orders, orderCreatedAt),
	}
}

// Line builds the twelve month trend charts.
func Line(s Snapshot) domain.LineCharts {
	const months = 12

	return domain.LineCharts{
		Users:    MonthCounts(months, s.Today, s.Users, userCreatedAt),
		Products: MonthCounts(months, s.Today, s.Products, productCreatedAt),
		Discount: MonthSums(months, s.Today, s.Orders, orderCreatedAt, orderDiscount),
		Revenue:  MonthSums(months, s.Today, s.Orders, orderCreatedAt, orderTotal),
	}
}

// Categories lists the distinct product categories in ascending order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

func inventory(products []domain.Product) []domain.CategoryShare {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	return CategoryDistribution(Categories(products), counts, len(products))
}

func revenue(orders []domain.Order) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum.InexactFloat64()
}

func latestTransactions(orders []domain.Order) []domain.Transaction {
	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	n := min(len(sorted), latestTransactionCount)
	transactions := make([]domain.Transaction, 0, n)
	for _, o := range sorted[:n] {
		transactions = append(transactions, domain.Transaction{
			ID:       o.ID,
			Discount: o.Discount.InexactFloat64(),
			Amount:   o.Total.InexactFloat64(),
			Quantity: len(o.OrderItems),
			Status:   o.Status,
		})
	}
	return transactions
}

func filter[T any](docs []T, keep func(T) bool) []T {
	var out []T
	for _, doc := range docs {
		if keep(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func count[T any](docs []T, match func(T) bool) int {
	var n int
	for _, doc := range docs {
		if match(doc) {
			n++
		}
	}
	return n
}
