package domain

// CategoryShare is the percentage of the catalogue held by one category.
type CategoryShare struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
}

type Transaction struct {
	ID       string      `json:"_id"`
	Discount float64     `json:"discount"`
	Amount   float64     `json:"amount"`
	Quantity int         `json:"quantity"`
	Status   OrderStatus `json:"status"`
}

type ChangePercent struct {
	Revenue float64 `json:"revenue"`
	Product float64 `json:"product"`
	User    float64 `json:"user"`
	Order   float64 `json:"order"`
}

type Counts struct {
	Revenue float64 `json:"revenue"`
	Product int     `json:"product"`
	User    int     `json:"user"`
	Order   int     `json:"order"`
}

type UserRatio struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

type OrderRevenueChart struct {
	Order   []float64 `json:"order"`
	Revenue []float64 `json:"revenue"`
}

type DashboardStats struct {
	CategoryCount     []CategoryShare   `json:"categoryCount"`
	ChangePercent     ChangePercent     `json:"changePercent"`
	Count             Counts            `json:"count"`
	Chart             OrderRevenueChart `json:"chart"`
	UserRatio         UserRatio         `json:"userRatio"`
	LatestTransaction []Transaction     `json:"latestTransaction"`
}

type OrderFulfillment struct {
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
}

type StockAvailability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

type RevenueDistribution struct {
	NetMargin      float64 `json:"netMargin"`
	Discount       float64 `json:"discount"`
	ProductionCost float64 `json:"productionCost"`
	Burnt          float64 `json:"burnt"`
	MarketingCost  float64 `json:"marketingCost"`
}

type AgeGroups struct {
	Teen  int `json:"teen"`
	Adult int `json:"adult"`
	Old   int `json:"old"`
}

type AdminCustomer struct {
	Admin    int `json:"admin"`
	Customer int `json:"customer"`
}

type PieCharts struct {
	OrderFulfillment    OrderFulfillment    `json:"orderFulfillment"`
	ProductCategories   []CategoryShare     `json:"productCategories"`
	StockAvailability   StockAvailability   `json:"stockAvailability"`
	RevenueDistribution RevenueDistribution `json:"revenueDistribution"`
	UsersAgeGroup       AgeGroups           `json:"usersAgeGroup"`
	AdminCustomer       AdminCustomer       `json:"adminCustomer"`
}

type BarCharts struct {
	Users    []float64 `json:"users"`
	Products []float64 `json:"products"`
	Orders   []float64 `json:"orders"`
}

type LineCharts struct {
	Users    []float64 `json:"users"`
	Products []float64 `json:"products"`
	Discount []float64 `json:"discount"`
	Revenue  []float64 `json:"revenue"`
}
