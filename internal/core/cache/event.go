package cache

// Event describes one group of entities that was just written. The set of
// variants is closed: ProductChanged, OrderChanged, AdminChanged and ReviewChanged.
type Event interface {
	keys() []string
}

// ProductChanged evicts the product listings plus the detail entry of each given product.
type ProductChanged struct {
	IDs []string
}

func Products(ids ...string) ProductChanged {
	return ProductChanged{IDs: ids}
}

func (e ProductChanged) keys() []string {
	keys := make([]string, 0, 3+len(e.IDs))
	keys = append(keys, KeyLatestProducts, KeyCategories, KeyAllProducts)
	for _, id := range e.IDs {
		keys = append(keys, ProductKey(id))
	}
	return keys
}

// OrderChanged evicts the order listings of the owner and the order detail entry.
// Empty ids still produce (harmless) keys.
type OrderChanged struct {
	UserID  string
	OrderID string
}

func (e OrderChanged) keys() []string {
	return []string{KeyAllOrders, MyOrdersKey(e.UserID), OrderKey(e.OrderID)}
}

// AdminChanged evicts every dashboard report.
type AdminChanged struct{}

func (AdminChanged) keys() []string {
	return []string{KeyAdminStats, KeyAdminPieCharts, KeyAdminBarCharts, KeyAdminLineCharts}
}

// ReviewChanged evicts the review list of one product.
type ReviewChanged struct {
	ProductID string
}

func (e ReviewChanged) keys() []string {
	return []string{ReviewsKey(e.ProductID)}
}

// Keys returns the deduplicated eviction set of the given events in first-seen order.
func Keys(events ...Event) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, event := range events {
		for _, key := range event.keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
