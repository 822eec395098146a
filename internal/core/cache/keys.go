package cache

import "strings"

const (
	KeyLatestProducts  = "latest-products"
	KeyCategories      = "categories"
	KeyAllProducts     = "all-products"
	KeyAllOrders       = "all-orders"
	KeyAdminStats      = "admin-stats"
	KeyAdminPieCharts  = "admin-pie-charts"
	KeyAdminBarCharts  = "admin-bar-charts"
	KeyAdminLineCharts = "admin-line-charts"
)

const (
	productKeyPrefix  = "product-"
	myOrdersKeyPrefix = "my-orders-"
	orderKeyPrefix    = "orders-"
	reviewsKeyPrefix  = "reviews-"
)

func ProductKey(id string) string {
	return productKeyPrefix + id
}

func MyOrdersKey(userID string) string {
	return myOrdersKeyPrefix + userID
}

func OrderKey(orderID string) string {
	return orderKeyPrefix + orderID
}

func ReviewsKey(productID string) string {
	return reviewsKeyPrefix + productID
}

// Family collapses a key to its namespace so metrics stay low-cardinality.
func Family(key string) string {
	for _, prefix := range []string{myOrdersKeyPrefix, orderKeyPrefix, reviewsKeyPrefix, productKeyPrefix} {
		if strings.HasPrefix(key, prefix) {
			return strings.TrimSuffix(prefix, "-")
		}
	}
	return key
}
