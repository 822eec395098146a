package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   []string
	}{
		{
			name:   "product listings only",
			events: []Event{Products()},
			want:   []string{"latest-products", "categories", "all-products"},
		},
		{
			name:   "product details",
			events: []Event{Products("p1", "p2")},
			want:   []string{"latest-products", "categories", "all-products", "product-p1", "product-p2"},
		},
		{
			name:   "order",
			events: []Event{OrderChanged{UserID: "u1", OrderID: "o1"}},
			want:   []string{"all-orders", "my-orders-u1", "orders-o1"},
		},
		{
			name:   "admin",
			events: []Event{AdminChanged{}},
			want:   []string{"admin-stats", "admin-pie-charts", "admin-bar-charts", "admin-line-charts"},
		},
		{
			name:   "review",
			events: []Event{ReviewChanged{ProductID: "p1"}},
			want:   []string{"reviews-p1"},
		},
		{
			name:   "duplicates collapse in first-seen order",
			events: []Event{Products("p1"), AdminChanged{}, Products("p1", "p2")},
			want: []string{
				"latest-products", "categories", "all-products", "product-p1",
				"admin-stats", "admin-pie-charts", "admin-bar-charts", "admin-line-charts",
				"product-p2",
			},
		},
		{
			name: "nothing",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keys(tt.events...))
		})
	}
}

func TestFamily(t *testing.T) {
	assert.Equal(t, "product", Family(ProductKey("abc")))
	assert.Equal(t, "my-orders", Family(MyOrdersKey("u1")))
	assert.Equal(t, "orders", Family(OrderKey("o1")))
	assert.Equal(t, "reviews", Family(ReviewsKey("p1")))
	assert.Equal(t, KeyAdminStats, Family(KeyAdminStats))
	assert.Equal(t, KeyLatestProducts, Family(KeyLatestProducts))
}
