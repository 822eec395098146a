// Package dashboard derives the admin chart data from raw orders, products and users.
package dashboard

import (
	"math"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
)

// PercentChange compares this month's figure to last month's. A zero baseline
// yields thisMonth*100.
func PercentChange(thisMonth, lastMonth float64) float64 {
	if lastMonth == 0 {
		return thisMonth * 100
	}
	return math.Round(thisMonth / lastMonth * 100)
}

// CategoryDistribution returns, in the order of categories, each category's
// rounded share of total. Shares are rounded independently and need not sum to 100.
func CategoryDistribution(categories []string, counts map[string]int, total int) []domain.CategoryShare {
	shares := make([]domain.CategoryShare, 0, len(categories))
	for _, category := range categories {
		var percent float64
		if total > 0 {
			percent = math.Round(float64(counts[category]) / float64(total) * 100)
		}
		shares = append(shares, domain.CategoryShare{Category: category, Percent: percent})
	}
	return shares
}

// MonthCounts counts docs per calendar month over the last length months,
// oldest first, the current month last.
func MonthCounts[T any](length int, today time.Time, docs []T, createdAt func(T) time.Time) []float64 {
	return monthBuckets(length, today, docs, createdAt, func(T) float64 { return 1 })
}

// MonthSums is MonthCounts summing value instead of counting.
func MonthSums[T any](length int, today time.Time, docs []T, createdAt func(T) time.Time, value func(T) float64) []float64 {
	return monthBuckets(length, today, docs, createdAt, value)
}

// monthBuckets places each doc by its calendar month distance from today.
// Docs from the future or length or more months back are dropped.
func monthBuckets[T any](length int, today time.Time, docs []T, createdAt func(T) time.Time, value func(T) float64) []float64 {
	if length <= 0 {
		return []float64{}
	}

	ty, tm, _ := today.Date()
	buckets := make([]float64, length)
	for _, doc := range docs {
		dy, dm, _ := createdAt(doc).In(today.Location()).Date()
		monthDiff := (ty-dy)*12 + int(tm) - int(dm)
		if monthDiff < 0 || monthDiff >= length {
			continue
		}
		buckets[length-monthDiff-1] += value(doc)
	}
	return buckets
}
