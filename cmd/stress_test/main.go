package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

const (
	itemID        = "stress-item"
	userID        = "stress-user"
	initialStock  = 1000
	totalOrders   = 200
	readers       = 20
	replayedSends = 50
)

// Places orders while readers hammer the cached product, then checks that the
// cache converged on the stored stock and that a replayed request was
// accepted once. Set REDIS_ADDR to run against Redis instead of memory.
func main() {
	ctx := context.Background()
	logger := zap.NewNop()

	backend := newBackend(ctx)
	if err := backend.Delete(ctx, cache.Keys(
		cache.Products(itemID),
		cache.OrderChanged{UserID: userID},
		cache.AdminChanged{},
	)...); err != nil {
		log.Fatalf("failed to clear cache: %v", err)
	}

	store := storage.NewMemoryStore()
	now := time.Now()
	if err := store.CreateProduct(ctx, domain.Product{
		ID: itemID, Name: "Stress Item", Category: "stress",
		Price: decimal.NewFromInt(10), Stock: initialStock,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("failed to seed product: %v", err)
	}

	rt := cache.NewReadThrough(backend, cache.Options{TTL: time.Minute}, nil, logger)
	inv := cache.NewInvalidator(backend, nil, nil, logger)
	products := service.NewProductService(store, nil, rt, inv, 0, logger)
	orders := service.NewOrderService(store, store, rt, inv, cache.NewIdempotency(backend))

	var placed, failed, reads atomic.Int32
	stop := make(chan struct{})

	var readWG sync.WaitGroup
	for i := 0; i < readers; i++ {
		readWG.Add(1)
		go func() {
			defer readWG.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := products.Product(ctx, itemID); err == nil {
					reads.Add(1)
				}
			}
		}()
	}

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalOrders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := orders.NewOrder(ctx, order(), ""); err != nil {
				failed.Add(1)
				return
			}
			placed.Add(1)
		}()
	}

	wg.Wait()
	close(stop)
	readWG.Wait()
	elapsed := time.Since(start)

	var accepted atomic.Int32
	requestID := fmt.Sprintf("replay-%d", time.Now().UnixNano())
	for i := 0; i < replayedSends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := orders.NewOrder(ctx, order(), requestID); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	stored, err := store.GetProduct(ctx, itemID)
	if err != nil || stored == nil {
		log.Fatalf("failed to load product: %v", err)
	}
	cached, err := products.Product(ctx, itemID)
	if err != nil {
		log.Fatalf("failed to read product: %v", err)
	}

	expected := initialStock - totalOrders - 1

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Orders Placed:    %d\n", placed.Load())
	fmt.Printf("Orders Failed:    %d\n", failed.Load())
	fmt.Printf("Cached Reads:     %d\n", reads.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Printf("Stored Stock:     %d (lost updates: %d)\n", stored.Stock, stored.Stock-expected)
	fmt.Printf("Cached Stock:     %d\n", cached.Stock)
	fmt.Println("==========================================")

	if cached.Stock == stored.Stock {
		fmt.Println("PASS: cache matches the store after the last write")
	} else {
		fmt.Printf("FAIL: cache serves stock %d, store has %d\n", cached.Stock, stored.Stock)
	}

	if accepted.Load() == 1 {
		fmt.Printf("PASS: replayed request accepted once out of %d\n", replayedSends)
	} else {
		fmt.Printf("FAIL: replayed request accepted %d times\n", accepted.Load())
	}
}

func newBackend(ctx context.Context) port.CacheRepository {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return storage.NewMemoryAdapter()
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	return storage.NewRedisAdapter(rdb)
}

func order() service.NewOrderInput {
	return service.NewOrderInput{
		UserID: userID,
		ShippingInfo: domain.ShippingInfo{
			Address: "1 Load St", City: "Pune", State: "MH", Country: "India", PinCode: 411001,
		},
		OrderItems: []domain.OrderItem{
			{Name: "Stress Item", Price: decimal.NewFromInt(10), Quantity: 1, ProductID: itemID},
		},
		Subtotal: decimal.NewFromInt(10),
		Total:    decimal.NewFromInt(10),
	}
}
