package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/config"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/observability"
)

var (
	adjectives  = []string{"Ergonomic", "Rustic", "Sleek", "Handcrafted", "Refined", "Compact", "Wireless", "Vintage"}
	materials   = []string{"Steel", "Cotton", "Wooden", "Granite", "Bamboo", "Leather", "Plastic", "Carbon"}
	nouns       = []string{"Chair", "Keyboard", "Lamp", "Backpack", "Watch", "Speaker", "Bottle", "Jacket"}
	departments = []string{"electronics", "home", "outdoors", "clothing", "sports", "books", "toys", "garden"}
)

// Inserts random products into the configured MySQL store and evicts the
// product listings from Redis when that is the configured cache.
func main() {
	count := flag.Int("count", 40, "Number of products to insert")
	flag.Parse()

	if err := run(context.Background(), *count); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, count int) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.StoreDriverMySQL {
		return errors.Errorf("seeding needs the mysql store, configured %q", cfg.Store.Driver)
	}

	logger, err := observability.NewLogger(cfg.Env.Log.Level, cfg.Env.Log.Pretty)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return errors.Wrap(err, "open mysql")
	}
	defer db.Close()

	store := storage.NewMySQLAdapter(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	now := time.Now()
	for i := 0; i < count; i++ {
		if err := store.CreateProduct(ctx, randomProduct(now)); err != nil {
			return errors.Wrapf(err, "insert product %d", i)
		}
	}
	logger.Info("seeded products", zap.Int("count", count))

	if cfg.Cache.Driver != config.CacheDriverRedis {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	inv := cache.NewInvalidator(storage.NewRedisAdapter(rdb), nil, nil, logger)
	return inv.Invalidate(ctx, cache.Products(), cache.AdminChanged{})
}

func pick(words []string) string {
	return words[rand.IntN(len(words))]
}

func randomProduct(now time.Time) domain.Product {
	created := now.Add(-time.Duration(rand.Int64N(int64(365 * 24 * time.Hour))))
	updated := created.Add(time.Duration(rand.Int64N(int64(now.Sub(created)) + 1)))
	id := uuid.NewString()

	return domain.Product{
		ID:       id,
		Name:     fmt.Sprintf("%s %s %s", pick(adjectives), pick(materials), pick(nouns)),
		Category: pick(departments),
		Price:    decimal.NewFromInt(1500 + rand.Int64N(78501)),
		Stock:    rand.IntN(101),
		Photos: []domain.Photo{{
			PublicID: "seed/" + id,
			URL:      "https://picsum.photos/seed/" + id + "/600/600",
		}},
		CreatedAt: created,
		UpdatedAt: updated,
	}
}
