package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	latestProductsLimit = 5
	maxProductPhotos    = 5
	defaultPerPage      = 8
)

type NewProductInput struct {
	Name     string `validate:"required"`
	Category string `validate:"required"`
	Price    decimal.Decimal
	Stock    int `validate:"gte=0"`
	Photos   []port.File
}

// UpdateProductInput leaves a field untouched when it is empty or nil.
type UpdateProductInput struct {
	Name     string
	Category string
	Price    *decimal.Decimal
	Stock    *int
	Photos   []port.File
}

type SearchQuery struct {
	Search   string
	Category string
	MaxPrice decimal.Decimal
	Sort     string
	Page     int
}

type SearchResult struct {
	Products  []domain.Product `json:"products"`
	TotalPage int              `json:"totalPage"`
}

type ProductService struct {
	products    port.ProductRepository
	blobs       port.BlobStorage
	rt          *cache.ReadThrough
	invalidator *cache.Invalidator
	perPage     int
	logger      *zap.Logger
}

func NewProductService(
	products port.ProductRepository,
	blobs port.BlobStorage,
	rt *cache.ReadThrough,
	invalidator *cache.Invalidator,
	perPage int,
	logger *zap.Logger,
) *ProductService {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &ProductService{
		products:    products,
		blobs:       blobs,
		rt:          rt,
		invalidator: invalidator,
		perPage:     perPage,
		logger:      logger,
	}
}

func (s *ProductService) LatestProducts(ctx context.Context) ([]domain.Product, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyLatestProducts, func(ctx context.Context) ([]domain.Product, error) {
		return s.products.LatestProducts(ctx, latestProductsLimit)
	})
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyCategories, s.products.Categories)
}

func (s *ProductService) AdminProducts(ctx context.Context) ([]domain.Product, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyAllProducts, s.products.AllProducts)
}

func (s *ProductService) Product(ctx context.Context, id string) (domain.Product, error) {
	return cache.Fetch(ctx, s.rt, cache.ProductKey(id), func(ctx context.Context) (domain.Product, error) {
		product, err := s.products.GetProduct(ctx, id)
		if err != nil {
			return domain.Product{}, errors.Wrap(err, "get product")
		}
		if product == nil {
			return domain.Product{}, domain.NotFound("Product not found")
		}
		return *product, nil
	})
}

// Search pages through products matching q. Results are not cached.
func (s *ProductService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	filter := port.ProductFilter{
		Search:   q.Search,
		Category: q.Category,
		MaxPrice: q.MaxPrice,
		Sort:     q.Sort,
		Limit:    s.perPage,
		Offset:   (page - 1) * s.perPage,
	}

	products, err := s.products.FindProducts(ctx, filter)
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "find products")
	}

	total, err := s.products.CountProducts(ctx, filter)
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "count products")
	}

	return SearchResult{
		Products:  products,
		TotalPage: int(math.Ceil(float64(total) / float64(s.perPage))),
	}, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in NewProductInput) (domain.Product, error) {
	if len(in.Photos) == 0 {
		return domain.Product{}, domain.Validation("Please add atleast 1 photo")
	}
	if len(in.Photos) > maxProductPhotos {
		return domain.Product{}, domain.Validation("you can only upload %d photos", maxProductPhotos)
	}
	if err := validateStruct(in); err != nil {
		return domain.Product{}, err
	}
	if !in.Price.IsPositive() {
		return domain.Product{}, domain.Validation("price must be greater than 0")
	}

	photos, err := s.blobs.Upload(ctx, in.Photos)
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "upload photos")
	}

	now := time.Now()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Category:  strings.ToLower(strings.TrimSpace(in.Category)),
		Price:     in.Price,
		Stock:     in.Stock,
		Photos:    photos,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		s.discardPhotos(ctx, photos)
		return domain.Product{}, errors.Wrap(err, "create product")
	}

	if err := s.invalidator.Invalidate(ctx, cache.Products(), cache.AdminChanged{}); err != nil {
		return product, err
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (domain.Product, error) {
	if len(in.Photos) > maxProductPhotos {
		return domain.Product{}, domain.Validation("you can only upload %d photos", maxProductPhotos)
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return domain.Product{}, domain.Validation("price must be greater than 0")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return domain.Product{}, domain.Validation("stock must not be negative")
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "get product")
	}
	if product == nil {
		return domain.Product{}, domain.NotFound("Product not found")
	}

	var previous []string
	if len(in.Photos) > 0 {
		photos, err := s.blobs.Upload(ctx, in.Photos)
		if err != nil {
			return domain.Product{}, errors.Wrap(err, "upload photos")
		}
		previous = product.PhotoIDs()
		product.Photos = photos
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Category != "" {
		product.Category = strings.ToLower(strings.TrimSpace(in.Category))
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	product.UpdatedAt = time.Now()

	if err := s.products.SaveProduct(ctx, *product); err != nil {
		if previous != nil {
			s.discardPhotos(ctx, product.Photos)
		}
		return domain.Product{}, errors.Wrap(err, "save product")
	}

	if len(previous) > 0 {
		if err := s.blobs.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete replaced photos", zap.String("product", product.ID), zap.Strings("ids", previous), zap.Error(err))
		}
	}

	if err := s.invalidator.Invalidate(ctx, cache.Products(product.ID), cache.AdminChanged{}); err != nil {
		return *product, err
	}
	return *product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return errors.Wrap(err, "get product")
	}
	if product == nil {
		return domain.NotFound("Product not found")
	}

	if err := s.blobs.Delete(ctx, product.PhotoIDs()); err != nil {
		return errors.Wrap(err, "delete photos")
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return errors.Wrap(err, "delete product")
	}

	return s.invalidator.Invalidate(ctx, cache.Products(product.ID), cache.AdminChanged{})
}

// discardPhotos removes freshly uploaded photos after a failed write.
func (s *ProductService) discardPhotos(ctx context.Context, photos []domain.Photo) {
	ids := make([]string, 0, len(photos))
	for _, photo := range photos {
		ids = append(ids, photo.PublicID)
	}
	if err := s.blobs.Delete(ctx, ids); err != nil {
		s.logger.Warn("failed to discard uploaded photos", zap.Strings("ids", ids), zap.Error(err))
	}
}
