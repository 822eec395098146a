package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

const (
	defaultMaxUploadSize = 10 << 20
	photosField          = "photos"
)

type productHandler struct {
	products      *service.ProductService
	reviews       *service.ReviewService
	maxUploadSize int64
	logger        *zap.Logger
}

func (h *productHandler) LatestProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.LatestProducts(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"products": products}))
}

func (h *productHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"categories": categories}))
}

func (h *productHandler) AdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.AdminProducts(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"products": products}))
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"product": product}))
}

func (h *productHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := service.SearchQuery{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
	}
	if raw := query.Get("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, h.logger, domain.Validation("price must be a number"))
			return
		}
		q.MaxPrice = price
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		q.Page = page
	}

	result, err := h.products.Search(r.Context(), q)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"products": result.Products, "totalPage": result.TotalPage}))
}

func (h *productHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseProductForm(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	in := service.NewProductInput{
		Name:     form.name,
		Category: form.category,
		Photos:   form.photos,
	}
	if form.price != nil {
		in.Price = *form.price
	}
	if form.stock != nil {
		in.Stock = *form.stock
	}

	if _, err := h.products.CreateProduct(r.Context(), in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(envelope{"message": "Product created successfully"}))
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseProductForm(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	_, err = h.products.UpdateProduct(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:     form.name,
		Category: form.category,
		Price:    form.price,
		Stock:    form.stock,
		Photos:   form.photos,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Product updated successfully"}))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Product deleted successfully"}))
}

func (h *productHandler) ProductReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ProductReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"reviews": reviews}))
}

type newReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// NewReview creates or replaces the review of product {id} by user ?id=.
func (h *productHandler) NewReview(w http.ResponseWriter, r *http.Request) {
	var req newReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	_, created, err := h.reviews.NewReview(r.Context(), chi.URLParam(r, "id"), service.NewReviewInput{
		UserID:  r.URL.Query().Get("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if created {
		writeJSON(w, http.StatusCreated, ok(envelope{"message": "Review Added"}))
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Review Update"}))
}

func (h *productHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.DeleteReview(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Review Deleted"}))
}

type productForm struct {
	name     string
	category string
	price    *decimal.Decimal
	stock    *int
	photos   []port.File
}

func (h *productHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return productForm{}, domain.Validation("invalid multipart form")
	}

	form := productForm{
		name:     strings.TrimSpace(r.FormValue("name")),
		category: strings.TrimSpace(r.FormValue("category")),
	}

	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return productForm{}, domain.Validation("price must be a number")
		}
		form.price = &price
	}
	if raw := r.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return productForm{}, domain.Validation("stock must be an integer")
		}
		form.stock = &stock
	}

	for _, header := range r.MultipartForm.File[photosField] {
		f, err := header.Open()
		if err != nil {
			return productForm{}, domain.Validation("unreadable photo %s", header.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return productForm{}, domain.Validation("unreadable photo %s", header.Filename)
		}
		form.photos = append(form.photos, port.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return form, nil
}
