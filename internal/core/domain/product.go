package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Photo struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type Product struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Rating       float64         `json:"ratings"`
	NumOfReviews int             `json:"numOfReviews"`
	Photos       []Photo         `json:"photos"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// PhotoIDs returns the blob identifiers of the product gallery.
func (p Product) PhotoIDs() []string {
	ids := make([]string, 0, len(p.Photos))
	for _, photo := range p.Photos {
		ids = append(ids, photo.PublicID)
	}
	return ids
}
