package domain

import "time"

type Review struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	ProductID string    `json:"product"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ratings is the aggregate written back onto a product after its reviews change.
type Ratings struct {
	NumOfReviews int `json:"numOfReviews"`
	Rating       int `json:"ratings"`
}
