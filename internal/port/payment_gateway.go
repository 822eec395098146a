package port

import "context"

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type PaymentGateway interface {
	// CreateIntent registers a charge of amount minor currency units.
	CreateIntent(ctx context.Context, amount int64, currency string) (PaymentIntent, error)
}
