package domain

import "github.com/shopspring/decimal"

type Coupon struct {
	ID     string          `json:"_id"`
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}
