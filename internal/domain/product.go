package domain

import "github.com/shopspring/decimal"

// Product is a point-in-time snapshot fetched from the product service.
// It is never persisted here: item rows keep a copy of the price instead.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}
