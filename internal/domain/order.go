package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uuid.UUID       `json:"id"`
	Status      OrderStatus     `json:"status"`
	Paid        bool            `json:"paid"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int32           `json:"totalItems"`
	Items       []OrderItem     `json:"items,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ProductID int64           `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`

	// Name comes from the product service at read/create time, it is never persisted.
	Name string `json:"name,omitempty"`
}
