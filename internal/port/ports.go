package port

import (
	"context"

	"github.com/google/uuid"

	"orders-ms/internal/domain"
)

type OrderRepository interface {
	// InsertOrder persists the order and all of its items atomically.
	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	ListOrders(ctx context.Context, req domain.PageRequest) ([]domain.Order, error)
	CountOrders(ctx context.Context, status *domain.OrderStatus) (int64, error)

	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error)
}

// ProductProvider resolves product snapshots for a set of ids in a single
// remote call. Ids absent from the result were not found upstream, which is
// not an error. withDeleted includes products retired from the catalog.
type ProductProvider interface {
	ProductsByIDs(ctx context.Context, ids []int64, withDeleted bool) (map[int64]domain.Product, error)
}

type NewOrderItem struct {
	ProductID int64
	Quantity  int32
}

type OrderService interface {
	Create(ctx context.Context, items []NewOrderItem) (domain.Order, error)
	FindAll(ctx context.Context, req domain.PageRequest) (domain.Page, error)
	FindOne(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error)
}
