package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orders-ms/internal/domain"
	"orders-ms/internal/port"
	"orders-ms/internal/repository"
)

type OrderNotFoundError struct {
	ID uuid.UUID
}

func (e OrderNotFoundError) Error() string {
	return fmt.Sprintf("the order with id: %s was not found", e.ID)
}

type orderService struct {
	repo     port.OrderRepository
	products port.ProductProvider
	logger   *zap.Logger
}

func NewOrder(repo port.OrderRepository, products port.ProductProvider, logger *zap.Logger) port.OrderService {
	return &orderService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// Create prices the requested items with a single batched product lookup,
// persists the order and its items in one transaction and shapes the
// response with product names from the same lookup, no second remote call.
func (s *orderService) Create(ctx context.Context, items []port.NewOrderItem) (domain.Order, error) {
	var o domain.Order

	if len(items) == 0 {
		return o, errors.New("no items in order")
	}

	productIDs := lo.Uniq(lo.Map(items, func(item port.NewOrderItem, _ int) int64 {
		return item.ProductID
	}))

	productsMap, err := s.products.ProductsByIDs(ctx, productIDs, false)
	if err != nil {
		return o, fmt.Errorf("products.ProductsByIDs: %w", err)
	}

	// An id the product service did not return prices its line at 0.
	totalAmount := decimal.Zero
	var totalItems int32

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		price := productsMap[item.ProductID].Price

		totalAmount = totalAmount.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
		totalItems += item.Quantity

		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Price:     price,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.repo.InsertOrder(ctx, domain.Order{
		Status:      domain.OrderStatusPending,
		TotalAmount: totalAmount,
		TotalItems:  totalItems,
		Items:       orderItems,
	})
	if err != nil {
		return o, fmt.Errorf("repo.InsertOrder: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int32("total_items", order.TotalItems))

	return withNames(order, productsMap), nil
}

func (s *orderService) FindAll(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	var p domain.Page

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return p, fmt.Errorf("req.Validate: %w", err)
	}

	totalCount, err := s.repo.CountOrders(ctx, req.Status)
	if err != nil {
		return p, fmt.Errorf("repo.CountOrders: %w", err)
	}

	orders, err := s.repo.ListOrders(ctx, req)
	if err != nil {
		return p, fmt.Errorf("repo.ListOrders: %w", err)
	}

	return domain.NewPage(req, totalCount, orders), nil
}

// FindOne loads the order with its items and enriches them with product
// names. The lookup includes retired products: historical orders may
// reference ids no longer in the catalog.
func (s *orderService) FindOne(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return o, OrderNotFoundError{ID: orderID}
		}
		return o, fmt.Errorf("repo.GetOrder: %w", err)
	}

	productIDs := lo.Map(order.Items, func(item domain.OrderItem, _ int) int64 {
		return item.ProductID
	})

	productsMap, err := s.products.ProductsByIDs(ctx, productIDs, true)
	if err != nil {
		return o, fmt.Errorf("products.ProductsByIDs: %w", err)
	}

	return withNames(order, productsMap), nil
}

// UpdateStatus is idempotent: when the target status equals the current
// one it returns the loaded order without issuing a write.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	var o domain.Order

	order, err := s.FindOne(ctx, orderID)
	if err != nil {
		return o, err
	}

	if order.Status == status {
		return order, nil
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return o, fmt.Errorf("repo.UpdateOrderStatus: %w", err)
	}

	s.logger.Info("order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))

	return updated, nil
}

func withNames(order domain.Order, products map[int64]domain.Product) domain.Order {
	order.Items = lo.Map(order.Items, func(item domain.OrderItem, _ int) domain.OrderItem {
		item.Name = products[item.ProductID].Name
		return item
	})
	return order
}
