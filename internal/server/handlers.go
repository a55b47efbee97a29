package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"orders-ms/internal/domain"
	"orders-ms/internal/port"
)

type handlerFunc func(ctx context.Context, data []byte) (any, error)

type handlers struct {
	svc      port.OrderService
	validate *validator.Validate
}

func newHandlers(svc port.OrderService) *handlers {
	return &handlers{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *handlers) createOrder(ctx context.Context, data []byte) (any, error) {
	var req createOrderRequest
	if err := h.decode(data, &req); err != nil {
		return nil, err
	}

	items := lo.Map(req.Items, func(item orderItemRequest, _ int) port.NewOrderItem {
		return port.NewOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	})

	return h.svc.Create(ctx, items)
}

func (h *handlers) findOrders(ctx context.Context, data []byte) (any, error) {
	var req findOrdersRequest
	if err := h.decode(data, &req); err != nil {
		return nil, err
	}

	pageReq := domain.PageRequest{
		Page:  req.Page,
		Limit: req.Limit,
	}

	if req.Status != nil {
		status, err := domain.ToOrderStatus(*req.Status)
		if err != nil {
			return nil, validationError{message: fmt.Sprintf("status[%s]: %v", *req.Status, err)}
		}
		pageReq.Status = &status
	}

	return h.svc.FindAll(ctx, pageReq)
}

func (h *handlers) findOrder(ctx context.Context, data []byte) (any, error) {
	var req findOrderRequest
	if err := h.decode(data, &req); err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, validationError{message: fmt.Sprintf("id[%s] is not a valid uuid", req.ID)}
	}

	return h.svc.FindOne(ctx, orderID)
}

func (h *handlers) changeOrderStatus(ctx context.Context, data []byte) (any, error) {
	var req changeOrderStatusRequest
	if err := h.decode(data, &req); err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, validationError{message: fmt.Sprintf("id[%s] is not a valid uuid", req.ID)}
	}

	// No target status means nothing to change, answer with the current order.
	if req.Status == nil {
		return h.svc.FindOne(ctx, orderID)
	}

	status, err := domain.ToOrderStatus(*req.Status)
	if err != nil {
		return nil, validationError{message: fmt.Sprintf("status[%s]: %v", *req.Status, err)}
	}

	return h.svc.UpdateStatus(ctx, orderID, status)
}

// decode unmarshals and validates a payload, any problem is a validationError
// rejected before the workflow is reached
func (h *handlers) decode(data []byte, req any) error {
	if err := json.Unmarshal(data, req); err != nil {
		return validationError{message: fmt.Sprintf("malformed payload: %v", err)}
	}

	if err := h.validate.Struct(req); err != nil {
		return validationError{message: err.Error()}
	}

	return nil
}
