package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"orders-ms/internal/domain"
)

// subject the product service answers batch lookups on
const lookupSubject = "VALIDATE_PRODUCTS"

// ErrUnavailable covers any transport-level failure of the product lookup.
// Callers never see raw broker errors.
var ErrUnavailable = errors.New("product service unavailable")

type requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

type Client struct {
	nc     requester
	logger *zap.Logger
}

func NewClient(nc *nats.Conn, logger *zap.Logger) *Client {
	return newClient(nc, logger)
}

func newClient(nc requester, logger *zap.Logger) *Client {
	return &Client{
		nc:     nc,
		logger: logger,
	}
}

type lookupRequest struct {
	IDs         []int64 `json:"ids"`
	WithDeleted bool    `json:"withDeleted,omitempty"`
}

// ProductsByIDs resolves a set of product ids in one broker round trip.
// Ids missing from the response are simply absent from the returned map.
func (c *Client) ProductsByIDs(ctx context.Context, ids []int64, withDeleted bool) (map[int64]domain.Product, error) {
	ids = lo.Uniq(ids)

	data, err := json.Marshal(lookupRequest{IDs: ids, WithDeleted: withDeleted})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	msg, err := c.nc.RequestWithContext(ctx, lookupSubject, data)
	if err != nil {
		c.logger.Warn("product lookup failed",
			zap.Int("ids", len(ids)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(msg.Data, &products); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", ErrUnavailable, err)
	}

	return lo.KeyBy(products, func(p domain.Product) int64 {
		return p.ID
	}), nil
}
