package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"orders-ms/internal/metrics"
	"orders-ms/internal/port"
)

// Message patterns served by this service.
const (
	PatternCreateOrder       = "CREATE_ORDER"
	PatternFindOrders        = "FIND_ORDERS"
	PatternFindOrder         = "FIND_ORDER"
	PatternChangeOrderStatus = "CHANGE_ORDER_STATUS"
)

const (
	queueGroup     = "orders"
	requestTimeout = 10 * time.Second
)

type Server struct {
	nc       *nats.Conn
	handlers *handlers
	metrics  *metrics.ServerMetrics
	logger   *zap.Logger

	subs []*nats.Subscription
}

func New(nc *nats.Conn, svc port.OrderService, m *metrics.ServerMetrics, logger *zap.Logger) *Server {
	return &Server{
		nc:       nc,
		handlers: newHandlers(svc),
		metrics:  m,
		logger:   logger,
	}
}

// Start subscribes every message pattern in the orders queue group, so
// concurrent service instances share the load.
func (s *Server) Start() error {
	routes := map[string]handlerFunc{
		PatternCreateOrder:       s.handlers.createOrder,
		PatternFindOrders:        s.handlers.findOrders,
		PatternFindOrder:         s.handlers.findOrder,
		PatternChangeOrderStatus: s.handlers.changeOrderStatus,
	}

	for pattern, handler := range routes {
		sub, err := s.nc.QueueSubscribe(pattern, queueGroup, s.wrap(pattern, handler))
		if err != nil {
			return fmt.Errorf("nc.QueueSubscribe[%s]: %w", pattern, err)
		}
		s.subs = append(s.subs, sub)
	}

	if err := s.nc.Flush(); err != nil {
		return fmt.Errorf("nc.Flush: %w", err)
	}

	return nil
}

// Drain stops delivery on all subscriptions, letting in-flight handlers finish.
func (s *Server) Drain() error {
	for _, sub := range s.subs {
		if err := sub.Drain(); err != nil {
			return fmt.Errorf("sub.Drain[%s]: %w", sub.Subject, err)
		}
	}
	return nil
}

func (s *Server) wrap(pattern string, handler handlerFunc) nats.MsgHandler {
	return func(msg *nats.Msg) {
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status := strconv.Itoa(http.StatusOK)

		result, err := handler(ctx, msg.Data)
		if err != nil {
			rpcErr := mapError(err)
			status = strconv.Itoa(rpcErr.StatusCode)

			if rpcErr.StatusCode >= http.StatusInternalServerError {
				s.logger.Error("request failed",
					zap.String("pattern", pattern),
					zap.Error(err))
			} else {
				s.logger.Warn("request rejected",
					zap.String("pattern", pattern),
					zap.Int("status", rpcErr.StatusCode),
					zap.String("reason", rpcErr.Message))
			}

			s.respond(msg, pattern, errorEnvelope{Error: rpcErr})
		} else {
			s.respond(msg, pattern, result)
		}

		s.metrics.Requests.WithLabelValues(pattern, status).Inc()
		s.metrics.Latency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) respond(msg *nats.Msg, pattern string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("response marshal failed",
			zap.String("pattern", pattern),
			zap.Error(err))

		data, _ = json.Marshal(errorEnvelope{Error: rpcError{
			StatusCode: http.StatusInternalServerError,
			Message:    "internal server error",
		}})
	}

	if err := msg.Respond(data); err != nil {
		s.logger.Error("respond failed",
			zap.String("pattern", pattern),
			zap.Error(err))
	}
}
