package server

import (
	"errors"
	"net/http"

	"orders-ms/internal/product"
	"orders-ms/internal/service"
)

// rpcError is the only error shape that crosses the wire: a machine-readable
// status code plus a message, no internals.
type rpcError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type errorEnvelope struct {
	Error rpcError `json:"error"`
}

type validationError struct {
	message string
}

func (e validationError) Error() string {
	return e.message
}

func mapError(err error) rpcError {
	var (
		vErr  validationError
		nfErr service.OrderNotFoundError
	)

	switch {
	case errors.As(err, &vErr):
		return rpcError{StatusCode: http.StatusBadRequest, Message: vErr.Error()}
	case errors.As(err, &nfErr):
		return rpcError{StatusCode: http.StatusNotFound, Message: nfErr.Error()}
	case errors.Is(err, product.ErrUnavailable):
		return rpcError{StatusCode: http.StatusBadGateway, Message: product.ErrUnavailable.Error()}
	default:
		return rpcError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}
