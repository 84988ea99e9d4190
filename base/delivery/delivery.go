package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// MakeJsonResp writes the uniform response envelope. Sentinel ledger errors
// are remapped so callers can rely on the status code instead of parsing
// message text.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		switch {
		case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrNotOwner) || errors.Is(err, domain.ErrSelfPurchase):
			status = http.StatusForbidden
		case errors.Is(err, domain.ErrInsufficientPayment) || errors.Is(err, domain.ErrPaymentFailed):
			status = http.StatusPaymentRequired
		case errors.Is(err, domain.ErrInvalidAmount) ||
			errors.Is(err, domain.ErrInvalidPrice) ||
			errors.Is(err, domain.ErrNotListed) ||
			errors.Is(err, domain.ErrNotForSale) ||
			errors.Is(err, domain.ErrBadParamInput):
			status = http.StatusBadRequest
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
