package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/delivery"
	hcdomain "github.com/musicnft/goapi/domain/healthcheck"
)

type handler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New will initialize the healthcheck endpoint
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	h := &handler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", h.check)
}

func (h *handler) check(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	if err := h.healthCheck.Check(ctx); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, map[string]string{"healthy": "ok"})
}
