package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/delivery"
	"github.com/musicnft/goapi/base/usdc"
	"github.com/musicnft/goapi/base/validator"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/paytoken"
	"github.com/musicnft/goapi/middleware"
)

type handler struct {
	settlement paytoken.Settlement
	// market is the default spender, the marketplace itself
	market domain.Address
}

// New registers the settlement authorization endpoints used by
// embedded-ledger deployments
func New(e *echo.Echo, settlement paytoken.Settlement, market domain.Address) {
	h := &handler{settlement, market}
	g := e.Group("/usdc")
	g.POST("/approve", h.approve)
	g.GET("/balance/:address", h.balance, middleware.IsValidAddress("address"))
	g.GET("/allowance", h.allowance)
}

func (h *handler) approve(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Owner domain.Address `json:"owner" validate:"required"`
		// Amount is in stablecoin display units
		Amount string `json:"amount" validate:"required"`
		// Spender defaults to the marketplace address
		Spender *domain.Address `json:"spender"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Owner)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}
	amount, err := usdc.ToUnits(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid amount")
	}
	spender := h.market
	if p.Spender != nil {
		if !validator.IsValidAddress(string(*p.Spender)) {
			return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
		}
		spender = *p.Spender
	}

	if err := h.settlement.Approve(ctx, p.Owner, spender, amount); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, "ok")
}

func (h *handler) balance(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	owner := domain.Address(_ctx.Param("address"))

	balance, err := h.settlement.BalanceOf(ctx, owner)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	res := struct {
		Balance string `json:"balance"`
	}{
		Balance: usdc.Format(balance),
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) allowance(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Owner   domain.Address  `query:"owner" validate:"required"`
		Spender *domain.Address `query:"spender"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Owner)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}
	spender := h.market
	if p.Spender != nil {
		spender = *p.Spender
	}

	allowance, err := h.settlement.Allowance(ctx, p.Owner, spender)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	res := struct {
		Allowance string `json:"allowance"`
	}{
		Allowance: usdc.Format(allowance),
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}
