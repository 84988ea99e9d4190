package http

import (
	"math/big"
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/delivery"
	"github.com/musicnft/goapi/base/usdc"
	"github.com/musicnft/goapi/base/validator"
	"github.com/musicnft/goapi/domain"
	dLedger "github.com/musicnft/goapi/domain/ledger"
)

type handler struct {
	ledger dLedger.Ledger
}

func parseWei(s string) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

// New registers the marketplace mutation and listing endpoints
func New(e *echo.Echo, _ledger dLedger.Ledger) {
	h := &handler{_ledger}
	g := e.Group("/marketplace")
	g.GET("/forsale", h.whatIsForSale)
	g.POST("/mint", h.mint)
	g.POST("/list", h.listForSale)
	g.POST("/listMany", h.listManyForSale)
	g.POST("/unlist", h.unlist)
	g.POST("/buy", h.buy)
}

func (h *handler) whatIsForSale(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	ids, err := h.ledger.WhatIsForSale(ctx)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	res := struct {
		TokenIds []dLedger.TokenId `json:"tokenIds"`
	}{
		TokenIds: ids,
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) mint(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Minter   domain.Address `json:"minter" validate:"required"`
		TokenUri string         `json:"tokenUri" validate:"required"`
		Count    int            `json:"count" validate:"required"`
		// Payment is the attached native-currency fee in wei
		Payment string `json:"payment" validate:"required"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Minter)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}
	payment, ok := parseWei(p.Payment)
	if !ok {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid payment")
	}

	ids, err := h.ledger.Mint(ctx, p.Minter, p.TokenUri, p.Count, payment)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	res := struct {
		TokenIds []dLedger.TokenId `json:"tokenIds"`
	}{
		TokenIds: ids,
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) listForSale(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Caller  domain.Address  `json:"caller" validate:"required"`
		TokenId dLedger.TokenId `json:"tokenId"`
		// Price is the asking price in stablecoin display units, e.g. "5"
		// or "5.5"
		Price string `json:"price" validate:"required"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Caller)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}
	price, err := usdc.ToUnits(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid price")
	}

	if err := h.ledger.ListForSale(ctx, p.Caller, p.TokenId, price); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, "ok")
}

func (h *handler) listManyForSale(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Caller  domain.Address  `json:"caller" validate:"required"`
		StartId dLedger.TokenId `json:"startId"`
		EndId   dLedger.TokenId `json:"endId"`
		Price   string          `json:"price" validate:"required"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Caller)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}
	price, err := usdc.ToUnits(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid price")
	}

	if err := h.ledger.ListManyForSale(ctx, p.Caller, p.StartId, p.EndId, price); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, "ok")
}

func (h *handler) unlist(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Caller  domain.Address  `json:"caller" validate:"required"`
		TokenId dLedger.TokenId `json:"tokenId"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Caller)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}

	if err := h.ledger.Unlist(ctx, p.Caller, p.TokenId); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, "ok")
}

func (h *handler) buy(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Buyer   domain.Address  `json:"buyer" validate:"required"`
		TokenId dLedger.TokenId `json:"tokenId"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if !validator.IsValidAddress(string(p.Buyer)) {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid address")
	}

	if err := h.ledger.Buy(ctx, p.Buyer, p.TokenId); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, "ok")
}
