package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/delivery"
	"github.com/musicnft/goapi/domain"
	dLedger "github.com/musicnft/goapi/domain/ledger"
	dSong "github.com/musicnft/goapi/domain/song"
)

type handler struct {
	song dSong.Usecase
}

// New registers the song read model endpoints
func New(e *echo.Echo, _song dSong.Usecase) {
	h := &handler{_song}
	g := e.Group("/songs")
	g.GET("", h.search)
	g.GET("/:tokenId", h.get)
	g.POST("/refresh", h.refreshAll)
	g.POST("/:tokenId/refresh", h.refresh)
}

func (h *handler) search(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		SortBy  *string         `query:"sortBy"`
		SortDir *domain.SortDir `query:"sortDir"`
		Offset  int32           `query:"offset"`
		Limit   int32           `query:"limit"`
		Owner   *domain.Address `query:"owner"`
		ForSale *bool           `query:"forSale"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}

	opts := []dSong.FindAllOptions{
		dSong.WithPagination(p.Offset, p.Limit),
	}
	if p.SortBy != nil && p.SortDir != nil {
		opts = append(opts, dSong.WithSort(*p.SortBy, *p.SortDir))
	}
	if p.Owner != nil {
		opts = append(opts, dSong.WithOwner(*p.Owner))
	}
	if p.ForSale != nil {
		opts = append(opts, dSong.WithForSale(*p.ForSale))
	}

	res, err := h.song.Search(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) get(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	tokenId, err := parseTokenId(_ctx.Param("tokenId"))
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid tokenId")
	}

	item, err := h.song.Get(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, item)
}

func (h *handler) refresh(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	tokenId, err := parseTokenId(_ctx.Param("tokenId"))
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid tokenId")
	}

	item, err := h.song.Refresh(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, item)
}

func (h *handler) refreshAll(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	if err := h.song.RefreshAll(ctx); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, "ok")
}

func parseTokenId(raw string) (dLedger.TokenId, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return dLedger.TokenId(v), nil
}
