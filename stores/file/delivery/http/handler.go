package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/delivery"
	dFile "github.com/musicnft/goapi/domain/file"
	dMetadata "github.com/musicnft/goapi/domain/metadata"
	"github.com/musicnft/goapi/service/pinata"
)

type handler struct {
	file dFile.Usecase
}

// New registers endpoints for pinning song assets and metadata to ipfs
func New(e *echo.Echo, _file dFile.Usecase) {
	h := &handler{_file}
	g := e.Group("/files")
	g.POST("", h.upload)
	g.POST("/metadata", h.uploadMetadata)
}

func (h *handler) upload(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		FileData string `json:"fileData" validate:"required"`
		Name     string `json:"name"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	opts := pinata.PinOptions{}
	if p.Name != "" {
		opts.Metadata = &pinata.PinataMetadata{Name: p.Name}
	}

	uri, err := h.file.Upload(ctx, p.FileData, opts)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, uri)
}

func (h *handler) uploadMetadata(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)
	type params struct {
		Name        string `json:"name" validate:"required"`
		Image       string `json:"image"`
		Audio       string `json:"audio"`
		Description string `json:"description"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	metadata := dMetadata.SongMetadata{
		Name:        p.Name,
		Image:       p.Image,
		Audio:       p.Audio,
		Description: p.Description,
	}
	uri, err := h.file.UploadJson(ctx, metadata, pinata.PinOptions{
		Metadata: &pinata.PinataMetadata{Name: p.Name},
	})
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, uri)
}
