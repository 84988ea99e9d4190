package file

import (
	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/service/pinata"
)

type Usecase interface {
	Upload(c ctx.Ctx, fileData string, pinOption pinata.PinOptions) (uri string, err error)
	UploadJson(c ctx.Ctx, file interface{}, pinOption pinata.PinOptions) (uri string, err error)
}
