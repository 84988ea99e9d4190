package usecase

import (
	"encoding/json"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/log"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/keys"
	"github.com/musicnft/goapi/domain/metadata"
	"github.com/musicnft/goapi/service/cache"
)

type MetadataUseCaseCfg struct {
	WebResource domain.WebResourceUseCase
	// Cache is optional, resolution goes straight to the source without it
	Cache cache.Service
}

type metadataUseCase struct {
	webResource domain.WebResourceUseCase
	cache       cache.Service
}

func NewMetadataUseCase(cfg *MetadataUseCaseCfg) metadata.Usecase {
	return &metadataUseCase{
		webResource: cfg.WebResource,
		cache:       cfg.Cache,
	}
}

func (u *metadataUseCase) GetFromUri(c bCtx.Ctx, uri string) (*metadata.SongMetadata, error) {
	if u.cache == nil {
		return u.resolve(c, uri)
	}

	res := &metadata.SongMetadata{}
	err := u.cache.GetByFunc(c, keys.MD5(uri), res, func() (interface{}, error) {
		return u.resolve(c, uri)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (u *metadataUseCase) resolve(c bCtx.Ctx, uri string) (*metadata.SongMetadata, error) {
	data, err := u.webResource.GetJson(c, uri)
	if err != nil {
		c.WithFields(log.Fields{
			"uri": uri,
			"err": err,
		}).Error("webResource.GetJson failed")
		return nil, err
	}

	res := &metadata.SongMetadata{}
	if err := json.Unmarshal(data, res); err != nil {
		c.WithFields(log.Fields{
			"uri": uri,
			"err": err,
		}).Error("json.Unmarshal failed")
		return nil, err
	}
	return res, nil
}
