package usecase

import (
	"time"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/log"
	"github.com/musicnft/goapi/base/usdc"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/metadata"
	"github.com/musicnft/goapi/domain/song"
)

type SongUseCaseCfg struct {
	SongRepo song.Repo
	Ledger   ledger.Reader
	Metadata metadata.Usecase
}

type songUseCase struct {
	songRepo song.Repo
	ledger   ledger.Reader
	metadata metadata.Usecase
}

func NewSongUseCase(cfg *SongUseCaseCfg) song.Usecase {
	return &songUseCase{
		songRepo: cfg.SongRepo,
		ledger:   cfg.Ledger,
		metadata: cfg.Metadata,
	}
}

func (im *songUseCase) Search(c bCtx.Ctx, opts ...song.FindAllOptions) (*song.SearchResult, error) {
	items, err := im.songRepo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("songRepo.FindAll failed")
		return nil, err
	}

	count, err := im.songRepo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("songRepo.Count failed")
		return nil, err
	}

	return &song.SearchResult{Items: items, Count: count}, nil
}

func (im *songUseCase) Get(c bCtx.Ctx, tokenId ledger.TokenId) (*song.SongItem, error) {
	item, err := im.songRepo.FindOne(c, tokenId)
	if err == domain.ErrNotFound {
		// fall back to the ledger for tokens not projected yet
		return im.Refresh(c, tokenId)
	} else if err != nil {
		c.WithField("err", err).Error("songRepo.FindOne failed")
		return nil, err
	}
	return item, nil
}

func (im *songUseCase) Refresh(c bCtx.Ctx, tokenId ledger.TokenId) (*song.SongItem, error) {
	tokenUri, err := im.ledger.TokenUri(c, tokenId)
	if err != nil {
		return nil, err
	}
	owner, err := im.ledger.OwnerOf(c, tokenId)
	if err != nil {
		return nil, err
	}
	forSale, err := im.ledger.IsForSale(c, tokenId)
	if err != nil {
		return nil, err
	}
	price, err := im.ledger.GetPrice(c, tokenId)
	if err != nil {
		return nil, err
	}

	item := &song.SongItem{
		TokenId:     tokenId,
		Owner:       owner,
		TokenUri:    tokenUri,
		ForSale:     forSale,
		PriceInUsdc: usdc.Format(price),
		UpdatedAt:   time.Now().UTC(),
	}
	if prev, err := im.songRepo.FindOne(c, tokenId); err == nil {
		item.SoldCount = prev.SoldCount
	}

	// metadata resolution is best effort, a dead uri still leaves the
	// ledger fields current
	if meta, err := im.metadata.GetFromUri(c, tokenUri); err != nil {
		c.WithFields(log.Fields{
			"tokenId":  tokenId,
			"tokenUri": tokenUri,
			"err":      err,
		}).Warn("metadata.GetFromUri failed")
	} else {
		item.Name = meta.Name
		item.Image = meta.Image
		item.Audio = meta.Audio
		item.Description = meta.Description
	}

	if err := im.songRepo.Upsert(c, item); err != nil {
		c.WithField("err", err).Error("songRepo.Upsert failed")
		return nil, err
	}
	return item, nil
}

func (im *songUseCase) RefreshAll(c bCtx.Ctx) error {
	supply, err := im.ledger.TotalSupply(c)
	if err != nil {
		c.WithField("err", err).Error("ledger.TotalSupply failed")
		return err
	}

	for id := ledger.TokenId(0); id < ledger.TokenId(supply); id++ {
		if _, err := im.Refresh(c, id); err != nil {
			c.WithFields(log.Fields{
				"tokenId": id,
				"err":     err,
			}).Error("Refresh failed")
			return err
		}
	}
	return nil
}
