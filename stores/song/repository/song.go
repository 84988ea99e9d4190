package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/song"
	"github.com/musicnft/goapi/service/query"
)

type songRepoImpl struct {
	q query.Mongo
}

func NewSongRepo(q query.Mongo) song.Repo {
	return &songRepoImpl{q: q}
}

func (r *songRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...song.FindAllOptions) ([]*song.SongItem, error) {
	opts, err := song.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("song.GetFindAllOptions failed")
		return nil, err
	}

	var (
		offset int    = 0
		limit  int    = 0
		sort   string = "tokenId"
	)
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	if opts.SortBy != nil && opts.SortDir != nil {
		sort = *opts.SortBy
		if *opts.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	query := bson.M{}
	if opts.TokenId != nil {
		query["tokenId"] = *opts.TokenId
	}
	if opts.Owner != nil {
		query["owner"] = *opts.Owner
	}
	if opts.ForSale != nil {
		query["forSale"] = *opts.ForSale
	}

	items := []*song.SongItem{}
	if err := r.q.Search(ctx, domain.TableSongs, offset, limit, sort, query, &items); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return items, nil
}

func (r *songRepoImpl) FindOne(ctx bCtx.Ctx, tokenId ledger.TokenId) (*song.SongItem, error) {
	item := &song.SongItem{}
	if err := r.q.FindOne(ctx, domain.TableSongs, bson.M{"tokenId": tokenId}, item); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return item, nil
}

func (r *songRepoImpl) Count(ctx bCtx.Ctx, optFns ...song.FindAllOptions) (int, error) {
	opts, err := song.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("song.GetFindAllOptions failed")
		return 0, err
	}

	query := bson.M{}
	if opts.TokenId != nil {
		query["tokenId"] = *opts.TokenId
	}
	if opts.Owner != nil {
		query["owner"] = *opts.Owner
	}
	if opts.ForSale != nil {
		query["forSale"] = *opts.ForSale
	}

	n, err := r.q.Count(ctx, domain.TableSongs, query)
	if err != nil {
		ctx.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}

func (r *songRepoImpl) Upsert(ctx bCtx.Ctx, item *song.SongItem) error {
	copy := *item
	copy.Owner = item.Owner.ToLower()
	if err := r.q.Upsert(ctx, domain.TableSongs, bson.M{"tokenId": item.TokenId}, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *songRepoImpl) IncreaseSoldCount(ctx bCtx.Ctx, tokenId ledger.TokenId) error {
	selector := bson.M{"tokenId": tokenId}
	updated := &song.SongItem{}
	if err := r.q.Increment(ctx, domain.TableSongs, selector, updated, "soldCount", 1); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return err
	}
	return nil
}
