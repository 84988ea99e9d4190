package song

import (
	"time"

	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/ptr"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
)

// SongItem is the mongo read model of one ledger token, denormalized with
// the resolved metadata so the browse endpoints never touch IPFS
type SongItem struct {
	TokenId     ledger.TokenId `json:"tokenId" bson:"tokenId"`
	Owner       domain.Address `json:"owner" bson:"owner"`
	TokenUri    string         `json:"tokenUri" bson:"tokenUri"`
	ForSale     bool           `json:"forSale" bson:"forSale"`
	// PriceInUsdc is the display-unit price, zero while not for sale
	PriceInUsdc string    `json:"priceInUsdc" bson:"priceInUsdc"`
	Name        string    `json:"name" bson:"name"`
	Image       string    `json:"image" bson:"image"`
	Audio       string    `json:"audio" bson:"audio"`
	Description string    `json:"description" bson:"description"`
	SoldCount   int       `json:"soldCount" bson:"soldCount"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type findAllOptions struct {
	Offset  *int32          `bson:"-"`
	Limit   *int32          `bson:"-"`
	SortBy  *string         `bson:"-"`
	SortDir *domain.SortDir `bson:"-"`
	TokenId *ledger.TokenId `bson:"tokenId"`
	Owner   *domain.Address `bson:"owner"`
	ForSale *bool           `bson:"forSale"`
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (findAllOptions, error) {
	res := findAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithPagination(offset int32, limit int32) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Offset = ptr.Int32(offset)
		options.Limit = ptr.Int32(limit)
		return nil
	}
}

func WithSort(sortBy string, sortDir domain.SortDir) FindAllOptions {
	return func(options *findAllOptions) error {
		options.SortBy = ptr.String(sortBy)
		options.SortDir = &sortDir
		return nil
	}
}

func WithTokenId(tokenId ledger.TokenId) FindAllOptions {
	return func(options *findAllOptions) error {
		options.TokenId = &tokenId
		return nil
	}
}

func WithOwner(owner domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Owner = owner.ToLowerPtr()
		return nil
	}
}

func WithForSale(forSale bool) FindAllOptions {
	return func(options *findAllOptions) error {
		options.ForSale = ptr.Bool(forSale)
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*SongItem, error)
	FindOne(c ctx.Ctx, tokenId ledger.TokenId) (*SongItem, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)
	Upsert(c ctx.Ctx, item *SongItem) error
	IncreaseSoldCount(c ctx.Ctx, tokenId ledger.TokenId) error
}

type SearchResult struct {
	Items []*SongItem `json:"items"`
	Count int         `json:"count"`
}

type Usecase interface {
	Search(c ctx.Ctx, opts ...FindAllOptions) (*SearchResult, error)
	Get(c ctx.Ctx, tokenId ledger.TokenId) (*SongItem, error)
	// Refresh rebuilds one token's read model from the ledger and the
	// resolved metadata
	Refresh(c ctx.Ctx, tokenId ledger.TokenId) (*SongItem, error)
	// RefreshAll walks every assigned token id and refreshes it
	RefreshAll(c ctx.Ctx) error
}
