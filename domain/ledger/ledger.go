package ledger

import (
	"math/big"

	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
)

// TokenId is assigned sequentially at mint time and never reused
type TokenId uint64

const (
	// mint batch bounds, inclusive
	MinMintAmount = 1
	MaxMintAmount = 100
)

// Token is one marketplace record. Price is denominated in the settlement
// stablecoin's smallest unit and only meaningful while ForSale is set.
type Token struct {
	TokenId  TokenId        `json:"tokenId"`
	Owner    domain.Address `json:"owner"`
	TokenUri string         `json:"tokenUri"`
	ForSale  bool           `json:"forSale"`
	Price    *big.Int       `json:"price,omitempty"`
}

// Reader is the read side of the marketplace ledger. Both the embedded
// ledger and the deployed contract wrapper implement it, so read models can
// be reconciled against either.
type Reader interface {
	TokenUri(c ctx.Ctx, id TokenId) (string, error)
	GetPrice(c ctx.Ctx, id TokenId) (*big.Int, error)
	OwnerOf(c ctx.Ctx, id TokenId) (domain.Address, error)
	IsForSale(c ctx.Ctx, id TokenId) (bool, error)
	// WhatIsForSale returns a snapshot of listed token ids. Ordering is
	// stable across calls on unchanged state.
	WhatIsForSale(c ctx.Ctx) ([]TokenId, error)
	// TotalSupply is the id counter, i.e. the next id to be assigned.
	TotalSupply(c ctx.Ctx) (uint64, error)
}

// Ledger owns token minting, ownership records and sale-listing state.
// Every mutating call is atomic: it either fully commits or leaves state
// completely unchanged, failing with one of the sentinel errors in the
// domain package.
type Ledger interface {
	Reader
	// Subscribe attaches the sink that receives committed mutations.
	// Sinks are invoked after the state change is visible to readers.
	Subscribe(sink EventSink)
	Mint(c ctx.Ctx, minter domain.Address, tokenUri string, count int, payment *big.Int) ([]TokenId, error)
	ListForSale(c ctx.Ctx, caller domain.Address, id TokenId, price *big.Int) error
	ListManyForSale(c ctx.Ctx, caller domain.Address, startId, endId TokenId, price *big.Int) error
	Unlist(c ctx.Ctx, caller domain.Address, id TokenId) error
	Buy(c ctx.Ctx, buyer domain.Address, id TokenId) error
}
