package contract

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/musicnft/goapi/base/abi"
	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/service/chain"
)

// MusicNft reads the deployed marketplace contract. It implements
// ledger.Reader so read models can reconcile against the chain instead of
// the embedded ledger.
type MusicNft struct {
	chainService chain.Client
	chainId      int32
	address      common.Address
}

func NewMusicNft(chainService chain.Client, chainId int32, address domain.Address) *MusicNft {
	return &MusicNft{
		chainService: chainService,
		chainId:      chainId,
		address:      common.HexToAddress(string(address)),
	}
}

func (m *MusicNft) call(ctx bCtx.Ctx, method string, params ...interface{}) ([]interface{}, error) {
	return m.chainService.Call(ctx, m.chainId, m.address, nil, baseabi.MusicNftABI, method, params...)
}

func (m *MusicNft) TokenUri(ctx bCtx.Ctx, id ledger.TokenId) (string, error) {
	unpacked, err := m.call(ctx, "tokenURI", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return "", err
	}
	return unpacked[0].(string), nil
}

func (m *MusicNft) GetPrice(ctx bCtx.Ctx, id ledger.TokenId) (*big.Int, error) {
	unpacked, err := m.call(ctx, "getPrice", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

// PriceInUsdc returns the display-unit price the contract derives from the
// smallest-unit price
func (m *MusicNft) PriceInUsdc(ctx bCtx.Ctx, id ledger.TokenId) (*big.Int, error) {
	unpacked, err := m.call(ctx, "priceInUSDC", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (m *MusicNft) OwnerOf(ctx bCtx.Ctx, id ledger.TokenId) (domain.Address, error) {
	unpacked, err := m.call(ctx, "ownerOf", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return domain.EmptyAddress, err
	}
	return domain.Address(strings.ToLower(unpacked[0].(common.Address).String())), nil
}

func (m *MusicNft) IsForSale(ctx bCtx.Ctx, id ledger.TokenId) (bool, error) {
	unpacked, err := m.call(ctx, "isForSale", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (m *MusicNft) WhatIsForSale(ctx bCtx.Ctx) ([]ledger.TokenId, error) {
	unpacked, err := m.call(ctx, "whatIsForSale")
	if err != nil {
		return nil, err
	}
	raw := unpacked[0].([]*big.Int)
	ids := make([]ledger.TokenId, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, ledger.TokenId(v.Uint64()))
	}
	return ids, nil
}

func (m *MusicNft) TotalSupply(ctx bCtx.Ctx) (uint64, error) {
	unpacked, err := m.call(ctx, "tokenId")
	if err != nil {
		return 0, err
	}
	return unpacked[0].(*big.Int).Uint64(), nil
}
