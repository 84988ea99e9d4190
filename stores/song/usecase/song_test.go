package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/metadata"
	metadataMocks "github.com/musicnft/goapi/domain/metadata/mocks"
	"github.com/musicnft/goapi/domain/paytoken"
	"github.com/musicnft/goapi/domain/song"
	songMocks "github.com/musicnft/goapi/domain/song/mocks"
	"github.com/musicnft/goapi/service/stablecoin"
	ledgerUsecase "github.com/musicnft/goapi/stores/ledger/usecase"
)

var (
	mockCtx    = bCtx.Background()
	marketAddr = domain.Address("0x00000000000000000000000000000000000000ff")
	minter     = domain.Address("0x000000000000000000000000000000000000aaaa")
	buyer      = domain.Address("0x000000000000000000000000000000000000bbbb")

	mintFee = big.NewInt(100_100_000_000_000_000)
)

type songSuite struct {
	suite.Suite

	songRepo     *songMocks.Repo
	metadataMock *metadataMocks.Usecase
	settlement   paytoken.Settlement
	ledger       ledger.Ledger
	im           song.Usecase
}

func TestSongSuite(t *testing.T) {
	suite.Run(t, new(songSuite))
}

func (s *songSuite) SetupTest() {
	s.songRepo = &songMocks.Repo{}
	s.metadataMock = &metadataMocks.Usecase{}
	s.settlement = stablecoin.New(&stablecoin.Cfg{
		Name:     "USD Coin",
		Symbol:   "USDC",
		Decimals: 6,
		InitialBalances: map[domain.Address]*big.Int{
			buyer: big.NewInt(100_000_000),
		},
	})
	s.ledger = ledgerUsecase.New(&ledgerUsecase.LedgerCfg{
		Address:    marketAddr,
		MintFee:    mintFee,
		Settlement: s.settlement,
	})
	s.im = NewSongUseCase(&SongUseCaseCfg{
		SongRepo: s.songRepo,
		Ledger:   s.ledger,
		Metadata: s.metadataMock,
	})
	s.ledger.Subscribe(NewProjector(s.im, s.songRepo, WithSynchronousApply()))
}

func (s *songSuite) TestSearch() {
	items := []*song.SongItem{
		{TokenId: 0, Name: "one"},
		{TokenId: 1, Name: "two"},
	}
	s.songRepo.On("FindAll", mockCtx).Return(items, nil).Once()
	s.songRepo.On("Count", mockCtx).Return(2, nil).Once()

	res, err := s.im.Search(mockCtx)
	s.Nil(err)
	s.Equal(items, res.Items)
	s.Equal(2, res.Count)
	s.songRepo.AssertExpectations(s.T())
}

func (s *songSuite) TestRefreshNotFound() {
	_, err := s.im.Refresh(mockCtx, 42)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *songSuite) TestMintProjectsSong() {
	s.songRepo.On("FindOne", mockCtx, ledger.TokenId(0)).Return(nil, domain.ErrNotFound)
	s.metadataMock.On("GetFromUri", mockCtx, "ipfs://QmSong").Return(&metadata.SongMetadata{
		Name:  "Midnight Drive",
		Audio: "ipfs://QmAudio",
	}, nil)

	var upserted []*song.SongItem
	s.songRepo.On("Upsert", mockCtx, mock.AnythingOfType("*song.SongItem")).
		Run(func(args mock.Arguments) {
			upserted = append(upserted, args.Get(1).(*song.SongItem))
		}).Return(nil)

	_, err := s.ledger.Mint(mockCtx, minter, "ipfs://QmSong", 1, mintFee)
	s.Require().Nil(err)

	s.Require().Len(upserted, 1)
	item := upserted[0]
	s.Equal(ledger.TokenId(0), item.TokenId)
	s.True(item.Owner.Equals(minter))
	s.Equal("ipfs://QmSong", item.TokenUri)
	s.False(item.ForSale)
	s.Equal("Midnight Drive", item.Name)
	s.Equal("ipfs://QmAudio", item.Audio)
}

func (s *songSuite) TestSaleProjectsPriceAndSoldCount() {
	s.songRepo.On("FindOne", mockCtx, mock.Anything).Return(nil, domain.ErrNotFound)
	s.metadataMock.On("GetFromUri", mockCtx, mock.Anything).Return(&metadata.SongMetadata{}, nil)

	var last *song.SongItem
	s.songRepo.On("Upsert", mockCtx, mock.AnythingOfType("*song.SongItem")).
		Run(func(args mock.Arguments) {
			last = args.Get(1).(*song.SongItem)
		}).Return(nil)
	s.songRepo.On("IncreaseSoldCount", mockCtx, ledger.TokenId(0)).Return(nil).Once()

	_, err := s.ledger.Mint(mockCtx, minter, "ipfs://QmSong", 1, mintFee)
	s.Require().Nil(err)

	s.Require().Nil(s.ledger.ListForSale(mockCtx, minter, 0, big.NewInt(5_000_000)))
	s.Require().NotNil(last)
	s.True(last.ForSale)
	s.Equal("5", last.PriceInUsdc)

	s.Require().Nil(s.settlement.Approve(mockCtx, buyer, marketAddr, big.NewInt(5_000_000)))
	s.Require().Nil(s.ledger.Buy(mockCtx, buyer, 0))

	s.True(last.Owner.Equals(buyer))
	s.False(last.ForSale)
	s.songRepo.AssertExpectations(s.T())
}
