package usecase

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/paytoken"
	"github.com/musicnft/goapi/service/stablecoin"
)

var (
	marketAddr = domain.Address("0x00000000000000000000000000000000000000ff")
	minter     = domain.Address("0x000000000000000000000000000000000000aaaa")
	buyer      = domain.Address("0x000000000000000000000000000000000000bbbb")

	mintFee = big.NewInt(100_100_000_000_000_000) // 0.1001 in 18 decimals
)

type captureSink struct {
	mu     sync.Mutex
	events []*ledger.Event
}

func (s *captureSink) Publish(c bCtx.Ctx, ev *ledger.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

type testsuite struct {
	suite.Suite

	ctx    bCtx.Ctx
	ledger ledger.Ledger
	token  paytoken.Settlement
	sink   *captureSink
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (s *testsuite) SetupTest() {
	s.ctx = bCtx.Background()
	settlement := stablecoin.New(&stablecoin.Cfg{
		Name:     "USD Coin",
		Symbol:   "USDC",
		Decimals: 6,
		InitialBalances: map[domain.Address]*big.Int{
			buyer: big.NewInt(100_000_000),
		},
	})
	s.token = settlement
	s.sink = &captureSink{}
	s.ledger = New(&LedgerCfg{
		Address:    marketAddr,
		MintFee:    mintFee,
		Settlement: settlement,
	})
	s.ledger.Subscribe(s.sink)
}

func (s *testsuite) mint(owner domain.Address, uri string, count int) []ledger.TokenId {
	ids, err := s.ledger.Mint(s.ctx, owner, uri, count, mintFee)
	s.Require().Nil(err)
	s.Require().Len(ids, count)
	return ids
}

func (s *testsuite) TestMintAssignsSequentialIds() {
	ids := s.mint(minter, "ipfs://abc", 3)
	s.Equal([]ledger.TokenId{0, 1, 2}, ids)

	for _, id := range ids {
		owner, err := s.ledger.OwnerOf(s.ctx, id)
		s.Nil(err)
		s.True(owner.Equals(minter))

		forSale, err := s.ledger.IsForSale(s.ctx, id)
		s.Nil(err)
		s.False(forSale)

		uri, err := s.ledger.TokenUri(s.ctx, id)
		s.Nil(err)
		s.Equal("ipfs://abc", uri)
	}

	supply, err := s.ledger.TotalSupply(s.ctx)
	s.Nil(err)
	s.Equal(uint64(3), supply)

	// a second batch continues the counter, ids are never reused
	s.Equal([]ledger.TokenId{3, 4}, s.mint(buyer, "ipfs://def", 2))
}

func (s *testsuite) TestMintCountBounds() {
	for _, count := range []int{0, -1, 101} {
		_, err := s.ledger.Mint(s.ctx, minter, "ipfs://abc", count, mintFee)
		s.ErrorIs(err, domain.ErrInvalidAmount)
	}

	supply, err := s.ledger.TotalSupply(s.ctx)
	s.Nil(err)
	s.Equal(uint64(0), supply)

	s.mint(minter, "ipfs://abc", 100)
	s.mint(minter, "ipfs://abc", 1)
}

func (s *testsuite) TestMintExactFee() {
	under := new(big.Int).Sub(mintFee, big.NewInt(1))
	over := new(big.Int).Add(mintFee, big.NewInt(1))

	for _, payment := range []*big.Int{nil, big.NewInt(0), under, over} {
		_, err := s.ledger.Mint(s.ctx, minter, "ipfs://abc", 1, payment)
		s.ErrorIs(err, domain.ErrInsufficientPayment)
	}

	supply, err := s.ledger.TotalSupply(s.ctx)
	s.Nil(err)
	s.Equal(uint64(0), supply)
}

func (s *testsuite) TestListForSale() {
	s.mint(minter, "ipfs://abc", 3)

	s.Nil(s.ledger.ListForSale(s.ctx, minter, 1, big.NewInt(5_000_000)))

	forSale, err := s.ledger.IsForSale(s.ctx, 1)
	s.Nil(err)
	s.True(forSale)

	price, err := s.ledger.GetPrice(s.ctx, 1)
	s.Nil(err)
	s.Equal(big.NewInt(5_000_000), price)

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Equal([]ledger.TokenId{1}, listed)
}

func (s *testsuite) TestListForSaleRejections() {
	s.mint(minter, "ipfs://abc", 1)

	s.ErrorIs(s.ledger.ListForSale(s.ctx, minter, 9, big.NewInt(1)), domain.ErrNotFound)
	s.ErrorIs(s.ledger.ListForSale(s.ctx, buyer, 0, big.NewInt(1)), domain.ErrNotOwner)
	s.ErrorIs(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(0)), domain.ErrInvalidPrice)
	s.ErrorIs(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(-5)), domain.ErrInvalidPrice)
	s.ErrorIs(s.ledger.ListForSale(s.ctx, minter, 0, nil), domain.ErrInvalidPrice)

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Empty(listed)
}

func (s *testsuite) TestListManyForSale() {
	s.mint(minter, "ipfs://abc", 10)

	s.Nil(s.ledger.ListManyForSale(s.ctx, minter, 2, 5, big.NewInt(7_000_000)))

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Equal([]ledger.TokenId{2, 3, 4, 5}, listed)

	for id := ledger.TokenId(2); id <= 5; id++ {
		price, err := s.ledger.GetPrice(s.ctx, id)
		s.Nil(err)
		s.Equal(big.NewInt(7_000_000), price)
	}
}

func (s *testsuite) TestListManyForSaleAllOrNothing() {
	// minter owns 5..9, buyer owns 10
	s.mint(minter, "ipfs://a", 5)
	s.mint(minter, "ipfs://b", 5)
	s.mint(buyer, "ipfs://c", 1)

	err := s.ledger.ListManyForSale(s.ctx, minter, 5, 10, big.NewInt(5_000_000))
	s.ErrorIs(err, domain.ErrNotOwner)

	// none of 5..9 may have been listed
	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Empty(listed)
	for id := ledger.TokenId(5); id <= 9; id++ {
		forSale, err := s.ledger.IsForSale(s.ctx, id)
		s.Nil(err)
		s.False(forSale)
	}
}

func (s *testsuite) TestListManyForSaleInvalidRange() {
	s.mint(minter, "ipfs://abc", 5)
	err := s.ledger.ListManyForSale(s.ctx, minter, 4, 2, big.NewInt(1))
	s.ErrorIs(err, domain.ErrInvalidAmount)
}

func (s *testsuite) TestListManyForSaleInvalidPrice() {
	s.mint(minter, "ipfs://abc", 3)
	err := s.ledger.ListManyForSale(s.ctx, minter, 0, 2, big.NewInt(0))
	s.ErrorIs(err, domain.ErrInvalidPrice)

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Empty(listed)
}

func (s *testsuite) TestUnlistRoundTrip() {
	s.mint(minter, "ipfs://abc", 2)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(5_000_000)))
	s.Nil(s.ledger.Unlist(s.ctx, minter, 0))

	forSale, err := s.ledger.IsForSale(s.ctx, 0)
	s.Nil(err)
	s.False(forSale)

	owner, err := s.ledger.OwnerOf(s.ctx, 0)
	s.Nil(err)
	s.True(owner.Equals(minter))

	uri, err := s.ledger.TokenUri(s.ctx, 0)
	s.Nil(err)
	s.Equal("ipfs://abc", uri)

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Empty(listed)
}

func (s *testsuite) TestUnlistRejections() {
	s.mint(minter, "ipfs://abc", 2)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(1)))

	s.ErrorIs(s.ledger.Unlist(s.ctx, minter, 9), domain.ErrNotFound)
	s.ErrorIs(s.ledger.Unlist(s.ctx, buyer, 0), domain.ErrNotOwner)
	s.ErrorIs(s.ledger.Unlist(s.ctx, minter, 1), domain.ErrNotListed)
}

func (s *testsuite) TestBuy() {
	s.mint(minter, "ipfs://abc", 3)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 1, big.NewInt(5_000_000)))
	s.Nil(s.token.Approve(s.ctx, buyer, marketAddr, big.NewInt(5_000_000)))

	s.Nil(s.ledger.Buy(s.ctx, buyer, 1))

	owner, err := s.ledger.OwnerOf(s.ctx, 1)
	s.Nil(err)
	s.True(owner.Equals(buyer))

	forSale, err := s.ledger.IsForSale(s.ctx, 1)
	s.Nil(err)
	s.False(forSale)

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Empty(listed)

	b, err := s.token.BalanceOf(s.ctx, minter)
	s.Nil(err)
	s.Equal(big.NewInt(5_000_000), b)

	b, err = s.token.BalanceOf(s.ctx, buyer)
	s.Nil(err)
	s.Equal(big.NewInt(95_000_000), b)
}

func (s *testsuite) TestBuyInsufficientAuthorization() {
	s.mint(minter, "ipfs://abc", 2)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 1, big.NewInt(5_000_000)))
	s.Nil(s.token.Approve(s.ctx, buyer, marketAddr, big.NewInt(4_999_999)))

	s.ErrorIs(s.ledger.Buy(s.ctx, buyer, 1), domain.ErrPaymentFailed)

	// rejection leaves ownership, listing and balances untouched
	owner, err := s.ledger.OwnerOf(s.ctx, 1)
	s.Nil(err)
	s.True(owner.Equals(minter))

	forSale, err := s.ledger.IsForSale(s.ctx, 1)
	s.Nil(err)
	s.True(forSale)

	b, err := s.token.BalanceOf(s.ctx, minter)
	s.Nil(err)
	s.Equal(big.NewInt(0), b)
}

func (s *testsuite) TestBuyRejections() {
	s.mint(minter, "ipfs://abc", 2)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(1)))

	s.ErrorIs(s.ledger.Buy(s.ctx, buyer, 9), domain.ErrNotFound)
	s.ErrorIs(s.ledger.Buy(s.ctx, buyer, 1), domain.ErrNotForSale)
	s.ErrorIs(s.ledger.Buy(s.ctx, minter, 0), domain.ErrSelfPurchase)
}

func (s *testsuite) TestListingIndexMatchesFlags() {
	s.mint(minter, "ipfs://abc", 20)
	s.Nil(s.ledger.ListManyForSale(s.ctx, minter, 3, 12, big.NewInt(1_000_000)))
	s.Nil(s.ledger.Unlist(s.ctx, minter, 7))
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 15, big.NewInt(2_000_000)))
	s.Nil(s.token.Approve(s.ctx, buyer, marketAddr, big.NewInt(1_000_000)))
	s.Nil(s.ledger.Buy(s.ctx, buyer, 5))

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)

	want := map[ledger.TokenId]bool{}
	for _, id := range listed {
		want[id] = true
	}
	supply, err := s.ledger.TotalSupply(s.ctx)
	s.Nil(err)
	for id := ledger.TokenId(0); id < ledger.TokenId(supply); id++ {
		forSale, err := s.ledger.IsForSale(s.ctx, id)
		s.Nil(err)
		s.Equal(forSale, want[id], "listing index out of sync for token %d", id)
	}

	// repeated calls against unchanged state return the same order
	again, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	s.Equal(listed, again)
}

func (s *testsuite) TestSnapshotIsolation() {
	s.mint(minter, "ipfs://abc", 5)
	s.Nil(s.ledger.ListManyForSale(s.ctx, minter, 0, 4, big.NewInt(1)))

	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)

	s.Nil(s.ledger.Unlist(s.ctx, minter, 2))

	// the earlier snapshot must not observe the mutation
	s.Equal([]ledger.TokenId{0, 1, 2, 3, 4}, listed)
}

func (s *testsuite) TestConcurrentMintsAssignDistinctIds() {
	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	results := make(chan []ledger.TokenId, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := s.ledger.Mint(s.ctx, minter, "ipfs://abc", perWorker, mintFee)
			if err == nil {
				results <- ids
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[ledger.TokenId]bool{}
	total := 0
	for ids := range results {
		for _, id := range ids {
			s.False(seen[id], "token id %d assigned twice", id)
			seen[id] = true
			total++
		}
	}
	s.Equal(workers*perWorker, total)

	supply, err := s.ledger.TotalSupply(s.ctx)
	s.Nil(err)
	s.Equal(uint64(workers*perWorker), supply)
}

func (s *testsuite) TestConcurrentTradingKeepsStateConsistent() {
	s.mint(minter, "ipfs://abc", 1)
	s.Nil(s.token.Transfer(s.ctx, buyer, minter, big.NewInt(50_000_000)))
	s.Nil(s.token.Approve(s.ctx, minter, marketAddr, big.NewInt(50_000_000)))
	s.Nil(s.token.Approve(s.ctx, buyer, marketAddr, big.NewInt(50_000_000)))

	// token 0 ping-pongs between the two parties; most calls lose the
	// ownership race and fail, which is fine, the point is that listing,
	// buying and unlisting overlap freely
	const rounds = 50
	var wg sync.WaitGroup
	trade := func(party domain.Address) {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = s.ledger.ListForSale(s.ctx, party, 0, big.NewInt(1_000_000))
			_ = s.ledger.Buy(s.ctx, party, 0)
			_ = s.ledger.Unlist(s.ctx, party, 0)
		}
	}
	wg.Add(2)
	go trade(minter)
	go trade(buyer)
	wg.Wait()

	owner, err := s.ledger.OwnerOf(s.ctx, 0)
	s.Nil(err)
	s.True(owner.Equals(minter) || owner.Equals(buyer))

	forSale, err := s.ledger.IsForSale(s.ctx, 0)
	s.Nil(err)
	listed, err := s.ledger.WhatIsForSale(s.ctx)
	s.Nil(err)
	if forSale {
		s.Equal([]ledger.TokenId{0}, listed)
	} else {
		s.Empty(listed)
	}

	// every event must name the party that held the token at commit time,
	// a sale never attributes the listing to its buyer
	for _, ev := range s.sink.events {
		s.True(ev.Owner.Equals(minter) || ev.Owner.Equals(buyer))
		if ev.Kind == ledger.EventSold {
			s.False(ev.Owner.Equals(ev.Buyer))
		}
	}
}

func (s *testsuite) TestEventsPublishedAfterCommit() {
	s.mint(minter, "ipfs://abc", 2)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(5_000_000)))
	s.Nil(s.token.Approve(s.ctx, buyer, marketAddr, big.NewInt(5_000_000)))
	s.Nil(s.ledger.Buy(s.ctx, buyer, 0))
	s.ErrorIs(s.ledger.Buy(s.ctx, buyer, 1), domain.ErrNotForSale)

	kinds := make([]ledger.EventKind, 0, len(s.sink.events))
	for _, ev := range s.sink.events {
		kinds = append(kinds, ev.Kind)
	}
	// the rejected buy left no event behind
	s.Equal([]ledger.EventKind{ledger.EventMinted, ledger.EventListed, ledger.EventSold}, kinds)

	sold := s.sink.events[2]
	s.Equal([]ledger.TokenId{0}, sold.TokenIds)
	s.True(sold.Buyer.Equals(buyer))
	s.True(sold.Owner.Equals(minter))
	s.Equal(big.NewInt(5_000_000), sold.Price)
}

func (s *testsuite) TestAddressCaseInsensitivity() {
	upper := domain.Address("0x000000000000000000000000000000000000AAAA")
	s.mint(upper, "ipfs://abc", 1)
	s.Nil(s.ledger.ListForSale(s.ctx, minter, 0, big.NewInt(1)))
	s.Nil(s.ledger.Unlist(s.ctx, upper, 0))
}
