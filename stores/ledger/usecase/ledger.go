package usecase

import (
	"math/big"
	"sort"
	"sync"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/log"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/paytoken"
)

type LedgerCfg struct {
	// Address is the marketplace's own address, used as spender when
	// pulling pre-authorized stablecoin from buyers
	Address domain.Address
	// MintFee is the exact native-currency payment required per mint call
	MintFee    *big.Int
	Settlement paytoken.Settlement
}

// impl keeps the whole ledger behind one RWMutex: mutating calls run
// start-to-finish under the write lock so no interleaving is ever
// observable, reads run under the read lock against committed state.
type impl struct {
	mu sync.RWMutex

	address    domain.Address
	mintFee    *big.Int
	settlement paytoken.Settlement
	sink       ledger.EventSink

	tokens map[ledger.TokenId]*ledger.Token
	// forSale holds listed ids in ascending order and always equals
	// {t | t.ForSale}
	forSale []ledger.TokenId
	nextId  ledger.TokenId
}

func New(cfg *LedgerCfg) ledger.Ledger {
	return &impl{
		address:    cfg.Address,
		mintFee:    cfg.MintFee,
		settlement: cfg.Settlement,
		tokens:     map[ledger.TokenId]*ledger.Token{},
	}
}

func (im *impl) Subscribe(sink ledger.EventSink) {
	im.mu.Lock()
	im.sink = sink
	im.mu.Unlock()
}

func (im *impl) publish(c bCtx.Ctx, ev *ledger.Event) {
	im.mu.RLock()
	sink := im.sink
	im.mu.RUnlock()
	if sink == nil {
		return
	}
	sink.Publish(c, ev)
}

func (im *impl) Mint(c bCtx.Ctx, minter domain.Address, tokenUri string, count int, payment *big.Int) ([]ledger.TokenId, error) {
	if count < ledger.MinMintAmount || count > ledger.MaxMintAmount {
		return nil, domain.ErrInvalidAmount
	}
	if payment == nil || payment.Cmp(im.mintFee) != 0 {
		return nil, domain.ErrInsufficientPayment
	}

	im.mu.Lock()
	ids := make([]ledger.TokenId, 0, count)
	for i := 0; i < count; i++ {
		id := im.nextId
		im.nextId++
		im.tokens[id] = &ledger.Token{
			TokenId:  id,
			Owner:    minter.ToLower(),
			TokenUri: tokenUri,
		}
		ids = append(ids, id)
	}
	im.mu.Unlock()

	im.publish(c, &ledger.Event{
		Kind:     ledger.EventMinted,
		TokenIds: ids,
		TokenUri: tokenUri,
		Owner:    minter.ToLower(),
	})
	return ids, nil
}

func (im *impl) ListForSale(c bCtx.Ctx, caller domain.Address, id ledger.TokenId, price *big.Int) error {
	im.mu.Lock()
	t, ok := im.tokens[id]
	if !ok {
		im.mu.Unlock()
		return domain.ErrNotFound
	}
	if !t.Owner.Equals(caller) {
		im.mu.Unlock()
		return domain.ErrNotOwner
	}
	if price == nil || price.Sign() <= 0 {
		im.mu.Unlock()
		return domain.ErrInvalidPrice
	}
	owner := t.Owner
	im.list(t, price)
	im.mu.Unlock()

	im.publish(c, &ledger.Event{
		Kind:     ledger.EventListed,
		TokenIds: []ledger.TokenId{id},
		Owner:    owner,
		Price:    new(big.Int).Set(price),
	})
	return nil
}

func (im *impl) ListManyForSale(c bCtx.Ctx, caller domain.Address, startId, endId ledger.TokenId, price *big.Int) error {
	if startId > endId {
		return domain.ErrInvalidAmount
	}

	im.mu.Lock()
	// validate the whole range before touching anything so a rejection
	// leaves no partial listing behind
	for id := startId; id <= endId; id++ {
		t, ok := im.tokens[id]
		if !ok || !t.Owner.Equals(caller) {
			im.mu.Unlock()
			return domain.ErrNotOwner
		}
	}
	if price == nil || price.Sign() <= 0 {
		im.mu.Unlock()
		return domain.ErrInvalidPrice
	}
	ids := make([]ledger.TokenId, 0, endId-startId+1)
	for id := startId; id <= endId; id++ {
		im.list(im.tokens[id], price)
		ids = append(ids, id)
	}
	im.mu.Unlock()

	im.publish(c, &ledger.Event{
		Kind:     ledger.EventListed,
		TokenIds: ids,
		Owner:    caller.ToLower(),
		Price:    new(big.Int).Set(price),
	})
	return nil
}

func (im *impl) Unlist(c bCtx.Ctx, caller domain.Address, id ledger.TokenId) error {
	im.mu.Lock()
	t, ok := im.tokens[id]
	if !ok {
		im.mu.Unlock()
		return domain.ErrNotFound
	}
	if !t.Owner.Equals(caller) {
		im.mu.Unlock()
		return domain.ErrNotOwner
	}
	if !t.ForSale {
		im.mu.Unlock()
		return domain.ErrNotListed
	}
	owner := t.Owner
	im.unlist(t)
	im.mu.Unlock()

	im.publish(c, &ledger.Event{
		Kind:     ledger.EventUnlisted,
		TokenIds: []ledger.TokenId{id},
		Owner:    owner,
	})
	return nil
}

func (im *impl) Buy(c bCtx.Ctx, buyer domain.Address, id ledger.TokenId) error {
	im.mu.Lock()
	t, ok := im.tokens[id]
	if !ok {
		im.mu.Unlock()
		return domain.ErrNotFound
	}
	if !t.ForSale {
		im.mu.Unlock()
		return domain.ErrNotForSale
	}
	if t.Owner.Equals(buyer) {
		im.mu.Unlock()
		return domain.ErrSelfPurchase
	}

	seller := t.Owner
	price := new(big.Int).Set(t.Price)

	// settlement happens under the write lock: payment and ownership
	// transfer commit together or not at all
	if err := im.settlement.TransferFrom(c, im.address, buyer.ToLower(), seller, price); err != nil {
		im.mu.Unlock()
		c.WithFields(log.Fields{
			"tokenId": id,
			"buyer":   buyer,
			"err":     err,
		}).Warn("settlement transfer rejected")
		return domain.ErrPaymentFailed
	}

	t.Owner = buyer.ToLower()
	im.unlist(t)
	im.mu.Unlock()

	im.publish(c, &ledger.Event{
		Kind:     ledger.EventSold,
		TokenIds: []ledger.TokenId{id},
		Owner:    seller,
		Buyer:    buyer.ToLower(),
		Price:    price,
	})
	return nil
}

func (im *impl) TokenUri(c bCtx.Ctx, id ledger.TokenId) (string, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.tokens[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t.TokenUri, nil
}

func (im *impl) GetPrice(c bCtx.Ctx, id ledger.TokenId) (*big.Int, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.tokens[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !t.ForSale {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(t.Price), nil
}

func (im *impl) OwnerOf(c bCtx.Ctx, id ledger.TokenId) (domain.Address, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.tokens[id]
	if !ok {
		return domain.EmptyAddress, domain.ErrNotFound
	}
	return t.Owner, nil
}

func (im *impl) IsForSale(c bCtx.Ctx, id ledger.TokenId) (bool, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.tokens[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	return t.ForSale, nil
}

func (im *impl) WhatIsForSale(c bCtx.Ctx) ([]ledger.TokenId, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	snapshot := make([]ledger.TokenId, len(im.forSale))
	copy(snapshot, im.forSale)
	return snapshot, nil
}

func (im *impl) TotalSupply(c bCtx.Ctx) (uint64, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return uint64(im.nextId), nil
}

// list marks t for sale and keeps the index sorted. Relisting an already
// listed token just updates the price.
func (im *impl) list(t *ledger.Token, price *big.Int) {
	if !t.ForSale {
		i := sort.Search(len(im.forSale), func(i int) bool { return im.forSale[i] >= t.TokenId })
		im.forSale = append(im.forSale, 0)
		copy(im.forSale[i+1:], im.forSale[i:])
		im.forSale[i] = t.TokenId
	}
	t.ForSale = true
	t.Price = new(big.Int).Set(price)
}

func (im *impl) unlist(t *ledger.Token) {
	i := sort.Search(len(im.forSale), func(i int) bool { return im.forSale[i] >= t.TokenId })
	if i < len(im.forSale) && im.forSale[i] == t.TokenId {
		im.forSale = append(im.forSale[:i], im.forSale[i+1:]...)
	}
	t.ForSale = false
	t.Price = nil
}
