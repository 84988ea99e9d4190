package stablecoin

import (
	"math/big"
	"sync"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/paytoken"
)

type Cfg struct {
	Name     string
	Symbol   string
	Decimals int
	// InitialBalances seeds accounts at construction, amounts in smallest
	// units
	InitialBalances map[domain.Address]*big.Int
}

// service is an in-memory ERC-20 style balance book. All state lives behind
// one mutex so TransferFrom debits allowance and moves balance atomically.
type service struct {
	mu sync.Mutex

	name     string
	symbol   string
	decimals int

	balances map[domain.Address]*big.Int
	// allowances[owner][spender]
	allowances map[domain.Address]map[domain.Address]*big.Int
}

func New(cfg *Cfg) paytoken.Settlement {
	s := &service{
		name:       cfg.Name,
		symbol:     cfg.Symbol,
		decimals:   cfg.Decimals,
		balances:   map[domain.Address]*big.Int{},
		allowances: map[domain.Address]map[domain.Address]*big.Int{},
	}
	for addr, amount := range cfg.InitialBalances {
		s.balances[addr.ToLower()] = new(big.Int).Set(amount)
	}
	return s
}

func (s *service) BalanceOf(c bCtx.Ctx, owner domain.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.balance(owner)), nil
}

func (s *service) Allowance(c bCtx.Ctx, owner, spender domain.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.allowance(owner, spender)), nil
}

func (s *service) Approve(c bCtx.Ctx, owner, spender domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return paytoken.ErrInvalidValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.allowances[owner.ToLower()]
	if !ok {
		m = map[domain.Address]*big.Int{}
		s.allowances[owner.ToLower()] = m
	}
	m[spender.ToLower()] = new(big.Int).Set(amount)
	return nil
}

func (s *service) Transfer(c bCtx.Ctx, from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return paytoken.ErrInvalidValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.move(from, to, amount)
}

func (s *service) TransferFrom(c bCtx.Ctx, spender, from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return paytoken.ErrInvalidValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	allowed := s.allowance(from, spender)
	if allowed.Cmp(amount) < 0 {
		return paytoken.ErrInsufficientAllowance
	}
	if err := s.move(from, to, amount); err != nil {
		return err
	}
	m, ok := s.allowances[from.ToLower()]
	if !ok {
		m = map[domain.Address]*big.Int{}
		s.allowances[from.ToLower()] = m
	}
	m[spender.ToLower()] = new(big.Int).Sub(allowed, amount)
	return nil
}

func (s *service) balance(owner domain.Address) *big.Int {
	if b, ok := s.balances[owner.ToLower()]; ok {
		return b
	}
	return big.NewInt(0)
}

func (s *service) allowance(owner, spender domain.Address) *big.Int {
	if m, ok := s.allowances[owner.ToLower()]; ok {
		if a, ok := m[spender.ToLower()]; ok {
			return a
		}
	}
	return big.NewInt(0)
}

func (s *service) move(from, to domain.Address, amount *big.Int) error {
	b := s.balance(from)
	if b.Cmp(amount) < 0 {
		return paytoken.ErrInsufficientBalance
	}
	s.balances[from.ToLower()] = new(big.Int).Sub(b, amount)
	s.balances[to.ToLower()] = new(big.Int).Add(s.balance(to), amount)
	return nil
}
