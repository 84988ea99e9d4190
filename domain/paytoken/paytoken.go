package paytoken

import (
	"errors"
	"math/big"

	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidValue          = errors.New("invalid value")
)

// Settlement is the fungible token used to pay for listed songs. It follows
// ERC-20 allowance semantics: a buyer approves the marketplace as spender,
// and the marketplace pulls payment with TransferFrom during settlement.
type Settlement interface {
	BalanceOf(c ctx.Ctx, owner domain.Address) (*big.Int, error)
	Allowance(c ctx.Ctx, owner, spender domain.Address) (*big.Int, error)
	Approve(c ctx.Ctx, owner, spender domain.Address, amount *big.Int) error
	Transfer(c ctx.Ctx, from, to domain.Address, amount *big.Int) error
	TransferFrom(c ctx.Ctx, spender, from, to domain.Address, amount *big.Int) error
}
