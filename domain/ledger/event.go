package ledger

import (
	"math/big"

	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
)

type EventKind string

const (
	EventMinted   EventKind = "minted"
	EventListed   EventKind = "listed"
	EventUnlisted EventKind = "unlisted"
	EventSold     EventKind = "sold"
)

// Event describes a committed ledger mutation. Events are published after
// commit; a sink failure never rolls the mutation back.
type Event struct {
	Kind     EventKind
	TokenIds []TokenId
	TokenUri string
	Owner    domain.Address
	Buyer    domain.Address
	Price    *big.Int
}

type EventSink interface {
	Publish(c ctx.Ctx, ev *Event)
}
