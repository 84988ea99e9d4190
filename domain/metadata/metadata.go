package metadata

import (
	"github.com/musicnft/goapi/base/ctx"
)

// SongMetadata is the off-chain JSON document a token uri points at. The
// ledger never interprets it, only the read model does.
type SongMetadata struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Audio       string `json:"audio"`
	Description string `json:"description"`
}

type Usecase interface {
	// GetFromUri resolves a token uri into its metadata document
	GetFromUri(ctx.Ctx, string) (*SongMetadata, error)
}
