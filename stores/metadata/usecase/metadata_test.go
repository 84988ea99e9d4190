package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain/keys"
	"github.com/musicnft/goapi/domain/metadata"
	"github.com/musicnft/goapi/domain/mocks"
	"github.com/musicnft/goapi/service/cache"
	"github.com/musicnft/goapi/service/cache/provider/primitive"
)

func Test_metadataUseCase_GetFromUri(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	uri := "ipfs://QmSongMetaHash"
	doc := []byte(`{"name":"Midnight Drive","image":"ipfs://QmImg","audio":"ipfs://QmAudio","description":"late night synthwave"}`)

	webResource := &mocks.WebResourceUseCase{}
	webResource.On("GetJson", ctx, uri).Return(doc, nil).Once()

	u := NewMetadataUseCase(&MetadataUseCaseCfg{
		WebResource: webResource,
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   keys.PfxMetadata,
			Cache: primitive.NewPrimitive("test", 16),
		}),
	})

	want := &metadata.SongMetadata{
		Name:        "Midnight Drive",
		Image:       "ipfs://QmImg",
		Audio:       "ipfs://QmAudio",
		Description: "late night synthwave",
	}

	got, err := u.GetFromUri(ctx, uri)
	req.NoError(err)
	req.Equal(want, got)

	// second resolution is served from cache, the reader is not called again
	got, err = u.GetFromUri(ctx, uri)
	req.NoError(err)
	req.Equal(want, got)

	webResource.AssertExpectations(t)
}

func Test_metadataUseCase_GetFromUri_withoutCache(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	uri := "https://host/meta.json"
	webResource := &mocks.WebResourceUseCase{}
	webResource.On("GetJson", ctx, uri).Return([]byte(`{"name":"First Pressing"}`), nil)

	u := NewMetadataUseCase(&MetadataUseCaseCfg{WebResource: webResource})

	got, err := u.GetFromUri(ctx, uri)
	req.NoError(err)
	req.Equal("First Pressing", got.Name)
	req.Empty(got.Audio)
}
