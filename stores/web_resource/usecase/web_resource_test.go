package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/mocks"
)

func Test_webResourceUseCase_Get(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	httpReader := &mocks.WebResourceReaderRepository{}
	ipfsReader := &mocks.WebResourceReaderRepository{}
	dataUriReader := &mocks.WebResourceReaderRepository{}

	u := NewWebResourceUseCase(&WebResourceUseCaseCfg{
		HttpReader:    httpReader,
		IpfsReader:    ipfsReader,
		DataUriReader: dataUriReader,
	})

	// https urls pass through untouched
	httpReader.On("Get", ctx, "https://example.com/meta.json").Return([]byte("http-data"), nil).Once()
	data, err := u.Get(ctx, "https://example.com/meta.json")
	req.NoError(err)
	req.Equal([]byte("http-data"), data)

	// ipfs urls reach the node reader stripped down to the cid path
	ipfsReader.On("Get", ctx, "QmSongHash/0.json").Return([]byte("ipfs-data"), nil).Once()
	data, err = u.Get(ctx, "ipfs://QmSongHash/0.json")
	req.NoError(err)
	req.Equal([]byte("ipfs-data"), data)

	// data uris are handed over whole
	dataUriReader.On("Get", ctx, "data:text/plain,hello").Return([]byte("hello"), nil).Once()
	data, err = u.Get(ctx, "data:text/plain,hello")
	req.NoError(err)
	req.Equal([]byte("hello"), data)

	_, err = u.Get(ctx, "ftp://example.com/meta.json")
	req.ErrorIs(err, domain.ErrUnsupportedSchema)

	httpReader.AssertExpectations(t)
	ipfsReader.AssertExpectations(t)
	dataUriReader.AssertExpectations(t)
}

func Test_webResourceUseCase_GetJson(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	httpReader := &mocks.WebResourceReaderRepository{}
	u := NewWebResourceUseCase(&WebResourceUseCaseCfg{
		HttpReader: httpReader,
	})

	httpReader.On("Get", ctx, "https://example.com/ok.json").Return([]byte(`{"name":"track"}`), nil).Once()
	data, err := u.GetJson(ctx, "https://example.com/ok.json")
	req.NoError(err)
	req.Equal([]byte(`{"name":"track"}`), data)

	httpReader.On("Get", ctx, "https://example.com/bad.json").Return([]byte("<html>"), nil).Once()
	_, err = u.GetJson(ctx, "https://example.com/bad.json")
	req.ErrorIs(err, domain.ErrInvalidJsonFormat)

	httpReader.AssertExpectations(t)
}
