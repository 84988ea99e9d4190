package usecase

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/domain/file"
	"github.com/musicnft/goapi/service/pinata"
)

const (
	dataHeaderPrefix    = "data:"
	dataHeaderSuffix    = ";base64,"
	dataHeaderMaxLength = 50
)

// accepted media type prefixes for song artwork and audio uploads
var allowedMediaPrefixes = []string{"image/", "audio/", "video/"}

type impl struct {
	pinata pinata.Service
}

func New(pinata pinata.Service) file.Usecase {
	return &impl{
		pinata: pinata,
	}
}

func (im *impl) Upload(c ctx.Ctx, fileData string, pinOption pinata.PinOptions) (uri string, err error) {
	reader, extension, err := im.parseFileData(fileData)
	if err != nil {
		c.WithField("err", err).Error("im.parseFileData failed")
		return "", err
	}

	opts := im.pinOptions(pinOption)
	hash, err := im.pinata.Pin(c, reader, extension, opts...)
	if err != nil {
		c.WithField("err", err).Error("im.pinata.Pin failed")
		return "", err
	}
	c.WithField("hash", hash).Info("im.pinata.Pin success")
	return "ipfs://" + hash, nil
}

func (im *impl) UploadJson(c ctx.Ctx, file interface{}, pinOption pinata.PinOptions) (uri string, err error) {
	opts := im.pinOptions(pinOption)
	hash, err := im.pinata.PinJson(c, file, opts...)
	if err != nil {
		c.WithField("err", err).Error("im.pinata.PinJson failed")
		return "", err
	}
	c.WithField("hash", hash).Info("im.pinata.PinJson success")
	return "ipfs://" + hash, nil
}

func (im *impl) pinOptions(pinOption pinata.PinOptions) []pinata.Options {
	opts := []pinata.Options{}
	if pinOption.Metadata != nil {
		opts = append(opts, pinata.WithMetadata(*pinOption.Metadata))
	} else {
		// fall back to a unique pin name so uploads stay distinguishable
		opts = append(opts, pinata.WithMetadata(pinata.PinataMetadata{Name: uuid.NewString()}))
	}
	if pinOption.Options != nil {
		opts = append(opts, pinata.WithOptions(*pinOption.Options))
	}
	return opts
}

func (im *impl) parseFileData(data string) (reader io.Reader, extension string, err error) {
	if !strings.HasPrefix(data, dataHeaderPrefix) {
		return nil, "", fmt.Errorf("file data has wrong prefix")
	}
	// search header suffix in a limited range
	searchLength := dataHeaderMaxLength
	if len(data) < searchLength {
		searchLength = len(data)
	}
	headerSuffixIdx := strings.Index(data[:searchLength], dataHeaderSuffix)
	if headerSuffixIdx == -1 {
		return nil, "", fmt.Errorf("can't find file data header suffix")
	}

	declared := data[len(dataHeaderPrefix):headerSuffixIdx]
	dataStartIdx := headerSuffixIdx + len(dataHeaderSuffix)
	decodedData, err := base64.StdEncoding.DecodeString(data[dataStartIdx:])
	if err != nil {
		return nil, "", err
	}

	mtype := mimetype.Detect(decodedData)
	if !im.allowedMediaType(mtype.String()) {
		return nil, "", fmt.Errorf("unsupported media type %s", mtype.String())
	}
	if !mimetype.EqualsAny(declared, mtype.String()) {
		return nil, "", fmt.Errorf("declared type %s does not match content", declared)
	}

	return bytes.NewBuffer(decodedData), strings.TrimPrefix(mtype.Extension(), "."), nil
}

func (im *impl) allowedMediaType(mime string) bool {
	for _, pfx := range allowedMediaPrefixes {
		if strings.HasPrefix(mime, pfx) {
			return true
		}
	}
	return false
}
