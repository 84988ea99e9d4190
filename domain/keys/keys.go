package keys

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	// PfxMetadata is used for prefixing resolved token metadata cache keys
	PfxMetadata = "metadata"
	// PfxWebResource is used for prefixing fetched resource cache keys
	PfxWebResource = "webResource"
)

// MD5 hashes the data with md5
func MD5(data string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// CacheKey is used to join the cache key by componets
func CacheKey(components ...string) string {
	return CustomKey(":", components...)
}
