package thumborpath

import (
	"crypto/aes"
	"crypto/cipher"
	"strings"
)

// Legacy thumbor URLs encrypt the canonical path with AES-128 in ECB mode,
// padded with '{'. ECB leaks equal blocks and the padding length, and the key
// derivation is a plain repetition of the secret. It is kept only to talk to
// verifiers that predate HMAC signatures and must not be used otherwise.

const (
	legacyPadding   = '{'
	legacyBlockSize = aes.BlockSize
)

// LegacyEncrypter encrypts canonical paths for the legacy URL scheme
type LegacyEncrypter struct {
	block cipher.Block
}

// LegacyKey derives the 16 bytes AES key by repeating key 16 times and truncating
func LegacyKey(key string) []byte {
	return []byte(strings.Repeat(key, legacyBlockSize))[:legacyBlockSize]
}

// NewLegacyEncrypter create LegacyEncrypter from the raw secret key
func NewLegacyEncrypter(key string) (*LegacyEncrypter, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	block, err := aes.NewCipher(LegacyKey(key))
	if err != nil {
		return nil, err
	}
	return &LegacyEncrypter{block: block}, nil
}

// Encrypt pads path and encrypts it block by block, URL-safe base64 encoded
func (e *LegacyEncrypter) Encrypt(path string) string {
	src := legacyPad(path)
	dst := make([]byte, len(src))
	for i := 0; i < len(src); i += legacyBlockSize {
		e.block.Encrypt(dst[i:i+legacyBlockSize], src[i:i+legacyBlockSize])
	}
	return urlSafeBase64(dst)
}

// legacyPad appends 1 to 16 padding bytes, a full block when already aligned
func legacyPad(s string) []byte {
	n := legacyBlockSize - len(s)%legacyBlockSize
	return []byte(s + strings.Repeat(string(legacyPadding), n))
}

// GenerateLegacy generate legacy thumbor endpoint "/{encrypted path}/{image}",
// the encrypted path carrying the image MD5 hash.
func GenerateLegacy(o Options, enc *LegacyEncrypter) (string, error) {
	imgPath, err := GeneratePath(o, true)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return "", ErrKeyRequired
	}
	return "/" + enc.Encrypt(imgPath) + "/" + o.Image, nil
}
