package thumborpath

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"hash"
)

// Signer signs the "{canonical path}/{image}" input of a thumbor URL
type Signer interface {
	Sign(path string) string
}

// NewDefaultSigner thumbor signer, HMAC-SHA1 keyed by the raw key bytes.
// Returns nil for an empty key, which Generate renders as an unsafe URL.
func NewDefaultSigner(key string) Signer {
	if key == "" {
		return nil
	}
	return NewHMACSigner(sha1.New, key)
}

// NewHMACSigner HMAC signer of alg keyed by key
func NewHMACSigner(alg func() hash.Hash, key string) *HMACSigner {
	return &HMACSigner{alg: alg, key: []byte(key)}
}

// HMACSigner Signer producing URL-safe base64 HMAC digests
type HMACSigner struct {
	alg func() hash.Hash
	key []byte
}

// Sign implements Signer
func (s *HMACSigner) Sign(path string) string {
	h := hmac.New(s.alg, s.key)
	h.Write([]byte(path))
	return urlSafeBase64(h.Sum(nil))
}

// urlSafeBase64 standard base64 with '+' as '-' and '/' as '_', padding kept
func urlSafeBase64(b []byte) string {
	return base64.URLEncoding.EncodeToString(b)
}
