package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of a request body.
const HashHeader = "HashSHA256"

// hasherPool holds HMAC-SHA256 hashers keyed with the server secret.
var hasherPool sync.Pool

// InitHasherPool keys the server side hasher pool. It must run before Hash
// or VerifyHash.
func InitHasherPool(hashKey string) {
	key := []byte(hashKey)
	hasherPool = sync.Pool{
		New: func() any { return hmac.New(sha256.New, key) },
	}
}

// Hash returns the pooled HMAC of data.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(h)

	h.Reset()
	h.Write(data)
	return h.Sum(nil)
}

// VerifyHash reports whether signature is the hex encoded pooled HMAC of data.
// The comparison is constant time.
func VerifyHash(data []byte, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Hash(data))
}

// HashString signs data with hashKey and returns the hex digest. The ledger
// client uses it so signing never touches the server pool.
func HashString(data string, hashKey string) string {
	h := hmac.New(sha256.New, []byte(hashKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
