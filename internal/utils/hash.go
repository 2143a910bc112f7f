package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"sync"
)

// ParamsHashLength is the number of hex characters kept from the digest.
const ParamsHashLength = 16

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Hash computes a SHA-256 digest over the given byte slice
// using a hasher pulled from the global hasher pool.
//
// Behavior:
//   - Retrieves a hash.Hash instance from sync.Pool
//   - Resets it, writes the data, computes the sum
//   - Resets again and returns it to the pool
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashParams computes the deterministic fingerprint of a parameter set that
// namespaces trained model artifacts ({hashed_params}).
//
// The parameters are serialized as JSON, which orders map keys, so two sets
// with equal contents always produce the same fingerprint regardless of the
// order they were declared in. The result is the first [ParamsHashLength]
// hex characters of the SHA-256 digest.
//
// Example usage:
//
//	h, err := utils.HashParams(map[string]any{"epochs": 100, "lr0": 0.01})
func HashParams(params map[string]any) (string, error) {
	canonical, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("error encoding params for hashing: %w", err)
	}

	return hex.EncodeToString(Hash(canonical))[:ParamsHashLength], nil
}
